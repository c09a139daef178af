package services

import (
	"context"

	"github.com/yuchialin/moodjar-backend/internal/models"
)

// JournalStore is the owner-scoped persistence surface for journal entries.
// The store offers ordered range scans with a limit but no offset/skip;
// pagination on top of it is the lister's job.
type JournalStore interface {
	// Insert persists a new entry and returns its assigned id.
	Insert(ctx context.Context, entry models.Journal) (string, error)

	// Delete removes an entry by id. Returns ErrNotFound when no entry
	// with that id exists under the owner.
	Delete(ctx context.Context, ownerID, id string) error

	// ScanByDateKey returns up to limit entries whose date key falls in
	// [startKey, endKey), ordered date_key descending with created_at
	// descending as tiebreak.
	ScanByDateKey(ctx context.Context, ownerID, startKey, endKey string, limit int64) ([]models.Journal, error)

	// ScanRecent returns up to limit entries ordered created_at descending.
	ScanRecent(ctx context.Context, ownerID string, limit int64) ([]models.Journal, error)

	// ScanDateKeysDesc returns up to limit date keys ordered descending.
	// Used by the month index; entries are not materialized.
	ScanDateKeysDesc(ctx context.Context, ownerID string, limit int64) ([]string, error)
}
