package services

import (
	"context"
	"sort"

	"github.com/yuchialin/moodjar-backend/internal/models"
)

const (
	// DefaultPageLimit is used when the caller does not specify a limit.
	DefaultPageLimit = 20
	// MaxPageLimit caps how many rows one page can carry.
	MaxPageLimit = 100
	// MaxWindowFetch bounds the single range scan backing a listing.
	// The store has no offset primitive, so the full window is fetched
	// and paginated in memory; beyond this window pagination is inexact.
	MaxWindowFetch = 500
)

// ListOptions selects one page of an owner's entries.
// Month is an optional "YYYY-MM" filter; zero Page/Limit get defaults.
type ListOptions struct {
	Month string
	Page  int
	Limit int
}

// ListResult is one page of rows plus its position in the match set.
type ListResult struct {
	Rows       []models.Journal
	Pagination models.Pagination
}

// ListJournals answers a page request against a store that only supports
// ordered range scans. With a month filter it fetches the entire matching
// date-key range (month volumes are bounded in practice) and slices the
// requested page out of it; without a filter it fetches the most recent
// MaxWindowFetch entries and does the same.
//
// A page past the end yields empty rows with a truthful descriptor, never
// an error; callers rely on that to detect underflow after a delete.
func ListJournals(ctx context.Context, store JournalStore, ownerID string, opts ListOptions) (ListResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	page := opts.Page
	if page < 1 {
		page = 1
	}

	var matches []models.Journal
	var err error
	if opts.Month != "" {
		startKey, endKey, rangeErr := MonthRange(opts.Month)
		if rangeErr != nil {
			return ListResult{}, rangeErr
		}
		matches, err = store.ScanByDateKey(ctx, ownerID, startKey, endKey, MaxWindowFetch)
	} else {
		matches, err = store.ScanRecent(ctx, ownerID, MaxWindowFetch)
	}
	if err != nil {
		return ListResult{}, err
	}

	if opts.Month != "" {
		// Same-day entries must come newest-first even if the store's
		// index ordered them only by date key.
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].DateKey != matches[j].DateKey {
				return matches[i].DateKey > matches[j].DateKey
			}
			return matches[i].CreatedAt > matches[j].CreatedAt
		})
	}

	total := len(matches)
	pagination := paginate(total, page, limit)

	start := (page - 1) * limit
	rows := []models.Journal{}
	if start < total {
		end := start + limit
		if end > total {
			end = total
		}
		rows = matches[start:end]
	}

	return ListResult{Rows: rows, Pagination: pagination}, nil
}

func paginate(total, page, limit int) models.Pagination {
	totalPages := (total + limit - 1) / limit
	return models.Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
