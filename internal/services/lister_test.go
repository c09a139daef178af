package services

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yuchialin/moodjar-backend/internal/models"
)

// fakeStore emulates the document store: ordered range/limit scans over
// an in-memory slice, no offset primitive.
type fakeStore struct {
	entries []models.Journal
}

func (f *fakeStore) Insert(ctx context.Context, entry models.Journal) (string, error) {
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	f.entries = append(f.entries, entry)
	return entry.ID.Hex(), nil
}

func (f *fakeStore) Delete(ctx context.Context, ownerID, id string) error {
	for i, e := range f.entries {
		if e.OwnerID == ownerID && e.ID.Hex() == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (f *fakeStore) ScanByDateKey(ctx context.Context, ownerID, startKey, endKey string, limit int64) ([]models.Journal, error) {
	var out []models.Journal
	for _, e := range f.entries {
		if e.OwnerID == ownerID && e.DateKey >= startKey && e.DateKey < endKey {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DateKey != out[j].DateKey {
			return out[i].DateKey > out[j].DateKey
		}
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ScanRecent(ctx context.Context, ownerID string, limit int64) ([]models.Journal, error) {
	var out []models.Journal
	for _, e := range f.entries {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ScanDateKeysDesc(ctx context.Context, ownerID string, limit int64) ([]string, error) {
	var keys []string
	for _, e := range f.entries {
		if e.OwnerID == ownerID {
			keys = append(keys, e.DateKey)
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	if int64(len(keys)) > limit {
		keys = keys[:limit]
	}
	return keys, nil
}

func seedEntry(owner, dateKey string, createdAt int64) models.Journal {
	return models.Journal{
		ID:        primitive.NewObjectID(),
		OwnerID:   owner,
		Text:      "today was a fine enough day",
		CreatedAt: createdAt,
		DateKey:   dateKey,
	}
}

// seedMonth fills one "YYYY-MM" month with count entries, one per day
// starting at the 1st.
func seedMonth(store *fakeStore, owner, month string, count int) {
	base, err := time.Parse("2006-01", month)
	if err != nil {
		panic(err)
	}
	base = base.Add(12 * time.Hour)
	for i := 0; i < count; i++ {
		dateKey := fmt.Sprintf("%s-%02d", month, i+1)
		store.entries = append(store.entries, seedEntry(owner, dateKey, base.AddDate(0, 0, i).UnixMilli()))
	}
}

func TestListJournalsElevenEntriesAcrossTwoPages(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	seedMonth(store, "alice", "2025-01", 11)

	page1, err := ListJournals(ctx, store, "alice", ListOptions{Month: "2025-01", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page1.Rows, 10)
	assert.Equal(t, 11, page1.Pagination.Total)
	assert.Equal(t, 2, page1.Pagination.TotalPages)
	assert.True(t, page1.Pagination.HasNext)
	assert.False(t, page1.Pagination.HasPrev)

	page2, err := ListJournals(ctx, store, "alice", ListOptions{Month: "2025-01", Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, page2.Rows, 1)
	assert.False(t, page2.Pagination.HasNext)
	assert.True(t, page2.Pagination.HasPrev)
}

func TestListJournalsRowCountFormula(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	seedMonth(store, "alice", "2025-01", 27)

	const limit = 10
	total := 27
	for page := 1; page <= 5; page++ {
		res, err := ListJournals(ctx, store, "alice", ListOptions{Month: "2025-01", Page: page, Limit: limit})
		require.NoError(t, err)

		want := total - (page-1)*limit
		if want > limit {
			want = limit
		}
		if want < 0 {
			want = 0
		}
		assert.Len(t, res.Rows, want, "page %d", page)
		assert.LessOrEqual(t, len(res.Rows), limit)
	}
}

func TestListJournalsMonthOrdering(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	// Two entries on the same day plus earlier and later days,
	// inserted out of order.
	store.entries = []models.Journal{
		seedEntry("alice", "2025-03-05", 2000),
		seedEntry("alice", "2025-03-12", 5000),
		seedEntry("alice", "2025-03-05", 3000),
		seedEntry("alice", "2025-03-01", 1000),
	}

	res, err := ListJournals(ctx, store, "alice", ListOptions{Month: "2025-03", Page: 1, Limit: 10})
	require.NoError(t, err)
	require.Len(t, res.Rows, 4)

	assert.Equal(t, "2025-03-12", res.Rows[0].DateKey)
	assert.Equal(t, "2025-03-05", res.Rows[1].DateKey)
	assert.Equal(t, int64(3000), res.Rows[1].CreatedAt) // same-day tie: newest first
	assert.Equal(t, "2025-03-05", res.Rows[2].DateKey)
	assert.Equal(t, int64(2000), res.Rows[2].CreatedAt)
	assert.Equal(t, "2025-03-01", res.Rows[3].DateKey)
}

func TestListJournalsEmptyMonth(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	seedMonth(store, "alice", "2025-03", 4)

	res, err := ListJournals(ctx, store, "alice", ListOptions{Month: "2025-01", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, models.Pagination{
		Page: 1, Limit: 10, Total: 0, TotalPages: 0, HasNext: false, HasPrev: false,
	}, res.Pagination)
}

func TestListJournalsPageBeyondEndIsNotAnError(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	seedMonth(store, "alice", "2025-01", 5)

	res, err := ListJournals(ctx, store, "alice", ListOptions{Month: "2025-01", Page: 7, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, res.Rows)
	assert.Equal(t, 7, res.Pagination.Page)
	assert.Equal(t, 1, res.Pagination.TotalPages)
	assert.False(t, res.Pagination.HasNext)
	assert.True(t, res.Pagination.HasPrev)
}

func TestListJournalsClampsPageAndLimit(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	seedMonth(store, "alice", "2025-01", 3)

	res, err := ListJournals(ctx, store, "alice", ListOptions{Month: "2025-01", Page: -4, Limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Pagination.Page)
	assert.Equal(t, MaxPageLimit, res.Pagination.Limit)

	res, err = ListJournals(ctx, store, "alice", ListOptions{Month: "2025-01"})
	require.NoError(t, err)
	assert.Equal(t, DefaultPageLimit, res.Pagination.Limit)
}

func TestListJournalsUnfilteredUsesRecentWindow(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	seedMonth(store, "alice", "2025-01", 11)
	seedMonth(store, "alice", "2024-12", 5)
	seedMonth(store, "bob", "2025-01", 8) // other owner, must not appear

	res, err := ListJournals(ctx, store, "alice", ListOptions{Page: 1, Limit: 100})
	require.NoError(t, err)
	assert.Equal(t, 16, res.Pagination.Total)
	for i := 1; i < len(res.Rows); i++ {
		assert.GreaterOrEqual(t, res.Rows[i-1].CreatedAt, res.Rows[i].CreatedAt)
	}
}

func TestListJournalsRejectsMalformedMonth(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}

	_, err := ListJournals(ctx, store, "alice", ListOptions{Month: "2025-13"})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}
