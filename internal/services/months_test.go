package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListMonthsDistinctAndDescending(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	seedMonth(store, "alice", "2024-11", 3)
	seedMonth(store, "alice", "2025-02", 2)
	seedMonth(store, "alice", "2024-12", 4)
	seedMonth(store, "bob", "2023-01", 2) // other owner

	months, err := ListMonths(ctx, store, "alice", 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02", "2024-12", "2024-11"}, months)
}

func TestListMonthsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	seedMonth(store, "alice", "2025-01", 6)
	seedMonth(store, "alice", "2024-06", 2)

	first, err := ListMonths(ctx, store, "alice", DefaultMonthScanCap)
	require.NoError(t, err)
	second, err := ListMonths(ctx, store, "alice", DefaultMonthScanCap)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestListMonthsEmptyCollection(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}

	months, err := ListMonths(ctx, store, "alice", DefaultMonthScanCap)
	require.NoError(t, err)
	assert.Empty(t, months)
}

func TestListMonthsScanCapBoundsDiscovery(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	seedMonth(store, "alice", "2025-02", 5)
	seedMonth(store, "alice", "2020-07", 5) // old entries beyond the cap

	// A cap of 5 only reaches the most recent month's keys.
	months, err := ListMonths(ctx, store, "alice", 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-02"}, months)
}

func TestListMonthsSkipsShortKeys(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	store.entries = append(store.entries, seedEntry("alice", "2025-04-02", 100))
	store.entries = append(store.entries, seedEntry("alice", "bad", 90))

	months, err := ListMonths(ctx, store, "alice", DefaultMonthScanCap)
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-04"}, months)
}
