package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow() time.Time {
	return time.Date(2025, time.March, 14, 9, 26, 53, 0, time.UTC)
}

func TestResolveDateKeyExplicitDate(t *testing.T) {
	ms, key, err := ResolveDateKey("2024-02-29", nil, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", key)

	// Stored instant is UTC noon of that date.
	want := time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC).UnixMilli()
	assert.Equal(t, want, ms)
}

func TestResolveDateKeyRejectsImpossibleDates(t *testing.T) {
	tests := []string{
		"2025-02-29", // non-leap year
		"2025-13-01", // month 13
		"2025-04-31", // day 31 of a 30-day month
		"2025-00-10",
		"2025-06-00",
	}
	for _, dateKey := range tests {
		_, _, err := ResolveDateKey(dateKey, nil, fixedNow)
		assert.ErrorIs(t, err, ErrInvalidDateKey, "dateKey=%s", dateKey)
	}
}

func TestResolveDateKeyRejectsMalformedDates(t *testing.T) {
	tests := []string{"2025-1-1", "20250101", "hello", "2025/01/01"}
	for _, dateKey := range tests {
		_, _, err := ResolveDateKey(dateKey, nil, fixedNow)
		assert.ErrorIs(t, err, ErrInvalidDateKey, "dateKey=%s", dateKey)
	}
}

func TestResolveDateKeyFromTimestamp(t *testing.T) {
	// 2025-07-01 23:30 UTC: date key must be the UTC calendar date.
	ts := time.Date(2025, time.July, 1, 23, 30, 0, 0, time.UTC).UnixMilli()
	ms, key, err := ResolveDateKey("", &ts, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, ts, ms)
	assert.Equal(t, "2025-07-01", key)
}

func TestResolveDateKeyRejectsNonPositiveTimestamp(t *testing.T) {
	for _, ts := range []int64{0, -1, -999999} {
		v := ts
		_, _, err := ResolveDateKey("", &v, fixedNow)
		assert.ErrorIs(t, err, ErrInvalidTimestamp, "ts=%d", ts)
	}
}

func TestResolveDateKeyDefaultsToNow(t *testing.T) {
	ms, key, err := ResolveDateKey("", nil, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, fixedNow().UnixMilli(), ms)
	assert.Equal(t, "2025-03-14", key)
}

func TestResolveDateKeyPrecedence(t *testing.T) {
	// Explicit date key wins over explicit timestamp.
	ts := time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	_, key, err := ResolveDateKey("2024-12-31", &ts, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", key)
}

func TestMonthRange(t *testing.T) {
	start, end, err := MonthRange("2025-01")
	require.NoError(t, err)
	assert.Equal(t, "2025-01-01", start)
	assert.Equal(t, "2025-02-01", end)
}

func TestMonthRangeDecemberRollsIntoNextYear(t *testing.T) {
	start, end, err := MonthRange("2025-12")
	require.NoError(t, err)
	assert.Equal(t, "2025-12-01", start)
	assert.Equal(t, "2026-01-01", end)
}

func TestMonthRangeRejectsMalformedMonths(t *testing.T) {
	for _, month := range []string{"2025-13", "2025-00", "2025-1", "hello", "2025-01-01"} {
		_, _, err := MonthRange(month)
		assert.ErrorIs(t, err, ErrInvalidMonth, "month=%s", month)
	}
}
