package services

import (
	"regexp"
	"strconv"
	"time"
)

const dateKeyLayout = "2006-01-02"

var dateKeyPattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ResolveDateKey computes the creation timestamp (epoch ms) and the
// "YYYY-MM-DD" date key for a new entry. Precedence: explicit date key,
// then explicit timestamp, then now().
//
// An explicit date key is validated by round trip: the date is built at
// UTC noon and the recovered year/month/day must match the input exactly,
// so impossible dates like 2025-02-29 are rejected. Noon (not midnight)
// is the stored instant so a consumer re-deriving the calendar date in
// another time zone can never land on the previous or next day.
func ResolveDateKey(dateKey string, createdAtMillis *int64, now func() time.Time) (int64, string, error) {
	if dateKey != "" {
		if !dateKeyPattern.MatchString(dateKey) {
			return 0, "", ErrInvalidDateKey
		}
		year, _ := strconv.Atoi(dateKey[0:4])
		month, _ := strconv.Atoi(dateKey[5:7])
		day, _ := strconv.Atoi(dateKey[8:10])

		utcNoon := time.Date(year, time.Month(month), day, 12, 0, 0, 0, time.UTC)
		if utcNoon.Year() != year || int(utcNoon.Month()) != month || utcNoon.Day() != day {
			return 0, "", ErrInvalidDateKey
		}
		return utcNoon.UnixMilli(), dateKey, nil
	}

	if createdAtMillis != nil {
		ms := *createdAtMillis
		if ms <= 0 {
			return 0, "", ErrInvalidTimestamp
		}
		return ms, DateKeyFromMillis(ms), nil
	}

	ms := now().UnixMilli()
	return ms, DateKeyFromMillis(ms), nil
}

// DateKeyFromMillis returns the UTC calendar date of an epoch-ms instant.
func DateKeyFromMillis(ms int64) string {
	return time.UnixMilli(ms).UTC().Format(dateKeyLayout)
}

// MonthRange returns the half-open date-key interval [start, end) covering
// one "YYYY-MM" month. The end bound is the first day of the following
// month, computed with date arithmetic so December rolls into January of
// the next year.
func MonthRange(month string) (string, string, error) {
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return "", "", ErrInvalidMonth
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return start.Format(dateKeyLayout), end.Format(dateKeyLayout), nil
}
