package services

import (
	"context"
	"sort"
)

// DefaultMonthScanCap bounds the recent-history scan behind the month
// index. Month discovery is a UX convenience, not a correctness-critical
// aggregate, so months whose entries all fall outside this window are
// simply absent from the index.
const DefaultMonthScanCap = 1000

// ListMonths returns the distinct "YYYY-MM" months present in the most
// recent scanCap entries, newest month first. An empty result means the
// caller should fall back to the default unfiltered listing instead of
// showing an empty state.
func ListMonths(ctx context.Context, store JournalStore, ownerID string, scanCap int64) ([]string, error) {
	if scanCap <= 0 {
		scanCap = DefaultMonthScanCap
	}

	keys, err := store.ScanDateKeysDesc(ctx, ownerID, scanCap)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	months := make([]string, 0)
	for _, key := range keys {
		if len(key) < 7 {
			continue
		}
		month := key[:7]
		if _, ok := seen[month]; ok {
			continue
		}
		seen[month] = struct{}{}
		months = append(months, month)
	}

	// Lexicographic descending equals chronological descending for
	// zero-padded "YYYY-MM" keys.
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	return months, nil
}
