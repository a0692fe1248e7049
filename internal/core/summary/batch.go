package summary

import (
	"fmt"
	"sort"
	"time"

	v1 "github.com/rentlab/rentalytics/internal/api/v1"
)

// BuildBuckets recomputes the whole summary from a detail set by grouping on
// the month key. This is the batch aggregation path and the correctness
// oracle for incremental maintenance: over the same detail set it must
// produce exactly the buckets that repeated Fold calls would.
//
// Records with an invalid rental date make the whole recompute fail; a
// rebuild must never publish totals that silently exclude rows.
//
// The result is sorted ascending by month key. Ordering is presentational;
// the grouping itself is order-independent.
func BuildBuckets(details []*v1.DetailRecord, now time.Time) ([]Bucket, error) {
	grouped := make(map[string]Bucket, len(details))
	for _, rec := range details {
		if _, err := Fold(grouped, rec, now); err != nil {
			return nil, fmt.Errorf("group detail rental_id=%d: %w", rec.RentalID, err)
		}
	}

	buckets := make([]Bucket, 0, len(grouped))
	for _, b := range grouped {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].MonthKey < buckets[j].MonthKey
	})
	return buckets, nil
}
