package summary

import (
	"time"

	v1 "github.com/rentlab/rentalytics/internal/api/v1"
	"github.com/rentlab/rentalytics/internal/core/monthkey"
	"github.com/shopspring/decimal"
)

// Initial returns the bucket state after the very first detail row of a month.
func Initial(key string, amount decimal.Decimal, now time.Time) Bucket {
	return Bucket{
		MonthKey:          key,
		TotalRevenue:      amount,
		TotalTransactions: 1,
		UpdatedAt:         now,
	}
}

// Apply folds one more detail row into an existing bucket.
func Apply(cur Bucket, amount decimal.Decimal, now time.Time) Bucket {
	cur.TotalRevenue = cur.TotalRevenue.Add(amount)
	cur.TotalTransactions++
	cur.UpdatedAt = now
	return cur
}

// Fold applies one detail record to a bucket map keyed by month. This is the
// incremental maintenance step: one upsert per record, creating the bucket on
// first sight of a month. Both the in-memory store and the equivalence tests
// use it; the Postgres path expresses the same Initial/Apply semantics as a
// single ON CONFLICT statement.
func Fold(buckets map[string]Bucket, rec *v1.DetailRecord, now time.Time) (string, error) {
	key, err := monthkey.FromTime(rec.RentalDate)
	if err != nil {
		return "", err
	}

	if cur, ok := buckets[key]; ok {
		buckets[key] = Apply(cur, rec.Amount, now)
	} else {
		buckets[key] = Initial(key, rec.Amount, now)
	}
	return key, nil
}
