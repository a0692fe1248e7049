package summary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bucket is one monthly aggregate row of the summary store.
// It is derived data: always re-derivable from the detail store by
// grouping on the month key.
type Bucket struct {
	// MonthKey is the canonical "YYYY-MM" key. Unique per bucket; acts
	// as the primary key of the summary store.
	MonthKey string `json:"month"`

	// TotalRevenue is the exact sum of payment amounts for the month.
	TotalRevenue decimal.Decimal `json:"total_revenue"`

	// TotalTransactions counts the detail rows for the month.
	TotalTransactions int64 `json:"total_transactions"`

	// UpdatedAt is the last time either aggregation path touched this bucket.
	UpdatedAt time.Time `json:"updated_at"`
}
