package storage

import (
	"context"

	v1 "github.com/rentlab/rentalytics/internal/api/v1"
	"github.com/rentlab/rentalytics/internal/core/summary"
)

// SourceFeed reads the three upstream transactional feeds. The upstream
// store is external and read-only from this system's point of view.
type SourceFeed interface {
	// Rentals returns all rental rows (id, dates, customer).
	Rentals(ctx context.Context) ([]SourceRental, error)

	// Payments returns all payment rows linked to rentals.
	Payments(ctx context.Context) ([]SourcePayment, error)

	// Customers returns all customer rows.
	Customers(ctx context.Context) ([]SourceCustomer, error)
}

// DetailStore persists DetailRecord fact rows. Append-only except during
// a refresh, when TruncateAll clears it together with the summary.
type DetailStore interface {
	// InsertDetail appends one record and populates rec.DetailSeq.
	InsertDetail(ctx context.Context, rec *v1.DetailRecord) error

	// BulkInsertDetails appends records in order. Used by the ingester
	// for initial population; does not clear existing rows first.
	BulkInsertDetails(ctx context.Context, recs []*v1.DetailRecord) error

	// ListDetails returns all records ordered by detail_seq ascending.
	ListDetails(ctx context.Context) ([]*v1.DetailRecord, error)

	// CountDetails returns the number of detail rows.
	CountDetails(ctx context.Context) (int64, error)
}

// SummaryStore persists the derived monthly buckets, keyed uniquely by
// month key.
type SummaryStore interface {
	// UpsertBucket folds one detail row's contribution into the bucket
	// for key: increment totals if the bucket exists, create it with
	// count 1 otherwise. Must be a single atomic check-then-act.
	UpsertBucket(ctx context.Context, key string, rec *v1.DetailRecord) error

	// ReplaceAllBuckets swaps the entire summary for the given buckets
	// in one transaction, so readers never observe a partial rebuild.
	ReplaceAllBuckets(ctx context.Context, buckets []summary.Bucket) error

	// ListBuckets returns all buckets ordered by month key ascending.
	ListBuckets(ctx context.Context) ([]summary.Bucket, error)
}

// Store combines the two derived stores plus the refresh truncation step.
type Store interface {
	DetailStore
	SummaryStore

	// TruncateAll clears detail and summary together in one transaction.
	// Only the refresh orchestrator calls this.
	TruncateAll(ctx context.Context) error
}
