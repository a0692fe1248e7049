// Package summarizer maintains the monthly summary store over the detail
// fact store, by two paths that must stay semantically equivalent:
//
//   - OnDetailInserted folds one freshly appended detail row into its month
//     bucket (incremental maintenance, one atomic upsert per row).
//   - Rebuild recomputes every bucket from scratch by grouping the whole
//     detail store on the month key (full rebuild, and the correctness
//     oracle for the incremental path).
//
// Both paths derive the bucket key through monthkey.FromTime, which is the
// single implementation of the bucketing rule.
package summarizer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/rentlab/rentalytics/internal/api/v1"
	"github.com/rentlab/rentalytics/internal/core/monthkey"
	"github.com/rentlab/rentalytics/internal/core/storage"
	"github.com/rentlab/rentalytics/internal/core/summary"
)

type Service struct {
	store   storage.Store
	trigger *Trigger
}

func NewService(store storage.Store, trigger *Trigger) *Service {
	if store == nil {
		panic("summarizer: store must not be nil")
	}
	if trigger == nil {
		panic("summarizer: trigger must not be nil")
	}
	return &Service{store: store, trigger: trigger}
}

// Trigger exposes the maintenance switch so the refresh orchestrator can
// disarm and re-arm it.
func (s *Service) Trigger() *Trigger {
	return s.trigger
}

// OnDetailInserted is the incremental maintenance hook, called by the
// ingestion path immediately after a detail row is durably appended.
// When the trigger is disarmed (refresh suspension window) the call is a
// no-op: the batch rebuild at the end of the refresh accounts for every
// row, so folding here too would double-count.
//
// A record whose rental date cannot be bucketed is rejected with
// ErrInvalidInput and no bucket is touched.
func (s *Service) OnDetailInserted(ctx context.Context, rec *v1.DetailRecord) error {
	if !s.trigger.Armed() {
		slog.Debug("[Summarizer] Trigger disarmed, skipping incremental update",
			"rental_id", rec.RentalID)
		return nil
	}

	key, err := monthkey.FromTime(rec.RentalDate)
	if err != nil {
		return fmt.Errorf("bucket detail rental_id=%d: %w", rec.RentalID, err)
	}

	if err := s.store.UpsertBucket(ctx, key, rec); err != nil {
		return fmt.Errorf("incremental update for %s: %w", key, err)
	}

	slog.Debug("[Summarizer] Applied incremental update",
		"month_key", key,
		"rental_id", rec.RentalID)
	return nil
}

// Rebuild recomputes the entire summary from the current detail store and
// swaps it in atomically. Calling it twice without intervening detail
// changes yields identical output.
func (s *Service) Rebuild(ctx context.Context) (int, error) {
	details, err := s.store.ListDetails(ctx)
	if err != nil {
		return 0, fmt.Errorf("rebuild summary: load details: %w", err)
	}

	buckets, err := summary.BuildBuckets(details, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("rebuild summary: %w", err)
	}

	if err := s.store.ReplaceAllBuckets(ctx, buckets); err != nil {
		return 0, fmt.Errorf("rebuild summary: write buckets: %w", err)
	}

	slog.Info("[Summarizer] Rebuilt summary",
		"details", len(details),
		"buckets", len(buckets))
	return len(buckets), nil
}
