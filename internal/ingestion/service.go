// Package ingestion populates the detail fact store: in bulk by joining the
// three upstream feeds, and row-by-row for externally supplied detail
// inserts. Both paths drive the incremental summary hook for every row
// they append.
package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	v1 "github.com/rentlab/rentalytics/internal/api/v1"
	apperrors "github.com/rentlab/rentalytics/internal/core/errors"
	"github.com/rentlab/rentalytics/internal/core/storage"
	"github.com/rentlab/rentalytics/internal/summarizer"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

type Service struct {
	feed             storage.SourceFeed
	store            storage.Store
	summarizer       *summarizer.Service
	maxBodySizeBytes int
}

func NewService(feed storage.SourceFeed, store storage.Store, sum *summarizer.Service, maxBodySizeMB int) *Service {
	if feed == nil {
		panic("ingestion: feed must not be nil")
	}
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if sum == nil {
		panic("ingestion: summarizer must not be nil")
	}
	if maxBodySizeMB <= 0 {
		maxBodySizeMB = 1 // default to 1MB
	}
	return &Service{
		feed:             feed,
		store:            store,
		summarizer:       sum,
		maxBodySizeBytes: maxBodySizeMB * 1024 * 1024,
	}
}

// RegisterRoutes registers the ingestion service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	// Single-row insert; fires the incremental hook.
	r.POST("/v1/details", s.InsertHandler)

	// Bulk load from the upstream feeds. Does not clear existing rows;
	// that is the refresh orchestrator's job.
	r.POST("/v1/ingest", s.IngestHandler)
}

// IngestDetail bulk-loads the detail store from the upstream feeds: the
// three feeds are fetched concurrently, joined on their natural keys, and
// the resulting rows appended in rental-date ascending order. Each appended
// row then drives incremental summary maintenance, so the summary is
// consistent with the detail store as soon as the load returns.
//
// Join semantics are inner: a rental with no matching payment or customer
// produces no detail row and no error. Rentals that cannot be bucketed
// (zero rental date) are logged and skipped; they must not poison the batch.
//
// Re-running without clearing the detail store first produces duplicates.
func (s *Service) IngestDetail(ctx context.Context) (int, error) {
	var (
		rentals   []storage.SourceRental
		payments  []storage.SourcePayment
		customers []storage.SourceCustomer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if rentals, err = s.feed.Rentals(gctx); err != nil {
			return fmt.Errorf("fetch rentals: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if payments, err = s.feed.Payments(gctx); err != nil {
			return fmt.Errorf("fetch payments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if customers, err = s.feed.Customers(gctx); err != nil {
			return fmt.Errorf("fetch customers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("ingest detail: %w", err)
	}

	details := joinFeeds(rentals, payments, customers)

	if err := s.store.BulkInsertDetails(ctx, details); err != nil {
		return 0, fmt.Errorf("ingest detail: append rows: %w", err)
	}

	// Every appended row fires the incremental hook, same as the single-row
	// path. During a refresh the disarmed trigger makes these calls no-ops
	// and the batch rebuild owns the totals instead.
	for _, rec := range details {
		if err := s.summarizer.OnDetailInserted(ctx, rec); err != nil {
			return 0, fmt.Errorf("ingest detail: maintain summary for rental_id=%d: %w", rec.RentalID, err)
		}
	}

	slog.Info("[Ingestion] Bulk load complete",
		"rentals", len(rentals),
		"payments", len(payments),
		"customers", len(customers),
		"details", len(details))
	return len(details), nil
}

// joinFeeds performs the rental ⋈ payment ⋈ customer hash join, emitting one
// detail row per (rental, payment) pair, sorted by rental date ascending.
func joinFeeds(
	rentals []storage.SourceRental,
	payments []storage.SourcePayment,
	customers []storage.SourceCustomer,
) []*v1.DetailRecord {
	paymentsByRental := make(map[int64][]storage.SourcePayment, len(payments))
	for _, p := range payments {
		paymentsByRental[p.RentalID] = append(paymentsByRental[p.RentalID], p)
	}

	customersByID := make(map[int64]storage.SourceCustomer, len(customers))
	for _, c := range customers {
		customersByID[c.CustomerID] = c
	}

	var details []*v1.DetailRecord
	for _, r := range rentals {
		if r.RentalDate.IsZero() {
			slog.Warn("[Ingestion] Skipping rental with missing rental date",
				"rental_id", r.RentalID)
			continue
		}

		cust, ok := customersByID[r.CustomerID]
		if !ok {
			continue
		}

		for _, p := range paymentsByRental[r.RentalID] {
			details = append(details, &v1.DetailRecord{
				RentalID:     r.RentalID,
				RentalDate:   r.RentalDate,
				ReturnDate:   r.ReturnDate,
				CustomerID:   cust.CustomerID,
				CustomerName: cust.FirstName + " " + cust.LastName,
				Amount:       p.Amount,
			})
		}
	}

	sort.SliceStable(details, func(i, j int) bool {
		return details[i].RentalDate.Before(details[j].RentalDate)
	})
	return details
}

// InsertDetail appends one externally supplied detail row and fires the
// incremental summary hook once the row is durably stored. Inserts that
// arrive inside a refresh suspension window are rejected with
// ErrRefreshInProgress; silently dropping or deferring them would leave the
// summary out of step with the reload.
func (s *Service) InsertDetail(ctx context.Context, rec *v1.DetailRecord) error {
	if !s.summarizer.Trigger().Armed() {
		return apperrors.ErrRefreshInProgress
	}

	if rec.RentalDate.IsZero() {
		return fmt.Errorf("insert detail rental_id=%d: %w", rec.RentalID, apperrors.ErrInvalidInput)
	}

	if err := s.store.InsertDetail(ctx, rec); err != nil {
		return fmt.Errorf("insert detail rental_id=%d: %w", rec.RentalID, err)
	}

	if err := s.summarizer.OnDetailInserted(ctx, rec); err != nil {
		return fmt.Errorf("insert detail rental_id=%d: %w", rec.RentalID, err)
	}

	return nil
}
