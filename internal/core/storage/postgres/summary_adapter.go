package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	v1 "github.com/rentlab/rentalytics/internal/api/v1"
	"github.com/rentlab/rentalytics/internal/core/summary"
)

// UpsertBucket folds one detail row into its month bucket. The whole
// check-then-act runs as a single ON CONFLICT statement; see
// queryUpsertBucket for the atomicity contract.
func (a *Adapter) UpsertBucket(ctx context.Context, key string, rec *v1.DetailRecord) error {
	var err error
	now := time.Now().UTC()
	if a.stmtUpsertBucket != nil {
		_, err = a.stmtUpsertBucket.ExecContext(ctx, key, rec.Amount, now)
	} else {
		_, err = a.db.ExecContext(ctx, queryUpsertBucket, key, rec.Amount, now)
	}
	if err != nil {
		return fmt.Errorf("failed to upsert bucket %s: %w", key, err)
	}

	slog.Debug("[Postgres] Upserted summary bucket",
		"month_key", key,
		"rental_id", rec.RentalID)
	return nil
}

// ReplaceAllBuckets swaps the entire summary for the given buckets in one
// transaction. The batch aggregator writes through here so a reader never
// observes an empty or partially rebuilt summary.
func (a *Adapter) ReplaceAllBuckets(ctx context.Context, buckets []summary.Bucket) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace buckets: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, queryDeleteBuckets); err != nil {
		return fmt.Errorf("replace buckets: clear summary: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, queryInsertBucket)
	if err != nil {
		return fmt.Errorf("replace buckets: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, b := range buckets {
		if _, err := stmt.ExecContext(ctx,
			b.MonthKey,
			b.TotalRevenue,
			b.TotalTransactions,
			b.UpdatedAt,
		); err != nil {
			return fmt.Errorf("replace buckets: insert %s: %w", b.MonthKey, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace buckets: commit: %w", err)
	}

	slog.Info("[Postgres] Replaced summary buckets", "count", len(buckets))
	return nil
}

// ListBuckets returns the whole summary ordered by month key ascending.
func (a *Adapter) ListBuckets(ctx context.Context) ([]summary.Bucket, error) {
	rows, err := a.db.QueryContext(ctx, queryListBuckets)
	if err != nil {
		return nil, fmt.Errorf("failed to query buckets: %w", err)
	}
	defer rows.Close()

	var buckets []summary.Bucket
	for rows.Next() {
		var b summary.Bucket
		var revenueStr string

		if err := rows.Scan(&b.MonthKey, &revenueStr, &b.TotalTransactions, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bucket row: %w", err)
		}

		revenue, err := decimalFromDB(revenueStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse bucket revenue %q: %w", revenueStr, err)
		}
		b.TotalRevenue = revenue

		buckets = append(buckets, b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating buckets: %w", err)
	}

	return buckets, nil
}
