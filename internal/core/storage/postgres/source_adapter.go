package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/rentlab/rentalytics/internal/core/storage"
	_ "github.com/lib/pq" // Register postgres driver
)

// SourceAdapter implements storage.SourceFeed against the upstream
// transactional database. It only ever reads; the upstream schema is
// owned elsewhere.
type SourceAdapter struct {
	db *sql.DB
}

// NewSourceAdapter opens a read-only connection pool to the upstream store.
// The upstream DSN may point at the same database as the derived stores or
// at a separate one.
func NewSourceAdapter(dsn string, maxOpenConns, maxIdleConns int) (*SourceAdapter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open source database: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(context.Background(), connectPingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping source database: %w", err)
	}

	slog.Info("[Postgres] Source feed adapter initialized")
	return &SourceAdapter{db: db}, nil
}

// NewSourceAdapterWithDB wraps an existing connection. Used by tests.
func NewSourceAdapterWithDB(db *sql.DB) *SourceAdapter {
	return &SourceAdapter{db: db}
}

// Rentals returns all rental rows ordered by rental date ascending.
func (a *SourceAdapter) Rentals(ctx context.Context) ([]storage.SourceRental, error) {
	rows, err := a.db.QueryContext(ctx, querySourceRentals)
	if err != nil {
		return nil, fmt.Errorf("failed to query rentals: %w", err)
	}
	defer rows.Close()

	var rentals []storage.SourceRental
	for rows.Next() {
		var r storage.SourceRental
		var returnDate sql.NullTime

		if err := rows.Scan(&r.RentalID, &r.RentalDate, &returnDate, &r.CustomerID); err != nil {
			return nil, fmt.Errorf("failed to scan rental row: %w", err)
		}
		if returnDate.Valid {
			t := returnDate.Time
			r.ReturnDate = &t
		}
		rentals = append(rentals, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rentals: %w", err)
	}
	return rentals, nil
}

// Payments returns all payment rows.
func (a *SourceAdapter) Payments(ctx context.Context) ([]storage.SourcePayment, error) {
	rows, err := a.db.QueryContext(ctx, querySourcePayments)
	if err != nil {
		return nil, fmt.Errorf("failed to query payments: %w", err)
	}
	defer rows.Close()

	var payments []storage.SourcePayment
	for rows.Next() {
		var p storage.SourcePayment
		var amountStr string

		if err := rows.Scan(&p.RentalID, &amountStr); err != nil {
			return nil, fmt.Errorf("failed to scan payment row: %w", err)
		}

		amount, err := decimalFromDB(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse payment amount %q: %w", amountStr, err)
		}
		p.Amount = amount

		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payments: %w", err)
	}
	return payments, nil
}

// Customers returns all customer rows.
func (a *SourceAdapter) Customers(ctx context.Context) ([]storage.SourceCustomer, error) {
	rows, err := a.db.QueryContext(ctx, querySourceCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	var customers []storage.SourceCustomer
	for rows.Next() {
		var c storage.SourceCustomer
		if err := rows.Scan(&c.CustomerID, &c.FirstName, &c.LastName); err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customers: %w", err)
	}
	return customers, nil
}

// Close closes the source connection pool.
func (a *SourceAdapter) Close() error {
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("failed to close source database: %w", err)
	}
	slog.Info("[Postgres] Source feed adapter closed")
	return nil
}
