package memory

import (
	"context"
	"sync"

	"github.com/rentlab/rentalytics/internal/core/storage"
)

// Feed is an in-memory storage.SourceFeed. Tests seed it with fixture rows.
type Feed struct {
	mu        sync.RWMutex
	rentals   []storage.SourceRental
	payments  []storage.SourcePayment
	customers []storage.SourceCustomer
}

// NewFeed creates an empty in-memory source feed.
func NewFeed() *Feed {
	return &Feed{}
}

// Seed replaces the feed contents.
func (f *Feed) Seed(rentals []storage.SourceRental, payments []storage.SourcePayment, customers []storage.SourceCustomer) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.rentals = rentals
	f.payments = payments
	f.customers = customers
}

func (f *Feed) Rentals(ctx context.Context) ([]storage.SourceRental, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return append([]storage.SourceRental(nil), f.rentals...), nil
}

func (f *Feed) Payments(ctx context.Context) ([]storage.SourcePayment, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return append([]storage.SourcePayment(nil), f.payments...), nil
}

func (f *Feed) Customers(ctx context.Context) ([]storage.SourceCustomer, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return append([]storage.SourceCustomer(nil), f.customers...), nil
}
