package storage

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source feed row shapes. These mirror the upstream read contract; the
// upstream schema itself is not owned by this system.

type SourceRental struct {
	RentalID   int64
	RentalDate time.Time
	ReturnDate *time.Time
	CustomerID int64
}

type SourcePayment struct {
	RentalID int64
	Amount   decimal.Decimal
}

type SourceCustomer struct {
	CustomerID int64
	FirstName  string
	LastName   string
}
