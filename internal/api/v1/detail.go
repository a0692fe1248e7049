package v1

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DetailRecord is one denormalized fact row: a rental, one of its payments,
// and the paying customer. A rental with several payments appears once per
// payment, so RentalID alone is not unique across the detail store.
type DetailRecord struct {
	// RentalID identifies the rental in the upstream transactional store.
	RentalID int64 `json:"rental_id"`

	// RentalDate is when the rental was made. Required; this is the value
	// the month key is derived from.
	RentalDate time.Time `json:"rental_date"`

	// ReturnDate is when the rental was returned. Nil while the rental is
	// still outstanding.
	ReturnDate *time.Time `json:"return_date,omitempty"`

	// CustomerID identifies the paying customer in the upstream store.
	CustomerID int64 `json:"customer_id"`

	// CustomerName is the customer's display name (first + last).
	CustomerName string `json:"customer_name"`

	// Amount is the payment amount. Non-negative by domain convention,
	// not enforced here.
	Amount decimal.Decimal `json:"amount"`

	// DetailSeq is a monotonic sequence assigned on insert by the detail
	// store (BIGSERIAL). Not part of the public API.
	DetailSeq int64 `json:"-"`
}

// Validate ensures the record carries everything the aggregation paths need.
func (d *DetailRecord) Validate() error {
	if d.RentalID <= 0 {
		return fmt.Errorf("rental_id is required")
	}

	if d.RentalDate.IsZero() {
		return fmt.Errorf("rental_date is required")
	}

	if d.CustomerID <= 0 {
		return fmt.Errorf("customer_id is required")
	}

	return nil
}
