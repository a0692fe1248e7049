package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSourceAdapter_RentalsHandlesOutstandingReturns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewSourceAdapterWithDB(db)
	rentalDate := time.Date(2008, 6, 12, 10, 0, 0, 0, time.UTC)
	returnDate := rentalDate.AddDate(0, 0, 5)

	mock.ExpectQuery(regexp.QuoteMeta(querySourceRentals)).
		WillReturnRows(sqlmock.NewRows([]string{
			"rental_id", "rental_date", "return_date", "customer_id",
		}).
			AddRow(int64(1), rentalDate, returnDate, int64(7)).
			AddRow(int64(2), rentalDate, nil, int64(8)))

	rentals, err := adapter.Rentals(context.Background())
	require.NoError(t, err)
	require.Len(t, rentals, 2)
	require.NotNil(t, rentals[0].ReturnDate)
	require.Nil(t, rentals[1].ReturnDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceAdapter_PaymentsParseAmounts(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewSourceAdapterWithDB(db)

	mock.ExpectQuery(regexp.QuoteMeta(querySourcePayments)).
		WillReturnRows(sqlmock.NewRows([]string{"rental_id", "amount"}).
			AddRow(int64(1), "10.99").
			AddRow(int64(1), "1.50"))

	payments, err := adapter.Payments(context.Background())
	require.NoError(t, err)
	require.Len(t, payments, 2)
	require.True(t, decimal.RequireFromString("10.99").Equal(payments[0].Amount))
	require.True(t, decimal.RequireFromString("1.50").Equal(payments[1].Amount))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSourceAdapter_Customers(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := NewSourceAdapterWithDB(db)

	mock.ExpectQuery(regexp.QuoteMeta(querySourceCustomers)).
		WillReturnRows(sqlmock.NewRows([]string{"customer_id", "first_name", "last_name"}).
			AddRow(int64(7), "MARY", "SMITH"))

	customers, err := adapter.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 1)
	require.Equal(t, "MARY", customers[0].FirstName)
	require.NoError(t, mock.ExpectationsWereMet())
}
