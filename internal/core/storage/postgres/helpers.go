package postgres

import "github.com/shopspring/decimal"

// decimalFromDB parses a NUMERIC column scanned as text. Amounts are always
// scanned as strings so no float conversion can lose precision on the way in.
func decimalFromDB(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
