package monthkey

import (
	"time"

	apperrors "github.com/rentlab/rentalytics/internal/core/errors"
)

// Layout is the canonical month bucket format: four-digit year, dash,
// two-digit month.
const Layout = "2006-01"

// FromTime maps a point in time to its "YYYY-MM" bucket key using the
// timestamp's own location (no timezone conversion). This is the single
// implementation of the bucketing rule; the incremental and batch
// aggregation paths both go through here so they cannot diverge.
func FromTime(t time.Time) (string, error) {
	if t.IsZero() {
		return "", apperrors.ErrInvalidInput
	}
	return t.Format(Layout), nil
}
