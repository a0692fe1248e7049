package projection

import (
	"log/slog"
	"net/http"

	httperr "github.com/rentlab/rentalytics/internal/core/errors"
	"github.com/rentlab/rentalytics/internal/core/summary"
	"github.com/gin-gonic/gin"
)

// summaryResponse is the JSON shape of the monthly summary listing.
type summaryResponse struct {
	Months []summary.Bucket `json:"months"`
	Count  int              `json:"count"`
}

// SummaryHandler lists the monthly summary, sorted by month key ascending.
func (s *Service) SummaryHandler(c *gin.Context) {
	buckets, err := s.MonthlySummary(c.Request.Context())
	if err != nil {
		slog.Error("Failed to read monthly summary", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to read monthly summary",
		})
		return
	}

	if buckets == nil {
		buckets = []summary.Bucket{}
	}

	c.JSON(http.StatusOK, summaryResponse{
		Months: buckets,
		Count:  len(buckets),
	})
}
