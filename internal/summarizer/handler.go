package summarizer

import (
	"log/slog"
	"net/http"

	httperr "github.com/rentlab/rentalytics/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the batch rebuild endpoint.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/summary/rebuild", s.RebuildHandler)
}

// RebuildHandler recomputes the whole summary from the detail store.
func (s *Service) RebuildHandler(c *gin.Context) {
	count, err := s.Rebuild(c.Request.Context())
	if err != nil {
		slog.Error("Summary rebuild failed", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Summary rebuild failed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"buckets": count,
	})
}
