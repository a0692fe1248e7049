package refresh

import (
	"log/slog"
	"net/http"

	httperr "github.com/rentlab/rentalytics/internal/core/errors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers the refresh endpoint.
func (o *Orchestrator) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/refresh", o.RefreshHandler)
}

// RefreshHandler runs a full refresh and returns its completion notice.
func (o *Orchestrator) RefreshHandler(c *gin.Context) {
	notice, err := o.Refresh(c.Request.Context())
	if err != nil {
		slog.Error("Refresh request failed", "error", err)
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpRefreshFailedError,
			Message:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, notice)
}
