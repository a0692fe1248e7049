// Package projection serves read queries over the summary store.
package projection

import (
	"context"
	"fmt"

	"github.com/rentlab/rentalytics/internal/core/storage"
	"github.com/rentlab/rentalytics/internal/core/summary"
	"github.com/gin-gonic/gin"
)

type Service struct {
	store storage.SummaryStore
}

func NewService(store storage.SummaryStore) *Service {
	if store == nil {
		panic("projection: store must not be nil")
	}
	return &Service{store: store}
}

// RegisterRoutes registers the projection service routes.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.GET("/v1/summary", s.SummaryHandler)
}

// MonthlySummary returns all buckets sorted ascending by month key.
// Sorting is presentational; the stored aggregate is order-independent.
func (s *Service) MonthlySummary(ctx context.Context) ([]summary.Bucket, error) {
	buckets, err := s.store.ListBuckets(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly summary: %w", err)
	}
	return buckets, nil
}
