package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rentlab/rentalytics/internal/core/storage"
	"github.com/rentlab/rentalytics/internal/core/storage/memory"
	"github.com/rentlab/rentalytics/internal/summarizer"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Store, *summarizer.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	svc, sum := newTestService(memory.NewFeed(), store)

	r := gin.New()
	svc.RegisterRoutes(r)
	return r, store, sum
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestInsertHandler_CreatesDetailAndBucket(t *testing.T) {
	r, store, _ := newTestRouter(t)

	w := postJSON(r, "/v1/details", `{
		"rental_id": 1,
		"rental_date": "2008-06-12T15:04:05Z",
		"customer_id": 7,
		"customer_name": "MARY SMITH",
		"amount": "10.99"
	}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "created", resp["status"])
	require.EqualValues(t, 1, resp["detail_seq"])

	buckets, err := store.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.Equal(t, "2008-06", buckets[0].MonthKey)
}

func TestInsertHandler_InvalidJSON(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := postJSON(r, "/v1/details", `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInsertHandler_MissingRentalDate(t *testing.T) {
	r, store, _ := newTestRouter(t)

	w := postJSON(r, "/v1/details", `{
		"rental_id": 1,
		"customer_id": 7,
		"amount": "10.99"
	}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	count, err := store.CountDetails(context.Background())
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestInsertHandler_RejectedDuringRefresh(t *testing.T) {
	r, _, sum := newTestRouter(t)

	sum.Trigger().Disarm()

	w := postJSON(r, "/v1/details", `{
		"rental_id": 1,
		"rental_date": "2008-06-12T15:04:05Z",
		"customer_id": 7,
		"amount": "10.99"
	}`)

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	require.Contains(t, w.Body.String(), "refresh_in_progress")
}

func TestIngestHandler_BulkLoadsFromFeeds(t *testing.T) {
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	feed := memory.NewFeed()
	feed.Seed(
		[]storage.SourceRental{{RentalID: 1, RentalDate: date(2008, 6, 12), CustomerID: 7}},
		[]storage.SourcePayment{{RentalID: 1, Amount: amount("10.99")}},
		[]storage.SourceCustomer{{CustomerID: 7, FirstName: "MARY", LastName: "SMITH"}},
	)
	svc, _ := newTestService(feed, store)

	r := gin.New()
	svc.RegisterRoutes(r)

	w := postJSON(r, "/v1/ingest", ``)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"details":1`)

	// The loaded row was summarized immediately.
	buckets, err := store.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.Equal(t, "2008-06", buckets[0].MonthKey)
	require.Equal(t, int64(1), buckets[0].TotalTransactions)
}
