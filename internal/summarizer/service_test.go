package summarizer

import (
	"context"
	"testing"
	"time"

	v1 "github.com/rentlab/rentalytics/internal/api/v1"
	apperrors "github.com/rentlab/rentalytics/internal/core/errors"
	"github.com/rentlab/rentalytics/internal/core/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func detail(rentalID int64, date time.Time, amount string) *v1.DetailRecord {
	return &v1.DetailRecord{
		RentalID:     rentalID,
		RentalDate:   date,
		CustomerID:   7,
		CustomerName: "Mary Smith",
		Amount:       decimal.RequireFromString(amount),
	}
}

func TestOnDetailInserted_CreatesBucketForNewMonth(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, NewTrigger())

	rec := detail(1, time.Date(2008, 6, 12, 0, 0, 0, 0, time.UTC), "10.99")
	require.NoError(t, store.InsertDetail(ctx, rec))
	require.NoError(t, svc.OnDetailInserted(ctx, rec))

	buckets, err := store.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.Equal(t, "2008-06", buckets[0].MonthKey)
	require.True(t, decimal.RequireFromString("10.99").Equal(buckets[0].TotalRevenue))
	require.Equal(t, int64(1), buckets[0].TotalTransactions)
}

func TestOnDetailInserted_IncrementsExistingBucket(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, NewTrigger())

	first := detail(1, time.Date(2008, 6, 12, 0, 0, 0, 0, time.UTC), "10.99")
	second := detail(2, time.Date(2008, 6, 20, 0, 0, 0, 0, time.UTC), "5.00")

	require.NoError(t, svc.OnDetailInserted(ctx, first))
	require.NoError(t, svc.OnDetailInserted(ctx, second))

	buckets, err := store.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 1)
	require.True(t, decimal.RequireFromString("15.99").Equal(buckets[0].TotalRevenue))
	require.Equal(t, int64(2), buckets[0].TotalTransactions)
}

func TestOnDetailInserted_DisarmedTriggerSkips(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	trigger := NewTrigger()
	svc := NewService(store, trigger)

	trigger.Disarm()
	require.NoError(t, svc.OnDetailInserted(ctx, detail(1, time.Date(2008, 6, 12, 0, 0, 0, 0, time.UTC), "10.99")))

	buckets, err := store.ListBuckets(ctx)
	require.NoError(t, err)
	require.Empty(t, buckets)
}

func TestOnDetailInserted_InvalidDateRejected(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, NewTrigger())

	err := svc.OnDetailInserted(ctx, detail(1, time.Time{}, "10.99"))
	require.ErrorIs(t, err, apperrors.ErrInvalidInput)

	buckets, lerr := store.ListBuckets(ctx)
	require.NoError(t, lerr)
	require.Empty(t, buckets)
}

func TestRebuild_MatchesIncrementalState(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, NewTrigger())

	records := []*v1.DetailRecord{
		detail(1, time.Date(2008, 6, 12, 0, 0, 0, 0, time.UTC), "10.99"),
		detail(2, time.Date(2008, 6, 20, 0, 0, 0, 0, time.UTC), "5.00"),
		detail(3, time.Date(2008, 7, 1, 0, 0, 0, 0, time.UTC), "2.99"),
	}
	for _, rec := range records {
		require.NoError(t, store.InsertDetail(ctx, rec))
		require.NoError(t, svc.OnDetailInserted(ctx, rec))
	}

	incremental, err := store.ListBuckets(ctx)
	require.NoError(t, err)

	count, err := svc.Rebuild(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	rebuilt, err := store.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, rebuilt, len(incremental))
	for i := range rebuilt {
		require.Equal(t, incremental[i].MonthKey, rebuilt[i].MonthKey)
		require.True(t, incremental[i].TotalRevenue.Equal(rebuilt[i].TotalRevenue))
		require.Equal(t, incremental[i].TotalTransactions, rebuilt[i].TotalTransactions)
	}
}

func TestRebuild_EmptyDetailStoreYieldsEmptySummary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := NewService(store, NewTrigger())

	// Stale buckets from a previous state are swept away.
	require.NoError(t, store.UpsertBucket(ctx, "2008-06", detail(1, time.Date(2008, 6, 12, 0, 0, 0, 0, time.UTC), "10.99")))

	count, err := svc.Rebuild(ctx)
	require.NoError(t, err)
	require.Zero(t, count)

	buckets, err := store.ListBuckets(ctx)
	require.NoError(t, err)
	require.Empty(t, buckets)
}

func TestTrigger_ArmDisarm(t *testing.T) {
	trigger := NewTrigger()
	require.True(t, trigger.Armed())

	trigger.Disarm()
	require.False(t, trigger.Armed())

	trigger.Arm()
	require.True(t, trigger.Armed())
}
