package refresh

import (
	"context"
	"testing"
	"time"

	"github.com/rentlab/rentalytics/internal/core/storage/memory"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RefreshesOnTick(t *testing.T) {
	h := newHarness(seededFeed(), memory.NewStore())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewScheduler(10*time.Millisecond, h.orchestrator).Start(ctx)
	}()

	require.Eventually(t, func() bool {
		count, err := h.store.CountDetails(context.Background())
		return err == nil && count == 3
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop after context cancellation")
	}

	require.True(t, h.summarizer.Trigger().Armed())
	require.Equal(t, StateIdle, h.orchestrator.State())
}
