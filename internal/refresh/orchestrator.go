// Package refresh coordinates the full reload of the detail and summary
// stores: suspend incremental maintenance, truncate, re-ingest from the
// upstream feeds, batch-rebuild the summary, resume.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rentlab/rentalytics/internal/core/storage"
	"github.com/rentlab/rentalytics/internal/ingestion"
	"github.com/rentlab/rentalytics/internal/summarizer"
	"github.com/google/uuid"
)

// State names the phase the orchestrator is in. Transitions run strictly
// Idle → Suspending → Reloading → Resummarizing → Resuming → Idle.
type State string

const (
	StateIdle          State = "idle"
	StateSuspending    State = "suspending"
	StateReloading     State = "reloading"
	StateResummarizing State = "resummarizing"
	StateResuming      State = "resuming"
)

// Notice is the single terminal report of a refresh run.
type Notice struct {
	RunID         string        `json:"run_id"`
	DetailsLoaded int           `json:"details_loaded"`
	BucketsBuilt  int           `json:"buckets_built"`
	StartedAt     time.Time     `json:"started_at"`
	CompletedAt   time.Time     `json:"completed_at"`
	Duration      time.Duration `json:"duration_ns"`
}

// Orchestrator owns the refresh state machine and the incremental trigger
// during a run. At most one refresh executes at a time.
type Orchestrator struct {
	runMu sync.Mutex // held for the whole refresh; makes it exclusive

	stateMu sync.RWMutex
	state   State

	store      storage.Store
	ingester   *ingestion.Service
	summarizer *summarizer.Service
}

func NewOrchestrator(store storage.Store, ing *ingestion.Service, sum *summarizer.Service) *Orchestrator {
	if store == nil {
		panic("refresh: store must not be nil")
	}
	if ing == nil {
		panic("refresh: ingester must not be nil")
	}
	if sum == nil {
		panic("refresh: summarizer must not be nil")
	}
	return &Orchestrator{
		state:      StateIdle,
		store:      store,
		ingester:   ing,
		summarizer: sum,
	}
}

// State returns the current phase.
func (o *Orchestrator) State() State {
	o.stateMu.RLock()
	defer o.stateMu.RUnlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.stateMu.Lock()
	o.state = s
	o.stateMu.Unlock()
	slog.Debug("[Refresh] State transition", "state", s)
}

// Refresh runs the full reload sequence. Whatever happens between
// Suspending and Resuming, the incremental trigger is re-armed before the
// error surfaces: a failed refresh must never leave the system without
// incremental maintenance. On failure the stores may have been truncated;
// the documented recovery is to run Refresh again.
func (o *Orchestrator) Refresh(ctx context.Context) (*Notice, error) {
	if !o.runMu.TryLock() {
		return nil, fmt.Errorf("refresh already running")
	}
	defer o.runMu.Unlock()

	runID := uuid.NewString()
	startedAt := time.Now().UTC()
	slog.Info("[Refresh] Starting", "run_id", runID)

	o.setState(StateSuspending)
	o.summarizer.Trigger().Disarm()

	// The trigger-disable/enable pairing must always complete, even when
	// a step below fails.
	defer func() {
		o.summarizer.Trigger().Arm()
		o.setState(StateIdle)
	}()

	o.setState(StateReloading)
	if err := o.store.TruncateAll(ctx); err != nil {
		slog.Error("[Refresh] Failed", "run_id", runID, "step", "truncate", "error", err)
		return nil, fmt.Errorf("refresh %s: truncate stores: %w", runID, err)
	}

	detailCount, err := o.ingester.IngestDetail(ctx)
	if err != nil {
		slog.Error("[Refresh] Failed", "run_id", runID, "step", "reload", "error", err)
		return nil, fmt.Errorf("refresh %s: reload details: %w", runID, err)
	}

	o.setState(StateResummarizing)
	bucketCount, err := o.summarizer.Rebuild(ctx)
	if err != nil {
		slog.Error("[Refresh] Failed", "run_id", runID, "step", "resummarize", "error", err)
		return nil, fmt.Errorf("refresh %s: rebuild summary: %w", runID, err)
	}

	o.setState(StateResuming)

	completedAt := time.Now().UTC()
	notice := &Notice{
		RunID:         runID,
		DetailsLoaded: detailCount,
		BucketsBuilt:  bucketCount,
		StartedAt:     startedAt,
		CompletedAt:   completedAt,
		Duration:      completedAt.Sub(startedAt),
	}

	slog.Info("[Refresh] Complete",
		"run_id", runID,
		"details_loaded", detailCount,
		"buckets_built", bucketCount,
		"duration", notice.Duration)
	return notice, nil
}
