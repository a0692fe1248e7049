package summarizer

import "sync"

// Trigger is the arm/disarm switch for incremental summary maintenance.
// It is owned by the refresh orchestrator: disarmed at the start of a
// refresh so the bulk reload cannot double-count, re-armed at the end.
// The ingestion path checks it before accepting single-row inserts.
type Trigger struct {
	mu    sync.RWMutex
	armed bool
}

// NewTrigger returns an armed trigger.
func NewTrigger() *Trigger {
	return &Trigger{armed: true}
}

// Armed reports whether incremental maintenance is active.
func (t *Trigger) Armed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.armed
}

// Disarm suspends incremental maintenance.
func (t *Trigger) Disarm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.armed = false
}

// Arm resumes incremental maintenance.
func (t *Trigger) Arm() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.armed = true
}
