package usecase

import (
	"sync"

	"github.com/user/stale-reviver/internal/entity"
)

// Progress is reported once per received outcome.
type Progress struct {
	Done    int
	Total   int
	OK      int
	Failed  int
	Outcome entity.VisitOutcome
}

// ProgressSnapshot is the current state of a run as exposed to observers.
type ProgressSnapshot struct {
	Total   int  `json:"total"`
	Done    int  `json:"done"`
	OK      int  `json:"ok"`
	Failed  int  `json:"failed"`
	Running bool `json:"running"`
	Halted  bool `json:"halted"`
}

// ProgressTracker keeps the latest progress of a run for concurrent readers.
type ProgressTracker struct {
	mu   sync.RWMutex
	snap ProgressSnapshot
}

// NewProgressTracker creates an idle tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{}
}

// Start resets the tracker for a run of total candidates.
func (t *ProgressTracker) Start(total int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap = ProgressSnapshot{Total: total, Running: true}
}

// Observe records one progress event.
func (t *ProgressTracker) Observe(p Progress) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Total = p.Total
	t.snap.Done = p.Done
	t.snap.OK = p.OK
	t.snap.Failed = p.Failed
}

// Finish marks the run as complete.
func (t *ProgressTracker) Finish(summary entity.Summary) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.snap.Done = summary.Attempted
	t.snap.OK = summary.OK
	t.snap.Failed = summary.Failed
	t.snap.Halted = summary.Halted
	t.snap.Running = false
}

// Snapshot returns a copy of the current progress.
func (t *ProgressTracker) Snapshot() ProgressSnapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.snap
}
