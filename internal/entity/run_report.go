package entity

import "time"

// RunReport accumulates outcomes in the order they were received.
// It is not safe for concurrent use; the coordinator is its only writer.
type RunReport struct {
	StartedAt time.Time
	Outcomes  []VisitOutcome
	OKCount   int
	FailCount int
	Halted    bool
}

// NewRunReport creates an empty report for a run started at startedAt.
func NewRunReport(startedAt time.Time) *RunReport {
	return &RunReport{StartedAt: startedAt}
}

// Add appends an outcome and updates the running totals.
func (r *RunReport) Add(o VisitOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	if o.OK() {
		r.OKCount++
	} else {
		r.FailCount++
	}
}

// Failed returns the FAILED subset, preserving receive order.
func (r *RunReport) Failed() []VisitOutcome {
	var failed []VisitOutcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// Summary is the finalized, read-only view of a run.
type Summary struct {
	StartedAt  time.Time      `json:"started_at"`
	Candidates int            `json:"candidates"`
	Attempted  int            `json:"attempted"`
	OK         int            `json:"ok"`
	Failed     int            `json:"failed"`
	Halted     bool           `json:"halted"`
	Outcomes   []VisitOutcome `json:"outcomes"`
}

// Finalize freezes the report into a Summary. candidates is the number of
// items that were queued for dispatch.
func (r *RunReport) Finalize(candidates int) Summary {
	outcomes := make([]VisitOutcome, len(r.Outcomes))
	copy(outcomes, r.Outcomes)
	return Summary{
		StartedAt:  r.StartedAt,
		Candidates: candidates,
		Attempted:  len(outcomes),
		OK:         r.OKCount,
		Failed:     r.FailCount,
		Halted:     r.Halted,
		Outcomes:   outcomes,
	}
}
