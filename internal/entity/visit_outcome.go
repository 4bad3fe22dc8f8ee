package entity

import "time"

type VisitStatus string

const (
	StatusOK     VisitStatus = "OK"
	StatusFailed VisitStatus = "FAILED"
)

// VisitOutcome is the result of reviving one Candidate.
type VisitOutcome struct {
	URL      string        `json:"url"`
	Status   VisitStatus   `json:"status"`
	Reason   string        `json:"reason,omitempty"`
	Attempts int           `json:"attempts"`
	Duration time.Duration `json:"duration"`
}

// OK reports whether the visit succeeded.
func (o VisitOutcome) OK() bool {
	return o.Status == StatusOK
}
