package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRunReport(t *testing.T) {
	started := time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)

	t.Run("totals always match outcome count", func(tt *testing.T) {
		r := NewRunReport(started)
		r.Add(VisitOutcome{URL: "a", Status: StatusOK})
		r.Add(VisitOutcome{URL: "b", Status: StatusFailed, Reason: "timeout"})
		r.Add(VisitOutcome{URL: "c", Status: StatusOK})

		assert.Equal(tt, 2, r.OKCount)
		assert.Equal(tt, 1, r.FailCount)
		assert.Equal(tt, len(r.Outcomes), r.OKCount+r.FailCount)
	})

	t.Run("failed keeps only failures in receive order", func(tt *testing.T) {
		r := NewRunReport(started)
		r.Add(VisitOutcome{URL: "x", Status: StatusFailed})
		r.Add(VisitOutcome{URL: "y", Status: StatusOK})
		r.Add(VisitOutcome{URL: "z", Status: StatusFailed})

		failed := r.Failed()
		assert.Len(tt, failed, 2)
		assert.Equal(tt, "x", failed[0].URL)
		assert.Equal(tt, "z", failed[1].URL)
	})

	t.Run("finalize copies outcomes", func(tt *testing.T) {
		r := NewRunReport(started)
		r.Add(VisitOutcome{URL: "a", Status: StatusOK})
		r.Halted = true

		s := r.Finalize(4)
		r.Add(VisitOutcome{URL: "b", Status: StatusOK})

		assert.Equal(tt, 4, s.Candidates)
		assert.Equal(tt, 1, s.Attempted)
		assert.Equal(tt, 1, s.OK)
		assert.True(tt, s.Halted)
		assert.Len(tt, s.Outcomes, 1)
		assert.Equal(tt, started, s.StartedAt)
	})
}
