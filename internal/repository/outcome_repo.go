package repository

import (
	"context"

	"github.com/user/stale-reviver/internal/entity"
)

// OutcomeRepository defines the interface for durably recording run outcomes.
type OutcomeRepository interface {
	// SaveRun records every outcome of a finished run.
	SaveRun(ctx context.Context, summary entity.Summary) error
}

// LogPaths locates the files written for one run. Failed is empty when the
// run had no failures.
type LogPaths struct {
	All    string
	Failed string
}

// RunLogWriter writes the operator-facing log of a run.
type RunLogWriter interface {
	WriteRun(summary entity.Summary) (LogPaths, error)
}
