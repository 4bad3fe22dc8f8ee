package csvlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/stale-reviver/internal/entity"
	"github.com/user/stale-reviver/internal/repository"
)

const (
	timestampLayout = "20060102_150405"
	allLogPrefix    = "refresh_log_"
	failLogPrefix   = "failed_urls_"
)

var header = []string{"URL", "Status", "Reason"}

// RunLogImpl writes run outcomes as CSV files under a directory, named after
// the run's start time (UTC).
type RunLogImpl struct {
	dir string
}

// NewRunLog creates a run log writer rooted at dir.
func NewRunLog(dir string) *RunLogImpl {
	return &RunLogImpl{dir: dir}
}

// WriteRun writes every outcome to refresh_log_<ts>.csv and, only when the
// run had failures, the failed subset to failed_urls_<ts>.csv.
func (r *RunLogImpl) WriteRun(summary entity.Summary) (repository.LogPaths, error) {
	var paths repository.LogPaths
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return paths, fmt.Errorf("create log directory: %w", err)
	}

	ts := summary.StartedAt.UTC().Format(timestampLayout)
	allPath := filepath.Join(r.dir, allLogPrefix+ts+".csv")
	if err := writeOutcomes(allPath, summary.Outcomes); err != nil {
		return paths, err
	}
	paths.All = allPath

	var failed []entity.VisitOutcome
	for _, o := range summary.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	if len(failed) == 0 {
		return paths, nil
	}
	failPath := filepath.Join(r.dir, failLogPrefix+ts+".csv")
	if err := writeOutcomes(failPath, failed); err != nil {
		return paths, err
	}
	paths.Failed = failPath
	return paths, nil
}

func writeOutcomes(path string, outcomes []entity.VisitOutcome) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for _, o := range outcomes {
		if err := w.Write([]string{o.URL, string(o.Status), o.Reason}); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}
