package usecase

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/user/stale-reviver/internal/entity"
	"github.com/user/stale-reviver/internal/repository"
)

// RunRequest selects what a run revives. When RetryCandidates is non-empty
// the catalog is not scanned and those candidates are revived instead.
type RunRequest struct {
	Selection       entity.MediaSelection
	Diagnostic      bool
	RetryCandidates []entity.Candidate
}

// RunResult describes a finished run. Summary counts are authoritative even
// when PersistErr is set.
type RunResult struct {
	Summary       entity.Summary
	Scan          *ScanResult
	SkippedRecent int
	Logs          repository.LogPaths
	PersistErr    error
}

// Batch is the set of candidates chosen for one run.
type Batch struct {
	Candidates    []entity.Candidate
	Diagnostic    bool
	Scan          *ScanResult
	SkippedRecent int
}

// Empty reports whether nothing was dispatched, in which case no logs exist.
func (r *RunResult) Empty() bool {
	return r.Summary.Candidates == 0
}

// ServiceDeps wires a RevivalService. Outcomes, Ledger and Tracker are optional.
type ServiceDeps struct {
	Scanner     *Scanner
	Coordinator *Coordinator
	RunLog      repository.RunLogWriter
	Outcomes    repository.OutcomeRepository
	Ledger      repository.RevivalLedger
	LedgerTTL   time.Duration
	Tracker     *ProgressTracker
	Logger      *zap.Logger
}

// RevivalService runs one batch: source candidates, revive them, persist the report.
type RevivalService struct {
	scanner     *Scanner
	coordinator *Coordinator
	runLog      repository.RunLogWriter
	outcomes    repository.OutcomeRepository
	ledger      repository.RevivalLedger
	ledgerTTL   time.Duration
	tracker     *ProgressTracker
	logger      *zap.Logger
}

// NewRevivalService creates a new revival service from deps.
func NewRevivalService(deps ServiceDeps) *RevivalService {
	return &RevivalService{
		scanner:     deps.Scanner,
		coordinator: deps.Coordinator,
		runLog:      deps.RunLog,
		outcomes:    deps.Outcomes,
		ledger:      deps.Ledger,
		ledgerTTL:   deps.LedgerTTL,
		tracker:     deps.Tracker,
		logger:      deps.Logger,
	}
}

// Collect sources the candidates for a run: the retry list when given,
// otherwise a catalog scan. Candidates revived recently per the ledger are
// dropped.
func (s *RevivalService) Collect(ctx context.Context, req RunRequest) (*Batch, error) {
	b := &Batch{Diagnostic: req.Diagnostic}

	candidates := req.RetryCandidates
	if len(candidates) == 0 {
		if s.scanner == nil {
			return nil, errors.New("no scanner configured and no retry candidates given")
		}
		scan := s.scanner.Scan(ctx, req.Selection)
		b.Scan = &scan
		candidates = scan.Candidates
		s.logger.Info("Catalog scan finished",
			zap.Int("pages", scan.Pages), zap.Int("items", scan.ItemsSeen),
			zap.Int("candidates", len(candidates)), zap.String("stop_reason", string(scan.StopReason)))
	}

	b.Candidates, b.SkippedRecent = s.skipRecentlyRevived(ctx, candidates)
	return b, nil
}

// Revive dispatches a collected batch and persists its report. An empty
// batch is a no-op that writes nothing.
func (s *RevivalService) Revive(ctx context.Context, b *Batch) *RunResult {
	res := &RunResult{Scan: b.Scan, SkippedRecent: b.SkippedRecent}
	if len(b.Candidates) == 0 {
		return res
	}

	if s.tracker != nil {
		s.tracker.Start(len(b.Candidates))
	}
	report := s.coordinator.Run(ctx, b.Candidates, b.Diagnostic)
	res.Summary = report.Finalize(len(b.Candidates))
	if s.tracker != nil {
		s.tracker.Finish(res.Summary)
	}

	// Persist even when the run was interrupted.
	persistCtx := context.WithoutCancel(ctx)
	res.Logs, res.PersistErr = s.persist(persistCtx, res.Summary)
	s.markRevived(persistCtx, res.Summary)

	s.logger.Info("Run finished",
		zap.Int("attempted", res.Summary.Attempted), zap.Int("ok", res.Summary.OK),
		zap.Int("failed", res.Summary.Failed), zap.Bool("halted", res.Summary.Halted))
	return res
}

// Run is Collect followed by Revive.
func (s *RevivalService) Run(ctx context.Context, req RunRequest) (*RunResult, error) {
	b, err := s.Collect(ctx, req)
	if err != nil {
		return nil, err
	}
	return s.Revive(ctx, b), nil
}

func (s *RevivalService) skipRecentlyRevived(ctx context.Context, candidates []entity.Candidate) ([]entity.Candidate, int) {
	if s.ledger == nil {
		return candidates, 0
	}
	kept := make([]entity.Candidate, 0, len(candidates))
	skipped := 0
	for _, c := range candidates {
		revived, err := s.ledger.WasRevived(ctx, c.FinalURL)
		if err != nil {
			s.logger.Warn("Ledger lookup failed, keeping candidate", zap.String("url", c.FinalURL), zap.Error(err))
		}
		if revived {
			skipped++
			continue
		}
		kept = append(kept, c)
	}
	if skipped > 0 {
		s.logger.Info("Skipped recently revived candidates", zap.Int("skipped", skipped))
	}
	return kept, skipped
}

func (s *RevivalService) persist(ctx context.Context, summary entity.Summary) (repository.LogPaths, error) {
	var errs []error
	var paths repository.LogPaths
	if s.runLog != nil {
		p, err := s.runLog.WriteRun(summary)
		if err != nil {
			s.logger.Warn("Error writing run logs", zap.Error(err))
			errs = append(errs, err)
		}
		paths = p
	}
	if s.outcomes != nil {
		if err := s.outcomes.SaveRun(ctx, summary); err != nil {
			s.logger.Warn("Error saving outcomes to the database", zap.Error(err))
			errs = append(errs, err)
		}
	}
	return paths, errors.Join(errs...)
}

func (s *RevivalService) markRevived(ctx context.Context, summary entity.Summary) {
	if s.ledger == nil {
		return
	}
	for _, o := range summary.Outcomes {
		if !o.OK() {
			continue
		}
		if err := s.ledger.MarkRevived(ctx, o.URL, s.ledgerTTL); err != nil {
			s.logger.Warn("Failed to mark URL as revived", zap.String("url", o.URL), zap.Error(err))
		}
	}
}
