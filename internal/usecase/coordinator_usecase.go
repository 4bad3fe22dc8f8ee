package usecase

import (
	"context"
	"runtime"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/stale-reviver/internal/entity"
	"github.com/user/stale-reviver/pkg/metrics"
)

const (
	// DefaultFailureCap is the number of FAILED outcomes that halts a diagnostic run.
	DefaultFailureCap     = 10
	maxDefaultConcurrency = 6
)

// RevivalWorker revives a single URL. *Reviver is the production implementation.
type RevivalWorker interface {
	Revive(ctx context.Context, url string, diagnostic bool) entity.VisitOutcome
}

// CoordinatorOptions configures the worker pool. Zero values fall back to defaults.
type CoordinatorOptions struct {
	Concurrency int
	FailureCap  int
	OnOutcome   func(Progress)
	Now         func() time.Time
}

// Coordinator fans candidates out across a fixed pool of workers and
// collects outcomes in completion order.
type Coordinator struct {
	worker      RevivalWorker
	concurrency int
	failureCap  int
	onOutcome   func(Progress)
	now         func() time.Time
	logger      *zap.Logger
}

// NewCoordinator creates a coordinator that runs worker on every candidate.
func NewCoordinator(worker RevivalWorker, opts CoordinatorOptions, logger *zap.Logger) *Coordinator {
	c := &Coordinator{
		worker:      worker,
		concurrency: opts.Concurrency,
		failureCap:  opts.FailureCap,
		onOutcome:   opts.OnOutcome,
		now:         opts.Now,
		logger:      logger,
	}
	if c.concurrency <= 0 {
		c.concurrency = min(maxDefaultConcurrency, runtime.NumCPU())
	}
	if c.failureCap <= 0 {
		c.failureCap = DefaultFailureCap
	}
	if c.onOutcome == nil {
		c.onOutcome = func(Progress) {}
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Concurrency returns the pool size.
func (c *Coordinator) Concurrency() int {
	return c.concurrency
}

// Run revives every candidate and returns the report. In diagnostic mode the
// run halts once failureCap outcomes have FAILED: no new work is handed out
// and late results from in-flight workers are dropped. OnOutcome is called
// for every recorded outcome except the one that reaches the cap. Cancelling ctx stops
// dispatch; outcomes of work already handed out are still collected.
func (c *Coordinator) Run(ctx context.Context, candidates []entity.Candidate, diagnostic bool) *entity.RunReport {
	report := entity.NewRunReport(c.now())
	total := len(candidates)
	metrics.CandidatesFound.Set(float64(total))
	if total == 0 {
		return report
	}

	// halted is independent of ctx so an interrupted run still drains results.
	halted, halt := context.WithCancel(context.Background())
	defer halt()

	jobs := make(chan entity.Candidate)
	results := make(chan entity.VisitOutcome)

	go func() {
		defer close(jobs)
		for _, cand := range candidates {
			select {
			case jobs <- cand:
			case <-halted.Done():
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	workers := min(c.concurrency, total)
	var g errgroup.Group
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for cand := range jobs {
				if halted.Err() != nil {
					return nil
				}
				metrics.WorkersBusy.Inc()
				out := c.worker.Revive(ctx, cand.FinalURL, diagnostic)
				metrics.WorkersBusy.Dec()
				select {
				case results <- out:
				case <-halted.Done():
					return nil
				}
			}
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		close(results)
	}()

	c.logger.Info("Starting visit pool", zap.Int("workers", workers), zap.Int("candidates", total), zap.Bool("diagnostic", diagnostic))

	for out := range results {
		report.Add(out)
		metrics.OutcomesTotal.WithLabelValues(string(out.Status)).Inc()
		if !out.OK() {
			c.logger.Warn("Revival failed", zap.String("url", out.URL), zap.Int("attempts", out.Attempts), zap.String("reason", out.Reason))
		}

		// The outcome that trips the cap is recorded but not reported as progress.
		if diagnostic && report.FailCount >= c.failureCap {
			report.Halted = true
			c.logger.Warn("Failure cap reached in diagnostic mode. Skipping remaining tasks.",
				zap.Int("failure_cap", c.failureCap), zap.Int("received", len(report.Outcomes)), zap.Int("candidates", total))
			break
		}
		c.onOutcome(Progress{
			Done:    len(report.Outcomes),
			Total:   total,
			OK:      report.OKCount,
			Failed:  report.FailCount,
			Outcome: out,
		})
	}
	return report
}
