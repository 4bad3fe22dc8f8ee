package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/user/stale-reviver/internal/entity"
	"github.com/user/stale-reviver/internal/repository"
	"github.com/user/stale-reviver/pkg/metrics"
)

// Defaults applied by NewReviver for zero options.
const (
	DefaultMaxRetries     = 3
	DefaultAttemptTimeout = 120 * time.Second
	initialBackoff        = 1 * time.Second
)

// SleepFunc waits for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ReviverOptions tunes the retry loop. Zero values fall back to defaults.
type ReviverOptions struct {
	MaxRetries     int
	AttemptTimeout time.Duration
	InitialBackoff time.Duration
	Sleep          SleepFunc
}

// Reviver performs the revival of one URL with bounded retries.
type Reviver struct {
	visitor        repository.Visitor
	maxRetries     int
	attemptTimeout time.Duration
	initialBackoff time.Duration
	sleep          SleepFunc
	logger         *zap.Logger
}

// NewReviver creates a reviver that visits URLs through visitor.
func NewReviver(visitor repository.Visitor, opts ReviverOptions, logger *zap.Logger) *Reviver {
	r := &Reviver{
		visitor:        visitor,
		maxRetries:     opts.MaxRetries,
		attemptTimeout: opts.AttemptTimeout,
		initialBackoff: opts.InitialBackoff,
		sleep:          opts.Sleep,
		logger:         logger,
	}
	if r.maxRetries < 1 {
		r.maxRetries = DefaultMaxRetries
	}
	if r.attemptTimeout <= 0 {
		r.attemptTimeout = DefaultAttemptTimeout
	}
	if r.initialBackoff <= 0 {
		r.initialBackoff = initialBackoff
	}
	if r.sleep == nil {
		r.sleep = sleepContext
	}
	return r
}

// Revive visits url until one attempt succeeds or the budget is spent.
// Diagnostic mode allows a single attempt. Backoff doubles between attempts
// (1s, 2s, 4s, ...) and is not applied after the final one.
func (r *Reviver) Revive(ctx context.Context, url string, diagnostic bool) entity.VisitOutcome {
	attempts := r.maxRetries
	if diagnostic {
		attempts = 1
	}

	started := time.Now()
	backoff := r.initialBackoff
	var lastErr error
	made := 0
	for attempt := 1; attempt <= attempts; attempt++ {
		if diagnostic {
			r.logger.Info("Visit attempt", zap.Int("attempt", attempt), zap.String("url", url))
		}
		made++
		lastErr = r.attempt(ctx, url)
		if lastErr == nil {
			return entity.VisitOutcome{
				URL:      url,
				Status:   entity.StatusOK,
				Attempts: made,
				Duration: time.Since(started),
			}
		}
		r.logger.Debug("Visit attempt failed", zap.String("url", url), zap.Int("attempt", attempt), zap.Error(lastErr))

		if attempt == attempts {
			break
		}
		if err := r.sleep(ctx, backoff); err != nil {
			break
		}
		backoff *= 2
	}

	return entity.VisitOutcome{
		URL:      url,
		Status:   entity.StatusFailed,
		Reason:   lastErr.Error(),
		Attempts: made,
		Duration: time.Since(started),
	}
}

// attempt runs one visit under the per-attempt ceiling. The ceiling holds
// even if the visitor ignores its context; cleanup stays with the visitor.
func (r *Reviver) attempt(ctx context.Context, url string) error {
	attemptCtx, cancel := context.WithTimeout(ctx, r.attemptTimeout)
	defer cancel()

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- r.visitor.Visit(attemptCtx, url)
	}()

	var err error
	select {
	case err = <-done:
	case <-attemptCtx.Done():
		err = attemptCtx.Err()
	}
	metrics.VisitDuration.Observe(time.Since(start).Seconds())

	if err != nil && errors.Is(attemptCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, repository.ErrVisitTimeout) {
		err = fmt.Errorf("%w after %s: %v", repository.ErrVisitTimeout, r.attemptTimeout, err)
	}
	if err != nil {
		metrics.AttemptsTotal.WithLabelValues("failure", repository.ErrorType(err)).Inc()
		return err
	}
	metrics.AttemptsTotal.WithLabelValues("success", "").Inc()
	return nil
}
