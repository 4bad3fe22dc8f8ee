package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/user/stale-reviver/internal/entity"
	"github.com/user/stale-reviver/internal/repository"
)

// fakeCatalog serves fixed pages; failAt >= 0 makes that page return an error.
type fakeCatalog struct {
	pages   [][]entity.CatalogItem
	failAt  int
	fetched []int
}

func (f *fakeCatalog) FetchPage(_ context.Context, page int) ([]entity.CatalogItem, error) {
	f.fetched = append(f.fetched, page)
	if f.failAt >= 0 && page == f.failAt {
		return nil, errors.New("connection reset")
	}
	if page >= len(f.pages) {
		return nil, nil
	}
	return f.pages[page], nil
}

// scriptedVisitor fails the first failures[url] calls for each URL.
type scriptedVisitor struct {
	mu         sync.Mutex
	failures   map[string]int
	alwaysFail bool
	calls      map[string]int
}

func newScriptedVisitor() *scriptedVisitor {
	return &scriptedVisitor{failures: map[string]int{}, calls: map[string]int{}}
}

func (v *scriptedVisitor) Visit(_ context.Context, url string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.calls[url]++
	if v.alwaysFail || v.calls[url] <= v.failures[url] {
		return fmt.Errorf("%w: attempt %d for %s", repository.ErrNavigationFailed, v.calls[url], url)
	}
	return nil
}

func (v *scriptedVisitor) Calls(url string) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls[url]
}

// recordingSleep captures backoff delays instead of sleeping.
type recordingSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (r *recordingSleep) Sleep(ctx context.Context, d time.Duration) error {
	r.mu.Lock()
	r.delays = append(r.delays, d)
	r.mu.Unlock()
	return ctx.Err()
}

// funcWorker adapts a function to RevivalWorker.
type funcWorker func(ctx context.Context, url string, diagnostic bool) entity.VisitOutcome

func (f funcWorker) Revive(ctx context.Context, url string, diagnostic bool) entity.VisitOutcome {
	return f(ctx, url, diagnostic)
}

type memLedger struct {
	mu      sync.Mutex
	revived map[string]time.Duration
	err     error
}

func newMemLedger(urls ...string) *memLedger {
	l := &memLedger{revived: map[string]time.Duration{}}
	for _, u := range urls {
		l.revived[u] = time.Hour
	}
	return l
}

func (l *memLedger) MarkRevived(_ context.Context, url string, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.revived[url] = ttl
	return nil
}

func (l *memLedger) WasRevived(_ context.Context, url string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return false, l.err
	}
	_, ok := l.revived[url]
	return ok, nil
}

type memRunLog struct {
	summaries []entity.Summary
	err       error
}

func (m *memRunLog) WriteRun(s entity.Summary) (repository.LogPaths, error) {
	if m.err != nil {
		return repository.LogPaths{}, m.err
	}
	m.summaries = append(m.summaries, s)
	return repository.LogPaths{All: "all.csv"}, nil
}

type memOutcomes struct {
	saved []entity.Summary
	err   error
}

func (m *memOutcomes) SaveRun(_ context.Context, s entity.Summary) error {
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, s)
	return nil
}

func candidatesFor(urls ...string) []entity.Candidate {
	out := make([]entity.Candidate, len(urls))
	for i, u := range urls {
		out[i] = entity.Candidate{FinalURL: u}
	}
	return out
}
