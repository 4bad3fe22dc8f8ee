package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/user/stale-reviver/internal/usecase"
)

type progressPrinter struct {
	mu  sync.Mutex
	out io.Writer
}

func newProgressPrinter(out io.Writer) *progressPrinter {
	return &progressPrinter{out: out}
}

// Print writes one progress line per completed item.
func (p *progressPrinter) Print(pr usecase.Progress) {
	symbol := "✓"
	if !pr.Outcome.OK() {
		symbol = "✗"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "[%s] %d/%d Complete — OK: %d | Failed: %d\n", symbol, pr.Done, pr.Total, pr.OK, pr.Failed)
}
