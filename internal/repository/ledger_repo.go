package repository

import (
	"context"
	"time"
)

// RevivalLedger remembers URLs that were revived recently so a follow-up run
// does not visit them again.
type RevivalLedger interface {
	// MarkRevived records a successful revival that expires after ttl.
	MarkRevived(ctx context.Context, url string, ttl time.Duration) error
	// WasRevived checks if a URL was revived within its ttl.
	WasRevived(ctx context.Context, url string) (bool, error)
}
