package repository

import "context"

// Visitor defines the contract for the revival action. A nil error means the
// page was loaded and its last-visit timestamp should now be refreshed.
type Visitor interface {
	Visit(ctx context.Context, url string) error
}

// VisitorFunc adapts a plain function to the Visitor interface.
type VisitorFunc func(ctx context.Context, url string) error

func (f VisitorFunc) Visit(ctx context.Context, url string) error {
	return f(ctx, url)
}
