package repository

import (
	"context"

	"github.com/user/stale-reviver/internal/entity"
)

// CatalogRepository defines the contract for reading the remote uploads catalog.
type CatalogRepository interface {
	// FetchPage returns the items on a zero-based page. An empty slice means
	// the catalog has no more pages.
	FetchPage(ctx context.Context, page int) ([]entity.CatalogItem, error)
}
