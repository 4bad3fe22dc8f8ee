package catalog_http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/user/stale-reviver/internal/entity"
	"github.com/user/stale-reviver/internal/repository"
	"github.com/user/stale-reviver/pkg/utils"
)

const defaultUserAgent = "Mozilla/5.0"

// CatalogRepoImpl reads the uploads listing over HTTP.
type CatalogRepoImpl struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewCatalogRepo creates a catalog client. A nil client gets a 30s timeout.
func NewCatalogRepo(baseURL, token string, client *http.Client) *CatalogRepoImpl {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &CatalogRepoImpl{baseURL: baseURL, token: token, client: client}
}

type uploadsPage struct {
	Files []entity.CatalogItem `json:"files"`
}

// FetchPage fetches GET {base}/uploads/{page}. A body without "files" is an
// empty page.
func (r *CatalogRepoImpl) FetchPage(ctx context.Context, page int) ([]entity.CatalogItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, utils.PageURL(r.baseURL, page), nil)
	if err != nil {
		return nil, fmt.Errorf("build request for page %d: %w", page, err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("token", r.token)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page %d: %w", page, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("fetch page %d: %w: %d", page, repository.ErrCatalogStatus, resp.StatusCode)
	}

	var body uploadsPage
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode page %d: %w", page, err)
	}
	return body.Files, nil
}
