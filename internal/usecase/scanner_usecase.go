package usecase

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/user/stale-reviver/internal/entity"
	"github.com/user/stale-reviver/internal/repository"
	"github.com/user/stale-reviver/pkg/metrics"
	"github.com/user/stale-reviver/pkg/utils"
)

// StopReason explains why pagination ended.
type StopReason string

const (
	StopEmptyPage  StopReason = "empty_page"
	StopFetchError StopReason = "fetch_error"
)

// ScanResult is the candidate list of one catalog pass together with how the
// pass ended. A fetch error truncates the scan but is not fatal.
type ScanResult struct {
	Candidates []entity.Candidate
	Pages      int
	ItemsSeen  int
	StopReason StopReason
	Err        error
}

// Scanner pages through the catalog and keeps stale items.
type Scanner struct {
	catalog    repository.CatalogRepository
	filter     *RecencyFilter
	publicBase *url.URL
	logger     *zap.Logger
}

// NewScanner creates a scanner. publicBase, when set, resolves relative
// finalurl values into absolute ones.
func NewScanner(catalog repository.CatalogRepository, filter *RecencyFilter, publicBase *url.URL, logger *zap.Logger) *Scanner {
	return &Scanner{
		catalog:    catalog,
		filter:     filter,
		publicBase: publicBase,
		logger:     logger,
	}
}

// Scan walks pages 0, 1, 2, ... until a page is empty or a fetch fails.
// Candidate order follows catalog page and item order.
func (s *Scanner) Scan(ctx context.Context, sel entity.MediaSelection) ScanResult {
	var res ScanResult
	for page := 0; ; page++ {
		items, err := s.catalog.FetchPage(ctx, page)
		if err != nil {
			metrics.CatalogPagesTotal.WithLabelValues("error").Inc()
			s.logger.Warn("Catalog page fetch failed, ending scan early",
				zap.Int("page", page), zap.Int("candidates", len(res.Candidates)), zap.Error(err))
			res.StopReason = StopFetchError
			res.Err = err
			return res
		}
		if len(items) == 0 {
			metrics.CatalogPagesTotal.WithLabelValues("empty").Inc()
			res.StopReason = StopEmptyPage
			return res
		}
		metrics.CatalogPagesTotal.WithLabelValues("ok").Inc()
		res.Pages++
		res.ItemsSeen += len(items)

		for _, item := range items {
			if !s.filter.IsStale(item.LastVisitedAt, utils.Extension(item.Name), sel) {
				continue
			}
			finalURL, err := utils.ToAbsoluteURL(s.publicBase, item.FinalURL)
			if err != nil || item.FinalURL == "" {
				s.logger.Debug("Skipping stale item without a usable URL", zap.String("name", item.Name), zap.Error(err))
				continue
			}
			c := entity.Candidate{FinalURL: finalURL}
			// TODO: settle whether stale items should be queued once; run counts currently assume two per item.
			res.Candidates = append(res.Candidates, c, c)
		}
		s.logger.Debug("Scanned catalog page", zap.Int("page", page), zap.Int("items", len(items)), zap.Int("candidates", len(res.Candidates)))
	}
}
