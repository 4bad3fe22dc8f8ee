package usecase

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/user/stale-reviver/internal/entity"
)

func newTestScanner(catalog *fakeCatalog) *Scanner {
	base, _ := url.Parse("https://bunkr.pk")
	return NewScanner(catalog, NewRecencyFilter(testNow, DefaultStaleThreshold), base, zap.NewNop())
}

func TestScan(t *testing.T) {
	old := stamp(10 * 24 * time.Hour)
	fresh := stamp(time.Hour)

	t.Run("old video kept, fresh image dropped, stale items doubled", func(tt *testing.T) {
		catalog := &fakeCatalog{failAt: -1, pages: [][]entity.CatalogItem{{
			{Name: "clip.mp4", LastVisitedAt: old, FinalURL: "https://bunkr.pk/f/clip"},
			{Name: "pic.png", LastVisitedAt: fresh, FinalURL: "https://bunkr.pk/f/pic"},
		}}}

		res := newTestScanner(catalog).Scan(context.Background(), entity.AllMedia())

		assert.Equal(tt, []entity.Candidate{
			{FinalURL: "https://bunkr.pk/f/clip"},
			{FinalURL: "https://bunkr.pk/f/clip"},
		}, res.Candidates)
		assert.Equal(tt, StopEmptyPage, res.StopReason)
		assert.NoError(tt, res.Err)
		assert.Equal(tt, 1, res.Pages)
		assert.Equal(tt, 2, res.ItemsSeen)
		assert.Equal(tt, []int{0, 1}, catalog.fetched)
	})

	t.Run("pages are walked in order until an empty page", func(tt *testing.T) {
		catalog := &fakeCatalog{failAt: -1, pages: [][]entity.CatalogItem{
			{{Name: "a.mkv", LastVisitedAt: old, FinalURL: "/f/a"}},
			{{Name: "b.gif", LastVisitedAt: old, FinalURL: "/f/b"}, {Name: "c.zip", LastVisitedAt: old, FinalURL: "/f/c"}},
			{{Name: "d.webp", LastVisitedAt: "", FinalURL: "/f/d"}},
		}}

		res := newTestScanner(catalog).Scan(context.Background(), entity.AllMedia())

		assert.Equal(tt, candidatesFor(
			"https://bunkr.pk/f/a", "https://bunkr.pk/f/a",
			"https://bunkr.pk/f/b", "https://bunkr.pk/f/b",
		), res.Candidates)
		assert.Equal(tt, 3, res.Pages)
		assert.Equal(tt, []int{0, 1, 2, 3}, catalog.fetched)
	})

	t.Run("fetch error truncates silently", func(tt *testing.T) {
		catalog := &fakeCatalog{failAt: 1, pages: [][]entity.CatalogItem{
			{{Name: "a.avi", LastVisitedAt: old, FinalURL: "https://bunkr.pk/f/a"}},
			{{Name: "b.avi", LastVisitedAt: old, FinalURL: "https://bunkr.pk/f/b"}},
		}}

		res := newTestScanner(catalog).Scan(context.Background(), entity.AllMedia())

		assert.Len(tt, res.Candidates, 2)
		assert.Equal(tt, StopFetchError, res.StopReason)
		require.Error(tt, res.Err)
		assert.Equal(tt, []int{0, 1}, catalog.fetched)
	})

	t.Run("error on the first page yields an empty scan", func(tt *testing.T) {
		res := newTestScanner(&fakeCatalog{failAt: 0}).Scan(context.Background(), entity.AllMedia())
		assert.Empty(tt, res.Candidates)
		assert.Equal(tt, StopFetchError, res.StopReason)
	})

	t.Run("selection narrows categories", func(tt *testing.T) {
		catalog := &fakeCatalog{failAt: -1, pages: [][]entity.CatalogItem{{
			{Name: "a.mp4", LastVisitedAt: old, FinalURL: "/f/a"},
			{Name: "b.jpeg", LastVisitedAt: old, FinalURL: "/f/b"},
		}}}

		res := newTestScanner(catalog).Scan(context.Background(), entity.MediaSelection{Images: true})
		assert.Equal(tt, candidatesFor("https://bunkr.pk/f/b", "https://bunkr.pk/f/b"), res.Candidates)
	})

	t.Run("stale item without url is skipped", func(tt *testing.T) {
		catalog := &fakeCatalog{failAt: -1, pages: [][]entity.CatalogItem{{
			{Name: "a.mp4", LastVisitedAt: old},
		}}}
		res := newTestScanner(catalog).Scan(context.Background(), entity.AllMedia())
		assert.Empty(tt, res.Candidates)
	})
}
