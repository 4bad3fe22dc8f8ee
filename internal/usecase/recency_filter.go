package usecase

import (
	"strings"
	"time"

	"github.com/user/stale-reviver/internal/entity"
)

// LastVisitedLayout and LastVisitedSuffix make up the catalog's
// last_visited_at format. The suffix is literal text: "2026-01-02T15:04:05.000Z".
const (
	LastVisitedLayout = "2006-01-02T15:04:05"
	LastVisitedSuffix = ".000Z"
)

// DefaultStaleThreshold is how long an item may go unvisited before it is revived.
const DefaultStaleThreshold = 7 * 24 * time.Hour

var (
	videoExtensions = map[string]struct{}{
		".mp4": {}, ".mkv": {}, ".mov": {}, ".webm": {}, ".avi": {}, ".m4v": {},
	}
	imageExtensions = map[string]struct{}{
		".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".bmp": {}, ".webp": {},
	}
)

// RecencyFilter decides whether a catalog item is stale enough to revive.
// The reference time is fixed at construction so one scan is judged
// against a single instant.
type RecencyFilter struct {
	now       time.Time
	threshold time.Duration
}

// NewRecencyFilter creates a filter that judges staleness against now.
func NewRecencyFilter(now time.Time, threshold time.Duration) *RecencyFilter {
	return &RecencyFilter{now: now.UTC(), threshold: threshold}
}

// IsStale reports whether an item last visited at lastVisitedAt with the given
// extension (".mp4", case-insensitive) should be revived. Missing or
// unparsable timestamps are never stale.
func (f *RecencyFilter) IsStale(lastVisitedAt, ext string, sel entity.MediaSelection) bool {
	ts, ok := parseLastVisited(lastVisitedAt)
	if !ok {
		return false
	}
	if f.now.Sub(ts) <= f.threshold {
		return false
	}
	return matchesSelection(ext, sel)
}

// parseLastVisited accepts only the exact catalog format; a fraction other
// than the literal .000 is rejected.
func parseLastVisited(raw string) (time.Time, bool) {
	body, found := strings.CutSuffix(raw, LastVisitedSuffix)
	if !found || len(body) != len(LastVisitedLayout) {
		return time.Time{}, false
	}
	ts, err := time.Parse(LastVisitedLayout, body)
	if err != nil {
		return time.Time{}, false
	}
	return ts, true
}

func matchesSelection(ext string, sel entity.MediaSelection) bool {
	ext = normalizeExt(ext)
	if sel.Videos {
		if _, ok := videoExtensions[ext]; ok {
			return true
		}
	}
	if sel.Images {
		if _, ok := imageExtensions[ext]; ok {
			return true
		}
	}
	return false
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}
