package chromedp_visitor

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/user/stale-reviver/internal/repository"
)

type pageInfo struct {
	Title string
}

// inspectPage parses the rendered document and fails when its title carries
// one of the dead-page markers (case-insensitive).
func inspectPage(html string, deadMarkers []string) (pageInfo, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return pageInfo{}, fmt.Errorf("parse rendered page: %w", err)
	}
	info := pageInfo{Title: strings.TrimSpace(doc.Find("title").First().Text())}

	lower := strings.ToLower(info.Title)
	for _, marker := range deadMarkers {
		if marker != "" && strings.Contains(lower, strings.ToLower(marker)) {
			return info, fmt.Errorf("%w: title %q", repository.ErrDeadPage, info.Title)
		}
	}
	return info, nil
}
