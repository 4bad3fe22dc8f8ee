package chromedp_visitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/stale-reviver/internal/repository"
)

func TestInspectPage(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		markers []string
		title   string
		dead    bool
	}{
		{"live page", `<html><head><title> clip.mp4 | Bunkr </title></head><body></body></html>`, []string{"404"}, "clip.mp4 | Bunkr", false},
		{"dead page by marker", `<html><head><title>File Not Found</title></head></html>`, []string{"not found"}, "File Not Found", true},
		{"no markers configured", `<html><head><title>404</title></head></html>`, nil, "404", false},
		{"missing title", `<html><body>hi</body></html>`, []string{"404"}, "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(tt *testing.T) {
			info, err := inspectPage(tc.html, tc.markers)
			assert.Equal(tt, tc.title, info.Title)
			if tc.dead {
				require.Error(tt, err)
				assert.ErrorIs(tt, err, repository.ErrDeadPage)
				return
			}
			assert.NoError(tt, err)
		})
	}
}
