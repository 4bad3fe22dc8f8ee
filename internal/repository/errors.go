package repository

import "errors"

var (
	ErrVisitTimeout     = errors.New("visit timed out")
	ErrNavigationFailed = errors.New("navigation failed")
	ErrDeadPage         = errors.New("page reports the file as unavailable")
	ErrCatalogStatus    = errors.New("catalog returned a non-200 status")
)

// ErrorType maps an attempt error to a short label for metrics.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrVisitTimeout):
		return "timeout"
	case errors.Is(err, ErrNavigationFailed):
		return "navigation"
	case errors.Is(err, ErrDeadPage):
		return "dead_page"
	default:
		return "unknown"
	}
}
