package csvlog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/user/stale-reviver/internal/entity"
)

var (
	ErrRetryFileNotFound = errors.New("retry file not found")
	ErrMissingURLColumn  = errors.New("retry file missing 'URL' column")
	ErrNoValidURLs       = errors.New("no valid URLs found in retry file")
)

// LoadRetryCandidates reads a previous run log and returns the URLs in its
// URL column that start with prefix, in file order.
func LoadRetryCandidates(path, prefix string) ([]entity.Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRetryFileNotFound, path)
		}
		return nil, fmt.Errorf("open retry file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	head, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingURLColumn
		}
		return nil, fmt.Errorf("read retry file header: %w", err)
	}
	col := -1
	for i, name := range head {
		if strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) == "URL" {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, ErrMissingURLColumn
	}

	var candidates []entity.Candidate
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read retry file: %w", err)
		}
		if col >= len(rec) {
			continue
		}
		if u := rec[col]; u != "" && strings.HasPrefix(u, prefix) {
			candidates = append(candidates, entity.Candidate{FinalURL: u})
		}
	}
	if len(candidates) == 0 {
		return nil, ErrNoValidURLs
	}
	return candidates, nil
}
