package utils

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// HashURL creates a SHA256 hash of a URL string.
// This is useful for creating consistent, safe keys for Redis.
func HashURL(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(h[:])
}

// ToAbsoluteURL resolves a possibly relative URL against base.
func ToAbsoluteURL(base *url.URL, relative string) (string, error) {
	relURL, err := url.Parse(relative)
	if err != nil {
		return "", err
	}
	if base == nil {
		return relURL.String(), nil
	}
	return base.ResolveReference(relURL).String(), nil
}

// Extension returns the lower-cased extension of a file name, including the
// leading dot, or "" when there is none. Leading dots of the base name do not
// start an extension, so ".mp4" has none.
func Extension(name string) string {
	base := strings.TrimLeft(path.Base(name), ".")
	return strings.ToLower(path.Ext(base))
}

// PageURL joins a catalog base with the uploads path for a page number.
func PageURL(base string, page int) string {
	return fmt.Sprintf("%s/uploads/%d", strings.TrimRight(base, "/"), page)
}
