package utils

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashURL(t *testing.T) {
	a := HashURL("https://bunkr.pk/f/abc")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashURL("https://bunkr.pk/f/abc"))
	assert.NotEqual(t, a, HashURL("https://bunkr.pk/f/abd"))
}

func TestToAbsoluteURL(t *testing.T) {
	base, err := url.Parse("https://bunkr.pk")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"/f/abc", "https://bunkr.pk/f/abc"},
		{"f/abc", "https://bunkr.pk/f/abc"},
		{"https://cdn.example.com/f/x", "https://cdn.example.com/f/x"},
	}
	for _, tc := range tests {
		got, err := ToAbsoluteURL(base, tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.in)
	}

	got, err := ToAbsoluteURL(nil, "/f/abc")
	require.NoError(t, err)
	assert.Equal(t, "/f/abc", got)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".mp4", Extension("clip.MP4"))
	assert.Equal(t, ".png", Extension("dir/holiday.final.png"))
	assert.Equal(t, "", Extension("README"))
	assert.Equal(t, "", Extension(".mp4"))
	assert.Equal(t, "", Extension("dir/..png"))
	assert.Equal(t, ".gz", Extension(".tar.gz"))
	assert.Equal(t, ".webm", Extension(".hidden.WEBM"))
}

func TestPageURL(t *testing.T) {
	assert.Equal(t, "https://dash.bunkr.cr/api/uploads/0", PageURL("https://dash.bunkr.cr/api", 0))
	assert.Equal(t, "http://127.0.0.1:9/uploads/12", PageURL("http://127.0.0.1:9/", 12))
}
