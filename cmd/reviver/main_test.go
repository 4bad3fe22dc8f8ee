package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/stale-reviver/internal/entity"
	"github.com/user/stale-reviver/internal/repository"
	"github.com/user/stale-reviver/internal/usecase"
)

func TestProgressPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := newProgressPrinter(&buf)
	p.Print(usecase.Progress{Done: 1, Total: 4, OK: 1, Outcome: entity.VisitOutcome{Status: entity.StatusOK}})
	p.Print(usecase.Progress{Done: 2, Total: 4, OK: 1, Failed: 1, Outcome: entity.VisitOutcome{Status: entity.StatusFailed}})

	assert.Equal(t, "[✓] 1/4 Complete — OK: 1 | Failed: 0\n[✗] 2/4 Complete — OK: 1 | Failed: 1\n", buf.String())
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &usecase.RunResult{
		Summary: entity.Summary{Attempted: 10, OK: 0, Failed: 10, Halted: true},
		Logs:    repository.LogPaths{All: "/logs/all.csv", Failed: "/logs/failed.csv"},
	})
	out := buf.String()
	assert.Contains(t, out, "Failure cap reached")
	assert.Contains(t, out, "Failures saved to /logs/failed.csv")
	assert.Contains(t, out, "Finished: 10 attempted — 0 OK, 10 failed")
	assert.Contains(t, out, "Log saved to /logs/all.csv")
	assert.NotContains(t, out, "No failures to log")
}

func TestRetryFileErrorsStopBeforeRunning(t *testing.T) {
	dir := t.TempDir()
	retry := filepath.Join(dir, "failed.csv")
	require.NoError(t, os.WriteFile(retry, []byte("Link\nhttps://bunkr.pk/f/a\n"), 0o600))
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))

	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetArgs([]string{"--config", filepath.Join(dir, "none.env"), "--retry-failed", retry})

	require.NoError(t, cmd.Execute())
	assert.True(t, strings.Contains(buf.String(), "[ERROR] retry file missing 'URL' column"))
	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestVideosAndImagesOnlyAreExclusive(t *testing.T) {
	var buf bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"--videos-only", "--images-only"})

	assert.Error(t, cmd.Execute())
}

func TestCommandsDoNotShareFlagState(t *testing.T) {
	first := newRootCmd()
	first.SetOut(io.Discard)
	first.SetErr(io.Discard)
	first.SetArgs([]string{"--videos-only", "--images-only"})
	require.Error(t, first.Execute())

	dir := t.TempDir()
	retry := filepath.Join(dir, "failed.csv")
	require.NoError(t, os.WriteFile(retry, []byte("Link\n"), 0o600))
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))

	var buf bytes.Buffer
	second := newRootCmd()
	second.SetOut(&buf)
	second.SetArgs([]string{"--config", filepath.Join(dir, "none.env"), "--videos-only", "--retry-failed", retry})

	require.NoError(t, second.Execute())
	assert.Contains(t, buf.String(), "[ERROR] retry file missing 'URL' column")
	assert.False(t, second.Flags().Changed("images-only"))
}
