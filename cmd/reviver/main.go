package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootOptions holds the flag values of one command instance.
type rootOptions struct {
	configPath  string
	videosOnly  bool
	imagesOnly  bool
	diagnostic  bool
	retryFailed string
	metricsAddr string
}

// newRootCmd creates the reviver command with its own flag set.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "reviver",
		Short: "Revive stale catalog uploads by visiting them in a headless browser",
		Long: `reviver pages through the uploads catalog, keeps files whose last visit is
older than the staleness threshold, and visits each one with a pool of headless
Chrome workers so its last-visit timestamp is refreshed.

A CSV log of every outcome is written per run, plus a second CSV with only the
failures. Pass that file to --retry-failed to retry just those URLs.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRevival(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", ".env", "env-style config file")
	flags.BoolVar(&opts.videosOnly, "videos-only", false, "only include video files")
	flags.BoolVar(&opts.imagesOnly, "images-only", false, "only include image files")
	flags.BoolVar(&opts.diagnostic, "diagnostic", false, "single attempt per URL and stop after repeated failures")
	flags.StringVar(&opts.retryFailed, "retry-failed", "", "CSV file of failed URLs to retry instead of scanning")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics and /api/progress on this address (overrides METRICS_ADDR)")
	cmd.MarkFlagsMutuallyExclusive("videos-only", "images-only")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
