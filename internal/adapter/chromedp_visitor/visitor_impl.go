package chromedp_visitor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/user/stale-reviver/internal/repository"
)

const profilePrefix = "reviver_profile_"

// Options configures the headless browser used for revival visits.
type Options struct {
	// DeadPageMarkers are title substrings that mean the file is gone even
	// though the page loaded.
	DeadPageMarkers []string
	// TempDir holds the per-attempt profile directories. Defaults to os.TempDir().
	TempDir string
	// ExecPath overrides the Chrome binary lookup.
	ExecPath string
}

// ChromedpVisitor revives a URL by loading it in a fresh headless Chrome.
// Every visit runs in its own browser process with its own profile
// directory, so a stuck or crashed browser cannot affect other workers.
type ChromedpVisitor struct {
	identity *Identity
	opts     Options
	logger   *zap.Logger
}

// NewChromedpVisitor creates a new visitor implementation using chromedp.
func NewChromedpVisitor(identity *Identity, opts Options, logger *zap.Logger) repository.Visitor {
	if opts.TempDir == "" {
		opts.TempDir = os.TempDir()
	}
	return &ChromedpVisitor{identity: identity, opts: opts, logger: logger}
}

// Visit loads url once. The caller's context carries the per-attempt deadline.
func (v *ChromedpVisitor) Visit(ctx context.Context, url string) error {
	profileDir := filepath.Join(v.opts.TempDir, profilePrefix+uuid.NewString())
	if err := os.MkdirAll(profileDir, 0o700); err != nil {
		return fmt.Errorf("create browser profile: %w", err)
	}
	// Registered first so it runs after the browser has exited.
	defer func() {
		if rmErr := os.RemoveAll(profileDir); rmErr != nil {
			v.logger.Warn("Failed to remove browser profile", zap.String("dir", profileDir), zap.Error(rmErr))
		}
	}()

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, v.allocatorOptions(profileDir)...)
	defer cancelAlloc()

	sugar := v.logger.Sugar()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)
	defer cancelTask()

	var html string
	runErr := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if runErr != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(runErr, context.DeadlineExceeded) {
			return fmt.Errorf("%w: %v", repository.ErrVisitTimeout, runErr)
		}
		return fmt.Errorf("%w: %v", repository.ErrNavigationFailed, runErr)
	}

	page, err := inspectPage(html, v.opts.DeadPageMarkers)
	if err != nil {
		return err
	}
	v.logger.Debug("Visited URL", zap.String("url", url), zap.String("title", page.Title))
	return nil
}

func (v *ChromedpVisitor) allocatorOptions(profileDir string) []chromedp.ExecAllocatorOption {
	proxy := v.identity.Proxy()
	if proxy == "" {
		proxy = "direct://"
	}
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.ProxyServer(proxy),
		chromedp.Flag("proxy-bypass-list", "*"),
		chromedp.UserDataDir(profileDir),
	)
	if ua := v.identity.UserAgent(); ua != "" {
		opts = append(opts, chromedp.UserAgent(ua))
	}
	if v.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(v.opts.ExecPath))
	}
	return opts
}
