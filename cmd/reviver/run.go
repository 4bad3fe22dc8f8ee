package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/stale-reviver/internal/adapter/catalog_http"
	"github.com/user/stale-reviver/internal/adapter/chromedp_visitor"
	"github.com/user/stale-reviver/internal/adapter/csvlog"
	"github.com/user/stale-reviver/internal/adapter/postgres"
	redis_adapter "github.com/user/stale-reviver/internal/adapter/redis"
	"github.com/user/stale-reviver/internal/delivery/http/handler"
	"github.com/user/stale-reviver/internal/delivery/http/router"
	"github.com/user/stale-reviver/internal/entity"
	"github.com/user/stale-reviver/internal/repository"
	"github.com/user/stale-reviver/internal/usecase"
	"github.com/user/stale-reviver/pkg/config"
	"github.com/user/stale-reviver/pkg/logger"
	"github.com/user/stale-reviver/pkg/metrics"
)

func runRevival(cmd *cobra.Command, opts *rootOptions) error {
	out := cmd.OutOrStdout()

	// --- Configuration ---
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.metricsAddr != "" {
		cfg.MetricsAddr = opts.metricsAddr
	}

	// --- Logger ---
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Metrics ---
	metrics.Init(prometheus.DefaultRegisterer)

	// --- Candidate source ---
	fmt.Fprintln(out, "[INFO] Fetching stale uploads")
	var retryCandidates []entity.Candidate
	if opts.retryFailed != "" {
		retryCandidates, err = csvlog.LoadRetryCandidates(opts.retryFailed, cfg.RetryURLPrefix)
		if err != nil {
			if errors.Is(err, csvlog.ErrNoValidURLs) {
				fmt.Fprintf(out, "[WARN] %v.\n", err)
			} else {
				fmt.Fprintf(out, "[ERROR] %v\n", err)
			}
			return nil
		}
		fmt.Fprintf(out, "[INFO] Retrying %d failed URLs from: %s\n", len(retryCandidates), opts.retryFailed)
	}

	// --- Optional stores ---
	ledger, closeRedis := openLedger(ctx, cfg, log)
	defer closeRedis()
	outcomes, closeDB := openOutcomeStore(ctx, cfg, log)
	defer closeDB()

	// --- Use Cases ---
	publicBase, err := url.Parse(cfg.PublicBaseURL)
	if err != nil {
		return fmt.Errorf("invalid PUBLIC_BASE_URL: %w", err)
	}
	logDir, err := cfg.ResolvedLogDir()
	if err != nil {
		return err
	}

	catalog := catalog_http.NewCatalogRepo(cfg.CatalogBaseURL, cfg.CatalogAPIToken, nil)
	filter := usecase.NewRecencyFilter(time.Now(), cfg.StaleThreshold())
	scanner := usecase.NewScanner(catalog, filter, publicBase, log)

	visitor := chromedp_visitor.NewChromedpVisitor(
		chromedp_visitor.NewIdentity(cfg.ProxyURLList(), cfg.UserAgentList()),
		chromedp_visitor.Options{DeadPageMarkers: cfg.DeadPageMarkerList()},
		log,
	)
	reviver := usecase.NewReviver(visitor, usecase.ReviverOptions{
		MaxRetries:     cfg.MaxRetries,
		AttemptTimeout: cfg.VisitTimeout(),
	}, log)

	tracker := usecase.NewProgressTracker()
	printer := newProgressPrinter(out)
	coordinator := usecase.NewCoordinator(reviver, usecase.CoordinatorOptions{
		Concurrency: cfg.WorkerCount(),
		FailureCap:  cfg.DiagnosticFailureCap,
		OnOutcome: func(p usecase.Progress) {
			tracker.Observe(p)
			printer.Print(p)
		},
	}, log)

	svc := usecase.NewRevivalService(usecase.ServiceDeps{
		Scanner:     scanner,
		Coordinator: coordinator,
		RunLog:      csvlog.NewRunLog(logDir),
		Outcomes:    outcomes,
		Ledger:      ledger,
		LedgerTTL:   cfg.LedgerTTL(),
		Tracker:     tracker,
		Logger:      log,
	})

	// --- Ops HTTP Server ---
	if cfg.MetricsAddr != "" {
		shutdown := startOpsServer(cfg.MetricsAddr, tracker, log)
		defer shutdown()
	}

	batch, err := svc.Collect(ctx, usecase.RunRequest{
		Selection:       entity.MediaSelection{Images: !opts.videosOnly, Videos: !opts.imagesOnly},
		Diagnostic:      opts.diagnostic,
		RetryCandidates: retryCandidates,
	})
	if err != nil {
		return err
	}
	if batch.Scan != nil && batch.Scan.Err != nil {
		fmt.Fprintf(out, "[WARN] Catalog scan ended early: %v\n", batch.Scan.Err)
	}

	total := len(batch.Candidates)
	if total == 0 {
		fmt.Fprintln(out, "[✓] No stale files found. Skipping processing and log creation.")
		return nil
	}
	fmt.Fprintf(out, "[→] Processing %d stale files...\n", total)
	fmt.Fprintf(out, "[INFO] Starting visit pool with %d workers\n", min(coordinator.Concurrency(), total))

	res := svc.Revive(ctx, batch)
	printSummary(out, res)
	return nil
}

func printSummary(out io.Writer, res *usecase.RunResult) {
	s := res.Summary
	if s.Halted {
		fmt.Fprintln(out, "[WARN] Failure cap reached in diagnostic mode. Skipping remaining tasks.")
	}
	if res.PersistErr != nil {
		fmt.Fprintf(out, "[!] Error writing logs: %v\n", res.PersistErr)
	}
	if res.Logs.Failed != "" {
		fmt.Fprintf(out, "[✓] Failures saved to %s\n", res.Logs.Failed)
	} else if s.Failed == 0 {
		fmt.Fprintln(out, "[✓] No failures to log.")
	}
	fmt.Fprintf(out, "[✓] Finished: %d attempted — %d OK, %d failed\n", s.Attempted, s.OK, s.Failed)
	if res.Logs.All != "" {
		fmt.Fprintf(out, "[✓] Log saved to %s\n", res.Logs.All)
	}
}

func openLedger(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.RevivalLedger, func()) {
	noop := func() {}
	if cfg.RedisAddr == "" {
		return nil, noop
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("Redis unavailable, revival ledger disabled", zap.String("addr", cfg.RedisAddr), zap.Error(err))
		_ = rdb.Close()
		return nil, noop
	}
	log.Info("Redis connection established", zap.String("addr", cfg.RedisAddr))
	return redis_adapter.NewLedgerRepo(rdb), func() { _ = rdb.Close() }
}

func openOutcomeStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (repository.OutcomeRepository, func()) {
	noop := func() {}
	if cfg.PostgresURL == "" {
		return nil, noop
	}
	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		log.Warn("Invalid POSTGRES_URL, outcome store disabled", zap.Error(err))
		return nil, noop
	}
	if err := pool.Ping(ctx); err != nil {
		log.Warn("PostgreSQL unavailable, outcome store disabled", zap.Error(err))
		pool.Close()
		return nil, noop
	}
	repo := postgres.NewOutcomeRepo(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Warn("Could not prepare outcome tables, outcome store disabled", zap.Error(err))
		pool.Close()
		return nil, noop
	}
	log.Info("PostgreSQL connection pool established")
	return repo, pool.Close
}

func startOpsServer(addr string, tracker *usecase.ProgressTracker, log *zap.Logger) func() {
	h := handler.NewHandler(tracker, log)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.New(h, prometheus.DefaultGatherer, log),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	go func() {
		log.Info("Starting ops server", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Ops server stopped", zap.String("addr", addr), zap.Error(err))
		}
	}()
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Warn("Ops server shutdown failed", zap.Error(err))
		}
	}
}
