package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/JakeFAU/pesdb-crawler/internal/clock/system"
	"github.com/JakeFAU/pesdb-crawler/internal/config"
	"github.com/JakeFAU/pesdb-crawler/internal/crawler"
	collyfetcher "github.com/JakeFAU/pesdb-crawler/internal/fetcher/colly"
	"github.com/JakeFAU/pesdb-crawler/internal/id/uuid"
	"github.com/JakeFAU/pesdb-crawler/internal/logging"
	"github.com/JakeFAU/pesdb-crawler/internal/metrics"
	"github.com/JakeFAU/pesdb-crawler/internal/progress"
	"github.com/JakeFAU/pesdb-crawler/internal/storage/memory"
	"github.com/JakeFAU/pesdb-crawler/internal/storage/postgres"
)

// runIDs generates the id attached to every log line of a run.
var runIDs crawler.IDGenerator = uuid.New()

// app holds the services shared by every subcommand.
type app struct {
	cfg     config.Config
	logger  *zap.Logger
	debug   bool
	runID   string
	closers []func()
}

func buildApp(ctx context.Context, opts rootOptions) (*app, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := logging.New(cfg.Logging.Development, opts.debug)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	runID, err := runIDs.NewID()
	if err != nil {
		return nil, fmt.Errorf("run id: %w", err)
	}
	logger = logger.With(zap.String("run_id", runID))
	zap.ReplaceGlobals(logger)

	a := &app{cfg: cfg, logger: logger, debug: opts.debug, runID: runID}
	a.closers = append(a.closers, func() { _ = logger.Sync() })
	if cfg.Metrics.Addr != "" {
		a.startMetrics(ctx, cfg.Metrics.Addr)
	}
	return a, nil
}

// Close releases everything opened by the app in reverse order.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func (a *app) startMetrics(ctx context.Context, addr string) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           metrics.NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		a.logger.Info("metrics server started", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server error", zap.Error(err))
		}
	}()
	a.closers = append(a.closers, func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.logger.Warn("metrics server shutdown error", zap.Error(err))
		}
	})
}

// stores bundles the persistence interfaces used by the crawlers.
type stores struct {
	players crawler.PlayerStore
	refs    crawler.ReferenceStore
	cursors crawler.CursorStore
}

// openStores connects Postgres, applying migrations when configured. With no
// DSN the crawl runs against an in-memory store.
func (a *app) openStores(ctx context.Context) (stores, error) {
	if a.cfg.Database.DSN == "" {
		a.logger.Warn("database.dsn not set; using in-memory store, nothing will persist")
		mem := memory.NewStore()
		a.closers = append(a.closers, func() {
			a.logger.Info("in-memory store discarded", zap.Any("counts", mem.Counts()))
		})
		return stores{players: mem, refs: mem, cursors: mem}, nil
	}
	if a.cfg.Database.AutoMigrate {
		if err := a.migrateUp(); err != nil {
			return stores{}, err
		}
	}
	pg, err := postgres.New(ctx, postgres.Config{
		DSN:      a.cfg.Database.DSN,
		MaxConns: a.cfg.Database.MaxConns,
	})
	if err != nil {
		return stores{}, err
	}
	a.closers = append(a.closers, pg.Close)
	return stores{players: pg, refs: pg, cursors: pg}, nil
}

func (a *app) migrateUp() error {
	m, err := postgres.NewMigrator(a.cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			a.logger.Warn("close migrator", zap.Error(cerr))
		}
	}()
	changed, err := m.Up()
	if err != nil {
		return err
	}
	a.logger.Info("schema migrations checked", zap.Bool("applied", changed))
	return nil
}

// newFetcher builds the retrying fetcher for one site.
func (a *app) newFetcher(baseURL string) (crawler.Fetcher, error) {
	cfg := collyfetcher.Config{
		BaseURL:        baseURL,
		UserAgent:      a.cfg.HTTP.UserAgent,
		Accept:         a.cfg.HTTP.Accept,
		AcceptLanguage: a.cfg.HTTP.AcceptLanguage,
		AcceptEncoding: a.cfg.HTTP.AcceptEncoding,
		ConnectTimeout: a.cfg.HTTP.ConnectTimeout,
		Timeout:        a.cfg.HTTP.Timeout,
	}
	if a.debug {
		cfg.Debugger = &collyfetcher.ZapDebugger{Logger: a.logger.Named("wire")}
	}
	getter, err := collyfetcher.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("init fetcher: %w", err)
	}
	site := metrics.SanitizeSite(baseURL)
	return crawler.NewRetryingFetcher(getter, system.New(), a.cfg.RetryPolicy(), site,
		a.logger.Named("fetch").With(zap.String("site", site))), nil
}

// newProgress draws a terminal bar in development mode and logs progress
// otherwise. With --debug the bar is paired with per-row log lines.
func (a *app) newProgress() crawler.Progress {
	return a.progressTo(os.Stderr)
}

func (a *app) progressTo(w io.Writer) crawler.Progress {
	logged := progress.NewLog(a.logger.Named("progress"))
	if !a.cfg.Logging.Development {
		return logged
	}
	if a.debug {
		return progress.Tee{progress.NewBar(w), logged}
	}
	return progress.NewBar(w)
}
