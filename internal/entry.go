// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/baptistepoirier-code/adtech-intelligence/internal/api"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/apperr"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/archive"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/feed"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/ingest"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/mcpserver"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/models"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/pipeline"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/profile"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/publish"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/sse"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/storage"
	"github.com/baptistepoirier-code/adtech-intelligence/internal/taxonomy"
	pkgconfig "github.com/baptistepoirier-code/adtech-intelligence/pkg/config"
)

// runtime bundles the long-lived components shared by run-once, serve,
// and MCP modes.
type runtime struct {
	cfg        *Config
	logger     *slog.Logger
	reader     *ingest.Reader
	pipe       *pipeline.Pipeline
	pub        *publish.Writer
	arch       *archive.Store
	thresholds profile.Thresholds
}

func newRuntime(cfg *Config, logger *slog.Logger) (*runtime, error) {
	if err := os.MkdirAll(filepath.Join(cfg.Data.Dir, ingest.PendingDir), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	tax, strategy, thresholds := loadProfiles(cfg, logger)
	matcher := taxonomy.NewMatcher(tax)

	archPath := cfg.Archive.Path
	if dir := filepath.Dir(archPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
	}
	arch, err := archive.Open(archPath, logger)
	if err != nil {
		return nil, fmt.Errorf("init archive: %w", err)
	}

	return &runtime{
		cfg:        cfg,
		logger:     logger,
		reader:     ingest.NewReader(store, logger),
		pipe:       pipeline.New(matcher, strategy, thresholds, logger),
		pub:        publish.NewWriter(store),
		arch:       arch,
		thresholds: thresholds,
	}, nil
}

func (rt *runtime) close() {
	if err := rt.arch.Close(); err != nil {
		rt.logger.Warn("archive close failed", slog.String("error", err.Error()))
	}
}

// loadProfiles loads the taxonomy, strategy profile, and thresholds from
// the configured YAML paths. A missing or unreadable file falls back to
// the built-in defaults with a warning; a bad profile must never block
// the daily run.
func loadProfiles(cfg *Config, logger *slog.Logger) (*taxonomy.Taxonomy, *profile.StrategyProfile, profile.Thresholds) {
	tax := taxonomy.Default()
	if ok, err := pkgconfig.LoadOptional(cfg.Profiles.Taxonomy, tax); err != nil {
		logger.Warn("taxonomy profile unreadable, using defaults",
			slog.String("path", cfg.Profiles.Taxonomy), slog.String("error", err.Error()))
		tax = taxonomy.Default()
	} else if ok {
		logger.Info("taxonomy profile loaded", slog.String("path", cfg.Profiles.Taxonomy))
	}

	strategy := profile.DefaultStrategy()
	if ok, err := pkgconfig.LoadOptional(cfg.Profiles.Strategy, strategy); err != nil {
		logger.Warn("strategy profile unreadable, using defaults",
			slog.String("path", cfg.Profiles.Strategy), slog.String("error", err.Error()))
		strategy = profile.DefaultStrategy()
	} else if ok {
		logger.Info("strategy profile loaded", slog.String("path", cfg.Profiles.Strategy))
	}

	thresholds := profile.DefaultThresholds()
	if ok, err := pkgconfig.LoadOptional(cfg.Profiles.Thresholds, &thresholds); err != nil {
		logger.Warn("thresholds profile unreadable, using defaults",
			slog.String("path", cfg.Profiles.Thresholds), slog.String("error", err.Error()))
		thresholds = profile.DefaultThresholds()
	} else if ok {
		logger.Info("thresholds profile loaded", slog.String("path", cfg.Profiles.Thresholds))
	}

	return tax, strategy, thresholds
}

// runOnce executes one full pipeline pass: load pending drops, score and
// select, publish the digest, merge high scorers into the archive, prune,
// and move the consumed drops out of pending/. Returns apperr.ErrNoItems
// when pending/ holds no records.
func (rt *runtime) runOnce(now time.Time) (sse.RunStats, error) {
	records, consumed, err := rt.reader.LoadPending()
	if err != nil {
		return sse.RunStats{}, err
	}
	if len(records) == 0 {
		return sse.RunStats{}, apperr.ErrNoItems
	}

	res := rt.pipe.Run(records)

	if err := rt.pub.Publish(res); err != nil {
		return sse.RunStats{}, err
	}

	added, err := rt.arch.Merge(archiveCandidates(res.Items, rt.thresholds.ArchiveMinScore, now))
	if err != nil {
		return sse.RunStats{}, err
	}
	evicted, err := rt.arch.Prune(rt.thresholds.ArchiveMaxItems)
	if err != nil {
		return sse.RunStats{}, err
	}

	if err := rt.reader.MarkProcessed(consumed, now); err != nil {
		return sse.RunStats{}, err
	}

	stats := sse.RunStats{
		GeneratedAt:   res.Summary.GeneratedAt,
		ActiveItems:   res.Summary.Tiles.ActiveItems,
		NoiseFiltered: res.Summary.Tiles.NoiseFiltered,
		KeySignals:    len(res.Summary.KeySignals),
		ArchiveAdded:  added,
	}
	rt.logger.Info("run completed",
		slog.Int("records", len(records)),
		slog.Int("active", stats.ActiveItems),
		slog.Int("noise", stats.NoiseFiltered),
		slog.Int("duplicates_removed", res.DuplicatesRemoved),
		slog.Int("archive_added", added),
		slog.Int("archive_evicted", evicted))
	return stats, nil
}

// archiveCandidates projects the non-noise items at or above minScore
// into archive entries stamped with the run time.
func archiveCandidates(items []models.Item, minScore int, now time.Time) []models.ArchiveEntry {
	var out []models.ArchiveEntry
	for _, it := range items {
		if it.IsNoise || it.PriorityScore < minScore {
			continue
		}
		out = append(out, models.ArchiveEntry{
			ID:            it.ID,
			Title:         it.Title,
			URL:           it.URL,
			Source:        it.Source,
			SourceType:    it.SourceType,
			SourceTier:    it.SourceTier,
			PublishedAt:   it.PublishedAt,
			ArchivedAt:    now.UTC(),
			PriorityScore: it.PriorityScore,
			SignalType:    it.SignalType,
			WhyItMatters:  it.WhyItMatters,
			Topics:        it.Topics,
			Entities:      it.Entities,
			IsHSI:         it.IsHSI,
		})
	}
	return out
}

func newLogger(cfg *Config) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)
	return logger
}

// RunOnce performs a single pipeline run and exits.
func RunOnce(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	logger := newLogger(app.config)
	rt, err := newRuntime(app.config, logger)
	if err != nil {
		return err
	}
	defer rt.close()
	rt.pipe.Now = app.now

	if _, err := rt.runOnce(app.now()); err != nil {
		if errors.Is(err, apperr.ErrNoItems) {
			logger.Info("no pending drops, nothing to do")
			return nil
		}
		return err
	}
	return nil
}

// ServeMCP starts the stdio MCP server over the published digest and archive.
func ServeMCP(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	// MCP speaks JSON-RPC on stdout; logs must go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: app.config.App.LogLevel,
	}))
	rt, err := newRuntime(app.config, logger)
	if err != nil {
		return err
	}
	defer rt.close()

	svc := feed.NewService(rt.pub, rt.arch)
	logger.Info("MCP server starting on stdio")
	return mcpserver.New(svc).ServeStdio()
}

// Run starts serve mode: the pending-dir watcher, the HTTP API, and the
// SSE event stream, with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config
	logger := newLogger(cfg)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("data_dir", cfg.Data.Dir),
		slog.String("archive_path", cfg.Archive.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := newRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.close()
	rt.pipe.Now = app.now

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	// Build API service and router.
	svc := feed.NewService(rt.pub, rt.arch)
	apiRouter := api.NewRouter(svc, cfg.Auth.AuthEnabled(), cfg.Auth.Token, http.HandlerFunc(broker.ServeHTTP))

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Consume anything already sitting in pending/ before watching.
	if stats, runErr := rt.runOnce(app.now()); runErr != nil {
		if !errors.Is(runErr, apperr.ErrNoItems) {
			logger.Warn("initial run failed", slog.String("error", runErr.Error()))
		}
	} else {
		broker.PublishRunCompleted(stats)
	}

	// Start the pending-dir watcher; each settled drop burst triggers a run.
	g.Go(func() error {
		return ingest.Watch(gCtx, cfg.Data.Dir, logger, func() {
			stats, runErr := rt.runOnce(app.now())
			if runErr != nil {
				if !errors.Is(runErr, apperr.ErrNoItems) {
					logger.Error("run failed", slog.String("error", runErr.Error()))
				}
				return
			}
			broker.PublishRunCompleted(stats)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}
