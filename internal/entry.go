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
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/pebblesync/internal/api"
	"github.com/starford/pebblesync/internal/importer"
	"github.com/starford/pebblesync/internal/ledger"
	"github.com/starford/pebblesync/internal/mcpserver"
	"github.com/starford/pebblesync/internal/remote"
	"github.com/starford/pebblesync/internal/schedule"
	"github.com/starford/pebblesync/internal/sse"
	"github.com/starford/pebblesync/internal/storage"
	"github.com/starford/pebblesync/pkg/config"
)

// runtime bundles the wired components shared by the daemon and the
// one-shot commands.
type runtime struct {
	imp     *importer.Importer
	store   storage.Provider
	ledgers *ledger.Store
	broker  *sse.Broker
}

func (rt *runtime) close() {
	rt.broker.Close()
	_ = rt.ledgers.Close()
}

// buildRuntime wires the storage, persisted ledger, remote client and
// SSE broker into a ready importer. The caller owns close().
func buildRuntime(cfg *Config, logger *slog.Logger) (*runtime, error) {
	// Ensure vault directory exists.
	if err := os.MkdirAll(cfg.Vault.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create vault dir: %w", err)
	}

	store, err := storage.NewFS(cfg.Vault.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	ledgers, err := ledger.OpenStore(cfg.State.Path)
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}

	led, err := ledgers.Load()
	if err != nil {
		ledgers.Close()
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	logger.Info("Import ledger loaded", slog.Int("fingerprints", led.Len()))

	broker := sse.NewBroker()

	imp := importer.New(store, remote.NewClient(), led, ledgers, cfg.ImporterSettings(),
		importer.WithNotifier(broker),
		importer.WithLogger(logger),
	)
	return &runtime{imp: imp, store: store, ledgers: ledgers, broker: broker}, nil
}

// Run starts the sync daemon with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("vault_path", cfg.Vault.Path),
		slog.String("state_path", cfg.State.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	rt, err := buildRuntime(cfg, logger)
	if err != nil {
		return err
	}
	defer rt.close()

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
	r.Mount("/api", api.NewRouter(rt.imp, cfg.Auth.AuthEnabled(), cfg.Auth.Token, rt.broker))

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Automatic import runs.
	g.Go(func() error {
		schedule.Runner(gCtx, rt.imp, cfg.Sync.AutoRunInterval(), cfg.Sync.RunOnStart, logger)
		return nil
	})

	// Hot reload of sync settings on config file changes.
	if app.configPath != "" {
		configPath := app.configPath
		g.Go(func() error {
			err := schedule.WatchConfig(gCtx, configPath, logger, func() {
				reloaded := NewDefaultConfig()
				if err := config.Load(configPath, reloaded); err != nil {
					logger.Warn("config reload failed, keeping previous settings",
						slog.String("error", err.Error()))
					return
				}
				rt.imp.UpdateSettings(reloaded.ImporterSettings())
				logger.Info("config reloaded, settings apply on next run")
			})
			if err != nil {
				logger.Warn("config watch unavailable", slog.String("error", err.Error()))
			}
			return nil
		})
	}

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

// RunOnce performs a single import run and prints the summary. No HTTP
// server or scheduler is started.
func RunOnce(ctx context.Context, cfg *Config, force bool) error {
	rt, err := buildRuntime(cfg, newCLILogger(cfg))
	if err != nil {
		return err
	}
	defer rt.close()

	sum, err := rt.imp.Run(ctx, force)
	if err != nil {
		return err
	}
	fmt.Println(sum.String())
	return nil
}

// ResetHistory clears the persisted import ledger.
func ResetHistory(cfg *Config) error {
	rt, err := buildRuntime(cfg, newCLILogger(cfg))
	if err != nil {
		return err
	}
	defer rt.close()

	if err := rt.imp.ResetHistory(); err != nil {
		return err
	}
	fmt.Println("import history cleared")
	return nil
}

// RunMCP serves the MCP tool surface over stdio. Logs go to stderr so
// stdout stays clean for the protocol stream.
func RunMCP(cfg *Config) error {
	rt, err := buildRuntime(cfg, newCLILogger(cfg))
	if err != nil {
		return err
	}
	defer rt.close()

	return mcpserver.New(rt.imp, rt.store).ServeStdio()
}

// newCLILogger builds a stderr logger for the one-shot commands, keeping
// stdout free for command output.
func newCLILogger(cfg *Config) *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
}
