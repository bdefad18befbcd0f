// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/starford/yeargoals/internal/account"
	"github.com/starford/yeargoals/internal/api"
	"github.com/starford/yeargoals/internal/apperr"
	"github.com/starford/yeargoals/internal/attendance"
	"github.com/starford/yeargoals/internal/auth"
	"github.com/starford/yeargoals/internal/calendar"
	"github.com/starford/yeargoals/internal/clock"
	"github.com/starford/yeargoals/internal/goal"
	"github.com/starford/yeargoals/internal/logging"
	"github.com/starford/yeargoals/internal/mcpserver"
	"github.com/starford/yeargoals/internal/models"
	"github.com/starford/yeargoals/internal/planner"
	"github.com/starford/yeargoals/internal/reminder"
	"github.com/starford/yeargoals/internal/social"
	"github.com/starford/yeargoals/internal/store"
	pkgconfig "github.com/starford/yeargoals/pkg/config"
)

// runtime is everything Run and RunMCP share.
type runtime struct {
	cfg    *Config
	logger *logging.Logger
	db     *store.DB
	clock  clock.Clock
	issuer *auth.Issuer
	svcs   api.Services
}

func (rt *runtime) Close() {
	if err := rt.db.Close(); err != nil {
		rt.logger.Error("close database", slog.String("error", err.Error()))
	}
	_ = rt.logger.Close()
}

// setup builds the logger, opens the database and wires the services.
func setup(ctx context.Context, console io.Writer, opts ...Option) (*runtime, *application, error) {
	app := &application{}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return nil, nil, fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger, err := logging.New(logging.Config{
		Level:   cfg.App.LogLevel,
		File:    cfg.App.LogFile,
		Console: console,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(logger.Logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("auth_mode", cfg.Auth.Mode),
		slog.String("timezone", cfg.Clock.Timezone),
		slog.String("calendar_policy", cfg.Calendar.Policy),
		slog.String("log_level", cfg.App.LogLevel.String()))

	clk := app.clock
	if clk == nil {
		sys, err := clock.NewSystem(cfg.Clock.Timezone)
		if err != nil {
			_ = logger.Close()
			return nil, nil, err
		}
		clk = sys
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SQLite.Path), 0o755); err != nil {
		_ = logger.Close()
		return nil, nil, fmt.Errorf("create data dir: %w", err)
	}

	db, err := store.Open(cfg.SQLite.Path)
	if err != nil {
		_ = logger.Close()
		return nil, nil, fmt.Errorf("init store: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger, db: db, clock: clk}

	secret := cfg.Auth.Secret
	if !cfg.Auth.AuthEnabled() && secret == "" {
		// Sessions are never checked in this mode, but register and login still sign one.
		secret = uuid.NewString()
	}
	rt.issuer = auth.NewIssuer(secret, cfg.Auth.TokenTTL, clk)

	if !cfg.Auth.AuthEnabled() {
		if err := ensureDevUser(ctx, db, cfg.Auth.DevUserID, clk); err != nil {
			rt.Close()
			return nil, nil, fmt.Errorf("ensure dev user: %w", err)
		}
	}

	rt.svcs = api.Services{
		Accounts:   account.NewService(db, rt.issuer, clk),
		Attendance: attendance.NewService(db, clk),
		Calendar:   calendar.NewService(db, clk, calendar.Policy(cfg.Calendar.Policy)),
		Goals:      goal.NewService(db, clk),
		Planner:    planner.NewService(db, clk),
		Social:     social.NewService(db, clk),
		Reminders:  reminder.NewService(db, db, db, clk),
	}
	return rt, app, nil
}

// ensureDevUser creates the single local user on first start.
func ensureDevUser(ctx context.Context, db *store.DB, id string, clk clock.Clock) error {
	_, err := db.GetUser(ctx, id)
	if err == nil || !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	now := clk.Now()
	_, err = db.CreateUser(ctx, models.User{
		ID:        id,
		Email:     id + "@localhost",
		FirstName: id,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return err
	}
	slog.Info("dev user created", slog.String("user_id", id))
	return nil
}

// Run starts the HTTP server with the given options.
func Run(ctx context.Context, opts ...Option) error {
	rt, app, err := setup(ctx, os.Stdout, opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	cfg, logger := rt.cfg, rt.logger

	routerCfg := api.RouterConfig{
		DevUserID: cfg.Auth.DevUserID,
		TokenTTL:  cfg.Auth.TokenTTL,
	}
	if cfg.Auth.AuthEnabled() {
		routerCfg.Tokens = rt.issuer
	}
	apiRouter := api.NewRouter(rt.svcs, routerCfg)

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
	r.Get("/health/ready", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := rt.db.Ping(req.Context()); err != nil {
			logger.Error("readiness check failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Reload the log level when the config file changes.
	if app.configPath != "" {
		g.Go(func() error {
			err := pkgconfig.Watch(gCtx, app.configPath, logger.Logger, func() {
				next := NewDefaultConfig()
				if err := pkgconfig.Load(app.configPath, next); err != nil {
					logger.Warn("config reload rejected", slog.String("error", err.Error()))
					return
				}
				logger.SetLevel(next.App.LogLevel)
			})
			if err != nil {
				logger.Warn("config watcher disabled", slog.String("error", err.Error()))
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
		defer signal.Stop(quit)

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

		// Stops the config watcher.
		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

var errShutdown = errors.New("shutdown")

// RunMCP serves the MCP tools on stdio, acting as userID.
// Logs go to stderr since stdout carries the protocol.
func RunMCP(ctx context.Context, userID string, opts ...Option) error {
	rt, _, err := setup(ctx, os.Stderr, opts...)
	if err != nil {
		return err
	}
	defer rt.Close()

	if userID == "" {
		userID = rt.cfg.Auth.DevUserID
	}
	if userID == "" {
		return fmt.Errorf("mcp: user id is required")
	}
	if _, err := rt.db.GetUser(ctx, userID); err != nil {
		return fmt.Errorf("mcp: user %q: %w", userID, err)
	}

	srv := mcpserver.New(mcpserver.Services{
		Attendance: rt.svcs.Attendance,
		Calendar:   rt.svcs.Calendar,
		Goals:      rt.svcs.Goals,
		Reminders:  rt.svcs.Reminders,
		Clock:      rt.clock,
	}, userID)

	rt.logger.Info("MCP server starting on stdio", slog.String("user_id", userID))
	return srv.ServeStdio()
}
