// Package main is the entrypoint for the WaveOrder API server.
package main

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

	"github.com/waveorder/waveorder/internal/api"
	"github.com/waveorder/waveorder/internal/api/handler"
	mw "github.com/waveorder/waveorder/internal/api/middleware"
	"github.com/waveorder/waveorder/internal/api/response"
	"github.com/waveorder/waveorder/internal/auth"
	"github.com/waveorder/waveorder/internal/config"
	"github.com/waveorder/waveorder/internal/metrics"
	"github.com/waveorder/waveorder/internal/ratelimit"
	"github.com/waveorder/waveorder/internal/store"
)

const shutdownTimeout = 30 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := run(); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config — fail fast on invalid config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	slog.Info("config loaded", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Connect to database
	pool, err := store.Connect(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()
	slog.Info("database connected")

	// 3. Run migrations
	if err := store.RunMigrations(cfg.Database.URL, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	// 4. Connect the rate limiter
	limiter, err := ratelimit.NewRedisLimiter(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("create rate limiter: %w", err)
	}
	defer limiter.Close()

	if err := limiter.Ping(ctx); err != nil {
		return fmt.Errorf("ping redis: %w", err)
	}
	slog.Info("redis connected")

	// 5. Wire the authentication flow
	pgStore := store.NewPostgresStore(pool)
	authMetrics := metrics.NewAuthMetrics()
	authenticator := auth.NewAuthenticator(pgStore, limiter, authMetrics)

	deps := api.Dependencies{
		Auth: mw.NewAuth(authenticator),

		HealthHandler: healthHandler(pgStore, limiter),

		ListProducts:  handler.NewListProductsHandler(pgStore),
		CreateProduct: handler.NewCreateProductHandler(pgStore),
		ListOrders:    handler.NewListOrdersHandler(pgStore),

		CreateKey:     handler.NewCreateKeyHandler(pgStore, cfg.Keys),
		ListKeys:      handler.NewListKeysHandler(pgStore),
		RevokeKey:     handler.NewRevokeKeyHandler(pgStore),
		RegenerateKey: handler.NewRegenerateKeyHandler(pgStore),
		ListAudit:     handler.NewListAuditHandler(pgStore),
	}

	router := api.NewRouter(deps)

	// 6. Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		slog.Info("shutdown signal received, draining connections...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// healthHandler checks database and rate-limiter connectivity.
func healthHandler(s store.Store, l ratelimit.Limiter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := map[string]string{
			"database": "ok",
			"redis":    "ok",
		}

		if err := s.Ping(r.Context()); err != nil {
			checks["database"] = "degraded"
		}
		if err := l.Ping(r.Context()); err != nil {
			checks["redis"] = "degraded"
		}

		if checks["database"] != "ok" || checks["redis"] != "ok" {
			response.Error(w, http.StatusServiceUnavailable, "DEGRADED",
				"One or more services degraded", checks)
			return
		}

		response.JSON(w, map[string]any{
			"status":   "ok",
			"services": checks,
		})
	}
}
