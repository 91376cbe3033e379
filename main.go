package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kinneerd/Cordkeeper/internal/config"
	"github.com/kinneerd/Cordkeeper/internal/handler"
	"github.com/kinneerd/Cordkeeper/internal/repository/sqlite"
	"github.com/kinneerd/Cordkeeper/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	level, err := cfg.SlogLevel()
	if err != nil {
		slog.Error("invalid log level", "error", err)
		os.Exit(1)
	}

	logOpts := &slog.HandlerOptions{Level: level}
	logger := slog.New(slog.NewMultiHandler(
		slog.NewTextHandler(os.Stdout, logOpts),
		slog.NewJSONHandler(os.Stderr, logOpts),
	))
	slog.SetDefault(logger)

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		slog.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Migrate(context.Background()); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("database migrations applied")

	authService := service.NewAuthService(db.Accounts(), cfg.JWTSecret, cfg.BcryptCost)
	settingsService := service.NewSettingsService(db.Settings())
	fireService := service.NewFireService(db.Fires())
	statsService := service.NewStatsService(db.Fires(), settingsService)

	// Ensure the season configuration row exists (idempotent).
	if _, err := settingsService.Load(context.Background()); err != nil {
		slog.Error("failed to load season settings", "error", err)
		os.Exit(1)
	}
	slog.Info("season settings loaded")

	// Every fire or settings change invalidates the cached season snapshot.
	fireService.OnChange(statsService.Invalidate)
	settingsService.OnChange(statsService.Invalidate)

	// Allow a burst of 5 login attempts per IP, then one every two seconds.
	loginLimiter := service.NewLoginLimiter(0.5, 5)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authService, fireService, statsService, settingsService, loginLimiter, cfg.CookieSecure)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
