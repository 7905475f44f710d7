package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/civicpoint/taxassist-ai-platform/internal/api/router"
	"github.com/civicpoint/taxassist-ai-platform/internal/bookings"
	appconfig "github.com/civicpoint/taxassist-ai-platform/internal/config"
	"github.com/civicpoint/taxassist-ai-platform/internal/conversation"
	"github.com/civicpoint/taxassist-ai-platform/internal/http/handlers"
	observemetrics "github.com/civicpoint/taxassist-ai-platform/internal/observability/metrics"
	"github.com/civicpoint/taxassist-ai-platform/pkg/logging"
)

func main() {
	// .env is a development convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting taxassist API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Snapshot persistence is optional; without Redis, sessions live only in
	// process memory.
	var snapshots conversation.SnapshotStore
	if cfg.RedisAddr != "" {
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(opts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Error("redis unreachable", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		snapshots = conversation.NewRedisSnapshotStore(client, cfg.SnapshotTTL, nil)
		logger.Info("session snapshots enabled", "addr", cfg.RedisAddr)
	}

	// Booking storage falls back to memory when no database is configured.
	var bookingRepo bookings.Repository = bookings.NewMemoryRepository()
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			logger.Error("open database", "error", err)
			os.Exit(1)
		}
		defer func() { _ = db.Close() }()
		if err := db.Ping(); err != nil {
			logger.Error("database unreachable", "error", err)
			os.Exit(1)
		}
		bookingRepo = bookings.NewSQLRepository(db)
		logger.Info("booking persistence enabled")
	}

	registry := prometheus.NewRegistry()
	convMetrics := observemetrics.NewConversationMetrics(registry)

	resolver := conversation.NewDateResolver(cfg.BusinessOpenHour, cfg.BusinessCloseHour, cfg.DateHorizonDays)
	engine := conversation.NewEngine(resolver, conversation.NewDefaultTemplates(), cfg.BookingHorizonDays)
	store := conversation.NewSessionStore(engine, conversation.NewKeywordLanguageDetector(), snapshots, logger, cfg.SessionIdleTTL)
	bookingService := bookings.NewService(bookingRepo, cfg.BookingDailyCap, logger)

	sessionHandler := handlers.NewSessionHandler(handlers.SessionHandlerConfig{
		Store:    store,
		Bookings: bookingService,
		Metrics:  convMetrics,
		Logger:   logger,
	})
	dateHandler := handlers.NewDateHandler(resolver, convMetrics)

	handler := router.New(&router.Config{
		Logger:             logger,
		Sessions:           sessionHandler,
		Dates:              dateHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Periodically drop sessions idle past the TTL; their snapshots keep the
	// conversation recoverable.
	sweepDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(cfg.SessionSweepEvery)
		defer ticker.Stop()
		for {
			select {
			case now := <-ticker.C:
				store.Sweep(now)
				convMetrics.SetActiveSessions(store.ActiveCount())
			case <-sweepDone:
				return
			}
		}
	}()

	go func() {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")
	close(sweepDone)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("stopped")
}
