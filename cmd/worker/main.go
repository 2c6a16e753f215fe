// Copyright (c) 2026 Qissa. All rights reserved.
// Author: platform@qissa.app

// Command worker is the entry point for the Qissa moderation service.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis.
//  5. Run database migrations (idempotent).
//  6. Wire the pipeline: transcription, screening, stores, task queue.
//  7. Start the worker pool and the HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qissahq/qissa/internal/api"
	"github.com/qissahq/qissa/internal/audiobook"
	"github.com/qissahq/qissa/internal/chapter"
	"github.com/qissahq/qissa/internal/keyword"
	"github.com/qissahq/qissa/internal/moderation"
	"github.com/qissahq/qissa/internal/platform/config"
	"github.com/qissahq/qissa/internal/platform/constants"
	"github.com/qissahq/qissa/internal/platform/migration"
	pgstore "github.com/qissahq/qissa/internal/platform/postgres"
	redisstore "github.com/qissahq/qissa/internal/platform/redis"
	"github.com/qissahq/qissa/internal/screening"
	"github.com/qissahq/qissa/internal/sentiment"
	"github.com/qissahq/qissa/internal/tasks"
	"github.com/qissahq/qissa/internal/transcription"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "qissa"))
	slog.SetDefault(log)

	log.Info("[Qissa] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "qissa"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Int("workers", cfg.WorkerCount),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	must(log, err, "connect to redis")
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis close error", slog.Any("error", cerr))
		}
	}()

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error {
			return pgstore.Ping(context.Background(), pool)
		},
		CheckCache: func() error {
			return redisstore.Ping(context.Background(), rdb)
		},
	}, log)

	// ── 7. Pipeline Wiring ────────────────────────────────────────────────
	keywordCache := keyword.NewCache(keyword.NewStore(pool), keyword.NewRedisKV(rdb), cfg.KeywordCacheTTL, log)

	transcriber := transcription.NewGoogleClient(cfg.SpeechAPIBaseURL, cfg.GoogleAPIKey, cfg.SpeechRequestsPerMinute, log)
	scorer := sentiment.NewGoogleClient(cfg.SentimentAPIBaseURL, cfg.GoogleAPIKey)

	screener := screening.NewScreener(keywordCache, scorer, screening.Thresholds{
		Similarity:         cfg.SimilarityThreshold,
		SentimentScore:     cfg.SentimentScoreThreshold,
		SentimentMagnitude: cfg.SentimentMagnitudeThreshold,
	}, log)

	chapterStore := chapter.NewStore(pool)
	audiobookStore := audiobook.NewStore(pool)
	taskStore := tasks.NewStore(pool, cfg.TaskMaxAttempts, cfg.TaskLease)

	moderator := moderation.NewModerator(chapterStore, transcriber, screener, taskStore, log)
	reconciler := moderation.NewReconciler(audiobookStore, log)

	// ── 8. Worker Pool ────────────────────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	worker := tasks.NewWorker(taskStore, log, tasks.Options{
		Workers:    cfg.WorkerCount,
		Poll:       cfg.WorkerPoll,
		RetryDelay: cfg.TaskRetryDelay,
	})
	worker.Register(tasks.KindModerateChapter, moderator.HandleTask)
	worker.Register(tasks.KindReconcileAudiobook, reconciler.HandleTask)

	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.Run(workerCtx)
	}()
	log.Info("worker_pool_started", slog.Int("workers", cfg.WorkerCount))

	// ── 9. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Moderation: moderation.NewHandler(taskStore, chapterStore, audiobookStore),
	}

	server := api.NewServer(workerCtx, cfg, log, handlers)

	// ── 10. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests and claimed tasks enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
	}

	workerCancel()
	select {
	case <-workerDone:
		log.Info("worker pool drained")
	case <-time.After(shutdownTimeout):
		log.Warn("worker pool drain timed out")
	}

	log.Info("service stopped cleanly")
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
