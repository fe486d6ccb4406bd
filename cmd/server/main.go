package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dandantas/cracksim/internal/config"
	"github.com/dandantas/cracksim/internal/database"
	"github.com/dandantas/cracksim/internal/extractor"
	"github.com/dandantas/cracksim/internal/handler"
	"github.com/dandantas/cracksim/internal/metrics"
	"github.com/dandantas/cracksim/internal/model"
	"github.com/dandantas/cracksim/internal/scheduler"
	"github.com/dandantas/cracksim/internal/service"
	"github.com/dandantas/cracksim/internal/webhook"
	"github.com/dandantas/cracksim/internal/worker"
	"github.com/dandantas/cracksim/pkg/middleware"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	config.InitLogger(cfg)

	slog.Info("Starting Cracksim",
		"version", version,
		"crack_duration", cfg.CrackDuration,
		"restart_completed", cfg.CrackRestartCompleted,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var m *metrics.Collectors
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	keys, err := extractor.New(cfg.JobKeyPath)
	if err != nil {
		slog.Error("Invalid job key path", "path", cfg.JobKeyPath, "error", err)
		os.Exit(1)
	}

	store := model.NewJobStore(cfg.CrackRestartCompleted)
	crackerOpts := []service.CrackerOption{service.WithCrackerMetrics(m)}

	// Optional MongoDB history sink
	var (
		db             *database.MongoDB
		eventRepo      *database.JobEventRepository
		historyService *service.HistoryService
		pinger         handler.Pinger
	)
	if cfg.HistoryEnabled() {
		db, err = database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoTimeout)
		if err != nil {
			slog.Error("Failed to connect to MongoDB", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := db.Disconnect(context.Background()); err != nil {
				slog.Error("Failed to disconnect from MongoDB", "error", err)
			}
		}()

		if err := database.CreateIndexes(ctx, db); err != nil {
			slog.Error("Failed to create indexes", "error", err)
			os.Exit(1)
		}

		eventRepo = database.NewJobEventRepository(db)
		historyService = service.NewHistoryService(eventRepo)
		pinger = db
		crackerOpts = append(crackerOpts, service.WithHistory(eventRepo))
	} else {
		slog.Info("History sink disabled, MONGO_URI not set")
	}

	// Optional completion webhook
	if cfg.WebhookEnabled() {
		dispatcher := webhook.NewDispatcher(webhook.Config{
			URL:     cfg.WebhookURL,
			Method:  cfg.WebhookMethod,
			Timeout: cfg.WebhookTimeout,
			Retry: webhook.RetryConfig{
				MaxAttempts:    cfg.WebhookMaxAttempts,
				InitialDelayMs: cfg.WebhookInitialDelayMs,
				MaxDelayMs:     cfg.WebhookMaxDelayMs,
			},
		})
		crackerOpts = append(crackerOpts, service.WithNotifier(dispatcher))
		slog.Info("Completion webhook enabled", "method", cfg.WebhookMethod)
	}

	cracker := service.NewCracker(store, cfg.CrackDuration, crackerOpts...)

	pool := worker.NewPool(cracker.Crack)
	if m != nil {
		pool.OnActiveChange(func(active int) {
			m.WorkersInFlight.Set(float64(active))
		})
	}

	var recorder service.HistoryRecorder
	if eventRepo != nil {
		recorder = eventRepo
	}
	jobService := service.NewJobService(store, pool, recorder, m)

	var sched *scheduler.Scheduler
	if cfg.StatsEnabled {
		sched = scheduler.NewScheduler(cfg.StatsSchedule, store, pool, m)
		if err := sched.Start(); err != nil {
			slog.Error("Failed to start stats scheduler", "error", err)
			os.Exit(1)
		}
	}

	corsConfig := middleware.CORSConfig{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   cfg.CORSAllowedMethods,
		AllowedHeaders:   cfg.CORSAllowedHeaders,
		AllowCredentials: cfg.CORSAllowCredentials,
		MaxAge:           cfg.CORSMaxAge,
	}

	router := handler.NewRouter(
		handler.NewJobHandler(jobService, keys),
		handler.NewHistoryHandler(historyService),
		handler.NewHealthHandler(pinger, version),
		m,
		corsConfig,
	)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router.Handler(),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
	}

	go func() {
		slog.Info("Starting HTTP server", "addr", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	slog.Info("Received shutdown signal, initiating graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	// Stop accepting submits before draining workers
	slog.Info("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Draining workers...")
	if err := pool.Stop(shutdownCtx); err != nil {
		slog.Warn("Workers still running at shutdown", "active", pool.Active(), "error", err)
	}

	if sched != nil {
		sched.Stop(shutdownCtx)
	}

	slog.Info("Cracksim stopped")
}
