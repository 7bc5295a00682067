package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guild-tracker/internal/app"
	"guild-tracker/internal/config"
	workerPkg "guild-tracker/internal/infra/worker"
	"guild-tracker/internal/observability/logging"
	pkgconfig "guild-tracker/internal/pkg/config"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("worker exited", slog.String("error", logging.SanitizeError(err)))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	// Load worker configuration (fail-open strategy)
	workerMetrics := workerPkg.NewWorkerMetrics()
	workerMetrics.MustRegister()
	workerConfig, err := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	if err != nil {
		return fmt.Errorf("load worker configuration: %w", err)
	}
	logger.Info("worker configuration loaded",
		slog.String("poll_schedule", workerConfig.PollSchedule),
		slog.String("timezone", workerConfig.Timezone),
		slog.Int("notify_max_concurrent", workerConfig.NotifyMaxConcurrent),
		slog.Duration("run_timeout", workerConfig.RunTimeout),
		slog.Int("health_port", workerConfig.HealthPort))

	trackerConfig, err := config.LoadTrackerConfig(logger, pkgconfig.NewConfigMetrics("tracker"))
	if err != nil {
		return err
	}
	if err := trackerConfig.Validate(); err != nil {
		return fmt.Errorf("invalid tracker configuration: %w", err)
	}
	trackerConfig.WarnStratzToken(logger, time.Now())
	logger.Info("tracker configuration loaded",
		slog.Int64("guild_id", trackerConfig.GuildID),
		slog.Int("take", trackerConfig.Take),
		slog.String("watermark_group", trackerConfig.WatermarkGroup),
		slog.String("store_driver", trackerConfig.StoreDriver))

	application, err := app.New(logger, trackerConfig, workerConfig.NotifyMaxConcurrent)
	if err != nil {
		return err
	}
	defer func() {
		if err := application.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	startMetricsServer(ctx, logger, application.Notify)

	healthAddr := fmt.Sprintf(":%d", workerConfig.HealthPort)
	healthServer := workerPkg.NewHealthServer(healthAddr, logger)
	go func() {
		if err := healthServer.Start(ctx); err != nil && err != http.ErrServerClosed {
			logger.Error("health server failed", slog.Any("error", err))
		}
	}()

	job := workerPkg.NewPollJob(&application.Poll, workerConfig.RunTimeout, logger, workerMetrics, healthServer)
	scheduler := workerPkg.NewScheduler(workerConfig, logger)
	if _, err := workerPkg.Schedule(scheduler, workerConfig, job); err != nil {
		return fmt.Errorf("add cron job: %w", err)
	}
	scheduler.Start()

	healthServer.SetReady(true)
	logger.Info("worker started",
		slog.String("schedule", workerConfig.PollSchedule),
		slog.String("timezone", workerConfig.Timezone))

	<-ctx.Done()
	logger.Info("shutdown signal received")
	healthServer.SetReady(false)

	// An in-flight run is not canceled by the signal: cron jobs run with
	// context.Background(), so shutdown waits for it to finish or hit
	// RunTimeout.
	<-scheduler.Stop().Done()
	logger.Info("worker stopped")
	return nil
}
