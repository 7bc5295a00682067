// Package app wires the tracker: watermark store, match provider, chat
// destinations and the poll service. Both binaries build on it.
package app

import (
	"database/sql"
	"fmt"
	"log/slog"

	"guild-tracker/internal/config"
	"guild-tracker/internal/infra/adapter/persistence/postgres"
	"guild-tracker/internal/infra/adapter/persistence/sqlite"
	"guild-tracker/internal/infra/db"
	"guild-tracker/internal/infra/stratz"
	"guild-tracker/internal/repository"
	"guild-tracker/internal/resilience/circuitbreaker"
	"guild-tracker/internal/usecase/notify"
	"guild-tracker/internal/usecase/poll"
)

// App holds the wired components. Close releases the database.
type App struct {
	DB         *sql.DB
	Watermarks repository.WatermarkRepository
	Provider   *stratz.Client
	Notify     notify.Service
	Poll       poll.Service
}

// Store is an open, migrated watermark store.
type Store struct {
	DB         *sql.DB
	Watermarks repository.WatermarkRepository
}

// OpenStore opens the configured database, creates the watermark table when
// missing and returns the repository behind a circuit breaker.
func OpenStore(cfg *config.TrackerConfig) (*Store, error) {
	dialect, err := db.DialectFor(cfg.StoreDriver)
	if err != nil {
		return nil, err
	}

	database, err := db.Open(cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return nil, err
	}
	if err := db.MigrateUp(database, dialect); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	guarded := circuitbreaker.NewDBCircuitBreaker(database)
	var repo repository.WatermarkRepository
	switch cfg.StoreDriver {
	case db.DriverPostgres:
		repo = postgres.NewWatermarkRepo(guarded)
	default:
		repo = sqlite.NewWatermarkRepo(guarded)
	}

	return &Store{DB: database, Watermarks: repo}, nil
}

// Channels builds one channel per destination. Disabled destinations are
// included so that health reporting lists them.
func Channels(cfg *config.TrackerConfig) []notify.Channel {
	return []notify.Channel{
		notify.NewKookChannel(cfg.KookConfig()),
		notify.NewDiscordChannel(cfg.DiscordConfig()),
	}
}

// New wires every component from cfg. maxConcurrent bounds parallel sends
// within one broadcast.
func New(logger *slog.Logger, cfg *config.TrackerConfig, maxConcurrent int) (*App, error) {
	store, err := OpenStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("open watermark store: %w", err)
	}

	provider := stratz.NewClient(cfg.StratzConfig())
	channels := Channels(cfg)
	notifyService := notify.NewService(channels, maxConcurrent)

	enabled := 0
	for _, ch := range channels {
		if ch.IsEnabled() {
			enabled++
		}
		logger.Info("notification channel configured",
			slog.String("channel", ch.Name()),
			slog.Bool("enabled", ch.IsEnabled()))
	}
	if enabled == 0 {
		logger.Warn("no notification channel enabled; runs will only advance the watermark")
	}

	return &App{
		DB:         store.DB,
		Watermarks: store.Watermarks,
		Provider:   provider,
		Notify:     notifyService,
		Poll:       poll.NewService(provider, store.Watermarks, notifyService, cfg.PollConfig()),
	}, nil
}

// Close releases the database connection.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}
