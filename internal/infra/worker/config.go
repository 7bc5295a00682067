package worker

import (
	"fmt"
	"log/slog"
	"time"

	"guild-tracker/internal/pkg/config"
)

// Bounds enforced by Validate and by LoadConfigFromEnv.
const (
	MinRunTimeout       = 5 * time.Second
	MaxRunTimeout       = 10 * time.Minute
	MaxNotifyConcurrent = 10
)

// WorkerConfig holds the configuration for the worker component.
// It controls the poll schedule, its timezone, how many destinations are
// notified at once and how long one run may take.
//
// Configuration sources:
//   - Environment variables (loaded via LoadConfigFromEnv)
//   - Default values (provided by DefaultConfig)
//
// Example usage:
//
//	metrics := NewWorkerMetrics()
//	config, _ := LoadConfigFromEnv(logger, metrics)
//	if err := config.Validate(); err != nil {
//	    log.Fatalf("Invalid configuration: %v", err)
//	}
type WorkerConfig struct {
	// PollSchedule is the cron expression for poll runs.
	// Format: "minute hour day month weekday"
	// Default: "*/5 * * * *" (every 5 minutes)
	PollSchedule string

	// Timezone is the IANA timezone name the schedule is evaluated in.
	// Default: "UTC"
	Timezone string

	// NotifyMaxConcurrent is how many destinations are published to at once.
	// Range: 1-10
	// Default: 2
	NotifyMaxConcurrent int

	// RunTimeout bounds a single poll run, provider call and broadcasts included.
	// Range: 5s-10m
	// Default: 30 seconds
	RunTimeout time.Duration

	// HealthPort is the port of the liveness/readiness server.
	// Range: 1024-65535
	// Default: 9091
	HealthPort int
}

// DefaultConfig returns a WorkerConfig with default values.
func DefaultConfig() WorkerConfig {
	return WorkerConfig{
		PollSchedule:        "*/5 * * * *",
		Timezone:            "UTC",
		NotifyMaxConcurrent: 2,
		RunTimeout:          30 * time.Second,
		HealthPort:          9091,
	}
}

// Validate checks if the configuration values are valid.
// If multiple fields are invalid, all errors are collected and returned together.
//
// Validation rules:
//   - PollSchedule: valid 5-field cron expression (robfig/cron parser)
//   - Timezone: valid IANA timezone name
//   - NotifyMaxConcurrent: between 1 and 10
//   - RunTimeout: between 5s and 10m
//   - HealthPort: between 1024 and 65535
func (c *WorkerConfig) Validate() error {
	var errors []error

	if err := config.ValidateCronSchedule(c.PollSchedule); err != nil {
		errors = append(errors, fmt.Errorf("poll schedule: %w", err))
	}

	if err := config.ValidateTimezone(c.Timezone); err != nil {
		errors = append(errors, fmt.Errorf("timezone: %w", err))
	}

	if err := config.ValidateIntRange(c.NotifyMaxConcurrent, 1, MaxNotifyConcurrent); err != nil {
		errors = append(errors, fmt.Errorf("notify max concurrent: %w", err))
	}

	if err := config.ValidateDuration(c.RunTimeout, MinRunTimeout, MaxRunTimeout); err != nil {
		errors = append(errors, fmt.Errorf("run timeout: %w", err))
	}

	if err := config.ValidatePort(c.HealthPort); err != nil {
		errors = append(errors, fmt.Errorf("health port: %w", err))
	}

	if len(errors) > 0 {
		return fmt.Errorf("validation failed: %v", errors)
	}

	return nil
}

// Location resolves Timezone, falling back to UTC.
func (c *WorkerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadConfigFromEnv loads worker configuration from environment variables
// with validation and automatic fallback to default values on failure.
//
// Fail-open: every rejected value is replaced by its default, logged as a
// warning and counted in the config metrics. The returned error is always nil.
//
// Environment variables:
//   - POLL_SCHEDULE: Cron expression (default: "*/5 * * * *")
//   - WORKER_TIMEZONE: IANA timezone name (default: "UTC")
//   - NOTIFY_MAX_CONCURRENT: Integer 1-10 (default: 2)
//   - RUN_TIMEOUT: Duration string, e.g. "45s" (default: 30s)
//   - WORKER_HEALTH_PORT: Integer 1024-65535 (default: 9091)
func LoadConfigFromEnv(logger *slog.Logger, metrics *WorkerMetrics) (*WorkerConfig, error) {
	cfg := DefaultConfig()

	var cm *config.ConfigMetrics
	if metrics != nil {
		cm = metrics.ConfigMetrics
	}
	s := config.NewSession(logger, cm)

	cfg.PollSchedule = config.Take(s, "poll_schedule",
		config.LoadEnvWithFallback("POLL_SCHEDULE", cfg.PollSchedule, config.ValidateCronSchedule))

	cfg.Timezone = config.Take(s, "timezone",
		config.LoadEnvWithFallback("WORKER_TIMEZONE", cfg.Timezone, config.ValidateTimezone))

	cfg.NotifyMaxConcurrent = config.Take(s, "notify_max_concurrent",
		config.LoadEnvInt("NOTIFY_MAX_CONCURRENT", cfg.NotifyMaxConcurrent, func(v int) error {
			return config.ValidateIntRange(v, 1, MaxNotifyConcurrent)
		}))

	cfg.RunTimeout = config.Take(s, "run_timeout",
		config.LoadEnvDuration("RUN_TIMEOUT", cfg.RunTimeout, func(d time.Duration) error {
			return config.ValidateDuration(d, MinRunTimeout, MaxRunTimeout)
		}))

	cfg.HealthPort = config.Take(s, "health_port",
		config.LoadEnvInt("WORKER_HEALTH_PORT", cfg.HealthPort, config.ValidatePort))

	s.Finish()

	return &cfg, nil
}
