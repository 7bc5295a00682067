package main

import (
	"fmt"
	"io"
	"log/slog"

	"guild-tracker/internal/config"
)

// loadConfig reads the tracker configuration. Logs go to w so they do not
// mix with command output. Commands that only touch the watermark store
// pass full=false and skip the provider and destination checks.
func loadConfig(w io.Writer, full bool) (*config.TrackerConfig, *slog.Logger, error) {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelWarn}))
	slog.SetDefault(logger)

	cfg, err := config.LoadTrackerConfig(logger, nil)
	if err != nil {
		return nil, nil, err
	}

	validate := cfg.ValidateStore
	if full {
		validate = cfg.Validate
	}
	if err := validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, logger, nil
}
