// Package config loads the tracker configuration: which guild to follow,
// where the watermark lives and which chat destinations receive matches.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"

	"guild-tracker/internal/infra/db"
	"guild-tracker/internal/infra/notifier"
	"guild-tracker/internal/infra/stratz"
	pkgconfig "guild-tracker/internal/pkg/config"
	"guild-tracker/internal/usecase/poll"
)

const (
	DefaultGuildID        int64 = 117311
	DefaultWatermarkGroup       = "Guilds"
	DefaultKookTargetID         = "3193188266865676"
	DefaultStoreDSN             = "file:guild-tracker.db"

	maxTake = 20
)

// KookSettings configures the KOOK destination.
type KookSettings struct {
	Enabled  bool
	Token    string
	TargetID string
	BaseURL  string
}

// DiscordSettings configures the Discord destination.
type DiscordSettings struct {
	Enabled    bool
	WebhookURL string
}

// TrackerConfig holds everything a poll run needs.
type TrackerConfig struct {
	GuildID        int64
	Take           int
	WatermarkGroup string

	StratzURL   string
	StratzToken string

	StoreDriver string
	StoreDSN    string

	Kook    KookSettings
	Discord DiscordSettings
}

// LoadDotEnv loads .env from the working directory when present.
// Variables already set in the environment win.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// LoadTrackerConfig reads the tracker configuration from the environment.
// Numeric values that fail to parse fall back to their defaults with a warning;
// missing secrets are reported by Validate.
func LoadTrackerConfig(logger *slog.Logger, metrics *pkgconfig.ConfigMetrics) (*TrackerConfig, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}

	s := pkgconfig.NewSession(logger, metrics)
	cfg := &TrackerConfig{
		GuildID: pkgconfig.Take(s, "guild_id",
			pkgconfig.LoadEnvInt64("GUILD_ID", DefaultGuildID, pkgconfig.ValidatePositiveID)),
		Take: pkgconfig.Take(s, "take",
			pkgconfig.LoadEnvInt("MATCH_TAKE", poll.DefaultTake, func(v int) error {
				return pkgconfig.ValidateIntRange(v, 1, maxTake)
			})),
		WatermarkGroup: pkgconfig.LoadEnvString("WATERMARK_GROUP", DefaultWatermarkGroup),

		StratzURL: pkgconfig.Take(s, "stratz_url",
			pkgconfig.LoadEnvWithFallback("STRATZ_URL", stratz.DefaultURL, pkgconfig.ValidateHTTPURL)),
		StratzToken: strings.TrimSpace(pkgconfig.LoadEnvString("STRATZ_TOKEN", "")),

		StoreDriver: pkgconfig.LoadEnvString("STORE_DRIVER", db.DriverSQLite),
		StoreDSN:    pkgconfig.LoadEnvString("DATABASE_URL", DefaultStoreDSN),

		Kook: KookSettings{
			Enabled:  pkgconfig.Take(s, "kook_enabled", pkgconfig.LoadEnvBool("KOOK_ENABLED", true)),
			Token:    strings.TrimSpace(pkgconfig.LoadEnvString("KOOK_TOKEN", "")),
			TargetID: pkgconfig.LoadEnvString("KOOK_TARGET_ID", DefaultKookTargetID),
			BaseURL: pkgconfig.Take(s, "kook_base_url",
				pkgconfig.LoadEnvWithFallback("KOOK_BASE_URL", notifier.DefaultKookBaseURL, pkgconfig.ValidateHTTPURL)),
		},
		Discord: DiscordSettings{
			Enabled:    pkgconfig.Take(s, "discord_enabled", pkgconfig.LoadEnvBool("DISCORD_ENABLED", false)),
			WebhookURL: strings.TrimSpace(pkgconfig.LoadEnvString("DISCORD_WEBHOOK_URL", "")),
		},
	}
	s.Finish()

	return cfg, nil
}

// Validate checks the settings that have no usable default.
func (c *TrackerConfig) Validate() error {
	if c.StratzToken == "" {
		return errors.New("STRATZ_TOKEN is required")
	}
	if c.GuildID <= 0 {
		return fmt.Errorf("GUILD_ID must be positive, got %d", c.GuildID)
	}
	if c.Take < 1 || c.Take > maxTake {
		return fmt.Errorf("MATCH_TAKE must be between 1 and %d, got %d", maxTake, c.Take)
	}
	if c.WatermarkGroup == "" {
		return errors.New("WATERMARK_GROUP must not be empty")
	}

	if err := c.ValidateStore(); err != nil {
		return err
	}

	if c.Kook.Enabled {
		if c.Kook.Token == "" {
			return errors.New("KOOK_TOKEN is required when KOOK is enabled")
		}
		if c.Kook.TargetID == "" {
			return errors.New("KOOK_TARGET_ID is required when KOOK is enabled")
		}
	}
	if c.Discord.Enabled {
		if err := validateDiscordWebhook(c.Discord.WebhookURL); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStore checks only the watermark store settings, for commands that
// never reach the provider or the destinations.
func (c *TrackerConfig) ValidateStore() error {
	switch c.StoreDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, c.StoreDriver)
	}
	if c.StoreDSN == "" {
		return errors.New("DATABASE_URL is required")
	}
	return nil
}

func validateDiscordWebhook(raw string) error {
	if raw == "" {
		return errors.New("DISCORD_WEBHOOK_URL is required when Discord is enabled")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return errors.New("DISCORD_WEBHOOK_URL is not a valid URL")
	}
	if u.Scheme != "https" {
		return errors.New("DISCORD_WEBHOOK_URL must use https")
	}
	host := strings.ToLower(u.Hostname())
	if host != "discord.com" && host != "discordapp.com" {
		return fmt.Errorf("DISCORD_WEBHOOK_URL host must be discord.com, got %q", host)
	}
	if !strings.HasPrefix(u.Path, "/api/webhooks/") {
		return errors.New("DISCORD_WEBHOOK_URL must point to /api/webhooks/")
	}
	return nil
}

// TokenInfo describes the claims of a STRATZ API token.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
	Expired   bool
}

// InspectStratzToken decodes the STRATZ token without verifying its
// signature. The signing key belongs to STRATZ; this only surfaces the
// expiry so an operator sees it before the provider starts rejecting calls.
func InspectStratzToken(token string, now time.Time) (*TokenInfo, error) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, fmt.Errorf("parse stratz token: %w", err)
	}

	info := &TokenInfo{Subject: claims.Subject}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
		info.Expired = !now.Before(info.ExpiresAt)
	}
	return info, nil
}

// WarnStratzToken logs the token state. Problems are logged, never returned:
// an undecodable token may still be accepted by the provider.
func (c *TrackerConfig) WarnStratzToken(logger *slog.Logger, now time.Time) {
	info, err := InspectStratzToken(c.StratzToken, now)
	if err != nil {
		logger.Warn("STRATZ token is not a JWT; expiry unknown")
		return
	}
	switch {
	case info.ExpiresAt.IsZero():
		logger.Info("STRATZ token has no expiry")
	case info.Expired:
		logger.Warn("STRATZ token has expired",
			slog.Time("expires_at", info.ExpiresAt))
	case info.ExpiresAt.Sub(now) < 7*24*time.Hour:
		logger.Warn("STRATZ token expires soon",
			slog.Time("expires_at", info.ExpiresAt))
	default:
		logger.Debug("STRATZ token valid",
			slog.Time("expires_at", info.ExpiresAt))
	}
}

// StratzConfig builds the provider client configuration.
func (c *TrackerConfig) StratzConfig() stratz.Config {
	cfg := stratz.DefaultConfig(c.StratzToken)
	if c.StratzURL != "" {
		cfg.URL = c.StratzURL
	}
	return cfg
}

func (c *TrackerConfig) KookConfig() notifier.KookConfig {
	return notifier.KookConfig{
		Enabled:  c.Kook.Enabled,
		Token:    c.Kook.Token,
		TargetID: c.Kook.TargetID,
		BaseURL:  c.Kook.BaseURL,
		Timeout:  10 * time.Second,
	}
}

func (c *TrackerConfig) DiscordConfig() notifier.DiscordConfig {
	return notifier.DiscordConfig{
		Enabled:    c.Discord.Enabled,
		WebhookURL: c.Discord.WebhookURL,
		Timeout:    10 * time.Second,
	}
}

// PollConfig is the part of the configuration the poll service uses.
func (c *TrackerConfig) PollConfig() poll.Config {
	return poll.Config{
		GuildID:        c.GuildID,
		Take:           c.Take,
		WatermarkGroup: c.WatermarkGroup,
	}
}
