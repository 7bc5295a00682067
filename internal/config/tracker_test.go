package config

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guild-tracker/internal/infra/db"
	"guild-tracker/internal/infra/notifier"
	"guild-tracker/internal/infra/stratz"
)

var trackerEnvKeys = []string{
	"GUILD_ID", "MATCH_TAKE", "WATERMARK_GROUP",
	"STRATZ_URL", "STRATZ_TOKEN",
	"STORE_DRIVER", "DATABASE_URL",
	"KOOK_ENABLED", "KOOK_TOKEN", "KOOK_TARGET_ID", "KOOK_BASE_URL",
	"DISCORD_ENABLED", "DISCORD_WEBHOOK_URL",
}

func clearTrackerEnv(t *testing.T) {
	t.Helper()
	for _, key := range trackerEnvKeys {
		t.Setenv(key, "")
	}
}

func validConfig() *TrackerConfig {
	return &TrackerConfig{
		GuildID:        DefaultGuildID,
		Take:           5,
		WatermarkGroup: DefaultWatermarkGroup,
		StratzURL:      stratz.DefaultURL,
		StratzToken:    "token",
		StoreDriver:    db.DriverSQLite,
		StoreDSN:       DefaultStoreDSN,
		Kook: KookSettings{
			Enabled:  true,
			Token:    "bot-token",
			TargetID: DefaultKookTargetID,
			BaseURL:  notifier.DefaultKookBaseURL,
		},
	}
}

func TestLoadTrackerConfig_Defaults(t *testing.T) {
	clearTrackerEnv(t)

	cfg, err := LoadTrackerConfig(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(117311), cfg.GuildID)
	assert.Equal(t, 5, cfg.Take)
	assert.Equal(t, "Guilds", cfg.WatermarkGroup)
	assert.Equal(t, stratz.DefaultURL, cfg.StratzURL)
	assert.Equal(t, db.DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, DefaultStoreDSN, cfg.StoreDSN)
	assert.True(t, cfg.Kook.Enabled)
	assert.Equal(t, "3193188266865676", cfg.Kook.TargetID)
	assert.Equal(t, notifier.DefaultKookBaseURL, cfg.Kook.BaseURL)
	assert.False(t, cfg.Discord.Enabled)
}

func TestLoadTrackerConfig_FromEnv(t *testing.T) {
	clearTrackerEnv(t)
	t.Setenv("GUILD_ID", "42")
	t.Setenv("MATCH_TAKE", "10")
	t.Setenv("STRATZ_TOKEN", "  abc  ")
	t.Setenv("STORE_DRIVER", "pgx")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("KOOK_ENABLED", "false")
	t.Setenv("DISCORD_ENABLED", "true")
	t.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/1/x")

	cfg, err := LoadTrackerConfig(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, int64(42), cfg.GuildID)
	assert.Equal(t, 10, cfg.Take)
	assert.Equal(t, "abc", cfg.StratzToken)
	assert.Equal(t, db.DriverPostgres, cfg.StoreDriver)
	assert.False(t, cfg.Kook.Enabled)
	assert.True(t, cfg.Discord.Enabled)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTrackerConfig_InvalidValuesFallBack(t *testing.T) {
	clearTrackerEnv(t)
	t.Setenv("GUILD_ID", "-3")
	t.Setenv("MATCH_TAKE", "50")
	t.Setenv("STRATZ_URL", "ftp://example.com")
	t.Setenv("KOOK_ENABLED", "maybe")

	cfg, err := LoadTrackerConfig(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultGuildID, cfg.GuildID)
	assert.Equal(t, 5, cfg.Take)
	assert.Equal(t, stratz.DefaultURL, cfg.StratzURL)
	assert.True(t, cfg.Kook.Enabled)
}

func TestTrackerConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *TrackerConfig)
		wantErr string
	}{
		{name: "valid", mutate: func(c *TrackerConfig) {}},
		{name: "missing token", mutate: func(c *TrackerConfig) { c.StratzToken = "" }, wantErr: "STRATZ_TOKEN"},
		{name: "zero guild", mutate: func(c *TrackerConfig) { c.GuildID = 0 }, wantErr: "GUILD_ID"},
		{name: "take too large", mutate: func(c *TrackerConfig) { c.Take = 21 }, wantErr: "MATCH_TAKE"},
		{name: "empty group", mutate: func(c *TrackerConfig) { c.WatermarkGroup = "" }, wantErr: "WATERMARK_GROUP"},
		{name: "unknown driver", mutate: func(c *TrackerConfig) { c.StoreDriver = "mysql" }, wantErr: "STORE_DRIVER"},
		{name: "empty dsn", mutate: func(c *TrackerConfig) { c.StoreDSN = "" }, wantErr: "DATABASE_URL"},
		{name: "kook without token", mutate: func(c *TrackerConfig) { c.Kook.Token = "" }, wantErr: "KOOK_TOKEN"},
		{name: "kook without target", mutate: func(c *TrackerConfig) { c.Kook.TargetID = "" }, wantErr: "KOOK_TARGET_ID"},
		{
			name:   "kook disabled ignores token",
			mutate: func(c *TrackerConfig) { c.Kook.Enabled = false; c.Kook.Token = "" },
		},
		{
			name:    "discord without url",
			mutate:  func(c *TrackerConfig) { c.Discord.Enabled = true },
			wantErr: "DISCORD_WEBHOOK_URL is required",
		},
		{
			name: "discord http",
			mutate: func(c *TrackerConfig) {
				c.Discord = DiscordSettings{Enabled: true, WebhookURL: "http://discord.com/api/webhooks/1/x"}
			},
			wantErr: "https",
		},
		{
			name: "discord foreign host",
			mutate: func(c *TrackerConfig) {
				c.Discord = DiscordSettings{Enabled: true, WebhookURL: "https://evil.example/api/webhooks/1/x"}
			},
			wantErr: "host",
		},
		{
			name: "discord wrong path",
			mutate: func(c *TrackerConfig) {
				c.Discord = DiscordSettings{Enabled: true, WebhookURL: "https://discord.com/channels/1"}
			},
			wantErr: "/api/webhooks/",
		},
		{
			name: "discord legacy host",
			mutate: func(c *TrackerConfig) {
				c.Discord = DiscordSettings{Enabled: true, WebhookURL: "https://discordapp.com/api/webhooks/1/x"}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func signedToken(t *testing.T, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("not-the-stratz-key"))
	require.NoError(t, err)
	return token
}

func TestInspectStratzToken(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid", func(t *testing.T) {
		token := signedToken(t, jwt.RegisteredClaims{
			Subject:   "steam-123",
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
		})

		info, err := InspectStratzToken(token, now)
		require.NoError(t, err)
		assert.Equal(t, "steam-123", info.Subject)
		assert.False(t, info.Expired)
		assert.True(t, info.ExpiresAt.Equal(now.Add(24*time.Hour)))
	})

	t.Run("expired", func(t *testing.T) {
		token := signedToken(t, jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		})

		info, err := InspectStratzToken(token, now)
		require.NoError(t, err)
		assert.True(t, info.Expired)
	})

	t.Run("no expiry", func(t *testing.T) {
		info, err := InspectStratzToken(signedToken(t, jwt.RegisteredClaims{Subject: "x"}), now)
		require.NoError(t, err)
		assert.True(t, info.ExpiresAt.IsZero())
		assert.False(t, info.Expired)
	})

	t.Run("not a jwt", func(t *testing.T) {
		_, err := InspectStratzToken("plain-api-key", now)
		assert.Error(t, err)
	})
}

func TestTrackerConfig_Conversions(t *testing.T) {
	cfg := validConfig()
	cfg.StratzURL = "https://stratz.test/graphql"
	cfg.Discord = DiscordSettings{Enabled: true, WebhookURL: "https://discord.com/api/webhooks/1/x"}

	sc := cfg.StratzConfig()
	assert.Equal(t, "https://stratz.test/graphql", sc.URL)
	assert.Equal(t, "token", sc.Token)

	kc := cfg.KookConfig()
	assert.True(t, kc.Enabled)
	assert.Equal(t, "bot-token", kc.Token)
	assert.Equal(t, DefaultKookTargetID, kc.TargetID)

	dc := cfg.DiscordConfig()
	assert.True(t, dc.Enabled)
	assert.Equal(t, "https://discord.com/api/webhooks/1/x", dc.WebhookURL)

	pc := cfg.PollConfig()
	assert.Equal(t, int64(117311), pc.GuildID)
	assert.Equal(t, 5, pc.Take)
	assert.Equal(t, "Guilds", pc.WatermarkGroup)
}

func TestTrackerConfig_ValidateStore(t *testing.T) {
	cfg := validConfig()
	cfg.StratzToken = ""
	assert.NoError(t, cfg.ValidateStore(), "store validation ignores provider settings")

	cfg.StoreDriver = "pgx"
	cfg.StoreDSN = ""
	assert.ErrorContains(t, cfg.ValidateStore(), "DATABASE_URL")
}
