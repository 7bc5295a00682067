package app

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guild-tracker/internal/config"
	"guild-tracker/internal/infra/db"
)

func sqliteConfig(t *testing.T) *config.TrackerConfig {
	t.Helper()
	return &config.TrackerConfig{
		GuildID:        config.DefaultGuildID,
		Take:           5,
		WatermarkGroup: config.DefaultWatermarkGroup,
		StratzToken:    "token",
		StoreDriver:    db.DriverSQLite,
		StoreDSN:       "file:" + filepath.Join(t.TempDir(), "watermarks.db"),
		Kook: config.KookSettings{
			Enabled:  true,
			Token:    "bot-token",
			TargetID: config.DefaultKookTargetID,
		},
	}
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := sqliteConfig(t)

	store, err := OpenStore(cfg)
	require.NoError(t, err)
	defer func() { _ = store.DB.Close() }()

	ctx := context.Background()
	key := cfg.PollConfig().Key()

	wm, err := store.Watermarks.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, wm, "fresh store has no watermark")

	require.NoError(t, store.Watermarks.Put(ctx, key, 7400000002))
	require.NoError(t, store.Watermarks.Put(ctx, key, 7400000001))

	wm, err = store.Watermarks.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, wm)
	assert.Equal(t, int64(7400000002), wm.MatchID)
}

func TestOpenStore_MigrationIsRepeatable(t *testing.T) {
	cfg := sqliteConfig(t)

	first, err := OpenStore(cfg)
	require.NoError(t, err)
	require.NoError(t, first.Watermarks.Put(context.Background(), cfg.PollConfig().Key(), 10))
	require.NoError(t, first.DB.Close())

	second, err := OpenStore(cfg)
	require.NoError(t, err)
	defer func() { _ = second.DB.Close() }()

	wm, err := second.Watermarks.Get(context.Background(), cfg.PollConfig().Key())
	require.NoError(t, err)
	require.NotNil(t, wm)
	assert.Equal(t, int64(10), wm.MatchID)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.StoreDriver = "mysql"

	_, err := OpenStore(cfg)
	assert.Error(t, err)
}

func TestChannels(t *testing.T) {
	cfg := sqliteConfig(t)

	channels := Channels(cfg)
	require.Len(t, channels, 2)
	assert.Equal(t, "kook", channels[0].Name())
	assert.True(t, channels[0].IsEnabled())
	assert.Equal(t, "discord", channels[1].Name())
	assert.False(t, channels[1].IsEnabled())
}

func TestNew(t *testing.T) {
	cfg := sqliteConfig(t)
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	a, err := New(logger, cfg, 2)
	require.NoError(t, err)
	defer func() { assert.NoError(t, a.Close()) }()

	assert.NotNil(t, a.Provider)
	assert.NotNil(t, a.Watermarks)

	health := a.Notify.GetChannelHealth()
	require.Len(t, health, 2)
	for _, h := range health {
		assert.False(t, h.CircuitBreakerOpen)
		assert.Equal(t, "closed", h.State)
	}
	assert.Contains(t, buf.String(), "notification channel configured")
}

func TestNew_NoChannelsWarns(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.Kook.Enabled = false
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	a, err := New(logger, cfg, 1)
	require.NoError(t, err)
	defer func() { _ = a.Close() }()

	assert.Contains(t, buf.String(), "no notification channel enabled")
}
