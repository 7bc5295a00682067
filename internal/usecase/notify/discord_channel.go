package notify

import (
	"context"

	"guild-tracker/internal/domain/entity"
	"guild-tracker/internal/infra/notifier"
)

// DiscordChannel adapts notifier.DiscordNotifier to the Channel interface.
type DiscordChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

// NewDiscordChannel uses a NoOpNotifier when the channel is disabled so the
// adapter never holds a nil notifier.
func NewDiscordChannel(config notifier.DiscordConfig) *DiscordChannel {
	var n notifier.Notifier
	if config.Enabled {
		n = notifier.NewDiscordNotifier(config)
	} else {
		n = notifier.NewNoOpNotifier()
	}

	return &DiscordChannel{
		notifier: n,
		enabled:  config.Enabled,
	}
}

func (c *DiscordChannel) Name() string {
	return "discord"
}

func (c *DiscordChannel) IsEnabled() bool {
	return c.enabled
}

// Publish sends the embed rendering to the configured webhook.
func (c *DiscordChannel) Publish(ctx context.Context, n *entity.Notification) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if n == nil {
		return ErrInvalidNotification
	}
	return c.notifier.Notify(ctx, n)
}
