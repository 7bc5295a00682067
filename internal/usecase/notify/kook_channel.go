package notify

import (
	"context"

	"guild-tracker/internal/domain/entity"
	"guild-tracker/internal/infra/notifier"
)

// KookChannel adapts notifier.KookNotifier to the Channel interface.
type KookChannel struct {
	notifier notifier.Notifier
	enabled  bool
}

func NewKookChannel(config notifier.KookConfig) *KookChannel {
	var n notifier.Notifier
	if config.Enabled {
		n = notifier.NewKookNotifier(config)
	} else {
		n = notifier.NewNoOpNotifier()
	}

	return &KookChannel{
		notifier: n,
		enabled:  config.Enabled,
	}
}

func (c *KookChannel) Name() string {
	return "kook"
}

func (c *KookChannel) IsEnabled() bool {
	return c.enabled
}

// Publish sends the card rendering to the configured KOOK channel.
func (c *KookChannel) Publish(ctx context.Context, n *entity.Notification) error {
	if !c.enabled {
		return ErrChannelDisabled
	}
	if n == nil {
		return ErrInvalidNotification
	}
	return c.notifier.Notify(ctx, n)
}
