// Package notifier renders match notifications for each chat destination and
// sends them over HTTP. Every destination builds an Envelope first; the
// transport then posts it exactly once per call.
package notifier

import (
	"context"

	"guild-tracker/internal/domain/entity"
)

// Notifier sends one match notification to one destination.
// Implementations pace their calls but never retry: a failed send is
// reported to the caller, which decides whether the run aborts.
type Notifier interface {
	Notify(ctx context.Context, n *entity.Notification) error
}

// KOOK message types. The webhook type is local to this package.
const (
	MessageTypeText      = "1"
	MessageTypeKMarkdown = "9"
	MessageTypeCard      = "10"
	MessageTypeWebhook   = "webhook"
)

// Envelope is the destination-neutral payload: a type discriminator, the
// target (channel id or webhook URL) and the serialized rendering.
type Envelope struct {
	Type     string `json:"type"`
	TargetID string `json:"target_id"`
	Content  string `json:"content"`
}
