package notify

import "errors"

// Sentinel errors for notify use case operations.
var (
	// ErrChannelDisabled indicates that Publish was called on a disabled channel.
	ErrChannelDisabled = errors.New("channel is disabled")

	// ErrInvalidNotification indicates a nil notification.
	ErrInvalidNotification = errors.New("invalid notification")

	// ErrPublishFailed matches every destination failure returned by
	// Broadcast. See PublishError.
	ErrPublishFailed = errors.New("publish failed")

	// ErrCircuitBreakerOpen indicates that the channel's breaker rejected the
	// send without contacting the destination. It still fails the broadcast.
	ErrCircuitBreakerOpen = errors.New("circuit breaker is open for this channel")
)

// PublishError is the failure of one destination. Its text is
// "{channel}: {cause}"; the caller adds the "publish failed" context.
type PublishError struct {
	Channel string
	Err     error
}

func (e *PublishError) Error() string { return e.Channel + ": " + e.Err.Error() }

func (e *PublishError) Unwrap() error { return e.Err }

// Is reports whether target is ErrPublishFailed.
func (e *PublishError) Is(target error) bool { return target == ErrPublishFailed }
