package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"guild-tracker/internal/domain/entity"
	"guild-tracker/internal/observability/logging"
	"guild-tracker/internal/resilience/circuitbreaker"
)

// publishTimeout bounds one destination send.
const publishTimeout = 30 * time.Second

// Service broadcasts notifications to multiple channels.
type Service interface {
	// Broadcast delivers n to every enabled channel and blocks until all
	// sends finish. It returns nil only when every enabled channel succeeded;
	// otherwise the first failure as a *PublishError, which matches
	// ErrPublishFailed. A broadcast with no enabled channels succeeds.
	Broadcast(ctx context.Context, n *entity.Notification) error

	// GetChannelHealth reports the breaker state of every channel.
	GetChannelHealth() []ChannelHealthStatus
}

// ChannelHealthStatus represents the health status of a notification channel.
type ChannelHealthStatus struct {
	Name               string `json:"name"`
	Enabled            bool   `json:"enabled"`
	CircuitBreakerOpen bool   `json:"circuit_breaker_open"`
	State              string `json:"state"`
}

type service struct {
	channels      []Channel
	breakers      map[string]*circuitbreaker.CircuitBreaker
	maxConcurrent int
}

// NewService creates a notification service.
//
// maxConcurrent caps parallel sends within one broadcast; values below 1
// are treated as 1 (sequential, in channel order).
func NewService(channels []Channel, maxConcurrent int) Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}

	svc := &service{
		channels:      channels,
		breakers:      make(map[string]*circuitbreaker.CircuitBreaker, len(channels)),
		maxConcurrent: maxConcurrent,
	}
	for _, ch := range channels {
		svc.breakers[ch.Name()] = newChannelBreaker(ch.Name())
	}

	return svc
}

func newChannelBreaker(name string) *circuitbreaker.CircuitBreaker {
	cfg := circuitbreaker.ChannelConfig(name)
	cfg.OnStateChange = func(_ string, _, to gobreaker.State) {
		if to == gobreaker.StateOpen {
			recordBreakerTrip(name)
		}
	}
	// sends aborted because a sibling failed say nothing about this destination
	cfg.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, context.Canceled)
	}
	return circuitbreaker.New(cfg)
}

// Broadcast implements Service.Broadcast.
func (s *service) Broadcast(ctx context.Context, n *entity.Notification) error {
	if n == nil {
		return ErrInvalidNotification
	}

	logger := logging.WithRunID(ctx, logging.FromContext(ctx))

	enabled := make([]Channel, 0, len(s.channels))
	for _, ch := range s.channels {
		if ch.IsEnabled() {
			enabled = append(enabled, ch)
		}
	}
	setChannelsEnabled(len(enabled))

	if len(enabled) == 0 {
		logger.Debug("No notification channels enabled",
			slog.String("match_id", n.MatchID()))
		return nil
	}

	logger.Info("Broadcasting match notification",
		slog.String("match_id", n.MatchID()),
		slog.Int("enabled_channels", len(enabled)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxConcurrent)

	for _, ch := range enabled {
		channel := ch
		g.Go(func() error {
			// a sibling already failed; the broadcast result is decided
			if err := gctx.Err(); err != nil {
				return err
			}
			return s.publish(gctx, logger, channel, n)
		})
	}

	return g.Wait()
}

// publish sends to one channel through its breaker. Panics are converted to errors.
func (s *service) publish(ctx context.Context, logger *slog.Logger, channel Channel, n *entity.Notification) (err error) {
	name := channel.Name()
	requestID := uuid.New().String()
	logger = logger.With(
		slog.String("request_id", requestID),
		slog.String("channel", name),
		slog.String("match_id", n.MatchID()))

	defer trackInFlight()()

	defer func() {
		if r := recover(); r != nil {
			logger.Error("Panic in notification channel",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			err = &PublishError{Channel: name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	recordAttempt(name)
	start := time.Now()

	err = s.breakers[name].Run(func() error {
		return channel.Publish(ctx, n)
	})
	duration := time.Since(start)

	switch recordPublish(name, err, duration) {
	case outcomeSent:
		logger.Info("Channel notification sent successfully",
			slog.Duration("send_duration", duration))
		return nil
	case outcomeCircuitOpen:
		logger.Warn("Channel temporarily disabled due to circuit breaker")
		return &PublishError{Channel: name, Err: ErrCircuitBreakerOpen}
	case outcomeCanceled:
		logger.Debug("Channel notification canceled")
	default:
		logger.Warn("Channel notification failed",
			slog.Duration("send_duration", duration),
			slog.String("error", logging.SanitizeError(err)))
	}
	return &PublishError{Channel: name, Err: err}
}

// GetChannelHealth implements Service.GetChannelHealth.
func (s *service) GetChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		cb := s.breakers[ch.Name()]
		statuses = append(statuses, ChannelHealthStatus{
			Name:               ch.Name(),
			Enabled:            ch.IsEnabled(),
			CircuitBreakerOpen: cb.IsOpen(),
			State:              cb.State().String(),
		})
	}
	return statuses
}
