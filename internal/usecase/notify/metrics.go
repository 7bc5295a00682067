package notify

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"

	"guild-tracker/internal/infra/notifier"
)

// Publish outcomes used as the "outcome" label.
const (
	outcomeSent        = "sent"
	outcomeFailed      = "failed"
	outcomeRateLimited = "rate_limited"
	outcomeCircuitOpen = "circuit_open"
	outcomeCanceled    = "canceled"
)

var (
	publishAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_publish_attempts_total",
			Help: "Match notifications handed to a destination",
		},
		[]string{"channel"},
	)

	publishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "match_publish_total",
			Help: "Match notification publishes by outcome",
		},
		[]string{"channel", "outcome"},
	)

	// only sends that reached the destination are observed
	publishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "match_publish_duration_seconds",
			Help:    "Time spent publishing one match notification",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"channel"},
	)

	breakerTripsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notify_breaker_trips_total",
			Help: "Times a destination circuit breaker opened",
		},
		[]string{"channel"},
	)

	publishesInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_publishes_in_flight",
			Help: "Match notification publishes currently running",
		},
	)

	channelsEnabled = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "notify_channels_enabled",
			Help: "Destinations enabled at the last broadcast",
		},
	)
)

// publishOutcome maps a publish error to its metric label.
func publishOutcome(err error) string {
	switch {
	case err == nil:
		return outcomeSent
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return outcomeCircuitOpen
	case errors.Is(err, context.Canceled):
		return outcomeCanceled
	}
	if _, ok := notifier.IsRateLimited(err); ok {
		return outcomeRateLimited
	}
	return outcomeFailed
}

// recordPublish counts one publish and returns the outcome label.
func recordPublish(channel string, err error, d time.Duration) string {
	outcome := publishOutcome(err)
	publishTotal.WithLabelValues(channel, outcome).Inc()
	if outcome != outcomeCircuitOpen {
		publishDuration.WithLabelValues(channel).Observe(d.Seconds())
	}
	return outcome
}

func recordAttempt(channel string) {
	publishAttemptsTotal.WithLabelValues(channel).Inc()
}

func recordBreakerTrip(channel string) {
	breakerTripsTotal.WithLabelValues(channel).Inc()
}

// trackInFlight increments the in-flight gauge and returns its release.
func trackInFlight() func() {
	publishesInFlight.Inc()
	return publishesInFlight.Dec
}

func setChannelsEnabled(n int) {
	channelsEnabled.Set(float64(n))
}
