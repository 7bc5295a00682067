// Package metrics provides centralized Prometheus metrics for the poll pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline metrics track one poll run from fetch to watermark write
var (
	// PollRunsTotal counts runs by result (success, provider, normalization, publish, store)
	PollRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poll_runs_total",
			Help: "Total number of poll runs by result",
		},
		[]string{"result"},
	)

	// PollRunDuration measures end-to-end run time
	PollRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poll_run_duration_seconds",
			Help:    "Duration of a poll run in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
	)

	// MatchesFetchedTotal counts match records returned by the provider
	MatchesFetchedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matches_fetched_total",
			Help: "Total number of match records returned by the provider",
		},
		[]string{"guild_id"},
	)

	// MatchesSkippedTotal counts records at or below the watermark
	MatchesSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matches_skipped_total",
			Help: "Total number of match records already delivered",
		},
		[]string{"guild_id"},
	)

	// MatchesDeliveredTotal counts notifications broadcast to every destination
	MatchesDeliveredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matches_delivered_total",
			Help: "Total number of match notifications delivered",
		},
		[]string{"guild_id"},
	)

	// NormalizationFailuresTotal counts records rejected by the normalizer, by missing field
	NormalizationFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "normalization_failures_total",
			Help: "Total number of match records rejected during normalization",
		},
		[]string{"field"},
	)

	// WatermarkValue exposes the last stored watermark per group and guild
	WatermarkValue = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "watermark_match_id",
			Help: "Highest delivered match id",
		},
		[]string{"group", "guild_id"},
	)
)

// Provider metrics track calls to the match provider
var (
	// ProviderRequestDuration measures provider query latency by result
	ProviderRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "provider_request_duration_seconds",
			Help:    "Match provider request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		},
		[]string{"result"},
	)

	// ProviderErrorsTotal counts provider failures by kind (transport, graphql, empty)
	ProviderErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_errors_total",
			Help: "Total number of match provider failures",
		},
		[]string{"kind"},
	)
)

// Database metrics track watermark store performance
var (
	// DBQueryDuration measures database query duration
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)
)
