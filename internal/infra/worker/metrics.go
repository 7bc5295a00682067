package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"guild-tracker/internal/pkg/config"
)

// WorkerMetrics provides Prometheus metrics for the worker component.
// It embeds the standard ConfigMetrics for configuration monitoring and adds
// metrics for scheduled poll runs.
//
// Embedded metrics (from ConfigMetrics):
//   - worker_config_load_timestamp
//   - worker_config_validation_errors_total{field}
//   - worker_config_fallbacks_total{field,fallback_type}
//   - worker_config_fallback_active
//
// Worker-specific metrics:
//   - worker_poll_job_runs_total{status}: started, success, skipped or a failure kind
//   - worker_poll_job_duration_seconds
//   - worker_poll_job_matches_delivered_total
//   - worker_poll_job_last_success_timestamp
type WorkerMetrics struct {
	*config.ConfigMetrics

	// PollJobRunsTotal counts scheduled runs by status.
	PollJobRunsTotal *prometheus.CounterVec

	// PollJobDurationSeconds measures one scheduled run end to end.
	// Buckets: 0.1s .. 5m, a run is bounded by RunTimeout.
	PollJobDurationSeconds prometheus.Histogram

	PollJobMatchesDeliveredTotal prometheus.Counter

	PollJobLastSuccessTimestamp prometheus.Gauge
}

// NewWorkerMetrics creates a new WorkerMetrics instance registered with the
// default registry through promauto. Call it once per process.
func NewWorkerMetrics() *WorkerMetrics {
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker"),

		PollJobRunsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_poll_job_runs_total",
			Help: "Total number of scheduled poll runs by status",
		}, []string{"status"}),

		PollJobDurationSeconds: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "worker_poll_job_duration_seconds",
			Help:    "Duration of scheduled poll runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 300},
		}),

		PollJobMatchesDeliveredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "worker_poll_job_matches_delivered_total",
			Help: "Total number of matches delivered by scheduled runs",
		}),

		PollJobLastSuccessTimestamp: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "worker_poll_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful poll run",
		}),
	}
}

// MustRegister is a no-op; promauto registers on creation.
func (m *WorkerMetrics) MustRegister() {}

// RecordJobRun increments the run counter for status.
func (m *WorkerMetrics) RecordJobRun(status string) {
	m.PollJobRunsTotal.WithLabelValues(status).Inc()
}

// RecordJobDuration observes a run duration in seconds.
func (m *WorkerMetrics) RecordJobDuration(seconds float64) {
	m.PollJobDurationSeconds.Observe(seconds)
}

// RecordMatchesDelivered adds the matches one run delivered.
func (m *WorkerMetrics) RecordMatchesDelivered(count int) {
	m.PollJobMatchesDeliveredTotal.Add(float64(count))
}

// RecordLastSuccess records the current time as the last successful run.
func (m *WorkerMetrics) RecordLastSuccess() {
	m.PollJobLastSuccessTimestamp.SetToCurrentTime()
}
