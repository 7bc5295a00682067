// Package observability groups the logging, metrics and tracing helpers
// shared by the worker and trackerctl.
//
// Subpackages:
//   - logging: slog setup, run id propagation, secret masking
//   - metrics: Prometheus collectors for the poll pipeline
//   - slo: rolling run success and latency objectives
//   - tracing: OpenTelemetry tracer and outbound HTTP spans
package observability
