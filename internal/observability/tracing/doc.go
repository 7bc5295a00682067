// Package tracing provides the OpenTelemetry tracer used for poll runs and
// an http.RoundTripper that opens a client span for every outbound call to
// the match provider and the chat destinations.
package tracing
