package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the guild-tracker application.
var tracer = otel.Tracer("guild-tracker")

// GetTracer returns the global tracer for creating spans.
//
//	ctx, span := tracing.GetTracer().Start(ctx, "poll.Run")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
