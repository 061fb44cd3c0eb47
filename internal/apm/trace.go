// Package apm provides OpenTelemetry trace provider setup and helpers.
package apm

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// TraceID returns the hex trace id from the context's span, or empty
// when there is no active span. Wired into the logger so log lines
// can be correlated with traces.
func TraceID(ctx context.Context) string {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
