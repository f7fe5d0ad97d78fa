package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer of application level spans
const TracerName = "github.com/van-william/carbon-sub017"

// StartSpan starts an internal span under the span in ctx. With tracing
// disabled the global no-op provider makes this free.
//
//	ctx, span := telemetry.StartSpan(ctx, "sequence.with_next", attribute.String("document_type", "quote"))
//	defer func() { telemetry.End(span, err) }()
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// RecordError marks span failed with err; a nil err is ignored
func RecordError(span trace.Span, err error) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// End records err, if any, and ends span
func End(span trace.Span, err error) {
	RecordError(span, err)
	span.End()
}

// TraceID returns the trace of the span in ctx, or "" when there is none
func TraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
