package logging

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// SpanExporter writes finished spans as debug log entries.
type SpanExporter struct {
	log *log.Logger
}

func NewSpanExporter(l *log.Logger) *SpanExporter {
	return &SpanExporter{log: l}
}

func (e *SpanExporter) ExportSpans(_ context.Context, spans []sdktrace.ReadOnlySpan) error {
	for _, s := range spans {
		fields := log.Fields{
			"span":        s.Name(),
			"trace_id":    s.SpanContext().TraceID().String(),
			"duration_ms": float64(s.EndTime().Sub(s.StartTime())) / float64(time.Millisecond),
			"status":      s.Status().Code.String(),
		}
		for _, kv := range s.Attributes() {
			fields[string(kv.Key)] = kv.Value.AsInterface()
		}
		e.log.WithFields(fields).Debug("span")
	}
	return nil
}

func (e *SpanExporter) Shutdown(context.Context) error { return nil }

// InstallTracing routes spans from the global tracer provider to l and returns
// a shutdown func that flushes them.
func InstallTracing(l *log.Logger) func(context.Context) error {
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewSpanExporter(l)))
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
