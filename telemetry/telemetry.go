// Package telemetry defines the observability seams the executor and agents
// log, measure and trace through. The default wiring is no-op; production
// code installs the Clue-backed implementations.
package telemetry

import (
	"context"
	"time"
)

type (
	// Logger emits structured log messages.
	Logger interface {
		// Debug logs at debug level with key-value pairs.
		Debug(ctx context.Context, msg string, keyvals ...any)
		// Info logs at info level with key-value pairs.
		Info(ctx context.Context, msg string, keyvals ...any)
		// Warn logs at warning level with key-value pairs.
		Warn(ctx context.Context, msg string, keyvals ...any)
		// Error logs at error level with key-value pairs.
		Error(ctx context.Context, msg string, keyvals ...any)
	}

	// Metrics records counters and timers.
	Metrics interface {
		// IncCounter increments the named counter by value with optional
		// tag pairs.
		IncCounter(name string, value float64, tags ...string)
		// RecordTimer records a duration for the named timer.
		RecordTimer(name string, d time.Duration, tags ...string)
	}

	// Tracer starts spans around units of work.
	Tracer interface {
		// Start opens a span and returns the derived context.
		Start(ctx context.Context, name string) (context.Context, Span)
	}

	// Span is an open tracing span.
	Span interface {
		// End closes the span.
		End()
		// RecordError attaches an error to the span.
		RecordError(err error)
	}

	// NoopLogger discards all log messages.
	NoopLogger struct{}

	// NoopMetrics discards all measurements.
	NoopMetrics struct{}

	// NoopTracer produces spans that do nothing.
	NoopTracer struct{}

	noopSpan struct{}
)

// Debug discards the message.
func (NoopLogger) Debug(context.Context, string, ...any) {}

// Info discards the message.
func (NoopLogger) Info(context.Context, string, ...any) {}

// Warn discards the message.
func (NoopLogger) Warn(context.Context, string, ...any) {}

// Error discards the message.
func (NoopLogger) Error(context.Context, string, ...any) {}

// IncCounter discards the measurement.
func (NoopMetrics) IncCounter(string, float64, ...string) {}

// RecordTimer discards the measurement.
func (NoopMetrics) RecordTimer(string, time.Duration, ...string) {}

// Start returns the context unchanged and a span that does nothing.
func (NoopTracer) Start(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, noopSpan{}
}

func (noopSpan) End()              {}
func (noopSpan) RecordError(error) {}
