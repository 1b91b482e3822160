package ports

import (
	"context"
)

//go:generate mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string, opts ...SpanOption) (context.Context, Span)
	// EmitPlan signals that a stage is about to process the given subjects.
	EmitPlan(ctx context.Context, stage string, subjects []string)
}

// Progress receives the named steps of a single operation.
type Progress interface {
	// Step reports that the operation moved on to step.
	Step(step string)
}

// Span represents a unit of work.
type Span interface {
	Progress
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
}

// SpanConfig holds configuration for a starting span.
type SpanConfig struct {
	// Stage tags the span with the pipeline stage it belongs to.
	Stage string
}

// SpanOption is a functional option for configuring a span.
type SpanOption func(*SpanConfig)

// WithStage tags the span with a pipeline stage.
func WithStage(stage string) SpanOption {
	return func(c *SpanConfig) {
		c.Stage = stage
	}
}
