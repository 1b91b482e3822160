// Package telemetry adapts OpenTelemetry spans to the scheduler's tracing port
// and forwards them to a progress renderer.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/wam/internal/core/ports"
)

// InstrumentationName names the tracer used for sync runs.
const InstrumentationName = "go.trai.ch/wam"

// NewProvider returns a TracerProvider that reports staged spans to renderer.
// Callers shut it down when the run ends.
func NewProvider(renderer ports.Renderer) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewBridge(renderer)),
	)
}

// OTelTracer is a ports.Tracer backed by OpenTelemetry.
type OTelTracer struct {
	tracer   trace.Tracer
	renderer ports.Renderer
}

// NewOTelTracer creates a tracer from tp.
func NewOTelTracer(tp trace.TracerProvider) *OTelTracer {
	return &OTelTracer{tracer: tp.Tracer(InstrumentationName)}
}

// WithRenderer sets the renderer that receives plans and step updates.
// Span lifecycle events reach the renderer through the provider's Bridge.
func (t *OTelTracer) WithRenderer(r ports.Renderer) *OTelTracer {
	t.renderer = r
	return t
}

// Start creates a new span.
func (t *OTelTracer) Start(ctx context.Context, name string, opts ...ports.SpanOption) (context.Context, ports.Span) {
	cfg := &ports.SpanConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	var startOpts []trace.SpanStartOption
	if cfg.Stage != "" {
		startOpts = append(startOpts, trace.WithAttributes(attribute.String(AttrStage, cfg.Stage)))
	}

	ctx, span := t.tracer.Start(ctx, name, startOpts...)
	return ctx, &OTelSpan{span: span, renderer: t.renderer}
}

// EmitPlan records the stage plan on the current span and hands it to the renderer.
func (t *OTelTracer) EmitPlan(ctx context.Context, stage string, subjects []string) {
	span := trace.SpanFromContext(ctx)
	if span.IsRecording() {
		span.AddEvent(EventPlan, trace.WithAttributes(
			attribute.String(AttrStage, stage),
			attribute.StringSlice(AttrSubjects, subjects),
		))
	}

	if t.renderer != nil {
		t.renderer.OnPlanEmit(stage, subjects)
	}
}

// Span attribute and event names.
const (
	AttrStage    = "wam.stage"
	AttrSubjects = "wam.subjects"
	AttrStep     = "wam.step"
	EventPlan    = "plan_emitted"
	EventStep    = "step"
)

// OTelSpan is a ports.Span backed by an OpenTelemetry span.
type OTelSpan struct {
	span     trace.Span
	renderer ports.Renderer
}

// ID returns the hex span ID used to address the span in renderers.
func (s *OTelSpan) ID() string {
	return s.span.SpanContext().SpanID().String()
}

// Step records step as a span event and reports it to the renderer.
func (s *OTelSpan) Step(step string) {
	s.span.AddEvent(EventStep, trace.WithAttributes(attribute.String(AttrStep, step)))
	if s.renderer != nil {
		s.renderer.OnTaskProgress(s.ID(), step)
	}
}

// End completes the span.
func (s *OTelSpan) End() {
	s.span.End()
}

// RecordError records err and marks the span as failed.
func (s *OTelSpan) RecordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

// SetAttribute adds a key-value pair to the span.
func (s *OTelSpan) SetAttribute(key string, value any) {
	switch v := value.(type) {
	case string:
		s.span.SetAttributes(attribute.String(key, v))
	case int:
		s.span.SetAttributes(attribute.Int(key, v))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, v))
	case uint64:
		s.span.SetAttributes(attribute.Int64(key, int64(v))) //nolint:gosec // publication epochs fit in int64
	case float64:
		s.span.SetAttributes(attribute.Float64(key, v))
	case bool:
		s.span.SetAttributes(attribute.Bool(key, v))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, v))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", v)))
	}
}
