package telemetry

import (
	"context"
	"errors"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/wam/internal/core/ports"
)

// errSpanFailed is reported for failed spans that carry no description.
var errSpanFailed = errors.New("operation failed")

// Bridge is a span processor that turns sync spans into renderer events.
// Only spans tagged with a stage are forwarded; anything else is instrumentation
// noise as far as the progress display is concerned.
type Bridge struct {
	renderer ports.Renderer

	// open holds the IDs of forwarded spans that have not ended yet.
	open sync.Map
}

// NewBridge returns a Bridge feeding renderer. A nil renderer drops all events.
func NewBridge(renderer ports.Renderer) *Bridge {
	return &Bridge{renderer: renderer}
}

// OnStart forwards stage and addon spans as task starts.
func (b *Bridge) OnStart(parent context.Context, s sdktrace.ReadWriteSpan) {
	if b.renderer == nil || !hasStage(s.Attributes()) {
		return
	}

	sc := s.SpanContext()
	if !sc.IsValid() {
		return
	}

	id := sc.SpanID().String()
	var parentID string
	if p := trace.SpanContextFromContext(parent); p.IsValid() {
		if _, tracked := b.open.Load(p.SpanID().String()); tracked {
			parentID = p.SpanID().String()
		}
	}

	b.open.Store(id, struct{}{})
	b.renderer.OnTaskStart(id, parentID, s.Name(), s.StartTime())
}

// OnEnd forwards completion of a span previously seen by OnStart.
// A span with error status is reported with its description as the error.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.renderer == nil {
		return
	}

	id := s.SpanContext().SpanID().String()
	if _, tracked := b.open.LoadAndDelete(id); !tracked {
		return
	}

	var err error
	if status := s.Status(); status.Code == codes.Error {
		err = errSpanFailed
		if status.Description != "" {
			err = errors.New(status.Description)
		}
	}
	b.renderer.OnTaskComplete(id, s.EndTime(), err)
}

// ForceFlush is a no-op; events are delivered synchronously.
func (b *Bridge) ForceFlush(context.Context) error { return nil }

// Shutdown is a no-op.
func (b *Bridge) Shutdown(context.Context) error { return nil }

func hasStage(attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		if string(kv.Key) == AttrStage && kv.Value.AsString() != "" {
			return true
		}
	}
	return false
}
