package ports

import (
	"context"
	"time"
)

// Renderer is the abstraction for progress output.
// It decouples telemetry collection from presentation logic,
// allowing the same event stream to drive either a rich TUI or linear CI logs.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type Renderer interface {
	// Start initializes the renderer and begins its lifecycle.
	// For asynchronous renderers (like TUI), this may launch background goroutines.
	Start(ctx context.Context) error

	// Stop signals the renderer to stop accepting new events and prepare for shutdown.
	Stop() error

	// Wait blocks until the renderer has fully terminated.
	Wait() error

	// OnPlanEmit is called before a stage starts.
	// subjects lists the addon keys the stage will process, in start order.
	OnPlanEmit(stage string, subjects []string)

	// OnTaskStart is called when an operation begins.
	// spanID identifies the operation; parentID is empty for stage spans.
	OnTaskStart(spanID, parentID, name string, startTime time.Time)

	// OnTaskProgress is called when an operation moves on to a new step.
	OnTaskProgress(spanID, step string)

	// OnTaskComplete is called when an operation finishes.
	// err is nil if it succeeded.
	OnTaskComplete(spanID string, endTime time.Time, err error)
}
