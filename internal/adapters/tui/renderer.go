package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer wraps the Bubble Tea program as a ports.Renderer.
type Renderer struct {
	program *tea.Program
	errCh   chan error
}

// NewRenderer creates a renderer for model.
func NewRenderer(model *Model, opts ...tea.ProgramOption) *Renderer {
	return &Renderer{
		program: tea.NewProgram(model, opts...),
		errCh:   make(chan error, 1),
	}
}

// Start runs the program in a background goroutine.
func (r *Renderer) Start(_ context.Context) error {
	go func() {
		_, err := r.program.Run()
		r.errCh <- err
	}()
	return nil
}

// Stop asks the program to quit after drawing its final frame.
func (r *Renderer) Stop() error {
	r.program.Quit()
	return nil
}

// Wait blocks until the program has terminated. It returns tea.ErrInterrupted
// when the user pressed ctrl+c.
func (r *Renderer) Wait() error {
	return <-r.errCh
}

// OnPlanEmit forwards the stage plan.
func (r *Renderer) OnPlanEmit(stage string, subjects []string) {
	r.program.Send(msgPlan{Stage: stage, Subjects: subjects})
}

// OnTaskStart forwards span starts.
func (r *Renderer) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.program.Send(msgTaskStart{SpanID: spanID, ParentID: parentID, Name: name, StartTime: startTime})
}

// OnTaskProgress forwards step changes.
func (r *Renderer) OnTaskProgress(spanID, step string) {
	r.program.Send(msgTaskProgress{SpanID: spanID, Step: step})
}

// OnTaskComplete forwards span completions.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.program.Send(msgTaskComplete{SpanID: spanID, EndTime: endTime, Err: err})
}
