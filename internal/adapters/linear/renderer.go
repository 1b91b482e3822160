// Package linear renders sync progress as plain chronological lines for CI
// logs and pipes.
package linear

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/muesli/termenv"
	"go.trai.ch/wam/internal/ui/output"
	"go.trai.ch/wam/internal/ui/style"
)

// Renderer implements ports.Renderer by writing one line per event.
// Lines for an addon are prefixed with its key and the stage it is in.
type Renderer struct {
	w   io.Writer
	out *termenv.Output

	mu    sync.Mutex
	spans map[string]*span
}

type span struct {
	name      string
	stage     string
	startTime time.Time
}

// NewRenderer creates a Renderer writing to w. A nil w writes to stderr.
func NewRenderer(w io.Writer) *Renderer {
	if w == nil {
		w = os.Stderr
	}
	return &Renderer{
		w:     w,
		out:   output.NewWithProfile(w, output.ColorProfileANSI),
		spans: make(map[string]*span),
	}
}

// Start is a no-op; the renderer writes synchronously.
func (r *Renderer) Start(_ context.Context) error {
	return nil
}

// Stop is a no-op; nothing is buffered.
func (r *Renderer) Stop() error {
	return nil
}

// Wait is a no-op.
func (r *Renderer) Wait() error {
	return nil
}

// OnPlanEmit announces how many addons a stage will process.
func (r *Renderer) OnPlanEmit(stage string, subjects []string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	header := r.out.String(fmt.Sprintf("==> %s: %d addon(s)", stage, len(subjects))).Bold()
	r.printf("%s\n", header)
}

// OnTaskStart registers a span. Stage spans have no parent and are not printed;
// addon spans inherit the name of their stage.
func (r *Renderer) OnTaskStart(spanID, parentID, name string, startTime time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := &span{name: name, startTime: startTime}
	if parent, ok := r.spans[parentID]; ok {
		s.stage = parent.name
	}
	r.spans[spanID] = s
}

// OnTaskProgress prints the step an addon moved on to.
func (r *Renderer) OnTaskProgress(spanID, step string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.spans[spanID]
	if !ok {
		return
	}
	r.printf("%s %s\n", r.prefix(s), step)
}

// OnTaskComplete prints the result and duration of an addon or stage.
func (r *Renderer) OnTaskComplete(spanID string, endTime time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.spans[spanID]
	if !ok {
		return
	}
	delete(r.spans, spanID)

	duration := endTime.Sub(s.startTime).Round(time.Millisecond)

	if err != nil {
		icon := r.out.String(style.Cross).Foreground(termenv.ANSIRed)
		r.printf("%s %s failed after %v: %v\n", r.prefix(s), icon, duration, err)
		return
	}

	icon := r.out.String(style.Check).Foreground(termenv.ANSIGreen)
	r.printf("%s %s done in %v\n", r.prefix(s), icon, duration)
}

func (r *Renderer) prefix(s *span) string {
	label := "[" + s.name + "]"
	if s.stage != "" {
		label = "[" + s.stage + " " + s.name + "]"
	}
	return r.out.String(label).Faint().String()
}

// printf writes to the output. Callers hold mu.
func (r *Renderer) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(r.w, format, args...)
}
