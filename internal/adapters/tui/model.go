// Package tui renders sync progress as an interactive Bubble Tea view.
package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/wam/internal/ui/output"
)

// RowStatus is the state of one addon within a stage.
type RowStatus int

const (
	// RowPending means the addon has not started yet.
	RowPending RowStatus = iota
	// RowRunning means the addon is being processed.
	RowRunning
	// RowDone means the addon finished successfully.
	RowDone
	// RowFailed means the addon failed in this stage.
	RowFailed
)

// Row is one addon in a stage.
type Row struct {
	Name   string
	Status RowStatus
	Step   string
	Err    error
}

// Stage groups the addons processed by one fan-out phase.
type Stage struct {
	Name string
	Rows []*Row
	Done bool

	byName map[string]*Row
}

func newStage(name string) *Stage {
	return &Stage{Name: name, byName: make(map[string]*Row)}
}

func (s *Stage) row(name string) *Row {
	if r, ok := s.byName[name]; ok {
		return r
	}
	r := &Row{Name: name}
	s.byName[name] = r
	s.Rows = append(s.Rows, r)
	return r
}

// Count returns the number of rows with the given status.
func (s *Stage) Count(status RowStatus) int {
	n := 0
	for _, r := range s.Rows {
		if r.Status == status {
			n++
		}
	}
	return n
}

// Model is the Bubble Tea model for a sync run.
type Model struct {
	Stages []*Stage

	stageByName map[string]*Stage
	stageSpans  map[string]*Stage
	rowSpans    map[string]*Row

	spinner     spinner.Model
	disableTick bool
}

// NewModel creates an empty model whose colors follow the profile of w.
func NewModel(w io.Writer) Model {
	if w == nil {
		w = os.Stderr
	}
	lipgloss.SetColorProfile(output.New(w).Profile)

	return Model{
		stageByName: make(map[string]*Stage),
		stageSpans:  make(map[string]*Stage),
		rowSpans:    make(map[string]*Row),
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(runningStyle),
		),
	}
}

// WithDisableTick stops the spinner from scheduling ticks.
// Tests driving the model synchronously use it.
func (m Model) WithDisableTick() Model {
	m.disableTick = true
	return m
}

// Init starts the spinner.
func (m *Model) Init() tea.Cmd {
	if m.disableTick {
		return nil
	}
	return m.spinner.Tick
}

func (m *Model) stage(name string) *Stage {
	if s, ok := m.stageByName[name]; ok {
		return s
	}
	s := newStage(name)
	m.stageByName[name] = s
	m.Stages = append(m.Stages, s)
	return s
}

// Update applies a message to the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Interrupt
		}

	case spinner.TickMsg:
		if m.disableTick {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case msgPlan:
		s := m.stage(msg.Stage)
		for _, name := range msg.Subjects {
			s.row(name)
		}

	case msgTaskStart:
		if msg.ParentID == "" {
			m.stageSpans[msg.SpanID] = m.stage(msg.Name)
			break
		}
		s, ok := m.stageSpans[msg.ParentID]
		if !ok {
			break
		}
		r := s.row(msg.Name)
		r.Status = RowRunning
		m.rowSpans[msg.SpanID] = r

	case msgTaskProgress:
		if r, ok := m.rowSpans[msg.SpanID]; ok {
			r.Step = msg.Step
		}

	case msgTaskComplete:
		if r, ok := m.rowSpans[msg.SpanID]; ok {
			delete(m.rowSpans, msg.SpanID)
			r.Status = RowDone
			if msg.Err != nil {
				r.Status = RowFailed
				r.Err = msg.Err
			}
			break
		}
		if s, ok := m.stageSpans[msg.SpanID]; ok {
			delete(m.stageSpans, msg.SpanID)
			s.Done = true
		}
	}

	return m, nil
}
