package tui

import (
	"fmt"
	"strings"

	"go.trai.ch/wam/internal/ui/style"
)

// View renders finished stages as one summary line and the active stage as
// its running addons followed by a tally.
func (m *Model) View() string {
	if len(m.Stages) == 0 {
		return dimStyle.Render("Loading addons...") + "\n"
	}

	var b strings.Builder
	for _, s := range m.Stages {
		if s.Done {
			b.WriteString(m.doneLine(s) + "\n")
			continue
		}

		fmt.Fprintf(&b, "%s %d/%d\n", titleStyle.Render(strings.ToUpper(s.Name)),
			s.Count(RowDone)+s.Count(RowFailed), len(s.Rows))
		for _, r := range s.Rows {
			if r.Status == RowRunning {
				b.WriteString(m.runningLine(r) + "\n")
			}
		}
		b.WriteString(dimStyle.Render(tally(s)) + "\n")
	}
	return b.String()
}

func (m *Model) runningLine(r *Row) string {
	line := "  " + m.spinner.View() + " " + runningStyle.Render(r.Name)
	if r.Step != "" {
		line += " " + dimStyle.Render(r.Step)
	}
	return line
}

func (m *Model) doneLine(s *Stage) string {
	failed := s.Count(RowFailed)
	if failed > 0 {
		return failedStyle.Render(style.Cross+" "+s.Name) + " " + dimStyle.Render(tally(s))
	}
	return doneStyle.Render(style.Check+" "+s.Name) + " " + dimStyle.Render(tally(s))
}

func tally(s *Stage) string {
	parts := []string{fmt.Sprintf("%d done", s.Count(RowDone))}
	if n := s.Count(RowFailed); n > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", n))
	}
	if n := s.Count(RowPending); n > 0 {
		parts = append(parts, fmt.Sprintf("%d pending", n))
	}
	return strings.Join(parts, " · ")
}
