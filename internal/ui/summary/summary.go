// Package summary renders the outcome of a sync run.
package summary

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/wam/internal/ui/style"
)

// dateLayout formats publication times in the summary.
const dateLayout = "2006-01-02"

// Render formats s as one line per addon, grouped as updated, current, then
// failed and sorted by key within each group, followed by a totals line.
func Render(out *termenv.Output, s *domain.Summary) string {
	groups := [][]domain.Outcome{
		s.ByStatus(domain.StatusUpdated),
		s.ByStatus(domain.StatusCurrent),
		s.ByStatus(domain.StatusFailed),
	}

	width := 0
	for _, g := range groups {
		for _, o := range g {
			width = max(width, lipgloss.Width(o.Key))
		}
	}

	var b strings.Builder
	for _, g := range groups {
		for _, o := range g {
			status := string(o.Status)
			icon := out.String(style.StatusIcon(status)).Foreground(out.Color(string(style.StatusColor(status))))
			key := o.Key + strings.Repeat(" ", width-lipgloss.Width(o.Key))
			fmt.Fprintf(&b, "  %s %s  %s\n", icon, key, detail(out, o))
		}
	}

	if len(s.Outcomes) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(totals(len(groups[0]), len(groups[1]), len(groups[2])) + "\n")
	return b.String()
}

func detail(out *termenv.Output, o domain.Outcome) string {
	switch o.Status {
	case domain.StatusUpdated:
		return o.Lock.Version + " " + out.String("("+o.Lock.PublishedTime().Format(dateLayout)+")").Faint().String()
	case domain.StatusCurrent:
		return o.Lock.Version + " " + out.String("(up to date)").Faint().String()
	default:
		msg := "unknown error"
		if o.Err != nil {
			msg = o.Err.Error()
		}
		line := out.String(msg).Foreground(out.Color(string(style.Red))).String()
		if class := domain.ClassOf(o.Err); class != "" {
			line += " " + out.String("["+class+"]").Faint().String()
		}
		return line
	}
}

func totals(updated, current, failed int) string {
	return fmt.Sprintf("%d updated, %d up to date, %d failed", updated, current, failed)
}
