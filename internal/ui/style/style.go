// Package style provides shared colors and icons for terminal output.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	White  = lipgloss.Color("#FFFFFF")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
	Circle  = "○"
	Equal   = "="
)

// StatusIcon returns the icon for an addon outcome label.
func StatusIcon(status string) string {
	switch status {
	case "updated":
		return Check
	case "current":
		return Equal
	case "failed":
		return Cross
	default:
		return Circle
	}
}

// StatusColor returns the color for an addon outcome label.
func StatusColor(status string) lipgloss.Color {
	switch status {
	case "updated":
		return Green
	case "failed":
		return Red
	default:
		return Slate
	}
}
