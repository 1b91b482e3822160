package tui

import (
	"github.com/charmbracelet/lipgloss"
	"go.trai.ch/wam/internal/ui/style"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Iris).
			Foreground(style.White)

	runningStyle = lipgloss.NewStyle().
			Foreground(style.Iris).
			Bold(true)

	doneStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	failedStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	dimStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			Faint(true)
)
