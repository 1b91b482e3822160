// Package detector selects the progress output mode for the current environment.
package detector

import (
	"os"

	"golang.org/x/term"
)

// OutputMode represents the rendering mode for a sync run.
type OutputMode int

const (
	// ModeAuto defers to environment detection.
	ModeAuto OutputMode = iota
	// ModeTUI selects the interactive renderer.
	ModeTUI
	// ModeLinear selects line-oriented output for CI and pipes.
	ModeLinear
)

func (m OutputMode) String() string {
	switch m {
	case ModeTUI:
		return "tui"
	case ModeLinear:
		return "linear"
	default:
		return "auto"
	}
}

// DetectEnvironment returns the recommended mode for the process.
// Progress is drawn on stderr, so that is the stream checked for a terminal.
func DetectEnvironment() OutputMode {
	return Detect(term.IsTerminal(int(os.Stderr.Fd())), os.Getenv) //nolint:gosec // fd fits in int
}

// Detect picks ModeLinear when the output is not a terminal or CI is set to
// "true" or "1", and ModeTUI otherwise.
func Detect(isTTY bool, getenv func(string) string) OutputMode {
	ci := getenv("CI")
	if !isTTY || ci == "true" || ci == "1" {
		return ModeLinear
	}
	return ModeTUI
}

// ResolveMode applies the configured mode on top of detection.
// Accepted values are "auto", "tui", "linear", "ci" and empty; anything else
// falls back to autoDetected.
func ResolveMode(autoDetected OutputMode, configured string) OutputMode {
	switch configured {
	case "tui":
		return ModeTUI
	case "linear", "ci":
		return ModeLinear
	default:
		return autoDetected
	}
}
