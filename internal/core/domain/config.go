package domain

import "time"

// DefaultRequestTimeout bounds a single provider request.
const DefaultRequestTimeout = 30 * time.Second

// Config is the loaded, validated configuration for a sync run.
type Config struct {
	// Addons in declaration order, with unique keys.
	Addons []AddonRequest
	// Parallel bounds in-flight operations per stage.
	Parallel int
	// Timeout bounds each provider request. Zero disables the bound.
	Timeout time.Duration
	// InstallDir receives extracted archives. It is absolute.
	InstallDir string
	// OutputMode selects the progress renderer: auto, tui or linear.
	OutputMode string
	// Root is the directory holding the config file. Lock and scratch paths are relative to it.
	Root string
}

// Overrides carries values that take precedence over the config file.
// Zero values mean "not set".
type Overrides struct {
	Parallel   int
	Timeout    time.Duration
	InstallDir string
	OutputMode string
}
