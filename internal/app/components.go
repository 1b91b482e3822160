package app

import "go.trai.ch/wam/internal/core/ports"

// Components holds what the CLI needs from the dependency graph.
type Components struct {
	App    *App
	Logger ports.Logger
}
