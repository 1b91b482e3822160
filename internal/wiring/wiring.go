// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/wam/internal/adapters/archive"
	_ "go.trai.ch/wam/internal/adapters/config"
	_ "go.trai.ch/wam/internal/adapters/curse"
	_ "go.trai.ch/wam/internal/adapters/httpclient"
	_ "go.trai.ch/wam/internal/adapters/lockfile"
	_ "go.trai.ch/wam/internal/adapters/logger"
	_ "go.trai.ch/wam/internal/adapters/tukui"
	// Register app nodes.
	_ "go.trai.ch/wam/internal/app"
)
