package ports

import "go.trai.ch/wam/internal/core/domain"

// ConfigLoader defines the interface for loading the addon configuration.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration found in cwd and applies overrides on top of it.
	Load(cwd string, overrides domain.Overrides) (*domain.Config, error)
}
