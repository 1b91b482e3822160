// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/wam/internal/core/domain"
	"go.trai.ch/zerr"
)

// Provider resolves version metadata and fetches archives from one content source.
//
//go:generate mockgen -source=provider.go -destination=mocks/mock_provider.go -package=mocks
type Provider interface {
	// Kind returns the provider this implementation serves.
	Kind() domain.ProviderKind

	// Resolve returns the latest published version of req.
	// previous is the lock persisted by an earlier run, or nil on first sync.
	Resolve(
		ctx context.Context,
		req domain.AddonRequest,
		previous *domain.ResolvedLock,
		progress Progress,
	) (domain.ResolvedLock, error)

	// Fetch downloads the archive described by lock into dir.
	Fetch(
		ctx context.Context,
		req domain.AddonRequest,
		lock domain.ResolvedLock,
		dir string,
		progress Progress,
	) (domain.DownloadedArchive, error)
}

// Providers dispatches addon requests to their provider.
type Providers map[domain.ProviderKind]Provider

// NewProviders indexes the given providers by kind.
func NewProviders(list ...Provider) Providers {
	p := make(Providers, len(list))
	for _, prov := range list {
		p[prov.Kind()] = prov
	}
	return p
}

// For returns the provider serving kind.
func (p Providers) For(kind domain.ProviderKind) (Provider, error) {
	prov, ok := p[kind]
	if !ok {
		return nil, domain.ConfigError(zerr.With(domain.ErrUnknownProvider, "provider", string(kind)))
	}
	return prov, nil
}
