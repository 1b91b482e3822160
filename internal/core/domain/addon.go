// Package domain holds the core types of wam: addon requests, resolved locks
// and the lock store they are merged into.
package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// ProviderKind identifies a content provider.
type ProviderKind string

const (
	// ProviderCurse is the CurseForge files listing.
	ProviderCurse ProviderKind = "curse"
	// ProviderAce is the WowAce files listing. It shares the CurseForge page layout.
	ProviderAce ProviderKind = "ace"
	// ProviderTukui is tukui.org, covering both the flagship UIs and its addon index.
	ProviderTukui ProviderKind = "tukui"
)

// ProviderKinds lists every supported provider.
var ProviderKinds = []ProviderKind{ProviderCurse, ProviderAce, ProviderTukui}

// ParseProviderKind maps a configured provider string to a known kind.
func ParseProviderKind(s string) (ProviderKind, error) {
	kind := ProviderKind(strings.ToLower(strings.TrimSpace(s)))
	switch kind {
	case ProviderCurse, ProviderAce, ProviderTukui:
		return kind, nil
	default:
		return "", ConfigError(zerr.With(ErrUnknownProvider, "provider", s))
	}
}

// AddonRequest is one configured addon. It is immutable once created.
type AddonRequest struct {
	Name     string
	Provider ProviderKind
}

// NewAddonRequest validates and normalizes a configured (name, provider) pair.
func NewAddonRequest(name, provider string) (AddonRequest, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return AddonRequest{}, ConfigError(zerr.With(ErrMissingAddonName, "provider", provider))
	}

	kind, err := ParseProviderKind(provider)
	if err != nil {
		return AddonRequest{}, zerr.With(err, "addon", n)
	}

	return AddonRequest{Name: n, Provider: kind}, nil
}

// Key returns the lock identity "{provider}/{name}".
func (r AddonRequest) Key() string {
	return LockKey(r.Provider, r.Name)
}

// LockKey builds the lock identity for a provider and addon name.
func LockKey(provider ProviderKind, name string) string {
	return string(provider) + "/" + name
}
