package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wam/internal/adapters/archive"    //nolint:depguard // Wired in app layer
	"go.trai.ch/wam/internal/adapters/config"     //nolint:depguard // Wired in app layer
	"go.trai.ch/wam/internal/adapters/curse"      //nolint:depguard // Wired in app layer
	"go.trai.ch/wam/internal/adapters/httpclient" //nolint:depguard // Wired in app layer
	"go.trai.ch/wam/internal/adapters/lockfile"   //nolint:depguard // Wired in app layer
	"go.trai.ch/wam/internal/adapters/logger"     //nolint:depguard // Wired in app layer
	"go.trai.ch/wam/internal/adapters/tukui"      //nolint:depguard // Wired in app layer
	"go.trai.ch/wam/internal/core/ports"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			lockfile.NodeID,
			httpclient.NodeID,
			curse.CurseNodeID,
			curse.AceNodeID,
			tukui.NodeID,
			archive.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Components, error) {
			a, err := graft.Dep[*App](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return &Components{App: a, Logger: log}, nil
		},
	})
}

//nolint:cyclop // one lookup per dependency
func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	lockFile, err := graft.Dep[ports.LockFile](ctx)
	if err != nil {
		return nil, err
	}

	fetcher, err := graft.Dep[ports.Fetcher](ctx)
	if err != nil {
		return nil, err
	}

	curseProvider, err := graft.Dep[curse.CurseProvider](ctx)
	if err != nil {
		return nil, err
	}

	aceProvider, err := graft.Dep[curse.AceProvider](ctx)
	if err != nil {
		return nil, err
	}

	tukuiProvider, err := graft.Dep[*tukui.Provider](ctx)
	if err != nil {
		return nil, err
	}

	extractor, err := graft.Dep[ports.Extractor](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	providers := ports.NewProviders(curseProvider, aceProvider, tukuiProvider)
	return New(loader, lockFile, fetcher, providers, extractor, log), nil
}
