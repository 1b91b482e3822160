package curse

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wam/internal/adapters/httpclient"
	"go.trai.ch/wam/internal/core/ports"
)

const (
	// CurseNodeID is the unique identifier for the curse provider Graft node.
	CurseNodeID graft.ID = "adapter.provider.curse"
	// AceNodeID is the unique identifier for the ace provider Graft node.
	AceNodeID graft.ID = "adapter.provider.ace"
)

// CurseProvider and AceProvider give the two hosts distinct graph types.
type (
	CurseProvider struct{ *Provider }
	AceProvider   struct{ *Provider }
)

func init() {
	graft.Register(graft.Node[CurseProvider]{
		ID:        CurseNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{httpclient.NodeID},
		Run: func(ctx context.Context) (CurseProvider, error) {
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return CurseProvider{}, err
			}
			return CurseProvider{NewCurse(fetcher)}, nil
		},
	})

	graft.Register(graft.Node[AceProvider]{
		ID:        AceNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{httpclient.NodeID},
		Run: func(ctx context.Context) (AceProvider, error) {
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return AceProvider{}, err
			}
			return AceProvider{NewAce(fetcher)}, nil
		},
	})
}
