package tukui

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wam/internal/adapters/httpclient"
	"go.trai.ch/wam/internal/core/ports"
)

// NodeID is the unique identifier for the tukui provider Graft node.
const NodeID graft.ID = "adapter.provider.tukui"

func init() {
	graft.Register(graft.Node[*Provider]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{httpclient.NodeID},
		Run: func(ctx context.Context) (*Provider, error) {
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}
			return New(fetcher), nil
		},
	})
}
