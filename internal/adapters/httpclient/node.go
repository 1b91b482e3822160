package httpclient

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wam/internal/core/ports"
)

// NodeID is the unique identifier for the HTTP fetcher Graft node.
const NodeID graft.ID = "adapter.httpclient"

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.Fetcher, error) {
			return New(), nil
		},
	})
}
