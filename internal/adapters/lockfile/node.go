package lockfile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/wam/internal/adapters/logger"
	"go.trai.ch/wam/internal/core/ports"
)

// NodeID is the unique identifier for the lock file Graft node.
const NodeID graft.ID = "adapter.lockfile"

func init() {
	graft.Register(graft.Node[ports.LockFile]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.LockFile, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
