package weaver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weave/internal/adapters/logger"
	"go.trai.ch/weave/internal/core/ports"
)

// NodeID is the unique identifier for the generation back-end Graft node.
const NodeID graft.ID = "adapter.weaver"

func init() {
	graft.Register(graft.Node[ports.Backend]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Backend, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(log), nil
		},
	})
}
