package gateway

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weave/internal/adapters/metrics"            //nolint:depguard // Wired in engine layer
	"go.trai.ch/weave/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine layer
	"go.trai.ch/weave/internal/core/ports"
)

// NodeID is the unique identifier for the gateway Graft node.
const NodeID graft.ID = "engine.gateway"

func init() {
	graft.Register(graft.Node[*Gateway]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{progrock.NodeID, metrics.NodeID},
		Run: func(ctx context.Context) (*Gateway, error) {
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			m, err := graft.Dep[ports.Metrics](ctx)
			if err != nil {
				return nil, err
			}
			return New(telemetry, m), nil
		},
	})
}
