package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/weave/internal/adapters/cas"                //nolint:depguard // Wired in app layer
	"go.trai.ch/weave/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"go.trai.ch/weave/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"go.trai.ch/weave/internal/adapters/metrics"            //nolint:depguard // Wired in app layer
	"go.trai.ch/weave/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"go.trai.ch/weave/internal/adapters/watcher"            //nolint:depguard // Wired in app layer
	"go.trai.ch/weave/internal/adapters/weaver"             //nolint:depguard // Wired in app layer
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/weave/internal/engine/gateway"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			logger.NodeID,
			weaver.NodeID,
			gateway.NodeID,
			cas.NodeID,
			metrics.NodeID,
			watcher.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
			config.NodeID,
			progrock.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	backend, err := graft.Dep[ports.Backend](ctx)
	if err != nil {
		return nil, err
	}

	gw, err := graft.Dep[*gateway.Gateway](ctx)
	if err != nil {
		return nil, err
	}

	store, err := graft.Dep[ports.ArtifactStore](ctx)
	if err != nil {
		return nil, err
	}

	m, err := graft.Dep[ports.Metrics](ctx)
	if err != nil {
		return nil, err
	}

	w, err := graft.Dep[ports.Watcher](ctx)
	if err != nil {
		return nil, err
	}

	return New(loader, log, backend, gw, store, m, w), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	loader, err := graft.Dep[ports.ConfigLoader](ctx)
	if err != nil {
		return nil, err
	}

	telemetry, err := graft.Dep[ports.Telemetry](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:          app,
		Logger:       log,
		ConfigLoader: loader,
		Telemetry:    telemetry,
	}, nil
}
