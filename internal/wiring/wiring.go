// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/weave/internal/adapters/cas"
	_ "go.trai.ch/weave/internal/adapters/config"
	_ "go.trai.ch/weave/internal/adapters/logger"
	_ "go.trai.ch/weave/internal/adapters/metrics"
	_ "go.trai.ch/weave/internal/adapters/telemetry/progrock"
	_ "go.trai.ch/weave/internal/adapters/watcher"
	_ "go.trai.ch/weave/internal/adapters/weaver"
	// Register app and engine nodes.
	_ "go.trai.ch/weave/internal/app"
	_ "go.trai.ch/weave/internal/engine/gateway"
)
