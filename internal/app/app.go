// Package app implements the application layer for weave.
package app

import (
	"context"
	"net/http"
	"os"
	"sync"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/weave/internal/engine/codec"
	"go.trai.ch/weave/internal/engine/gateway"
	"go.trai.ch/weave/internal/engine/resolver"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	logger       ports.Logger
	backend      ports.Backend
	gateway      *gateway.Gateway
	store        ports.ArtifactStore
	metrics      ports.Metrics
	watcher      ports.Watcher

	mu         sync.RWMutex
	configPath string
	snap       *snapshot
}

// snapshot is everything derived from one loaded configuration.
type snapshot struct {
	cfg       *domain.Configuration
	resolver  *resolver.Resolver
	generator ports.Generator
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	log ports.Logger,
	backend ports.Backend,
	gw *gateway.Gateway,
	store ports.ArtifactStore,
	metrics ports.Metrics,
	w ports.Watcher,
) *App {
	return &App{
		configLoader: loader,
		logger:       log,
		backend:      backend,
		gateway:      gw,
		store:        store,
		metrics:      metrics,
		watcher:      w,
	}
}

// LoadConfig loads the configuration at path, or discovers weave.yaml from the
// working directory when path is empty. It replaces the current snapshot; the
// artifact cache is kept.
func (a *App) LoadConfig(path string) error {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return zerr.Wrap(err, "failed to get working directory")
		}
		path, err = a.configLoader.DiscoverConfigPath(cwd)
		if err != nil {
			return err
		}
	}

	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}

	a.mu.Lock()
	a.configPath = path
	a.snap = &snapshot{
		cfg:       cfg,
		resolver:  resolver.New(cfg),
		generator: a.backend.Generator(cfg),
	}
	a.mu.Unlock()

	a.logger.Debug("loaded configuration from " + path)
	return nil
}

func (a *App) current() (*snapshot, error) {
	a.mu.RLock()
	snap, path := a.snap, a.configPath
	a.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	if err := a.LoadConfig(path); err != nil {
		return nil, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.snap, nil
}

// Resolve returns the composition context of the named type.
func (a *App) Resolve(ctx context.Context, name string) (*domain.CompositionContext, error) {
	snap, err := a.current()
	if err != nil {
		return nil, err
	}
	return resolveIn(ctx, snap, name)
}

func resolveIn(ctx context.Context, snap *snapshot, name string) (*domain.CompositionContext, error) {
	t, err := domain.ParseTypeRef(name)
	if err != nil {
		return nil, err
	}
	if !snap.cfg.Knows(t) {
		return nil, zerr.With(zerr.Wrap(domain.ErrUnknownType, "type is not described in the configuration"), "target", name)
	}
	return snap.resolver.Resolve(ctx, t)
}

// ResolveAll resolves every declared target.
func (a *App) ResolveAll(ctx context.Context) ([]*domain.CompositionContext, error) {
	snap, err := a.current()
	if err != nil {
		return nil, err
	}
	resolved, err := snap.resolver.ResolveAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.CompositionContext, 0, len(resolved))
	for _, t := range snap.cfg.Targets() {
		out = append(out, resolved[t])
	}
	return out, nil
}

// Order returns the mixins of the named type in application order, outermost first.
func (a *App) Order(ctx context.Context, name string) ([]domain.MixinDescriptor, error) {
	c, err := a.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return c.Order()
}

// GetArtifact returns the composed artifact of the named type, generating it on first use.
func (a *App) GetArtifact(ctx context.Context, name string) (domain.Artifact, error) {
	snap, err := a.current()
	if err != nil {
		return nil, err
	}
	c, err := resolveIn(ctx, snap, name)
	if err != nil {
		return nil, err
	}
	return a.gateway.GetOrGenerate(ctx, c, snap.generator)
}

// Flatten returns the metadata record of the named type's composition.
func (a *App) Flatten(ctx context.Context, name string) (domain.MetadataRecord, error) {
	c, err := a.Resolve(ctx, name)
	if err != nil {
		return domain.MetadataRecord{}, err
	}
	return codec.Flatten(c), nil
}

// ImportArtifact registers an artifact generated elsewhere under its record.
func (a *App) ImportArtifact(record domain.MetadataRecord, artifact domain.Artifact) (domain.Artifact, error) {
	return a.gateway.Import(record, artifact)
}

// ResetWorkspace exports the artifacts generated since the last reset and
// starts a new workspace.
func (a *App) ResetWorkspace() []domain.ExportedArtifact {
	exported := a.gateway.Reset()
	a.logger.Debug("workspace reset, new workspace " + a.gateway.WorkspaceName())
	return exported
}

// Stats returns the request counts per outcome.
func (a *App) Stats() map[domain.GenerationStatus]float64 {
	return a.metrics.Snapshot()
}

// MetricsHandler returns an HTTP handler for the metrics, when the collector provides one.
func (a *App) MetricsHandler() (http.Handler, bool) {
	h, ok := a.metrics.(interface{ Handler() http.Handler })
	if !ok {
		return nil, false
	}
	return h.Handler(), true
}
