package ports

import (
	"context"

	"go.trai.ch/weave/internal/core/domain"
)

// GenerationRequest is everything a back-end needs to compose one target.
type GenerationRequest struct {
	Context *domain.CompositionContext
	// Order is Context's mixins in application order, outermost first.
	Order []domain.MixinDescriptor
}

// Workspace is the single mutable generation area a back-end writes into.
// It is only valid for the duration of the Generate call it was passed to.
type Workspace interface {
	// Name identifies the workspace; it changes on every reset.
	Name() string
	// NextHandle mints a handle unique within the workspace.
	NextHandle(hint string) domain.ArtifactHandle
	// RegisterSecondary stages an auxiliary artifact. Staged artifacts are
	// committed only if the enclosing generation succeeds.
	RegisterSecondary(key domain.ContextKey, artifact domain.Artifact)
	// Secondary returns a committed or staged auxiliary artifact.
	Secondary(key domain.ContextKey) (domain.Artifact, bool)
}

// Generator produces an artifact for a composition context.
//
//go:generate mockgen -source=generator.go -destination=mocks/mock_generator.go -package=mocks
type Generator interface {
	// Generate composes req.Context. It returns domain.ErrNonComposableTarget
	// when the target cannot be composed.
	Generate(ctx context.Context, req GenerationRequest, ws Workspace) (domain.Artifact, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerationRequest, ws Workspace) (domain.Artifact, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req GenerationRequest, ws Workspace) (domain.Artifact, error) {
	return f(ctx, req, ws)
}

// Backend binds a generator to a configuration snapshot and rebuilds artifacts
// from persisted metadata.
type Backend interface {
	// Generator returns a generator that validates targets against cfg.
	Generator(cfg *domain.Configuration) Generator
	// Rehydrate rebuilds the artifact with the given handle for c without generating it again.
	Rehydrate(ctx context.Context, c *domain.CompositionContext, handle domain.ArtifactHandle) (domain.Artifact, error)
}
