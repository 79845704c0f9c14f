// Package weaver is the bundled generation back-end. It realises a composition
// as an ordered chain of handlers rather than emitting code.
package weaver

import (
	"context"
	"fmt"
	"slices"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Backend = (*Weaver)(nil)

// Weaver builds Composed artifacts.
type Weaver struct {
	logger ports.Logger
}

// New creates a Weaver.
func New(logger ports.Logger) *Weaver {
	return &Weaver{logger: logger}
}

// Generator returns a generator that validates every target against cfg.
func (w *Weaver) Generator(cfg *domain.Configuration) ports.Generator {
	return ports.GeneratorFunc(func(ctx context.Context, req ports.GenerationRequest, ws ports.Workspace) (domain.Artifact, error) {
		return w.generate(ctx, cfg, req, ws)
	})
}

// Rehydrate rebuilds an artifact for c under an existing handle, without
// consulting a configuration or touching a workspace.
func (w *Weaver) Rehydrate(_ context.Context, c *domain.CompositionContext, handle domain.ArtifactHandle) (domain.Artifact, error) {
	if handle == "" {
		return nil, zerr.With(zerr.Wrap(domain.ErrArtifactMismatch, "empty artifact handle"), "target", c.Target().String())
	}
	order, err := c.Order()
	if err != nil {
		return nil, err
	}
	return &Composed{handle: handle, context: c, order: order, rehydrated: true}, nil
}

func (w *Weaver) generate(
	ctx context.Context,
	cfg *domain.Configuration,
	req ports.GenerationRequest,
	ws ports.Workspace,
) (domain.Artifact, error) {
	c := req.Context
	if err := checkComposable(cfg, c); err != nil {
		return nil, err
	}

	composed := &Composed{
		handle:  ws.NextHandle(c.Target().String()),
		context: c,
		order:   slices.Clone(req.Order),
	}

	for _, m := range composed.order {
		key := domain.AuxiliaryKey(m.Type)
		if _, ok := ws.Secondary(key); ok {
			continue
		}
		ws.RegisterSecondary(key, &Auxiliary{
			handle:  ws.NextHandle("aux." + m.Type.String()),
			mixin:   m.Type,
			members: overrides(cfg, m.Type),
		})
	}

	msg := fmt.Sprintf("composed %s with %d mixins", c.Target(), len(composed.order))
	if v, ok := ports.VertexFromContext(ctx); ok {
		v.Log(domain.LogLevelDebug, msg)
	}
	if w.logger != nil {
		w.logger.Debug(msg)
	}
	return composed, nil
}

// checkComposable rejects sealed targets, mixins missing from the catalog and
// abstract members that no applied mixin overrides.
func checkComposable(cfg *domain.Configuration, c *domain.CompositionContext) error {
	target := c.Target()
	info, described := cfg.Type(target)
	if described && info.Sealed {
		return nonComposable("target is sealed", target)
	}

	for _, m := range c.Mixins() {
		if _, ok := lookup(cfg, m.Type); !ok {
			return zerr.With(nonComposable("mixin type is unknown", target), "mixin", m.Type.String())
		}
	}

	if !described {
		return nil
	}
	for _, member := range abstractMembers(cfg, target) {
		if !slices.ContainsFunc(c.Mixins(), func(m domain.MixinDescriptor) bool {
			return slices.Contains(overrides(cfg, m.Type), member)
		}) {
			return zerr.With(nonComposable("abstract member is not overridden", target), "member", member)
		}
	}
	return nil
}

// abstractMembers collects the abstract members of t and its ancestors,
// nearest first, without duplicates.
func abstractMembers(cfg *domain.Configuration, t domain.TypeRef) []string {
	var members []string
	seen := map[domain.TypeRef]bool{t: true}
	queue := []domain.TypeRef{t}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, member := range cfg.Types[cur].Abstract {
			if !slices.Contains(members, member) {
				members = append(members, member)
			}
		}
		for _, s := range cfg.Supertypes(cur) {
			if !seen[s] {
				seen[s] = true
				queue = append(queue, s)
			}
		}
	}
	return members
}

func lookup(cfg *domain.Configuration, t domain.TypeRef) (domain.TypeInfo, bool) {
	if info, ok := cfg.Type(t); ok {
		return info, true
	}
	return cfg.Type(t.Family())
}

func overrides(cfg *domain.Configuration, mixin domain.TypeRef) []string {
	info, _ := lookup(cfg, mixin)
	return info.Overrides
}

func nonComposable(msg string, target domain.TypeRef) error {
	return zerr.With(zerr.Wrap(domain.ErrNonComposableTarget, msg), "target", target.String())
}
