// Package resolver computes composition contexts along the type hierarchy.
package resolver

import (
	"context"
	"runtime"
	"slices"
	"strings"
	"sync"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/engine/builder"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Resolver resolves and memoizes the composition context of every type in one
// configuration snapshot. It is safe for concurrent use.
type Resolver struct {
	cfg *domain.Configuration

	mu   sync.Mutex
	memo map[domain.TypeRef]*domain.CompositionContext
}

// New creates a Resolver for cfg. Loading a new configuration requires a new Resolver.
func New(cfg *domain.Configuration) *Resolver {
	return &Resolver{
		cfg:  cfg,
		memo: make(map[domain.TypeRef]*domain.CompositionContext),
	}
}

// Configuration returns the snapshot r resolves against.
func (r *Resolver) Configuration() *domain.Configuration {
	return r.cfg
}

// Resolve returns the composition context of t.
//
// The nearest ancestor that either has a declaration or is already resolved
// supplies the inherited context; ancestors are searched breadth-first across
// the ordered supertypes. A type with neither a declaration nor a contributing
// ancestor resolves to an empty context.
func (r *Resolver) Resolve(ctx context.Context, t domain.TypeRef) (*domain.CompositionContext, error) {
	return r.resolve(ctx, t, nil)
}

func (r *Resolver) resolve(ctx context.Context, t domain.TypeRef, path []domain.TypeRef) (*domain.CompositionContext, error) {
	if c, ok := r.lookup(t); ok {
		return c, nil
	}

	if slices.Contains(path, t) {
		cycle := append(domain.TypeNames(path), t.String())
		return nil, zerr.With(
			zerr.With(zerr.Wrap(domain.ErrInternalConsistency, "type resolution re-entered itself"), "target", t.String()),
			"path", strings.Join(cycle, " -> "),
		)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path = append(path, t)

	var inherited *domain.CompositionContext
	if ancestor, ok := r.nearestAncestor(t); ok {
		c, err := r.resolve(ctx, ancestor, path)
		if err != nil {
			return nil, err
		}
		inherited = c
	}

	decl, ok := r.cfg.Declaration(t)
	if !ok {
		decl = domain.Declaration{Target: t}
	}

	c, err := builder.Build(decl, inherited)
	if err != nil {
		return nil, err
	}

	return r.store(t, c), nil
}

// nearestAncestor walks the supertypes of t breadth-first.
func (r *Resolver) nearestAncestor(t domain.TypeRef) (domain.TypeRef, bool) {
	queue := slices.Clone(r.cfg.Supertypes(t))
	seen := make(map[domain.TypeRef]struct{}, len(queue))
	for _, s := range queue {
		seen[s] = struct{}{}
	}

	for len(queue) > 0 {
		candidate := queue[0]
		queue = queue[1:]

		if _, ok := r.lookup(candidate); ok {
			return candidate, true
		}
		if _, ok := r.cfg.Declaration(candidate); ok {
			return candidate, true
		}

		for _, s := range r.cfg.Supertypes(candidate) {
			if _, ok := seen[s]; !ok {
				seen[s] = struct{}{}
				queue = append(queue, s)
			}
		}
	}
	return domain.TypeRef{}, false
}

func (r *Resolver) lookup(t domain.TypeRef) (*domain.CompositionContext, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.memo[t]
	return c, ok
}

// store memoizes c unless a concurrent resolution got there first.
func (r *Resolver) store(t domain.TypeRef, c *domain.CompositionContext) *domain.CompositionContext {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.memo[t]; ok {
		return existing
	}
	r.memo[t] = c
	return c
}

// ResolveAll resolves every declared target concurrently.
func (r *Resolver) ResolveAll(ctx context.Context) (map[domain.TypeRef]*domain.CompositionContext, error) {
	targets := r.cfg.Targets()
	results := make([]*domain.CompositionContext, len(targets))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, t := range targets {
		g.Go(func() error {
			c, err := r.Resolve(ctx, t)
			if err != nil {
				return err
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[domain.TypeRef]*domain.CompositionContext, len(targets))
	for i, t := range targets {
		out[t] = results[i]
	}
	return out, nil
}
