// Package gateway caches composed artifacts and serializes access to the
// generation workspace.
package gateway

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
	"go.trai.ch/weave/internal/engine/codec"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

type entry struct {
	artifact  domain.Artifact
	record    domain.MetadataRecord
	imported  bool
	secondary bool
}

// Gateway hands out one artifact per distinct composition context.
//
// Completed entries are read without locking. Concurrent misses for the same key
// are collapsed into one generation, and every generation runs inside the
// workspace-wide critical section.
type Gateway struct {
	entries sync.Map // domain.ContextKey -> *entry
	records sync.Map // domain.ArtifactHandle -> domain.MetadataRecord
	group   singleflight.Group

	mu sync.Mutex
	ws *workspace

	telemetry ports.Telemetry
	metrics   ports.Metrics
}

// New creates a Gateway with an empty cache and a fresh workspace.
// Nil collaborators are replaced with no-op implementations.
func New(telemetry ports.Telemetry, metrics ports.Metrics) *Gateway {
	if telemetry == nil {
		telemetry = nopTelemetry{}
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &Gateway{
		ws:        newWorkspace(),
		telemetry: telemetry,
		metrics:   metrics,
	}
}

// GetOrGenerate returns the cached artifact for c, generating it with gen on a miss.
//
// Ordering errors are reported before the workspace is touched. A failed
// generation leaves nothing behind, so the next call retries.
func (g *Gateway) GetOrGenerate(ctx context.Context, c *domain.CompositionContext, gen ports.Generator) (domain.Artifact, error) {
	key := c.Key()
	if e, ok := g.load(key); ok {
		g.cached(ctx, c)
		return e.artifact, nil
	}

	v, err, _ := g.group.Do(string(key), func() (any, error) {
		if e, ok := g.load(key); ok {
			return e.artifact, nil
		}

		order, err := c.Order()
		if err != nil {
			g.metrics.Record(domain.GenerationFailed)
			return nil, err
		}

		return g.generate(ctx, key, c, order, gen)
	})
	if err != nil {
		return nil, err
	}
	return v.(domain.Artifact), nil
}

func (g *Gateway) generate(
	ctx context.Context,
	key domain.ContextKey,
	c *domain.CompositionContext,
	order []domain.MixinDescriptor,
	gen ports.Generator,
) (domain.Artifact, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	// An import may have landed while this call waited for the workspace.
	if e, ok := g.load(key); ok {
		return e.artifact, nil
	}

	ctx, vertex := g.telemetry.Record(ctx, "compose "+c.Target().String())
	vertex.Log(domain.LogLevelDebug, "digest "+c.Digest())

	s := &session{ws: g.ws, gw: g, staged: make(map[domain.ContextKey]domain.Artifact)}
	start := time.Now()
	artifact, err := gen.Generate(ctx, ports.GenerationRequest{Context: c, Order: order}, s)
	g.metrics.ObserveGeneration(time.Since(start))

	if err == nil && artifact == nil {
		err = zerr.Wrap(domain.ErrInternalConsistency, "generator returned no artifact")
	}
	if err != nil {
		g.metrics.Record(domain.GenerationFailed)
		vertex.Complete(err)
		return nil, zerr.With(zerr.Wrap(err, "failed to generate artifact"), "target", c.Target().String())
	}

	record := codec.Flatten(c)
	if actual, loaded := g.entries.LoadOrStore(key, &entry{artifact: artifact, record: record}); loaded {
		// Import does not take the workspace lock; an entry it registered
		// during generation wins and the generated artifact is discarded.
		vertex.Log(domain.LogLevelDebug, "discarded, "+c.Target().String()+" was imported during generation")
		vertex.Cached()
		g.metrics.Record(domain.GenerationCached)
		return actual.(*entry).artifact, nil
	}
	g.records.Store(artifact.Handle(), record)
	g.ws.generated = append(g.ws.generated, key)

	for _, k := range s.ordered {
		g.entries.LoadOrStore(k, &entry{artifact: s.staged[k], secondary: true})
	}

	g.metrics.Record(domain.GenerationCompleted)
	vertex.Complete(nil)
	return artifact, nil
}

func (g *Gateway) cached(ctx context.Context, c *domain.CompositionContext) {
	g.metrics.Record(domain.GenerationCached)
	_, vertex := g.telemetry.Record(ctx, "compose "+c.Target().String(), ports.WithInternal())
	vertex.Cached()
}

// Import registers an artifact that was generated elsewhere, keyed by the
// composition its record describes. When an entry for that composition already
// exists it wins and is returned instead. Imported entries survive Reset.
func (g *Gateway) Import(record domain.MetadataRecord, artifact domain.Artifact) (domain.Artifact, error) {
	if artifact == nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrArtifactMismatch, "no artifact to import"), "target", record.Target)
	}

	c, err := codec.Reconstruct(record)
	if err != nil {
		return nil, err
	}

	normalized := codec.Flatten(c)
	actual, loaded := g.entries.LoadOrStore(c.Key(), &entry{artifact: artifact, record: normalized, imported: true})
	if loaded {
		return actual.(*entry).artifact, nil
	}

	g.records.Store(artifact.Handle(), normalized)
	g.metrics.Record(domain.GenerationImported)
	return artifact, nil
}

// Reset exports every artifact generated in the current workspace, drops all
// entries that were not imported and starts a new workspace.
func (g *Gateway) Reset() []domain.ExportedArtifact {
	g.mu.Lock()
	defer g.mu.Unlock()

	exported := g.exportable()
	g.reset()
	return exported
}

// Export hands every artifact generated in the current workspace to persist and
// resets the workspace once all of them were persisted. When persist fails the
// workspace is left untouched and the number persisted so far is returned.
func (g *Gateway) Export(persist func(domain.ExportedArtifact) error) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	exported := g.exportable()
	for i, e := range exported {
		if err := persist(e); err != nil {
			return i, zerr.With(zerr.Wrap(err, "failed to persist artifact"), "handle", string(e.Artifact.Handle()))
		}
	}
	g.reset()
	return len(exported), nil
}

func (g *Gateway) exportable() []domain.ExportedArtifact {
	exported := make([]domain.ExportedArtifact, 0, len(g.ws.generated))
	for _, key := range g.ws.generated {
		if e, ok := g.load(key); ok && !e.imported {
			exported = append(exported, domain.ExportedArtifact{Artifact: e.artifact, Record: e.record})
		}
	}
	return exported
}

// reset must be called with g.mu held.
func (g *Gateway) reset() {
	g.entries.Range(func(k, v any) bool {
		e := v.(*entry)
		if e.imported {
			return true
		}
		g.entries.Delete(k)
		if !e.secondary {
			g.records.Delete(e.artifact.Handle())
		}
		return true
	})

	g.ws = newWorkspace()
}

// Lookup returns the artifact cached under key without generating anything.
func (g *Gateway) Lookup(key domain.ContextKey) (domain.Artifact, bool) {
	e, ok := g.load(key)
	if !ok {
		return nil, false
	}
	return e.artifact, true
}

// RecordFor returns the metadata record of an artifact handed out by g.
func (g *Gateway) RecordFor(handle domain.ArtifactHandle) (domain.MetadataRecord, bool) {
	v, ok := g.records.Load(handle)
	if !ok {
		return domain.MetadataRecord{}, false
	}
	return v.(domain.MetadataRecord), true
}

// Len returns the number of cached compositions, excluding secondary artifacts.
func (g *Gateway) Len() int {
	n := 0
	g.entries.Range(func(_, v any) bool {
		if !v.(*entry).secondary {
			n++
		}
		return true
	})
	return n
}

// WorkspaceName identifies the current workspace.
func (g *Gateway) WorkspaceName() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ws.name
}

func (g *Gateway) load(key domain.ContextKey) (*entry, bool) {
	v, ok := g.entries.Load(key)
	if !ok {
		return nil, false
	}
	return v.(*entry), true
}
