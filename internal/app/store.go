package app

import (
	"context"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/engine/codec"
	"go.trai.ch/zerr"
)

// Export persists every artifact generated since the last reset under root and
// then resets the workspace. When a write fails the workspace is kept, so the
// export can be retried. It returns the number of artifacts written.
func (a *App) Export(root string) (int, error) {
	n, err := a.gateway.Export(func(e domain.ExportedArtifact) error {
		c, err := codec.Reconstruct(e.Record)
		if err != nil {
			return err
		}
		return a.store.Put(root, domain.StoredArtifact{
			Handle: e.Artifact.Handle(),
			Digest: c.Digest(),
			Record: e.Record,
		})
	})
	if err != nil {
		return n, zerr.Wrap(err, "failed to export artifacts")
	}
	a.logger.Debug("workspace exported, new workspace " + a.gateway.WorkspaceName())
	return n, nil
}

// ImportFrom rehydrates every artifact stored under root and registers it with
// the gateway. It returns the number of artifacts imported.
func (a *App) ImportFrom(ctx context.Context, root string) (int, error) {
	stored, err := a.store.List(root)
	if err != nil {
		return 0, err
	}

	for _, s := range stored {
		c, err := codec.Reconstruct(s.Record)
		if err != nil {
			return 0, zerr.With(err, "handle", string(s.Handle))
		}
		if c.Digest() != s.Digest {
			err := zerr.With(zerr.Wrap(domain.ErrArtifactMismatch, "digest does not match record"), "handle", string(s.Handle))
			return 0, zerr.With(err, "digest", s.Digest)
		}

		artifact, err := a.backend.Rehydrate(ctx, c, s.Handle)
		if err != nil {
			return 0, zerr.With(err, "handle", string(s.Handle))
		}
		if _, err := a.ImportArtifact(s.Record, artifact); err != nil {
			return 0, err
		}
	}
	return len(stored), nil
}
