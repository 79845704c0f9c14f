package ports

import "go.trai.ch/weave/internal/core/domain"

// ArtifactStore persists exported artifact records under a workspace root.
//
//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Get retrieves the stored artifact with the given handle.
	// Returns nil, nil if not found.
	Get(root string, handle domain.ArtifactHandle) (*domain.StoredArtifact, error)

	// Put stores an exported artifact.
	Put(root string, artifact domain.StoredArtifact) error

	// List returns every stored artifact ordered by handle.
	List(root string) ([]domain.StoredArtifact, error)
}
