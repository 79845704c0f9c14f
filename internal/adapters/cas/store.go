// Package cas implements the on-disk store for exported artifacts.
package cas

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/zerr"
)

const fileExt = ".json"

// Store implements ports.ArtifactStore using a file-per-artifact strategy.
type Store struct{}

// NewStore creates a new ArtifactStore.
func NewStore() (*Store, error) {
	return &Store{}, nil
}

// Get retrieves the stored artifact with the given handle.
func (s *Store) Get(root string, handle domain.ArtifactHandle) (*domain.StoredArtifact, error) {
	filename := s.getFilename(root, handle)
	return readArtifact(filename)
}

// Put stores an exported artifact.
func (s *Store) Put(root string, artifact domain.StoredArtifact) error {
	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreMarshalFailed, err.Error()), "handle", string(artifact.Handle))
	}

	filename := s.getFilename(root, artifact.Handle)
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreCreateFailed, err.Error()), "path", dir)
	}

	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	if err := os.WriteFile(filename, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrStoreWriteFailed, err.Error()), "path", filename)
	}

	return nil
}

// List returns every stored artifact under root ordered by handle.
func (s *Store) List(root string) ([]domain.StoredArtifact, error) {
	storeDir := filepath.Join(root, domain.DefaultStorePath())
	entries, err := os.ReadDir(storeDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", storeDir)
	}

	artifacts := make([]domain.StoredArtifact, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		stored, err := readArtifact(filepath.Join(storeDir, entry.Name()))
		if err != nil {
			return nil, err
		}
		if stored != nil {
			artifacts = append(artifacts, *stored)
		}
	}

	slices.SortFunc(artifacts, func(a, b domain.StoredArtifact) int {
		return cmp.Compare(a.Handle, b.Handle)
	})
	return artifacts, nil
}

func (s *Store) getFilename(root string, handle domain.ArtifactHandle) string {
	hash := sha256.Sum256([]byte(handle))
	hexHash := hex.EncodeToString(hash[:])
	storeDir := filepath.Join(root, domain.DefaultStorePath())
	return filepath.Join(storeDir, hexHash+fileExt)
}

func readArtifact(filename string) (*domain.StoredArtifact, error) {
	//nolint:gosec // Path is constructed from trusted directory and hashed filename
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreReadFailed, err.Error()), "path", filename)
	}

	var stored domain.StoredArtifact
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrStoreUnmarshalFailed, err.Error()), "path", filename)
	}

	return &stored, nil
}
