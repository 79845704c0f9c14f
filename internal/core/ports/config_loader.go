package ports

import "go.trai.ch/weave/internal/core/domain"

// ConfigLoader defines the interface for loading configuration snapshots.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads the configuration file at path and returns a fresh snapshot.
	Load(path string) (*domain.Configuration, error)

	// DiscoverConfigPath walks up from cwd to the nearest weave.yaml.
	DiscoverConfigPath(cwd string) (string, error)
}
