package domain

import "path/filepath"

const (
	// WeaveDirName is the name of the internal workspace directory.
	WeaveDirName = ".weave"

	// StoreDirName is the name of the exported artifact store directory.
	StoreDirName = "store"

	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "weave.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultStorePath returns the default path for exported artifact records.
// It joins .weave and store.
func DefaultStorePath() string {
	return filepath.Join(WeaveDirName, StoreDirName)
}
