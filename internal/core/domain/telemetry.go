package domain

import "strings"

// GenerationStatus is the lifecycle state of one artifact request as seen by telemetry.
type GenerationStatus string

const (
	// GenerationPending indicates the request is waiting for the workspace.
	GenerationPending GenerationStatus = "pending"
	// GenerationRunning indicates the back-end is generating the artifact.
	GenerationRunning GenerationStatus = "running"
	// GenerationCompleted indicates a new artifact was generated and cached.
	GenerationCompleted GenerationStatus = "completed"
	// GenerationFailed indicates generation failed and nothing was cached.
	GenerationFailed GenerationStatus = "failed"
	// GenerationCached indicates the artifact was served from the cache.
	GenerationCached GenerationStatus = "cached"
	// GenerationImported indicates the artifact was registered from a metadata record.
	GenerationImported GenerationStatus = "imported"
)

// LogLevel represents the severity of a log message, mirroring the standard slog levels.
type LogLevel int

const (
	// LogLevelDebug represents debug-level verbosity.
	LogLevelDebug LogLevel = -4
	// LogLevelInfo represents informational verbosity.
	LogLevelInfo LogLevel = 0
	// LogLevelWarn represents warning verbosity.
	LogLevelWarn LogLevel = 4
	// LogLevelError represents error verbosity.
	LogLevelError LogLevel = 8
)

// String returns the string representation of the LogLevel.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// IsTerminal reports whether no further transitions follow s.
func (s GenerationStatus) IsTerminal() bool {
	switch s {
	case GenerationCompleted, GenerationFailed, GenerationCached, GenerationImported:
		return true
	default:
		return false
	}
}

// NormalizeGenerationStatus converts a string to a GenerationStatus, defaulting to pending if unknown.
func NormalizeGenerationStatus(s string) GenerationStatus {
	switch st := GenerationStatus(strings.ToLower(s)); st {
	case GenerationRunning, GenerationCompleted, GenerationFailed, GenerationCached, GenerationImported:
		return st
	default:
		return GenerationPending
	}
}
