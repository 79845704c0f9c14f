package ports

import (
	"time"

	"go.trai.ch/weave/internal/core/domain"
)

// Metrics counts artifact requests by outcome.
//
//go:generate mockgen -source=metrics.go -destination=mocks/mock_metrics.go -package=mocks
type Metrics interface {
	// Record counts one request that ended in status.
	Record(status domain.GenerationStatus)
	// ObserveGeneration records how long one back-end generation took.
	ObserveGeneration(d time.Duration)
	// Snapshot returns the current count per status.
	Snapshot() map[domain.GenerationStatus]float64
}
