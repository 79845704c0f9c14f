package gateway

import (
	"context"
	"io"
	"time"

	"go.trai.ch/weave/internal/core/domain"
	"go.trai.ch/weave/internal/core/ports"
)

type nopTelemetry struct{}

func (nopTelemetry) Record(ctx context.Context, _ string, _ ...ports.VertexOption) (context.Context, ports.Vertex) {
	return ctx, nopVertex{}
}

func (nopTelemetry) Close() error { return nil }

type nopVertex struct{}

func (nopVertex) Stdout() io.Writer { return io.Discard }
func (nopVertex) Log(_ domain.LogLevel, _ string) {}
func (nopVertex) Complete(_ error) {}
func (nopVertex) Cached() {}

type nopMetrics struct{}

func (nopMetrics) Record(_ domain.GenerationStatus) {}
func (nopMetrics) ObserveGeneration(_ time.Duration) {}
func (nopMetrics) Snapshot() map[domain.GenerationStatus]float64 { return nil }
