// Package metrics counts artifact requests with Prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.trai.ch/weave/internal/core/domain"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "weave"

// Collector implements ports.Metrics on a private Prometheus registry.
type Collector struct {
	registry *prometheus.Registry

	requestsName string
	requests     *prometheus.CounterVec
	generation   prometheus.Histogram
}

// NewCollector creates a collector registering under namespace.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	c := &Collector{
		registry:     prometheus.NewRegistry(),
		requestsName: prometheus.BuildFQName(namespace, "artifact", "requests_total"),
	}

	c.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "artifact",
			Name:      "requests_total",
			Help:      "Artifact requests by outcome (completed, failed, cached, imported)",
		},
		[]string{"status"},
	)

	c.generation = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "artifact",
			Name:      "generation_duration_seconds",
			Help:      "Time spent in the generation back-end",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
		},
	)

	c.registry.MustRegister(c.requests, c.generation)
	return c
}

// Registry returns the registry holding the collector's metrics.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's metrics in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Record counts one request that ended in status. Non-terminal statuses are ignored.
func (c *Collector) Record(status domain.GenerationStatus) {
	if !status.IsTerminal() {
		return
	}
	c.requests.WithLabelValues(string(status)).Inc()
}

// ObserveGeneration records how long one back-end generation took.
func (c *Collector) ObserveGeneration(d time.Duration) {
	c.generation.Observe(d.Seconds())
}

// Snapshot returns the current count per status. Statuses never recorded are absent.
func (c *Collector) Snapshot() map[domain.GenerationStatus]float64 {
	out := make(map[domain.GenerationStatus]float64)

	families, err := c.registry.Gather()
	if err != nil {
		return out
	}
	for _, family := range families {
		if family.GetName() != c.requestsName {
			continue
		}
		for _, m := range family.GetMetric() {
			for _, label := range m.GetLabel() {
				if label.GetName() == "status" {
					out[domain.NormalizeGenerationStatus(label.GetValue())] = m.GetCounter().GetValue()
				}
			}
		}
	}
	return out
}
