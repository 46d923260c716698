package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/latencylab/edge-placement-rl/internal/database"
)

// Metrics holds the Prometheus instruments the server exposes. Each
// server owns a dedicated registry so embedded and test instances
// never collide on metric names.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics builds the instrument set. When a repository is present
// a gauge tracking the recorded run count is registered too.
func NewMetrics(repo *database.Repository) *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	m := &Metrics{
		Registry: registry,
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "placement_http_requests_total",
			Help: "HTTP requests served by the analytics API.",
		}, []string{"method", "path", "status"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "placement_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}

	if repo != nil {
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "placement_runs_total",
			Help: "Training runs recorded in the results database.",
		}, func() float64 {
			count, err := repo.CountRuns()
			if err != nil {
				return 0
			}
			return float64(count)
		})
	}

	return m
}
