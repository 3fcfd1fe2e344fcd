// Package metrics exposes Prometheus collectors for the graph service.
//
// Collectors are registered on a caller-supplied registry so tests and
// multiple servers in one process never collide on the default registry.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Popov85/challenge-graph/internal/graph"
)

const namespace = "graphd"

// Metrics holds every collector of the service.
// Implements engine.Observer.
type Metrics struct {
	applyTotal    *prometheus.CounterVec
	applyDuration prometheus.Histogram
	nodes         prometheus.Gauge
	connections   prometheus.Gauge
	components    prometheus.Gauge
	journalErrors prometheus.Counter
	httpRequests  *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		// Labels: result (fresh, extend, bridge, rejected)
		applyTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "apply_total",
			Help:      "Star operations by result",
		}, []string{"result"}),

		applyDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "apply_duration_seconds",
			Help:      "Time spent applying a star operation, including the journal write",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}),

		nodes: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Known nodes",
		}),

		connections: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_connections",
			Help:      "Directed connection records",
		}),

		components: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_components",
			Help:      "Connected components",
		}),

		journalErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "journal_errors_total",
			Help:      "Accepted operations that could not be journaled",
		}),

		// Labels: method, route (gin full path), status
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),

		gatherer: reg,
	}
}

// ObserveApply records one star operation.
func (m *Metrics) ObserveApply(result string, elapsed time.Duration) {
	m.applyTotal.WithLabelValues(result).Inc()
	m.applyDuration.Observe(elapsed.Seconds())
}

// ObserveGraph updates the graph size gauges.
func (m *Metrics) ObserveGraph(stats graph.Stats) {
	m.nodes.Set(float64(stats.Nodes))
	m.connections.Set(float64(stats.Connections))
	m.components.Set(float64(stats.Components))
}

// ObserveJournalError counts a failed journal write.
func (m *Metrics) ObserveJournalError() {
	m.journalErrors.Inc()
}

// ObserveRequest counts one HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
