// Package metrics exposes Prometheus instruments for loads, refreshes and
// exports on a private registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "analytics"

// Registry owns every instrument and the registry serving them.
type Registry struct {
	reg *prometheus.Registry

	// Loads counts completed loads by the source that supplied the data
	// (network, cache, none).
	Loads           *prometheus.CounterVec
	LoadFailures    prometheus.Counter
	LoadDuration    prometheus.Histogram
	OrdersLoaded    prometheus.Gauge
	RefreshRejected prometheus.Counter
	Exports         *prometheus.CounterVec
	HTTPRequests    *prometheus.CounterVec
}

// NewRegistry creates a registry with every instrument registered.
func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	loads := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "loads_total",
		Help:      "Completed order loads by data source.",
	}, []string{"source"})
	loadFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "load_failures_total",
		Help:      "Loads whose primary source failed.",
	})
	loadDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "load_duration_seconds",
		Help:      "Time spent loading and normalizing orders.",
		Buckets:   prometheus.DefBuckets,
	})
	ordersLoaded := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "orders_loaded",
		Help:      "Orders in the current in-memory state.",
	})
	refreshRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "refresh_rejected_total",
		Help:      "Refresh requests rejected because one was already running.",
	})
	exports := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "exports_total",
		Help:      "Workbook exports by outcome.",
	}, []string{"status"})
	httpRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method and status code.",
	}, []string{"method", "code"})

	r.MustRegister(loads, loadFailures, loadDuration, ordersLoaded, refreshRejected, exports, httpRequests)

	return &Registry{
		reg:             r,
		Loads:           loads,
		LoadFailures:    loadFailures,
		LoadDuration:    loadDuration,
		OrdersLoaded:    ordersLoaded,
		RefreshRejected: refreshRejected,
		Exports:         exports,
		HTTPRequests:    httpRequests,
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry for tests and custom handlers.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}
