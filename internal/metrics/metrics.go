package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the ledger service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Business Metrics
	InventoryRowsImported prometheus.Counter
	ImportDuration        prometheus.Histogram
	MtrUpsertsTotal       *prometheus.CounterVec
	JoinResolveDuration   prometheus.Histogram
	JoinedRows            *prometheus.GaugeVec
}

// NewMetricsRegistry registers every metric on reg. Pass prometheus.DefaultRegisterer
// to expose them on the default /metrics handler.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	factory := promauto.With(reg)

	return &MetricsRegistry{
		// HTTP Metrics
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mtrledger_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mtrledger_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mtrledger_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		// Cache Metrics
		CacheHitsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mtrledger_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mtrledger_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		// Business Metrics
		InventoryRowsImported: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "mtrledger_inventory_rows_imported_total",
				Help: "Total inventory rows written by imports",
			},
		),
		ImportDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mtrledger_import_duration_seconds",
				Help:    "Inventory import time in seconds, parse through commit",
				Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		MtrUpsertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mtrledger_mtr_upserts_total",
				Help: "MTR upserts by resulting operation",
			},
			[]string{"operation"},
		),
		JoinResolveDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mtrledger_join_resolve_duration_seconds",
				Help:    "Joined view computation time in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
			},
		),
		JoinedRows: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "mtrledger_joined_rows",
				Help: "Rows in the last resolved joined view by join status",
			},
			[]string{"join_status"},
		),
	}
}
