package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	// Provisioning
	AccountsProvisioned = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "accounts_provisioned_total",
			Help: "Telegram logins by outcome",
		},
		[]string{"outcome"}, // created|existing|failed
	)

	CatalogRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_requests_total",
			Help: "Catalog queries by result",
		},
		[]string{"result"}, // ok|function_error|internal_error
	)

	FunctionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edge_function_duration_seconds",
			Help:    "Latency of hosted function invocations",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"function", "status"},
	)

	WorkerQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "worker_queue_depth",
			Help: "Current worker queue depth",
		},
	)

	initOnce sync.Once
)

// /metrics endpoint handler
var Handler = promhttp.Handler

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(AccountsProvisioned)
		prometheus.MustRegister(CatalogRequests)
		prometheus.MustRegister(FunctionDuration)
		prometheus.MustRegister(WorkerQueueDepth)
	})
}
