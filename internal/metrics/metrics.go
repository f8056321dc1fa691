package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labstock_http_requests_total",
			Help: "Total HTTP requests by method, path and status",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "labstock_http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	OpenBorrowings = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "labstock_open_borrowings",
			Help: "Number of borrowings not yet returned",
		},
	)

	StockClaims = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "labstock_stock_claims_total",
			Help: "Ledger stock claims by outcome",
		},
		[]string{"outcome"}, // ok | insufficient
	)
)
