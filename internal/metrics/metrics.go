package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	ScrapePagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scrape_pages_total",
			Help: "Listing pages fetched from the distributor site by outcome",
		},
		[]string{"outcome"},
	)

	ProductsImportedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "products_imported_total",
			Help: "Products upserted by scrape imports, by result",
		},
		[]string{"result"},
	)
)
