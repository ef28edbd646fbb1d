package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Выгрузка и предпросмотр.
var (
	ExportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_exports_total",
			Help: "Number of CSV export requests",
		},
		[]string{"backend", "result"}, // ok|no_match|query_error|storage_error|write_error
	)
	PreviewsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_previews_total",
			Help: "Number of preview requests",
		},
		[]string{"backend", "result"},
	)
	ExportRows = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "orders_export_rows",
			Help:    "Rows written per CSV export",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 .. 16384
		},
	)
	DownloadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_downloads_total",
			Help: "Download attempts",
		},
		[]string{"result"}, // ok|unauthorized|not_found|error
	)
	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orders_query_duration_seconds",
			Help:    "Order query duration by storage backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "query"}, // query: orders|items|count|probe
	)
)

// Токены скачивания.
var (
	TokenStoreOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "download_token_operations_total",
			Help: "Download token store operations",
		},
		[]string{"op"}, // issued|redeemed|rejected|evicted|expired
	)
	TokenStoreSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "download_token_store_size",
			Help: "Number of outstanding download tokens",
		},
	)
)

// События в Kafka.
var (
	EventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_events_published_total",
			Help: "Export events written to Kafka",
		},
		[]string{"topic"},
	)
	EventsFailed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_events_failed_total",
			Help: "Export events that could not be written",
		},
		[]string{"topic"},
	)
)

var registerOnce sync.Once

// MustRegister — регистрирует метрики в default registry (повторный вызов безопасен).
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			ExportsTotal, PreviewsTotal, ExportRows, DownloadsTotal, QueryDuration,
			TokenStoreOps, TokenStoreSize,
			EventsPublished, EventsFailed,
		)
	})
}
