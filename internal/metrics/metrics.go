package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_store_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_store_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_store_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Media index metrics
var (
	IndexQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_store_index_queries_total",
			Help: "Total number of media index queries",
		},
		[]string{"operation", "status"},
	)

	IndexQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_store_index_query_duration_seconds",
			Help:    "Media index query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	RecordsEnumerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_store_records_enumerated_total",
			Help: "Total number of media records returned by enumeration",
		},
		[]string{"type"},
	)

	RecordsSkipped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_store_records_skipped_total",
			Help: "Total number of index rows dropped because the backing file is missing",
		},
	)
)

// Thumbnail metrics
var (
	ThumbnailCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_store_thumbnail_cache_hits_total",
			Help: "Total number of thumbnail requests served from the cache",
		},
	)

	ThumbnailCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_store_thumbnail_cache_misses_total",
			Help: "Total number of thumbnail requests that required generation",
		},
	)

	ThumbnailGenDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_store_thumbnail_generation_duration_seconds",
			Help:    "Thumbnail generation duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	ThumbnailGenFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_store_thumbnail_generation_failures_total",
			Help: "Total number of failed thumbnail generations",
		},
	)

	ThumbnailCacheBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_store_thumbnail_cache_bytes",
			Help: "Size of the thumbnail cache directory in bytes",
		},
	)

	ThumbnailCacheFiles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_store_thumbnail_cache_files",
			Help: "Number of files in the thumbnail cache directory",
		},
	)

	PopulateBatchesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_store_populate_batches_total",
			Help: "Total number of thumbnail populate batches processed",
		},
	)

	PopulateFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_store_populate_failures_total",
			Help: "Total number of records left without a thumbnail during batch population",
		},
	)
)

// Scanner metrics
var (
	ScannerRunsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_store_scanner_runs_total",
			Help: "Total number of media scanner runs",
		},
	)

	ScannerLastRunTimestamp = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_store_scanner_last_run_timestamp",
			Help: "Timestamp of the last media scanner run",
		},
	)

	ScannerFilesIndexed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_store_scanner_files_indexed_total",
			Help: "Total number of media files indexed by the scanner",
		},
	)

	ScannerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_store_scanner_errors_total",
			Help: "Total number of scanner errors",
		},
	)

	ScannerParallelWorkers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_store_scanner_parallel_workers",
			Help: "Number of parallel workers used by the media scanner",
		},
	)
)
