package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration *prometheus.HistogramVec

	// Entity operation metrics
	EntityOperationsCounter *prometheus.CounterVec

	// Bulk import metrics
	BulkImportRecordsCounter *prometheus.CounterVec
)

// InitMetrics registers all collectors on reg using the configured name prefix
func InitMetrics(prefix string, reg prometheus.Registerer) {
	factory := promauto.With(reg)

	HttpRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HttpRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	DbOperationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"collection", "operation"},
	)

	EntityOperationsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_entity_operations_total",
			Help: "Total number of entity operations by outcome",
		},
		[]string{"entity", "operation", "outcome"},
	)

	BulkImportRecordsCounter = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_bulk_import_records_total",
			Help: "Records submitted through bulk import, by result",
		},
		[]string{"entity", "result"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(collection, operation string) func(startTime time.Time) {
	return func(startTime time.Time) {
		if DbOperationDuration == nil {
			return
		}
		DbOperationDuration.WithLabelValues(collection, operation).Observe(time.Since(startTime).Seconds())
	}
}

// RecordEntityOperation increments the counter for an entity operation
func RecordEntityOperation(entity, operation, outcome string) {
	if EntityOperationsCounter == nil {
		return
	}
	EntityOperationsCounter.WithLabelValues(entity, operation, outcome).Inc()
}

// RecordBulkImport records how many records of a bulk import were inserted and rejected
func RecordBulkImport(entity string, inserted, rejected int) {
	if BulkImportRecordsCounter == nil {
		return
	}
	BulkImportRecordsCounter.WithLabelValues(entity, "inserted").Add(float64(inserted))
	BulkImportRecordsCounter.WithLabelValues(entity, "rejected").Add(float64(rejected))
}

// RecordHTTPRequest records one served request
func RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if HttpRequestsTotal == nil {
		return
	}
	HttpRequestsTotal.WithLabelValues(method, path, status).Inc()
	HttpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}
