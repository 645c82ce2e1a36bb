package prometheus

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordersAreNoopsBeforeInit(t *testing.T) {
	assert.NotPanics(t, func() {
		RecordEntityOperation("customer", "create", "ok")
		RecordBulkImport("customer", 1, 1)
		RecordHTTPRequest("GET", "/customers", "200", time.Millisecond)
		TrackDBOperation("customers", "find")(time.Now())
	})
}

func TestRecordBulkImport(t *testing.T) {
	reg := prometheus.NewRegistry()
	InitMetrics("crm_test", reg)

	RecordBulkImport("customer", 4, 1)
	RecordBulkImport("customer", 2, 0)

	assert.Equal(t, 6.0, testutil.ToFloat64(BulkImportRecordsCounter.WithLabelValues("customer", "inserted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(BulkImportRecordsCounter.WithLabelValues("customer", "rejected")))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
