package postgres

import (
	"database/sql"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	appmetrics "github.com/healthecon360/analytics-api/pkg/metrics"
)

// promauto registers against the default registry, so the test metrics
// are created once for the package.
var testMetrics = appmetrics.NewMetrics("analytics", "repository_test")

func TestObserveCountsOperationsByStatus(t *testing.T) {
	r := NewBaseRepository(nil).WithMetrics(testMetrics)

	r.observe("exec", time.Now(), nil)
	r.observe("get", time.Now(), sql.ErrNoRows)
	r.observe("select", time.Now(), assert.AnError)

	assert.Equal(t, 1.0, testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("exec", "ok")))
	// a missing row counts as a served query, not a failure
	assert.Equal(t, 1.0, testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("get", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(testMetrics.DatabaseOperations.WithLabelValues("select", "error")))
}

func TestObserveWithoutMetricsIsSafe(t *testing.T) {
	r := NewBaseRepository(nil)
	assert.NotPanics(t, func() { r.observe("exec", time.Now(), nil) })
}
