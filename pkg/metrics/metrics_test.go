package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.PipelineRun("success", time.Second)
	m.Snapshot(10, 3)
	m.Step("department", "applied", 4)
	m.HTTPRequest(http.MethodGet, http.StatusOK, time.Millisecond)
	m.EventPublished("success")
	m.StoreOperation("save", "error")
	assert.Nil(t, m.Registry())

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCounters(t *testing.T) {
	m := New()
	m.PipelineRun("success", 200*time.Millisecond)
	m.PipelineRun("success", 100*time.Millisecond)
	m.PipelineRun("fetch_error", time.Millisecond)
	m.Step("region", "applied", 7)
	m.Step("region", "applied", 0)
	m.Snapshot(120, 45)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.pipelineRuns.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.pipelineRuns.WithLabelValues("fetch_error")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.stepOutcomes.WithLabelValues("region", "applied")))
	assert.Equal(t, 7.0, testutil.ToFloat64(m.changedCells.WithLabelValues("region")))
	assert.Equal(t, 120.0, testutil.ToFloat64(m.pipelineRows))
	assert.Equal(t, 45.0, testutil.ToFloat64(m.alignedRows))
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.HTTPRequest(http.MethodGet, http.StatusOK, time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, "negocios_verdes_http_requests_total"), "missing http counter")
	assert.True(t, strings.Contains(body, "go_goroutines"), "missing go collector")
}
