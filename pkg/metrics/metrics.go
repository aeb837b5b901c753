// Package metrics owns the Prometheus collectors of the service. A nil *Metrics is
// valid and records nothing, so library code never has to check for it.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "negocios_verdes"

type Metrics struct {
	registry *prometheus.Registry

	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	pipelineRows     prometheus.Gauge
	alignedRows      prometheus.Gauge
	stepOutcomes     *prometheus.CounterVec
	changedCells     *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	eventsPublished *prometheus.CounterVec
	snapshotStore   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		pipelineRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_runs_total",
			Help:      "Cleaning pipeline runs by outcome.",
		}, []string{"outcome"}),
		pipelineDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Wall time of a cleaning pipeline run, fetch included.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		pipelineRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_rows",
			Help:      "Rows in the current cleaned snapshot.",
		}),
		alignedRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "snapshot_aligned_rows",
			Help:      "Rows of the current snapshot aligned with Basura Cero.",
		}),
		stepOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_steps_total",
			Help:      "Pipeline steps by name and outcome.",
		}, []string{"step", "outcome"}),
		changedCells: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_changed_cells_total",
			Help:      "Cells rewritten by each pipeline step.",
		}, []string{"step"}),

		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method and status.",
		}, []string{"method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),

		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Dataset events published by outcome.",
		}, []string{"outcome"}),
		snapshotStore: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_store_operations_total",
			Help:      "Snapshot repository operations by kind and outcome.",
		}, []string{"operation", "outcome"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.pipelineRuns,
		m.pipelineDuration,
		m.pipelineRows,
		m.alignedRows,
		m.stepOutcomes,
		m.changedCells,
		m.httpRequests,
		m.httpDuration,
		m.eventsPublished,
		m.snapshotStore,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) PipelineRun(outcome string, took time.Duration) {
	if m == nil {
		return
	}
	m.pipelineRuns.WithLabelValues(outcome).Inc()
	m.pipelineDuration.Observe(took.Seconds())
}

func (m *Metrics) Snapshot(rows, aligned int) {
	if m == nil {
		return
	}
	m.pipelineRows.Set(float64(rows))
	m.alignedRows.Set(float64(aligned))
}

func (m *Metrics) Step(step, outcome string, changed int) {
	if m == nil {
		return
	}
	m.stepOutcomes.WithLabelValues(step, outcome).Inc()
	if changed > 0 {
		m.changedCells.WithLabelValues(step).Add(float64(changed))
	}
}

func (m *Metrics) HTTPRequest(method string, status int, took time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method).Observe(took.Seconds())
}

func (m *Metrics) EventPublished(outcome string) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(outcome).Inc()
}

func (m *Metrics) StoreOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.snapshotStore.WithLabelValues(operation, outcome).Inc()
}
