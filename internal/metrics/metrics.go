package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "synopsis"

// Metrics holds the pipeline collectors on a private registry so several
// instances (tests, embedded use) never collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	completionCalls *prometheus.CounterVec
	completionTime  *prometheus.HistogramVec
	chunks          prometheus.Counter
	failures        *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	mismatches      prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		completionCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_calls_total",
			Help:      "Completion calls by kind (chunk, title) and result.",
		}, []string{"kind", "result"}),
		completionTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "completion_duration_seconds",
			Help:      "Latency of completion calls.",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"kind"}),
		chunks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_total",
			Help:      "Transcript chunks produced by the chunker.",
		}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pipeline_failures_total",
			Help:      "Pipeline failures by stage.",
		}, []string{"stage"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_duration_seconds",
			Help:      "Duration of pipeline stages.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"stage"}),
		mismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "timecode_mismatch_total",
			Help:      "Synopses whose timecode count did not match their line count.",
		}),
	}

	m.registry.MustRegister(
		m.completionCalls,
		m.completionTime,
		m.chunks,
		m.failures,
		m.stageDuration,
		m.mismatches,
		collectors.NewGoCollector(),
	)
	return m
}

func (m *Metrics) ObserveCompletion(kind string, elapsed time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.completionCalls.WithLabelValues(kind, result).Inc()
	m.completionTime.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveChunks(n int) {
	m.chunks.Add(float64(n))
}

func (m *Metrics) ObserveTimecodeMismatch() {
	m.mismatches.Inc()
}

// ObserveStage records how long a processor stage (transcribe, summarize, ...) took.
func (m *Metrics) ObserveStage(stage string, elapsed time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveFailure(stage string) {
	m.failures.WithLabelValues(stage).Inc()
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
