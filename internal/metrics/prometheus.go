package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/srbhr/Resume-Matcher-sub001/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
//
// Collectors are created and registered lazily on first use, so constructing
// a PrometheusCollector that is never exercised leaves the registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	recalculations      *prometheus.CounterVec
	recalcDuration      *prometheus.HistogramVec
	pagesCurrent        prometheus.Gauge
	notificationsMerged prometheus.Counter
	readinessWait       prometheus.Histogram
	readinessTimeouts   prometheus.Counter
	measureFailures     *prometheus.CounterVec
	layoutUnchanged     prometheus.Counter
	stateChangesDropped prometheus.Counter
	publishResults      *prometheus.CounterVec
	publishLatency      prometheus.Histogram
}

var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace (defaults to "pagebreak" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "pagebreak"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.recalculations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "recalculations_total",
			Help:      "Total completed layout computations by trigger reason.",
		}, []string{"reason"})

		p.recalcDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "recalculation_duration_seconds",
			Help:      "Duration of layout computations in seconds, readiness wait included.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2.5, 10), // 1ms .. ~3.8s
		}, []string{"reason"})

		p.pagesCurrent = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "pages_current",
			Help:      "Page count of the most recent layout.",
		})

		p.notificationsMerged = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "notifications_coalesced_total",
			Help:      "Change notifications absorbed by a pending debounce window.",
		})

		p.readinessWait = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "readiness_wait_seconds",
			Help:      "Time spent waiting on the readiness barrier.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		})

		p.readinessTimeouts = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "readiness_timeouts_total",
			Help:      "Readiness waits abandoned after the configured timeout.",
		})

		p.measureFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "measurement_failures_total",
			Help:      "Measurement failures by stage (content_height, atomic_blocks).",
		}, []string{"stage"})

		p.layoutUnchanged = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "layout_unchanged_total",
			Help:      "Computations whose result matched the previous layout.",
		})

		p.stateChangesDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "controller",
			Name:      "state_changes_dropped_total",
			Help:      "State change notifications dropped for slow subscribers.",
		})

		p.publishResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "publish_results_total",
			Help:      "Layout publish outcomes (success, failure).",
		}, []string{"result"})

		p.publishLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "publisher",
			Name:      "publish_latency_seconds",
			Help:      "Latency of layout publish operations in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms .. ~2s
		})

		p.reg.MustRegister(
			p.recalculations,
			p.recalcDuration,
			p.pagesCurrent,
			p.notificationsMerged,
			p.readinessWait,
			p.readinessTimeouts,
			p.measureFailures,
			p.layoutUnchanged,
			p.stateChangesDropped,
			p.publishResults,
			p.publishLatency,
		)
	})
}

// ControllerMetrics implementation

// RecordRecalculation counts a computation and observes its duration.
func (p *PrometheusCollector) RecordRecalculation(reason string, duration float64, pages int) {
	p.ensureRegistered()
	p.recalculations.WithLabelValues(reason).Inc()
	p.recalcDuration.WithLabelValues(reason).Observe(duration)
	p.pagesCurrent.Set(float64(pages))
}

// RecordNotificationCoalesced increments the coalesced notification counter.
func (p *PrometheusCollector) RecordNotificationCoalesced() {
	p.ensureRegistered()
	p.notificationsMerged.Inc()
}

// RecordReadinessWait observes the barrier wait and counts timeouts.
func (p *PrometheusCollector) RecordReadinessWait(duration float64, timedOut bool) {
	p.ensureRegistered()
	p.readinessWait.Observe(duration)
	if timedOut {
		p.readinessTimeouts.Inc()
	}
}

// RecordMeasurementFailure increments failures for the given stage.
func (p *PrometheusCollector) RecordMeasurementFailure(stage string) {
	p.ensureRegistered()
	p.measureFailures.WithLabelValues(stage).Inc()
}

// RecordLayoutUnchanged increments the unchanged layout counter.
func (p *PrometheusCollector) RecordLayoutUnchanged() {
	p.ensureRegistered()
	p.layoutUnchanged.Inc()
}

// RecordStateChangeDropped increments the dropped notification counter.
func (p *PrometheusCollector) RecordStateChangeDropped() {
	p.ensureRegistered()
	p.stateChangesDropped.Inc()
}

// PublisherMetrics implementation

// RecordLayoutPublish records a publish outcome and its latency.
func (p *PrometheusCollector) RecordLayoutPublish(success bool, duration float64) {
	p.ensureRegistered()
	p.publishResults.WithLabelValues(resultLabel(success)).Inc()
	p.publishLatency.Observe(duration)
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}
