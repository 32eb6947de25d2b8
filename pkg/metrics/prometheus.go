// Package metrics provides Prometheus metrics for the msdcalc evaluation pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the evaluation pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Evaluation metrics
	evaluations       *prometheus.CounterVec
	evaluationErrors  *prometheus.CounterVec
	evaluationLatency prometheus.Histogram

	// Normalization metrics
	chartsNormalized    prometheus.Counter
	normalizationErrors *prometheus.CounterVec
	notesPerChart       prometheus.Histogram

	// Parser metrics
	chartsParsed *prometheus.CounterVec
	parseErrors  *prometheus.CounterVec

	// Pool metrics
	poolSize          prometheus.Gauge
	poolAcquires      prometheus.Counter
	poolHits          prometheus.Counter
	poolTimeouts      prometheus.Counter
	poolConstructions prometheus.Counter
	poolDiscards      prometheus.Counter
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "msdcalc",
		subsystem:        "pipeline",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Registry returns the registry backing the global manager, for exposition.
func Registry() *prometheus.Registry {
	return customRegistry
}

func (m *Manager) initializeMetrics() {
	factory := promauto.With(m.registry)

	m.evaluations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluations_total",
		Help:      "Number of completed evaluations by kind (all_rates, single_rate, scaled_single).",
	}, []string{"kind"})

	m.evaluationErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_errors_total",
		Help:      "Number of failed evaluations by kind.",
	}, []string{"kind"})

	m.evaluationLatency = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "evaluation_latency_ms",
		Help:      "Evaluation latency in milliseconds.",
		Buckets:   m.histogramBuckets,
	})

	m.chartsNormalized = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "charts_normalized_total",
		Help:      "Number of charts successfully normalized into note rows.",
	})

	m.normalizationErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "normalization_errors_total",
		Help:      "Number of normalization failures by reason.",
	}, []string{"reason"})

	m.notesPerChart = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notes_per_chart",
		Help:      "Merged note rows produced per normalized chart.",
		Buckets:   []float64{100, 500, 1000, 2500, 5000, 10000, 25000},
	})

	m.chartsParsed = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "charts_parsed_total",
		Help:      "Number of chart files parsed by format.",
	}, []string{"format"})

	m.parseErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "parse_errors_total",
		Help:      "Number of chart parse failures by format.",
	}, []string{"format"})

	m.poolSize = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_size",
		Help:      "Number of idle evaluator handles in the pool.",
	})

	m.poolAcquires = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_acquires_total",
		Help:      "Number of handle acquisitions.",
	})

	m.poolHits = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_hits_total",
		Help:      "Number of acquisitions served by a pooled handle.",
	})

	m.poolTimeouts = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_timeouts_total",
		Help:      "Number of acquisitions that timed out.",
	})

	m.poolConstructions = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_constructions_total",
		Help:      "Number of evaluator handles constructed.",
	})

	m.poolDiscards = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pool_discards_total",
		Help:      "Number of invalid handles discarded instead of pooled.",
	})
}

// Package-level recording functions operating on the global manager.

// RecordEvaluation records a completed evaluation of the given kind.
func RecordEvaluation(kind string) {
	if globalManager.enabled {
		globalManager.evaluations.WithLabelValues(kind).Inc()
	}
}

// RecordEvaluationError records a failed evaluation of the given kind.
func RecordEvaluationError(kind string) {
	if globalManager.enabled {
		globalManager.evaluationErrors.WithLabelValues(kind).Inc()
	}
}

// RecordEvaluationLatency records evaluation latency in milliseconds.
func RecordEvaluationLatency(ms float64) {
	if globalManager.enabled {
		globalManager.evaluationLatency.Observe(ms)
	}
}

// RecordChartNormalized records a successful normalization and its row count.
func RecordChartNormalized(noteCount int) {
	if globalManager.enabled {
		globalManager.chartsNormalized.Inc()
		globalManager.notesPerChart.Observe(float64(noteCount))
	}
}

// RecordNormalizationError records a normalization failure by reason.
func RecordNormalizationError(reason string) {
	if globalManager.enabled {
		globalManager.normalizationErrors.WithLabelValues(reason).Inc()
	}
}

// RecordChartParsed records a successfully parsed chart file by format.
func RecordChartParsed(format string) {
	if globalManager.enabled {
		globalManager.chartsParsed.WithLabelValues(format).Inc()
	}
}

// RecordParseError records a chart parse failure by format.
func RecordParseError(format string) {
	if globalManager.enabled {
		globalManager.parseErrors.WithLabelValues(format).Inc()
	}
}

// UpdatePoolSize updates the idle handle gauge.
func UpdatePoolSize(size int) {
	if globalManager.enabled {
		globalManager.poolSize.Set(float64(size))
	}
}

// RecordPoolAcquire records a handle acquisition; hit marks reuse of a pooled handle.
func RecordPoolAcquire(hit bool) {
	if globalManager.enabled {
		globalManager.poolAcquires.Inc()
		if hit {
			globalManager.poolHits.Inc()
		}
	}
}

// RecordPoolTimeout records an acquisition timeout.
func RecordPoolTimeout() {
	if globalManager.enabled {
		globalManager.poolTimeouts.Inc()
	}
}

// RecordPoolConstruction records construction of a fresh handle.
func RecordPoolConstruction() {
	if globalManager.enabled {
		globalManager.poolConstructions.Inc()
	}
}

// RecordPoolDiscard records an invalid handle dropped instead of pooled.
func RecordPoolDiscard() {
	if globalManager.enabled {
		globalManager.poolDiscards.Inc()
	}
}
