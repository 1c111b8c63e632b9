package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics provides Prometheus metrics for the cookbook compiler.
type Metrics struct {
	config MetricsConfig

	// Run metrics
	runsStarted   prometheus.Counter
	runsCompleted *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec

	// Phase metrics
	phasesRun     *prometheus.CounterVec
	phaseDuration *prometheus.HistogramVec

	// File metrics
	filesLoaded      *prometheus.CounterVec
	fileLoadFailures *prometheus.CounterVec

	// Recipe metrics
	recipesIncluded prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates a new metrics collector with the given configuration.
func NewMetrics(cfg MetricsConfig) (*Metrics, error) {
	if !cfg.Enabled {
		// No-op instance
		return &Metrics{config: cfg}, nil
	}

	namespace := cfg.Namespace
	buckets := cfg.DefaultHistogramBuckets
	if len(buckets) == 0 {
		buckets = prometheus.DefBuckets
	}

	registry := prometheus.NewRegistry()

	m := &Metrics{
		config:   cfg,
		registry: registry,

		runsStarted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_started_total",
				Help:      "Total number of compile runs started",
			},
		),
		runsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_completed_total",
				Help:      "Total number of compile runs completed",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of compile runs in seconds",
				Buckets:   buckets,
			},
			[]string{"status"},
		),
		phasesRun: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "phases_run_total",
				Help:      "Total number of compile phases run",
			},
			[]string{"phase"},
		),
		phaseDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "phase_duration_seconds",
				Help:      "Duration of compile phases in seconds",
				Buckets:   buckets,
			},
			[]string{"phase"},
		),
		filesLoaded: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "files_loaded_total",
				Help:      "Total number of cookbook files loaded",
			},
			[]string{"phase"},
		),
		fileLoadFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "file_load_failures_total",
				Help:      "Total number of cookbook file load failures",
			},
			[]string{"phase"},
		),
		recipesIncluded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recipes_included_total",
				Help:      "Total number of recipes included",
			},
		),
	}

	collectors := []prometheus.Collector{
		m.runsStarted,
		m.runsCompleted,
		m.runDuration,
		m.phasesRun,
		m.phaseDuration,
		m.filesLoaded,
		m.fileLoadFailures,
		m.recipesIncluded,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register collector: %w", err)
		}
	}

	return m, nil
}

// RecordRunStarted increments the started-runs counter.
func (m *Metrics) RecordRunStarted() {
	if !m.config.Enabled {
		return
	}
	m.runsStarted.Inc()
}

// RecordRunCompleted records one run's outcome and duration.
func (m *Metrics) RecordRunCompleted(status string, duration time.Duration) {
	if !m.config.Enabled {
		return
	}
	m.runsCompleted.WithLabelValues(status).Inc()
	m.runDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordPhase records one phase execution and its duration.
func (m *Metrics) RecordPhase(phase string, duration time.Duration) {
	if !m.config.Enabled {
		return
	}
	m.phasesRun.WithLabelValues(phase).Inc()
	m.phaseDuration.WithLabelValues(phase).Observe(duration.Seconds())
}

// RecordFileLoaded increments the loaded-files counter for a phase.
func (m *Metrics) RecordFileLoaded(phase string) {
	if !m.config.Enabled {
		return
	}
	m.filesLoaded.WithLabelValues(phase).Inc()
}

// RecordFileLoadFailed increments the failed-files counter for a phase.
func (m *Metrics) RecordFileLoadFailed(phase string) {
	if !m.config.Enabled {
		return
	}
	m.fileLoadFailures.WithLabelValues(phase).Inc()
}

// RecordRecipeIncluded increments the included-recipes counter.
func (m *Metrics) RecordRecipeIncluded() {
	if !m.config.Enabled {
		return
	}
	m.recipesIncluded.Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	if !m.config.Enabled {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
