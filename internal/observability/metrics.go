package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// Parameter sets drawn and written. Watch for: sweeps stopping early.
	ConfigsGeneratedTotal *prometheus.CounterVec

	// Builds by outcome (success, failure). Failure rate is the headline signal of a sweep.
	BuildsTotal *prometheus.CounterVec

	// Wall time of the generate_instances step. Watch for: compile time growth with slave count.
	BuildDuration *prometheus.HistogramVec

	// Failed builds by category (exit_status, timeout, canceled, tool_missing, unknown).
	BuildFailuresTotal *prometheus.CounterVec

	// Clean steps that failed and were ignored.
	CleanFailuresTotal *prometheus.CounterVec

	// Parameter shape of generated configs; shows whether a sweep covered the space.
	CrossbarMasters *prometheus.HistogramVec
	CrossbarSlaves  *prometheus.HistogramVec

	// Sweep progress: requested iterations and iterations finished so far.
	SweepIterationsRequested *prometheus.GaugeVec
	SweepIterationsCompleted *prometheus.GaugeVec

	// HTTP requests served by the status endpoint.
	HTTPRequestsTotal *prometheus.CounterVec
)

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	ConfigsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "configsGeneratedTotal",
			Help: "Total number of random interconnect parameter sets generated",
		},
		[]string{"design"},
	)
	BuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildsTotal",
			Help: "Total number of generate_instances builds by outcome",
		},
		[]string{"design", "status"},
	)
	BuildDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "buildDurationSeconds",
			Help:    "generate_instances build time in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"design", "status"},
	)
	BuildFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "buildFailuresTotal",
			Help: "Failed builds by category",
		},
		[]string{"design", "category"},
	)
	CleanFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cleanFailuresTotal",
			Help: "Clean steps that exited non-zero (ignored)",
		},
		[]string{"design"},
	)
	CrossbarMasters = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crossbarMasters",
			Help:    "Master count of generated configs",
			Buckets: prometheus.LinearBuckets(1, 1, 16),
		},
		[]string{"design"},
	)
	CrossbarSlaves = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crossbarSlaves",
			Help:    "Slave count of generated configs",
			Buckets: prometheus.LinearBuckets(1, 1, 16),
		},
		[]string{"design"},
	)
	SweepIterationsRequested = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sweepIterationsRequested",
			Help: "Iterations requested for the running sweep",
		},
		[]string{"design"},
	)
	SweepIterationsCompleted = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sweepIterationsCompleted",
			Help: "Iterations of the running sweep that built successfully",
		},
		[]string{"design"},
	)
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests to the status server",
		},
		[]string{"method", "route", "statusCode"},
	)

	registry.MustRegister(
		ConfigsGeneratedTotal,
		BuildsTotal, BuildDuration, BuildFailuresTotal, CleanFailuresTotal,
		CrossbarMasters, CrossbarSlaves,
		SweepIterationsRequested, SweepIterationsCompleted,
		HTTPRequestsTotal,
	)
}

// RecordGenerated records one generated parameter set for design.
func RecordGenerated(design string, masters, slaves int) {
	ConfigsGeneratedTotal.WithLabelValues(design).Inc()
	CrossbarMasters.WithLabelValues(design).Observe(float64(masters))
	CrossbarSlaves.WithLabelValues(design).Observe(float64(slaves))
}

// RecordBuild records a finished build. category is empty on success.
func RecordBuild(design string, seconds float64, category string) {
	status := "success"
	if category != "" {
		status = "failure"
		BuildFailuresTotal.WithLabelValues(design, category).Inc()
	}
	BuildsTotal.WithLabelValues(design, status).Inc()
	BuildDuration.WithLabelValues(design, status).Observe(seconds)
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// WriteMetricsFile writes the registry in text exposition format, for the
// node exporter textfile collector. The file is replaced atomically.
func WriteMetricsFile(path string) error {
	return prometheus.WriteToTextfile(path, registry)
}
