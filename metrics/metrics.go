// Package metrics provides Prometheus metrics for the capacity engine.
// Everything registers on a private Registry exposed at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry is the custom prometheus registry for our application
var Registry = prometheus.NewRegistry()

// factory allows us to register metrics to our custom Registry directly
var factory = promauto.With(Registry)

// =============================================================================
// PIPELINE METRICS
// =============================================================================

// PipelineDuration tracks how long each capacity view takes end to end.
var PipelineDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "capacity",
	Name:      "pipeline_duration_seconds",
	Help:      "Time to compute a capacity view, including data fetches",
	Buckets:   prometheus.DefBuckets,
}, []string{"view"})

// PeriodsEmitted tracks how many intervals or blocks a response carries.
var PeriodsEmitted = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "capacity",
	Name:      "periods_emitted",
	Help:      "Number of periods returned per capacity response",
	Buckets:   []float64{1, 4, 12, 26, 52, 104, 261, 520},
}, []string{"view", "interval"})

// =============================================================================
// FAN-OUT METRICS
// =============================================================================

// ResourcesComputed counts per-resource sub-computations that succeeded.
var ResourcesComputed = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "capacity",
	Name:      "resources_computed_total",
	Help:      "Per-resource computations completed inside composed views",
}, []string{"view"})

// ResourceFailures counts per-resource sub-computations dropped from a view.
// A rising rate points at bad source data or a flaky database.
var ResourceFailures = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "capacity",
	Name:      "resource_failures_total",
	Help:      "Per-resource computations that failed and were excluded from the aggregate",
}, []string{"view"})
