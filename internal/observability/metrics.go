package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the planner.
type Metrics struct {
	SchedulesConsumed prometheus.Counter
	PlansProduced     prometheus.Counter
	TransformErrors   prometheus.Counter
	PipelineRunning   prometheus.Gauge

	// Plan outcome metrics.
	PlanOutcomes *prometheus.CounterVec // labels: outcome={feasible,infeasible,empty}, source={kafka,http}
	ScheduleDays prometheus.Histogram

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram
	BatchInfeasibleRatio    prometheus.Gauge

	// Plan cache metrics.
	PlanCache        *prometheus.CounterVec // labels: result={hit,miss}
	PlanCacheEnabled prometheus.Gauge
}

// NewMetrics creates and registers all planner metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SchedulesConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_planner",
			Name:      "schedules_consumed_total",
			Help:      "Total rain schedules read from the source topic.",
		}),
		PlansProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_planner",
			Name:      "plans_produced_total",
			Help:      "Total plans written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "flood_planner",
			Name:      "transform_errors_total",
			Help:      "Total requests that could not be parsed or planned.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_planner",
			Name:      "pipeline_running",
			Help:      "1 when the pipeline is active, 0 when shut down.",
		}),
		PlanOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_planner",
			Name:      "plan_outcomes_total",
			Help:      "Plans computed by outcome and request source.",
		}, []string{"outcome", "source"}),
		ScheduleDays: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_planner",
			Name:      "schedule_days",
			Help:      "Number of days per planned rain schedule.",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 6),
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_planner",
			Name:      "batch_size",
			Help:      "Number of messages per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "flood_planner",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-plan-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		BatchInfeasibleRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_planner",
			Name:      "batch_infeasible_ratio",
			Help:      "Share of infeasible plans in the last published batch.",
		}),
		PlanCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "flood_planner",
			Name:      "plan_cache_total",
			Help:      "Plan cache lookups by result.",
		}, []string{"result"}),
		PlanCacheEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "flood_planner",
			Name:      "plan_cache_enabled",
			Help:      "1 when the plan cache is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.SchedulesConsumed,
		m.PlansProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.PlanOutcomes,
		m.ScheduleDays,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.BatchInfeasibleRatio,
		m.PlanCache,
		m.PlanCacheEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SchedulesConsumed:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_planner", Name: "schedules_consumed_total"}),
		PlansProduced:           prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_planner", Name: "plans_produced_total"}),
		TransformErrors:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "flood_planner", Name: "transform_errors_total"}),
		PipelineRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "flood_planner", Name: "pipeline_running"}),
		PlanOutcomes:            prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_planner", Name: "plan_outcomes_total"}, []string{"outcome", "source"}),
		ScheduleDays:            prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flood_planner", Name: "schedule_days"}),
		BatchSize:               prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flood_planner", Name: "batch_size"}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "flood_planner", Name: "batch_processing_duration_seconds"}),
		BatchInfeasibleRatio:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "flood_planner", Name: "batch_infeasible_ratio"}),
		PlanCache:               prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "flood_planner", Name: "plan_cache_total"}, []string{"result"}),
		PlanCacheEnabled:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "flood_planner", Name: "plan_cache_enabled"}),
	}
}
