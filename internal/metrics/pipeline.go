package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Searches by outcome (results, empty, error)",
		},
		[]string{"outcome"},
	)

	StageDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_duration_seconds",
			Help:      "Duration of each pipeline stage",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"stage"},
	)

	StageSurvivors = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_survivors",
			Help:      "Candidates remaining after each stage",
			Buckets:   []float64{0, 1, 5, 10, 20, 30, 50, 90, 150},
		},
		[]string{"stage"},
	)

	InterpretDegradedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "interpret_degraded_total",
			Help:      "Queries that fell back to the degraded interpretation",
		},
		[]string{"reason"},
	)

	RowsSkippedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieve_rows_skipped_total",
			Help:      "Candidate rows dropped before scoring",
		},
		[]string{"reason"},
	)

	JudgeFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "judge_failures_total",
			Help:      "Candidate evaluations that produced no explanation",
		},
		[]string{"reason"},
	)

	NoResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "no_results_total",
			Help:      "Empty searches by reason",
		},
		[]string{"reason"},
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers pipeline metrics. Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(StageDuration)
	prometheus.MustRegister(StageSurvivors)
	prometheus.MustRegister(InterpretDegradedTotal)
	prometheus.MustRegister(RowsSkippedTotal)
	prometheus.MustRegister(JudgeFailuresTotal)
	prometheus.MustRegister(NoResultsTotal)
	pipelineMetricsRegistered = true
}

// RegisterAll registers every metric group.
func RegisterAll() {
	RegisterHTTPMetrics()
	RegisterEmbeddingMetrics()
	RegisterLLMMetrics()
	RegisterPipelineMetrics()
}
