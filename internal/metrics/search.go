package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search engine Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arkiv",
			Name:      "search_queries_total",
			Help:      "Total number of executed search queries",
		},
		[]string{"table", "status"},
	)

	SearchQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "arkiv",
			Name:      "search_query_duration_seconds",
			Help:      "Search execution duration in seconds (count plus data query)",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"table"},
	)

	SearchCriteriaFlagged = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "arkiv",
			Name:      "search_criteria_flagged_total",
			Help:      "Criteria skipped as malformed or compiled outside the field whitelist",
		},
		[]string{"reason"}, // "malformed" / "unknown_field"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchQueryDuration)
	prometheus.MustRegister(SearchCriteriaFlagged)
	searchMetricsRegistered = true
}
