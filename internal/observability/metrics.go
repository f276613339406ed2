// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tokenscan"

var (
	analysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analyzer",
		Name:      "analyses_total",
		Help:      "Total number of analyses by result",
	}, []string{"result"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "analyzer",
		Name:      "analysis_duration_seconds",
		Help:      "End-to-end analysis duration",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30},
	})

	analysisScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "analyzer",
		Name:      "analysis_score",
		Help:      "Distribution of computed trust scores",
		Buckets:   prometheus.LinearBuckets(0, 2, 11),
	})

	sourceFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analyzer",
		Name:      "source_failures_total",
		Help:      "Total number of data source task failures by source",
	}, []string{"source"})

	holderStrategyHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "holders",
		Name:      "strategy_hits_total",
		Help:      "Total number of holder resolutions by winning strategy",
	}, []string{"strategy"})
)

// RecordAnalysis records one finished analysis with its outcome label and
// wall-clock duration in seconds.
func RecordAnalysis(result string, seconds float64) {
	analysesTotal.WithLabelValues(result).Inc()
	analysisDuration.Observe(seconds)
}

// ObserveScore records a computed trust score.
func ObserveScore(score int) {
	analysisScore.Observe(float64(score))
}

// RecordSourceFailure counts a failed data source task.
func RecordSourceFailure(source string) {
	sourceFailures.WithLabelValues(source).Inc()
}

// RecordHolderStrategy counts which strategy produced holder data.
func RecordHolderStrategy(strategy string) {
	holderStrategyHits.WithLabelValues(strategy).Inc()
}

// Handler returns an HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
