package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/moviematch/internal/domain/recommendation"
)

// Namespace prefixes every moviematch metric.
const Namespace = "moviematch"

// Recommender Prometheus metrics.
var (
	FitDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "fit_duration_seconds",
			Help:      "Time spent building the vector space",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	CatalogSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "catalog_movies",
			Help:      "Movies in the fitted catalog",
		},
	)

	VocabularySize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "vocabulary_terms",
			Help:      "Terms in the fitted vocabulary",
		},
	)

	QueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "queries_total",
			Help:      "Recommendation queries by mode and outcome",
		},
		[]string{"mode", "status"},
	)

	QueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "query_duration_seconds",
			Help:      "Recommendation query duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5},
		},
		[]string{"mode"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "result_cache_total",
			Help:      "Recommendation cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)
)

var recMetricsRegistered bool

// RegisterRecommendMetrics registers the recommender metrics. Must be called once from main.
func RegisterRecommendMetrics() {
	if recMetricsRegistered {
		return
	}
	prometheus.MustRegister(FitDuration, CatalogSize, VocabularySize, QueriesTotal, QueryDuration, CacheTotal)
	recMetricsRegistered = true
}

// RecommendObserver feeds recommender measurements into the package metrics.
type RecommendObserver struct{}

// ObserveFit records a completed fit.
func (RecommendObserver) ObserveFit(movies, vocabulary int, took time.Duration) {
	FitDuration.Observe(took.Seconds())
	CatalogSize.Set(float64(movies))
	VocabularySize.Set(float64(vocabulary))
}

// ObserveQuery records one query outcome.
func (RecommendObserver) ObserveQuery(mode recommendation.Mode, status string, took time.Duration) {
	QueriesTotal.WithLabelValues(string(mode), status).Inc()
	QueryDuration.WithLabelValues(string(mode)).Observe(took.Seconds())
}
