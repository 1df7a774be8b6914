package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeRanked       = "ranked"
	OutcomeWaiting      = "waiting_for_input"
	OutcomeInvalidInput = "invalid_input"
	OutcomeError        = "error"

	CacheHit    = "hit"
	CacheMiss   = "miss"
	CacheBypass = "bypass"
)

var (
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "majormatch_recommendations_total",
			Help: "Recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	RecommendationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "majormatch_recommendation_duration_seconds",
			Help:    "Time spent building a recommendation",
			Buckets: prometheus.DefBuckets,
		},
	)

	TranscriptCourses = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "majormatch_transcript_courses",
			Help:    "Number of course codes read from each transcript",
			Buckets: []float64{0, 5, 10, 20, 40, 80},
		},
	)

	DatasetCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "majormatch_dataset_cache_total",
			Help: "Dataset cache lookups by result",
		},
		[]string{"result"},
	)
)

func ObserveRecommendation(outcome string, started time.Time) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
	RecommendationDuration.Observe(time.Since(started).Seconds())
}
