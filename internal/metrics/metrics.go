// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// Recommendation pipeline
	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movierec_recommend_duration_seconds",
			Help:    "Time to produce a recommendation list",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"strategy"},
	)

	CandidatesScored = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "movierec_candidates_scored",
			Help:    "Number of unseen movies scored per personalized request",
			Buckets: prometheus.ExponentialBuckets(10, 2, 12),
		},
	)

	ExplanationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_explanations_total",
			Help: "Explanation attempts by outcome",
		},
		[]string{"outcome"}, // "found", "none"
	)

	DanglingDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_dangling_items_dropped_total",
			Help: "Ranked movie ids dropped because the catalog no longer has them",
		},
	)

	// Similar-movies cache
	SimilarCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_similar_cache_hits_total",
			Help: "Similar-movies lookups served from Redis",
		},
	)

	SimilarCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "movierec_similar_cache_misses_total",
			Help: "Similar-movies lookups computed from the index",
		},
	)

	RatingWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movierec_rating_writes_total",
			Help: "Rating submissions by result",
		},
		[]string{"result"}, // "ok", "invalid", "unknown_movie", "error"
	)

	// Snapshot
	SnapshotEntities = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "movierec_snapshot_entities",
			Help: "Entities held by the loaded snapshot",
		},
		[]string{"kind"}, // "user", "movie", "catalog", "vocabulary"
	)

	SnapshotLoadDuration = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movierec_snapshot_load_seconds",
			Help: "Time taken to load the current snapshot",
		},
	)
)

// RecordRecommendation observes one served list.
func RecordRecommendation(strategy string, duration time.Duration) {
	RecommendDuration.WithLabelValues(strategy).Observe(duration.Seconds())
}

func RecordExplanation(found bool) {
	if found {
		ExplanationsTotal.WithLabelValues("found").Inc()
		return
	}
	ExplanationsTotal.WithLabelValues("none").Inc()
}

func RecordRatingWrite(result string) {
	RatingWrites.WithLabelValues(result).Inc()
}

// SetSnapshotSize publishes the entity counts of a freshly loaded snapshot.
func SetSnapshotSize(users, movies, catalog, vocabulary int, took time.Duration) {
	SnapshotEntities.WithLabelValues("user").Set(float64(users))
	SnapshotEntities.WithLabelValues("movie").Set(float64(movies))
	SnapshotEntities.WithLabelValues("catalog").Set(float64(catalog))
	SnapshotEntities.WithLabelValues("vocabulary").Set(float64(vocabulary))
	SnapshotLoadDuration.Set(took.Seconds())
}

// Middleware records request count and latency labelled by the chi route
// pattern, so /movies/{id} is one series rather than one per id.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil {
			if p := rc.RoutePattern(); p != "" {
				route = p
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		APIRequestDuration.WithLabelValues(r.Method, route, code).Observe(time.Since(start).Seconds())
		APIRequestsTotal.WithLabelValues(r.Method, route, code).Inc()
	})
}
