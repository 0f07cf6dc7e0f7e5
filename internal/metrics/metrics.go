package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests received",
	}, []string{"method", "route", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "interview",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "interview",
		Name:      "http_in_flight_requests",
		Help:      "Current number of in-flight HTTP requests",
	})

	questionsReviewed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "questions_reviewed_total",
		Help:      "Questions whose status was set by a review batch",
	}, []string{"decision"})

	categoryDelta = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "category_counter_delta_total",
		Help:      "Absolute category counter adjustments by direction",
	}, []string{"direction"})

	mockInterviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "interview",
		Name:      "mock_interviews_total",
		Help:      "Mock interview lifecycle events",
	}, []string{"event"})
)

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Middleware records request metrics labelled by the matched chi route
// pattern, so path parameters do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		labels := prometheus.Labels{
			"method": r.Method,
			"route":  route,
			"status": strconv.Itoa(rec.status),
		}
		httpRequests.With(labels).Inc()
		httpLatency.With(labels).Observe(time.Since(start).Seconds())
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveReview(decision string, n int) {
	questionsReviewed.WithLabelValues(decision).Add(float64(n))
}

func ObserveCategoryDelta(delta int) {
	switch {
	case delta > 0:
		categoryDelta.WithLabelValues("up").Add(float64(delta))
	case delta < 0:
		categoryDelta.WithLabelValues("down").Add(float64(-delta))
	}
}

func ObserveMockInterview(event string) {
	mockInterviews.WithLabelValues(event).Inc()
}
