package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	submissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "farum_chat",
			Name:      "submissions_total",
			Help:      "Submissions handled by the turn controller, by outcome.",
		},
		[]string{"outcome"},
	)

	completionSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "farum_chat",
			Name:      "completion_seconds",
			Help:      "Latency of completion provider calls.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"provider", "outcome"},
	)
)

// CountSubmission increments the submissions counter for outcome.
func CountSubmission(outcome string) {
	submissionsTotal.WithLabelValues(outcome).Inc()
}

// ObserveCompletion records the latency of one provider call.
func ObserveCompletion(provider, outcome string, latency time.Duration) {
	completionSeconds.WithLabelValues(provider, outcome).Observe(latency.Seconds())
}

// MetricsHandler serves the default prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
