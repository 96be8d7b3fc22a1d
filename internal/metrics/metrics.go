// Package metrics holds the Prometheus collectors for the API.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "portfolio"

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"method", "route"},
	)

	ViewIncrements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "views",
			Name:      "increments_total",
			Help:      "View increments by outcome",
		},
		[]string{"outcome"},
	)

	ContentLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "loads_total",
			Help:      "Content store loads by outcome",
		},
		[]string{"outcome"},
	)

	ContentPosts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "content",
			Name:      "posts",
			Help:      "Number of visible posts in the loaded content snapshot",
		},
	)
)

// RecordContentLoad records the outcome of a content load and, on
// success, the number of posts now served.
func RecordContentLoad(posts int, err error) {
	if err != nil {
		ContentLoads.WithLabelValues("error").Inc()
		return
	}
	ContentLoads.WithLabelValues("ok").Inc()
	ContentPosts.Set(float64(posts))
}
