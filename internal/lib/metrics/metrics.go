package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movielib_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "movielib_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AccessDeniedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "movielib_access_denied_total",
			Help: "Requests rejected by the access policy",
		},
		[]string{"reason"},
	)

	BackgroundTasksQueued = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "movielib_background_tasks_queued",
			Help: "Tasks waiting in the background worker queue",
		},
	)
)

func RecordHttpRequest(method, route string, status int, duration time.Duration) {
	HttpRequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	HttpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAccessDenied counts a policy denial, reason is either
// "unauthenticated" or "forbidden".
func RecordAccessDenied(reason string) {
	AccessDeniedTotal.WithLabelValues(reason).Inc()
}

func SetQueuedTasks(n int) {
	BackgroundTasksQueued.Set(float64(n))
}

func statusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	}
	return "2xx"
}
