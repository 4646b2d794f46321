package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insighthub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "route", "status"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "insighthub_store_operation_duration_seconds",
			Help:    "Duration of a full document load/mutate/save cycle",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"operation", "backend"},
	)

	InsightRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insighthub_insight_requests_total",
			Help: "Heuristic text-processing calls",
		},
		[]string{"kind"}, // summarize, sentiment, tasks, ideas, chat
	)

	StatEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insighthub_stat_events_total",
			Help: "Dashboard stat events recorded, including unrecognized kinds",
		},
		[]string{"kind", "recognized"},
	)

	TasksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "insighthub_tasks_created_total",
			Help: "Tasks added to the store",
		},
		[]string{"source"}, // api, extract, email
	)
)

func RecordHTTPRequest(method, route, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func RecordStoreOperation(operation, backend string, duration time.Duration) {
	StoreOperationDuration.WithLabelValues(operation, backend).Observe(duration.Seconds())
}

func RecordInsight(kind string) {
	InsightRequests.WithLabelValues(kind).Inc()
}

func RecordStatEvent(kind string, recognized bool) {
	r := "false"
	if recognized {
		r = "true"
	}
	StatEvents.WithLabelValues(kind, r).Inc()
}

func RecordTasksCreated(source string, n int) {
	if n <= 0 {
		return
	}
	TasksCreated.WithLabelValues(source).Add(float64(n))
}

// Handler exposes the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
