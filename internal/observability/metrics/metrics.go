// Package metrics provides Prometheus instrumentation for the service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "route", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	// CallEventsTotal counts stored call events by charted outcome.
	CallEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "call_events_ingested_total",
			Help: "Call outcome events stored",
		},
		[]string{"outcome"},
	)

	// AuthFailuresTotal counts rejected ingestion requests.
	AuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_auth_failures_total",
			Help: "Ingestion requests rejected for a bad token",
		},
	)
)

// GinMiddleware records request duration and count per matched route.
// Unmatched paths share the "unmatched" route label.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RecordRequest(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start).Seconds())
	}
}

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, route, status string, duration float64) {
	RequestDuration.WithLabelValues(method, route, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, route, status).Inc()
}

// RecordCallEvent counts a stored event. outcome must already be reduced to
// a bounded label set by the caller.
func RecordCallEvent(outcome string) {
	CallEventsTotal.WithLabelValues(outcome).Inc()
}

// RecordAuthFailure counts a rejected ingestion request.
func RecordAuthFailure() {
	AuthFailuresTotal.Inc()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
