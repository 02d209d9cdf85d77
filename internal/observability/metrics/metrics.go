// Package metrics exposes prometheus instruments for the HTTP surface and
// the webhook task processor.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	webhookOutcomes *prometheus.CounterVec
	tasksProcessed  *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		httpRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inscrevia_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "inscrevia_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		webhookOutcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inscrevia_webhook_outcomes_total",
			Help: "Reconciliation outcomes by result.",
		}, []string{"outcome"}),
		tasksProcessed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "inscrevia_tasks_processed_total",
			Help: "Webhook tasks by terminal result of each processor pass.",
		}, []string{"result"}),
	}
}

func (m *Metrics) RecordWebhookOutcome(outcome string) {
	if m == nil {
		return
	}
	m.webhookOutcomes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordTaskResult(result string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.tasksProcessed.WithLabelValues(result).Add(float64(n))
}

// GinMiddleware records request count and latency per route.
func GinMiddleware(m *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(
			c.Request.Method,
			route,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.httpDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}
