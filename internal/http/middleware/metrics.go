package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// opsReqs counts ops requests by method, route path, and status code.
	opsReqs = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ops_http_requests_total",
			Help: "Total number of ops HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	// opsLat records request duration in seconds by method and route path.
	// Status is omitted to keep histogram cardinality low.
	opsLat = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ops_http_request_duration_seconds",
			Help:    "Duration of ops HTTP requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// opsInflight gauges the number of currently processing requests.
	opsInflight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "ops_http_requests_inflight",
			Help: "Current number of in-flight ops HTTP requests.",
		},
	)
)

func init() {
	prometheus.MustRegister(opsReqs, opsLat, opsInflight)
}

// Metrics instruments requests with Prometheus. The path label uses the
// registered route (c.FullPath()) to keep cardinality bounded, falling
// back to the raw URL path when no route matched.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		opsInflight.Inc()
		defer opsInflight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		method := c.Request.Method
		status := strconv.Itoa(c.Writer.Status())

		opsReqs.WithLabelValues(method, path, status).Inc()
		opsLat.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
