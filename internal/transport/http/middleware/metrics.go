package middleware

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpReqTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "console",
			Name:      "http_requests_total",
			Help:      "Count of console HTTP requests by surface (page/api/ops)",
		},
		[]string{"surface", "route", "method", "status"},
	)
	httpLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "console",
			Name:      "http_request_duration_seconds",
			Help:      "Latency of console HTTP requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"surface", "route"},
	)
)

func init() { prometheus.MustRegister(httpReqTotal, httpLatency) }

// surfaceOf 页面 / JSON 接口 / 运维端点
func surfaceOf(route string) string {
	switch {
	case strings.HasPrefix(route, "/api/"):
		return "api"
	case route == "/health" || route == "/metrics":
		return "ops"
	}
	return "page"
}

func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched" // 任意 URL 不进 label
		}
		s := surfaceOf(route)
		httpReqTotal.WithLabelValues(s, route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(s, route).Observe(time.Since(start).Seconds())
	}
}

// MetricsHandler /metrics
func MetricsHandler() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
