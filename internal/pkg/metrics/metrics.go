package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	initOnce sync.Once

	httpRequestsTotal *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
)

// InitMetrics 注册 Prometheus 指标。重复调用是安全的（幂等）。
func InitMetrics() {
	initOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "todoapp_http_requests_total",
				Help: "Total number of HTTP requests by method, path and status.",
			},
			[]string{"method", "path", "status"},
		)
		httpDuration = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "todoapp_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		)
		prometheus.MustRegister(httpRequestsTotal, httpDuration)
	})
}

// ObserveRequest 记录一次 HTTP 请求的计数与耗时。
//
// path 应当使用路由模板（如 /tasks/:id）而不是原始 URL，避免标签爆炸。
func ObserveRequest(method, path string, status int, latency time.Duration) {
	if httpRequestsTotal == nil || httpDuration == nil {
		return
	}
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, path).Observe(latency.Seconds())
}
