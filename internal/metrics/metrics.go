package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "receipt_system",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "receipt_system",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "receipt_system",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	receiptsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "receipt_system",
			Subsystem: "receipts",
			Name:      "created_total",
			Help:      "Total number of receipts created.",
		},
		[]string{"payment_type"},
	)

	receiptsDeleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "receipt_system",
			Subsystem: "receipts",
			Name:      "deleted_total",
			Help:      "Total number of receipts deleted.",
		},
		[]string{"by"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		receiptsCreated,
		receiptsDeleted,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request count and latency, labelled by route template
// so receipt ids do not explode the label space.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		httpRequests.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordReceiptCreated counts a stored receipt.
func RecordReceiptCreated(paymentType string) {
	receiptsCreated.WithLabelValues(paymentType).Inc()
}

// RecordReceiptDeleted counts a deleted receipt; by is "owner" or "admin".
func RecordReceiptDeleted(by string) {
	receiptsDeleted.WithLabelValues(by).Inc()
}
