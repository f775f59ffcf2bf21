package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coursehub"

// Metrics holds the collectors of one process. Each instance owns its registry
// so tests and multiple clients in one binary do not collide.
type Metrics struct {
	Registry *prometheus.Registry

	clientInFlight prometheus.Gauge
	clientRequests *prometheus.CounterVec
	clientDuration *prometheus.HistogramVec

	serverRequests *prometheus.CounterVec
	serverDuration *prometheus.HistogramVec
}

// New creates and registers every collector
func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),

		clientInFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "inflight_requests",
			Help:      "Course API requests currently in flight.",
		}),
		clientRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Course API requests that received a response, by status code and method.",
		}, []string{"code", "method"}),
		clientDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latency of course API requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		}, []string{"method"}),

		serverRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests handled by the development course API.",
		}, []string{"method", "path", "status"}),
		serverDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Handling latency of the development course API.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		}, []string{"method", "path"}),
	}

	m.Registry.MustRegister(
		m.clientInFlight,
		m.clientRequests,
		m.clientDuration,
		m.serverRequests,
		m.serverDuration,
	)
	return m
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// InstrumentRoundTripper wraps next with the client collectors
func (m *Metrics) InstrumentRoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(m.clientInFlight,
		promhttp.InstrumentRoundTripperCounter(m.clientRequests,
			promhttp.InstrumentRoundTripperDuration(m.clientDuration, next),
		),
	)
}

// GinMiddleware records request count and latency per matched route
func (m *Metrics) GinMiddleware(skipPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == skipPath {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.serverRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.serverDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}
