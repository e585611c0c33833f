package gateway

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the proxy collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

// NewMetrics registers the proxy collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "directory_proxy_requests_total",
				Help: "Total proxied requests",
			},
			[]string{"method", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "directory_proxy_request_duration_seconds",
				Help:    "Proxied request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),
	}
	m.registry.MustRegister(m.requests, m.latency)
	return m
}

// Middleware observes every request passing through it.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			method := c.Request().Method
			m.requests.WithLabelValues(method, strconv.Itoa(statusOf(c, err))).Inc()
			m.latency.WithLabelValues(method).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// statusOf is the status the client will see once err is handled.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}
