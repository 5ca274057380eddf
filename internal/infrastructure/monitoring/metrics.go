// Package monitoring exposes Prometheus metrics for the widget host.
package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Widget lifecycle metrics
	WidgetsActive  prometheus.Gauge
	RendersTotal   prometheus.Counter
	ExecutesTotal  prometheus.Counter
	ResetsTotal    prometheus.Counter
	FailuresTotal  *prometheus.CounterVec
	PagesActive    prometheus.Gauge

	// Event ingress metrics
	WSConnections prometheus.Gauge
	EventsTotal   *prometheus.CounterVec
}

// NewMetrics creates and registers the metrics collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widgethost_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "widgethost_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),
		WidgetsActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "widgethost_widgets_active",
				Help: "Number of live widget records",
			},
		),
		RendersTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "widgethost_renders_total",
				Help: "Total number of successful renders",
			},
		),
		ExecutesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "widgethost_executes_total",
				Help: "Total number of execute commands sent",
			},
		),
		ResetsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "widgethost_resets_total",
				Help: "Total number of widget resets",
			},
		),
		FailuresTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widgethost_failures_total",
				Help: "Total number of recovered failures by diagnostic code",
			},
			[]string{"code"},
		),
		PagesActive: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "widgethost_pages_active",
				Help: "Number of hosted pages",
			},
		),
		WSConnections: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "widgethost_ws_connections",
				Help: "Number of active event ingress connections",
			},
		),
		EventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "widgethost_events_total",
				Help: "Total number of inbound boundary events",
			},
			[]string{"event", "applied"},
		),
	}
}

// RecordFailure counts one recovered failure under its diagnostic code.
func (m *Metrics) RecordFailure(code int) {
	m.FailuresTotal.WithLabelValues(strconv.Itoa(code)).Inc()
}

// Middleware instruments HTTP requests.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		m.RequestsTotal.WithLabelValues(
			c.Request.Method, path, strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.RequestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus scrape endpoint.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
