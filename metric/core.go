package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics shared across finlight-go's surfaces.
type Metrics struct {
	ConnectionStatus   *prometheus.GaugeVec
	MessagesReceived   *prometheus.CounterVec
	ArticlesDelivered  *prometheus.CounterVec
	ArticlesSuppressed *prometheus.CounterVec
	ReconnectsTotal    *prometheus.CounterVec
	ReconnectDelay     prometheus.Gauge
	ProcessingDuration *prometheus.HistogramVec
	ErrorsTotal        *prometheus.CounterVec
	RESTRetries        *prometheus.CounterVec
	RESTRequestLatency *prometheus.HistogramVec
}

// NewMetrics creates a new Metrics instance with all platform metrics.
func NewMetrics() *Metrics {
	return &Metrics{
		ConnectionStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "finlight",
				Subsystem: "stream",
				Name:      "connection_status",
				Help:      "Stream connection status (0=disconnected, 1=connecting, 2=open, 3=admitted)",
			},
			[]string{"variant"},
		),

		MessagesReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "finlight",
				Subsystem: "stream",
				Name:      "messages_received_total",
				Help:      "Total inbound frames received, by action",
			},
			[]string{"variant", "action"},
		),

		ArticlesDelivered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "finlight",
				Subsystem: "stream",
				Name:      "articles_delivered_total",
				Help:      "Total articles handed to the caller's sink",
			},
			[]string{"variant"},
		),

		ArticlesSuppressed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "finlight",
				Subsystem: "stream",
				Name:      "articles_suppressed_total",
				Help:      "Total articles dropped by the duplicate filter",
			},
			[]string{"variant"},
		),

		ReconnectsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "finlight",
				Subsystem: "stream",
				Name:      "reconnects_total",
				Help:      "Total reconnect attempts, by trigger reason",
			},
			[]string{"variant", "reason"},
		),

		ReconnectDelay: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "finlight",
				Subsystem: "stream",
				Name:      "reconnect_delay_seconds",
				Help:      "Most recently applied reconnect delay",
			},
		),

		ProcessingDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "finlight",
				Subsystem: "stream",
				Name:      "frame_handling_seconds",
				Help:      "Time spent routing and transforming an inbound frame",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"variant", "action"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "finlight",
				Subsystem: "stream",
				Name:      "errors_total",
				Help:      "Total classified errors observed by the supervisor loop",
			},
			[]string{"variant", "class"},
		),

		RESTRetries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "finlight",
				Subsystem: "rest",
				Name:      "retries_total",
				Help:      "Total REST request retries, by status code",
			},
			[]string{"status"},
		),

		RESTRequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "finlight",
				Subsystem: "rest",
				Name:      "request_duration_seconds",
				Help:      "REST request duration including retries",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"path", "outcome"},
		),
	}
}

// RecordConnectionStatus updates the connection status gauge for a stream variant.
func (c *Metrics) RecordConnectionStatus(variant string, status int) {
	c.ConnectionStatus.WithLabelValues(variant).Set(float64(status))
}

// RecordMessageReceived increments the inbound frame counter.
func (c *Metrics) RecordMessageReceived(variant, action string) {
	c.MessagesReceived.WithLabelValues(variant, action).Inc()
}

// RecordArticleDelivered increments the delivered-article counter.
func (c *Metrics) RecordArticleDelivered(variant string) {
	c.ArticlesDelivered.WithLabelValues(variant).Inc()
}

// RecordArticleSuppressed increments the duplicate-suppression counter.
func (c *Metrics) RecordArticleSuppressed(variant string) {
	c.ArticlesSuppressed.WithLabelValues(variant).Inc()
}

// RecordReconnect increments the reconnect counter for a given trigger reason.
func (c *Metrics) RecordReconnect(variant, reason string) {
	c.ReconnectsTotal.WithLabelValues(variant, reason).Inc()
}

// RecordReconnectDelay records the delay applied before the next connect attempt.
func (c *Metrics) RecordReconnectDelay(d time.Duration) {
	c.ReconnectDelay.Set(d.Seconds())
}

// RecordProcessingDuration records how long a single frame took to route and transform.
func (c *Metrics) RecordProcessingDuration(variant, action string, d time.Duration) {
	c.ProcessingDuration.WithLabelValues(variant, action).Observe(d.Seconds())
}

// RecordError increments the classified error counter.
func (c *Metrics) RecordError(variant, class string) {
	c.ErrorsTotal.WithLabelValues(variant, class).Inc()
}

// RecordRESTRetry increments the REST retry counter for a status code.
func (c *Metrics) RecordRESTRetry(status string) {
	c.RESTRetries.WithLabelValues(status).Inc()
}

// RecordRESTRequest records REST request latency and outcome.
func (c *Metrics) RecordRESTRequest(path, outcome string, d time.Duration) {
	c.RESTRequestLatency.WithLabelValues(path, outcome).Observe(d.Seconds())
}
