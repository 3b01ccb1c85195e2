package stream

import (
	"time"

	"github.com/finlight/finlight-go/metric"
)

// metricsSink wraps an optional *metric.MetricsRegistry so call sites
// never need a nil check of their own (spec: metrics are opt-in via
// WithMetrics).
type metricsSink struct {
	registry *metric.MetricsRegistry
	variant  string
}

func newMetricsSink(registry *metric.MetricsRegistry, variant string) metricsSink {
	return metricsSink{registry: registry, variant: variant}
}

func (m metricsSink) connectionStatus(status int) {
	if m.registry == nil {
		return
	}
	m.registry.Metrics.RecordConnectionStatus(m.variant, status)
}

func (m metricsSink) messageReceived(action string) {
	if m.registry == nil {
		return
	}
	m.registry.Metrics.RecordMessageReceived(m.variant, action)
}

func (m metricsSink) articleDelivered() {
	if m.registry == nil {
		return
	}
	m.registry.Metrics.RecordArticleDelivered(m.variant)
}

func (m metricsSink) articleSuppressed() {
	if m.registry == nil {
		return
	}
	m.registry.Metrics.RecordArticleSuppressed(m.variant)
}

func (m metricsSink) reconnect(reason string) {
	if m.registry == nil {
		return
	}
	m.registry.Metrics.RecordReconnect(m.variant, reason)
}

func (m metricsSink) reconnectDelay(d time.Duration) {
	if m.registry == nil {
		return
	}
	m.registry.Metrics.RecordReconnectDelay(d)
}

func (m metricsSink) processingDuration(action string, d time.Duration) {
	if m.registry == nil {
		return
	}
	m.registry.Metrics.RecordProcessingDuration(m.variant, action, d)
}

func (m metricsSink) errorClass(class string) {
	if m.registry == nil {
		return
	}
	m.registry.Metrics.RecordError(m.variant, class)
}
