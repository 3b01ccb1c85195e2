package rest

import (
	"strconv"
	"time"

	"github.com/finlight/finlight-go/metric"
)

// metricsSink wraps an optional *metric.MetricsRegistry, mirroring the
// stream package's nil-safe wrapper so callers never branch on whether
// metrics were enabled.
type metricsSink struct {
	registry *metric.MetricsRegistry
}

func newMetricsSink(registry *metric.MetricsRegistry) metricsSink {
	return metricsSink{registry: registry}
}

func (m metricsSink) retry(statusCode int) {
	if m.registry == nil {
		return
	}
	m.registry.Metrics.RecordRESTRetry(strconv.Itoa(statusCode))
}

func (m metricsSink) request(path, outcome string, d time.Duration) {
	if m.registry == nil {
		return
	}
	m.registry.Metrics.RecordRESTRequest(path, outcome, d)
}
