// Package metric provides Prometheus-based metrics collection and an HTTP
// server for finlight-go's streaming and REST clients.
//
// The package offers a centralized metrics registry managing both core
// client metrics (connection status, message throughput, retry counts) and
// caller-registered metrics for embedding applications. It includes an
// HTTP server exposing metrics in Prometheus format.
//
// # Architecture
//
// The package follows a two-layer design:
//
//  1. Core Metrics: client-level metrics automatically registered (Metrics type)
//  2. Caller Registry: extensible registration for embedder-specific metrics (MetricsRegistrar interface)
//
// This separates the client's own observability concerns from whatever an
// embedding application wants to track alongside it, while exposing both
// through one Prometheus endpoint.
//
// # Basic Usage
//
//	registry := metric.NewMetricsRegistry()
//	server := metric.NewServer(9090, "/metrics", registry)
//
//	go func() {
//	    if err := server.Start(); err != nil && err != http.ErrServerClosed {
//	        log.Printf("metrics server error: %v", err)
//	    }
//	}()
//
//	client := stream.NewEnrichedClient(sink, stream.WithMetrics(registry))
//
// The metrics server exposes Prometheus-formatted metrics at
// http://localhost:9090/metrics and a health check at
// http://localhost:9090/health.
//
// # Core Metrics
//
// The package registers metrics tracking:
//
//   - Connection lifecycle: connection_status{variant="enriched|raw"} (0=disconnected, 1=connecting, 2=open, 3=admitted)
//   - Message throughput: messages_received_total, articles_delivered_total, articles_suppressed_total
//   - Reconnect behavior: reconnects_total, reconnect_delay_seconds
//   - Processing latency: frame_handling_seconds
//   - Error tracking: errors_total{variant,class} (the stream engine records class="transient|rate_limited|blocked")
//   - REST surface: rest_retries_total{status="..."}, rest_request_duration_seconds{path,outcome}
//
// Access core metrics through the registry:
//
//	coreMetrics := registry.Metrics
//	coreMetrics.RecordConnectionStatus("enriched", 2) // 2 = open
//	coreMetrics.RecordArticleDelivered("enriched")
//	coreMetrics.RecordReconnect("enriched", "transport_closed")
//
// # Caller-Specific Metrics
//
// Embedding applications can register custom metrics through the registry:
//
//	requestCounter := prometheus.NewCounter(prometheus.CounterOpts{
//	    Name: "downstream_requests_total",
//	    Help: "Total number of downstream requests",
//	})
//	err := registry.RegisterCounter("my-app", "downstream_requests_total", requestCounter)
//
// # HTTP Server
//
// The metrics server provides two endpoints:
//
//   - GET /metrics - Prometheus-formatted metrics (default path, configurable)
//   - GET /health - plain-text "OK" health check response
//
// # Thread Safety
//
// All registry operations are thread-safe: registration methods use mutex
// protection, and metric recording is lock-free (Prometheus's own guarantee).
// A *metric.MetricsRegistry is safe to share across the engine's supervised
// goroutines and the REST client's retry loop without additional locking.
//
// # Architecture Integration
//
// The metric package is consumed by:
//
//   - stream: the engine records connection status, throughput, errors, and
//     reconnect delay at each state transition in its supervisor loop; it
//     does not increment reconnects_total
//   - rest: Client records retry attempts and request outcomes around its
//     pkg/retry-backed DoRequest call
//
// Both consumers hold the registry behind a nil-safe wrapper (their own
// metricsSink type), so metrics stay entirely optional: a client constructed
// without WithMetrics never touches the registry at all.
package metric
