package rest

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/finlight/finlight-go/logx"
	"github.com/finlight/finlight-go/metric"
)

const (
	defaultBaseURL = "https://api.finlight.me"
	defaultTimeout = 30 * time.Second

	retryMaxAttempts  = 4
	retryInitialDelay = 500 * time.Millisecond
	retryMultiplier   = 2.0
)

type config struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     logx.Logger
	limiter    *rate.Limiter
	metrics    *metric.MetricsRegistry
}

func defaultConfig() *config {
	return &config{
		baseURL: defaultBaseURL,
		timeout: defaultTimeout,
	}
}

// ClientOption configures a Client using the functional options pattern,
// matching the convention used by the streaming client.
type ClientOption func(*config)

// WithAPIKey sets the credential sent as x-api-key on every request.
func WithAPIKey(apiKey string) ClientOption {
	return func(c *config) { c.apiKey = apiKey }
}

// WithBaseURL overrides the REST base URL (default https://api.finlight.me).
func WithBaseURL(url string) ClientOption {
	return func(c *config) { c.baseURL = url }
}

// WithTimeout overrides the per-request timeout (default 30s).
func WithTimeout(d time.Duration) ClientOption {
	return func(c *config) { c.timeout = d }
}

// WithHTTPClient swaps the underlying *http.Client, e.g. to inject a
// custom transport in tests.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *config) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger logx.Logger) ClientOption {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRequestsPerSecond enables client-side request pacing at r
// requests/second with the given burst. Disabled by default; the REST
// facade is otherwise unpaced aside from its retry backoff.
func WithRequestsPerSecond(r float64, burst int) ClientOption {
	return func(c *config) { c.limiter = rate.NewLimiter(rate.Limit(r), burst) }
}

// WithMetrics enables Prometheus instrumentation via the given registry.
func WithMetrics(registry *metric.MetricsRegistry) ClientOption {
	return func(c *config) { c.metrics = registry }
}
