package stream

import (
	"time"

	"github.com/finlight/finlight-go/logx"
	"github.com/finlight/finlight-go/metric"
)

const (
	defaultWSSURL             = "wss://wss.finlight.me"
	defaultBaseURL            = "https://api.finlight.me"
	defaultPingInterval       = 25 * time.Second
	defaultPongTimeout        = 60 * time.Second
	defaultBaseReconnectDelay = 500 * time.Millisecond
	defaultMaxReconnectDelay  = 10 * time.Second
	defaultConnectionLifetime = 115 * time.Minute
	watchdogInterval          = 5 * time.Second
	rateLimitRetryAfter       = 60 * time.Second
	blockedRetryAfter         = time.Hour
	defaultAdminKickRetry     = 15 * time.Minute
)

// CloseEvent is passed to an OnClose hook on every transport close,
// successful session end or not.
type CloseEvent struct {
	Code   int
	Reason string
}

// config holds the resolved configuration for a stream client. It is
// populated by functional options and never mutated after construction.
type config struct {
	apiKey             string
	baseURL            string
	wssURL             string
	pingInterval       time.Duration
	pongTimeout        time.Duration
	baseReconnectDelay time.Duration
	maxReconnectDelay  time.Duration
	connectionLifetime time.Duration
	takeover           bool
	onClose            func(CloseEvent)
	logger             logx.Logger
	metrics            *metric.MetricsRegistry
	clientVersion      string
}

func defaultConfig() *config {
	return &config{
		baseURL:            defaultBaseURL,
		wssURL:             defaultWSSURL,
		pingInterval:       defaultPingInterval,
		pongTimeout:        defaultPongTimeout,
		baseReconnectDelay: defaultBaseReconnectDelay,
		maxReconnectDelay:  defaultMaxReconnectDelay,
		connectionLifetime: defaultConnectionLifetime,
		clientVersion:      "finlight-go/1",
	}
}

// ClientOption configures a stream client using the functional options
// pattern.
type ClientOption func(*config)

// WithAPIKey sets the credential sent as x-api-key on every connect.
// Required.
func WithAPIKey(apiKey string) ClientOption {
	return func(c *config) { c.apiKey = apiKey }
}

// WithBaseURL overrides the REST base URL held in the stream
// configuration (default https://api.finlight.me). The stream clients
// themselves do not read it.
func WithBaseURL(url string) ClientOption {
	return func(c *config) { c.baseURL = url }
}

// WithWSSURL overrides the streaming base URL (default
// wss://wss.finlight.me).
func WithWSSURL(url string) ClientOption {
	return func(c *config) { c.wssURL = url }
}

// WithPingInterval overrides the heartbeat period (default 25s).
func WithPingInterval(d time.Duration) ClientOption {
	return func(c *config) { c.pingInterval = d }
}

// WithPongTimeout overrides the pong watchdog threshold (default 60s).
func WithPongTimeout(d time.Duration) ClientOption {
	return func(c *config) { c.pongTimeout = d }
}

// WithBaseReconnectDelay overrides the initial exponential backoff delay
// (default 500ms).
func WithBaseReconnectDelay(d time.Duration) ClientOption {
	return func(c *config) { c.baseReconnectDelay = d }
}

// WithMaxReconnectDelay overrides the exponential backoff cap (default
// 10s).
func WithMaxReconnectDelay(d time.Duration) ClientOption {
	return func(c *config) { c.maxReconnectDelay = d }
}

// WithConnectionLifetime overrides the proactive rotation deadline
// (default 115m).
func WithConnectionLifetime(d time.Duration) ClientOption {
	return func(c *config) { c.connectionLifetime = d }
}

// WithTakeover sends x-takeover: true on connect, requesting the server
// terminate any other session for this credential.
func WithTakeover(takeover bool) ClientOption {
	return func(c *config) { c.takeover = takeover }
}

// WithOnClose registers a hook fired on every transport close.
func WithOnClose(fn func(CloseEvent)) ClientOption {
	return func(c *config) { c.onClose = fn }
}

// WithLogger sets a custom logger. Defaults to a prefixed stdlib-backed
// logger per variant.
func WithLogger(logger logx.Logger) ClientOption {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics enables Prometheus instrumentation via the given registry.
// A nil registry disables metrics.
func WithMetrics(registry *metric.MetricsRegistry) ClientOption {
	return func(c *config) { c.metrics = registry }
}

// WithClientVersion overrides the x-client-version header value.
func WithClientVersion(version string) ClientOption {
	return func(c *config) {
		if version != "" {
			c.clientVersion = version
		}
	}
}
