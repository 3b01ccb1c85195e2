package stream

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/finlight/finlight-go/logx"
)

// Connection status values exported on the ConnectionStatus gauge.
const (
	statusDisconnected = 0
	statusConnecting   = 1
	statusOpen         = 2
	statusAdmitted     = 3
)

// variantConfig is the capability record the two public clients supply
// to the shared engine (spec §4.9, design note in §9): everything that
// differs between the enriched and raw streams lives here, the engine
// itself is written once.
type variantConfig struct {
	label        string
	pathSuffix   string
	dedupEnabled bool
	// deliver transforms a sendArticle payload and hands it to the
	// caller's sink, applying the duplicate filter first when enabled.
	deliver func(data json.RawMessage, dedup *dedupSet, metrics metricsSink) error
}

// engine runs the supervised connect -> run -> close -> backoff cycle
// described in spec §4.1, shared by both stream variants. Grounded on
// the goroutine-per-responsibility, single-close-path controller in
// _examples/onflow-flow-go/engine/access/rest/websockets/controller.go.
type engine struct {
	cfg     *config
	variant *variantConfig
	logger  logx.Logger
	metrics metricsSink
	backoff *backoffPolicy
	dedup   *dedupSet

	ctx    context.Context
	cancel context.CancelFunc

	stopOnce sync.Once
	doneCh   chan struct{}
	current  atomic.Pointer[session]
}

func newEngine(cfg *config, variant *variantConfig) *engine {
	logger := cfg.logger
	if logger == nil {
		logger = logx.NewDefault(variant.label)
	}

	var dedup *dedupSet
	if variant.dedupEnabled {
		dedup = newDedupSet()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &engine{
		cfg:     cfg,
		variant: variant,
		logger:  logger,
		metrics: newMetricsSink(cfg.metrics, variant.label),
		backoff: newBackoffPolicy(cfg.baseReconnectDelay, cfg.maxReconnectDelay),
		dedup:   dedup,
		ctx:     ctx,
		cancel:  cancel,
		doneCh:  make(chan struct{}),
	}
}

// Start begins the supervisor loop in a background goroutine.
func (e *engine) Start(params map[string]any) {
	go e.run(params)
}

// Stop is the idempotent, any-context-safe shutdown path (spec §4.1,
// §5): it signals the loop and, if a session is currently open, closes
// its transport immediately rather than waiting for the next poll.
func (e *engine) Stop() {
	e.stopOnce.Do(func() {
		e.cancel()
		if s := e.current.Load(); s != nil {
			s.closeWith(closeCodeNormal, "client stop", false)
		}
	})
}

// Done is closed once the supervisor loop has exited for good.
func (e *engine) Done() <-chan struct{} {
	return e.doneCh
}

func (e *engine) run(params map[string]any) {
	defer close(e.doneCh)

	for {
		if e.ctx.Err() != nil {
			return
		}

		permanent := e.runSession(params)
		if permanent || e.ctx.Err() != nil {
			return
		}

		delay := e.backoff.current
		if err := e.backoff.Wait(e.ctx, time.Now()); err != nil {
			return
		}
		e.metrics.reconnectDelay(delay)
	}
}

// runSession performs one open/handshake/pump/close cycle and reports
// whether the supervisor loop must stop for good.
func (e *engine) runSession(params map[string]any) (permanent bool) {
	e.metrics.connectionStatus(statusConnecting)

	conn, resp, err := dialStream(e.ctx, e.cfg, e.variant.pathSuffix)
	if err != nil {
		e.metrics.connectionStatus(statusDisconnected)
		e.metrics.errorClass("transient")
		if isTooManyRequests(resp, err) {
			e.backoff.SetFloor(time.Now().Add(rateLimitRetryAfter))
			e.metrics.errorClass("rate_limited")
		}
		e.logger.Printf("[%s] connect failed: %v", e.variant.label, err)
		return false
	}

	nonce := newClientNonce()
	sess := newSession(conn, nonce)
	e.current.Store(sess)
	defer e.current.Store(nil)
	if e.cfg.onClose != nil {
		defer func() { e.cfg.onClose(sess.closeEvent) }()
	}

	e.backoff.Reset()
	e.metrics.connectionStatus(statusOpen)

	frame, err := buildSubscriptionFrame(params, nonce)
	if err != nil {
		e.logger.Printf("[%s] %v", e.variant.label, wrapHandshakeError(err, "encode"))
		sess.closeWith(closeCodeNormal, "failed to encode subscription frame", false)
		return false
	}
	if err := conn.WriteText(frame); err != nil {
		e.logger.Printf("[%s] %v", e.variant.label, wrapHandshakeError(err, "send"))
		sess.closeWith(closeCodeNormal, "failed to send subscription frame", false)
		return false
	}

	g, _ := errgroup.WithContext(e.ctx)
	g.Go(func() error {
		runHeartbeatKeeper(sess, e.cfg.pingInterval, e.logger, sess.Done())
		return nil
	})
	g.Go(func() error {
		runPongWatchdog(sess, e.cfg.pongTimeout, sess.Done())
		return nil
	})
	g.Go(func() error {
		runRotationTimer(sess, e.cfg.connectionLifetime, sess.Done())
		return nil
	})
	g.Go(func() error {
		e.pumpMessages(sess)
		return nil
	})

	// The supervisor's own stop is delivered through e.ctx, which none of
	// the four goroutines above observe directly; watch it here so Stop()
	// called while this session is open still tears it down promptly.
	go func() {
		select {
		case <-e.ctx.Done():
			sess.closeWith(closeCodeNormal, "client stop", false)
		case <-sess.Done():
		}
	}()

	_ = g.Wait()

	return sess.permanent
}

// pumpMessages reads inbound frames until the transport closes, routing
// each through routeFrame (spec §4.1 step 3, §4.3).
func (e *engine) pumpMessages(sess *session) {
	for {
		raw, err := sess.conn.ReadText()
		if err != nil {
			e.recordTransportClose(sess, err)
			return
		}

		if stop := routeFrame(sess, raw, e.variant, e.dedup, e.backoff, e.metrics, e.logger); stop {
			return
		}

		select {
		case <-sess.Done():
			return
		default:
		}
	}
}

// recordTransportClose classifies a read-loop error. If the session was
// already closed by the router, the watchdog, the rotation timer, or
// Stop(), the close has already been recorded and this is a no-op.
func (e *engine) recordTransportClose(sess *session, err error) {
	select {
	case <-sess.Done():
		return
	default:
	}

	var closeErr *websocket.CloseError
	if stderrors.As(err, &closeErr) {
		permanent := closeErr.Code == closeCodePolicyBlocked
		if permanent {
			e.metrics.errorClass("blocked")
		} else {
			e.metrics.errorClass("transient")
		}
		sess.recordRemoteClose(closeErr.Code, closeErr.Text, permanent)
		return
	}

	e.metrics.errorClass("transient")
	sess.recordRemoteClose(0, err.Error(), false)
}

// isTooManyRequests detects the open-time HTTP 429 case (spec §4.6):
// "surface-specific: error message contains 429", preserved as
// specified rather than parsed strictly from the response status.
func isTooManyRequests(resp *http.Response, err error) bool {
	if resp != nil && resp.StatusCode == http.StatusTooManyRequests {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "429")
}
