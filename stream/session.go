package stream

import (
	"sync"
	"sync/atomic"
	"time"
)

// session owns the state of a single websocket connection attempt: the
// transport, the lease handed out by the admit frame, and the one-shot
// close path every goroutine racing on this connection may trigger.
// Grounded on the controller struct in
// _examples/onflow-flow-go/engine/access/rest/websockets/controller.go,
// which centralizes the same kind of multi-goroutine shutdown race
// behind a single close path.
type session struct {
	conn      *wsConn
	startedAt time.Time

	leaseID     atomic.Value // string
	lastPongAt  atomic.Value // time.Time
	clientNonce string

	closeOnce  sync.Once
	closeEvent CloseEvent
	permanent  bool
	closed     chan struct{}
}

func newSession(conn *wsConn, nonce string) *session {
	s := &session{
		conn:        conn,
		startedAt:   time.Now(),
		clientNonce: nonce,
		closed:      make(chan struct{}),
	}
	s.lastPongAt.Store(time.Now())
	return s
}

// closeWith is the single path by which any client-initiated close ends
// a session. It is idempotent: only the first caller's code/reason is
// kept, and the transport is closed exactly once (spec §4.1, §6).
// permanent marks conditions the supervisor loop must not reconnect
// from (only the `preempted` frame today; close code 1008 is detected
// on the remote-close path via recordRemoteClose).
func (s *session) closeWith(code int, reason string, permanent bool) {
	s.closeOnce.Do(func() {
		s.closeEvent = CloseEvent{Code: code, Reason: reason}
		s.permanent = permanent
		_ = s.conn.Close(code, reason)
		close(s.closed)
	})
}

// closeAbnormal tears the transport down with no close frame, used by
// the pong watchdog (spec §4.4). Always transient.
func (s *session) closeAbnormal(reason string) {
	s.closeOnce.Do(func() {
		s.closeEvent = CloseEvent{Code: 0, Reason: reason}
		_ = s.conn.CloseAbnormal()
		close(s.closed)
	})
}

// recordRemoteClose records a close the peer initiated (or a plain
// transport read error), without attempting to write a close frame back
// on an already-dead connection.
func (s *session) recordRemoteClose(code int, reason string, permanent bool) {
	s.closeOnce.Do(func() {
		s.closeEvent = CloseEvent{Code: code, Reason: reason}
		s.permanent = permanent
		_ = s.conn.CloseAbnormal()
		close(s.closed)
	})
}

// Done reports whether closeWith/closeAbnormal has already fired.
func (s *session) Done() <-chan struct{} {
	return s.closed
}

func (s *session) setLeaseID(id string)  { s.leaseID.Store(id) }
func (s *session) getLeaseID() string {
	v, _ := s.leaseID.Load().(string)
	return v
}

func (s *session) touchPong(at time.Time) { s.lastPongAt.Store(at) }
func (s *session) lastPong() time.Time {
	v, _ := s.lastPongAt.Load().(time.Time)
	return v
}
