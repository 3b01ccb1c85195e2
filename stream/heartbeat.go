package stream

import (
	"time"

	"github.com/finlight/finlight-go/logx"
)

// runHeartbeatKeeper sends a ping frame every pingInterval until stop is
// closed (spec §4.4). A tick is skipped, not queued, if the write fails
// because the transport already closed.
func runHeartbeatKeeper(s *session, pingInterval time.Duration, logger logx.Logger, stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			frame, err := buildPingFrame(now.UnixMilli())
			if err != nil {
				continue
			}
			if err := s.conn.WriteText(frame); err != nil {
				logger.Debugf("ping write failed, transport likely closing: %v", err)
			}
		}
	}
}

// runPongWatchdog polls lastPongAt every watchdogInterval and closes the
// transport with no code if the caller has gone silent for pongTimeout
// (spec §4.4).
func runPongWatchdog(s *session, pongTimeout time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(watchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case now := <-ticker.C:
			if now.Sub(s.lastPong()) > pongTimeout {
				s.closeAbnormal("pong watchdog expired")
				return
			}
		}
	}
}
