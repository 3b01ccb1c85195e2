package stream

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/finlight/finlight-go/logx"
)

// Close codes (spec §6). The client sends all of them except
// closeCodePolicyBlocked, which it only receives from the peer.
const (
	closeCodeNormal        = 1000
	closeCodePolicyBlocked = 1008
	closeCodeRotation      = 4000
	closeCodeRateLimited   = 4001
	closeCodeBlocked       = 4002
	closeCodeAdminKick     = 4003
)

const defaultAdminKickRetryMs = 900_000

// routeFrame parses and dispatches a single inbound frame (spec §4.3). It
// never tears the session down for a malformed or unknown frame; the
// only close triggers are preempted, admin_kick, and the two `error`
// substrings.
func routeFrame(s *session, raw []byte, variant *variantConfig, dedup *dedupSet, backoff *backoffPolicy, metrics metricsSink, logger logx.Logger) (stop bool) {
	started := time.Now()

	var env inboundEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Printf("[%s] dropping malformed frame: %v", variant.label, err)
		return false
	}

	metrics.messageReceived(env.Action)
	defer func() {
		metrics.processingDuration(env.Action, time.Since(started))
	}()

	switch env.Action {
	case "pong":
		s.touchPong(time.Now())
		if len(env.T) > 0 {
			var t int64
			if err := json.Unmarshal(env.T, &t); err == nil {
				logger.Debugf("[%s] pong rtt=%s", variant.label, time.Since(msToTime(t)))
			}
		}
		return false

	case "admit":
		s.setLeaseID(env.LeaseID)
		metrics.connectionStatus(statusAdmitted)
		if env.ClientNonce != "" && env.ClientNonce != s.clientNonce {
			logger.Printf("[%s] admit nonce mismatch: sent %s, echoed %s", variant.label, s.clientNonce, env.ClientNonce)
		}
		return false

	case "preempted":
		logger.Printf("[%s] preempted: %s (newLeaseId=%s)", variant.label, env.Reason, env.NewLeaseID)
		s.closeWith(closeCodeNormal, "Preempted by server", true)
		return true

	case "sendArticle":
		if variant.deliver != nil {
			if err := variant.deliver(env.Data, dedup, metrics); err != nil {
				logger.Printf("[%s] failed to deliver article: %v", variant.label, err)
			}
		}
		return false

	case "admin_kick":
		retryAfter := time.Duration(defaultAdminKickRetryMs) * time.Millisecond
		if env.RetryAfter != nil {
			retryAfter = time.Duration(*env.RetryAfter) * time.Millisecond
		}
		backoff.SetFloor(time.Now().Add(retryAfter))
		s.closeWith(closeCodeAdminKick, "Administrator terminated session", false)
		return false

	case "error":
		msg := env.errorMessage()
		lower := strings.ToLower(msg)
		switch {
		case strings.Contains(lower, "limit"):
			backoff.SetFloor(time.Now().Add(rateLimitRetryAfter))
			s.closeWith(closeCodeRateLimited, msg, false)
		case strings.Contains(lower, "blocked"):
			backoff.SetFloor(time.Now().Add(blockedRetryAfter))
			s.closeWith(closeCodeBlocked, msg, false)
		default:
			logger.Printf("[%s] server error: %s", variant.label, msg)
		}
		return false

	default:
		logger.Debugf("[%s] ignoring unknown action %q", variant.label, env.Action)
		return false
	}
}

func msToTime(ms int64) time.Time {
	return time.Unix(0, ms*int64(time.Millisecond))
}
