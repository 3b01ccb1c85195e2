package stream

import (
	"encoding/json"

	"github.com/google/uuid"
)

// newClientNonce generates the UUIDv4 included in every subscription
// frame (spec §4.2).
func newClientNonce() string {
	return uuid.NewString()
}

// buildSubscriptionFrame merges the caller's subscription parameters
// with the freshly generated client nonce, producing the first outbound
// frame of a session (spec §4.1 step 2, §6).
func buildSubscriptionFrame(params map[string]any, nonce string) ([]byte, error) {
	frame := make(map[string]any, len(params)+1)
	for k, v := range params {
		frame[k] = v
	}
	frame["clientNonce"] = nonce
	return json.Marshal(frame)
}

// pingFrame is the heartbeat frame shape (spec §6).
type pingFrame struct {
	Action string `json:"action"`
	T      int64  `json:"t"`
}

func buildPingFrame(nowMs int64) ([]byte, error) {
	return json.Marshal(pingFrame{Action: "ping", T: nowMs})
}
