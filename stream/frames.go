package stream

import "encoding/json"

// inboundEnvelope is the superset of fields any inbound frame may carry
// (spec §4.3, §6). Only the fields relevant to Action are populated by
// the server on any given frame.
type inboundEnvelope struct {
	Action string `json:"action"`

	// pong
	T json.RawMessage `json:"t,omitempty"`

	// admit
	LeaseID     string `json:"leaseId,omitempty"`
	ClientNonce string `json:"clientNonce,omitempty"`

	// preempted
	Reason     string `json:"reason,omitempty"`
	NewLeaseID string `json:"newLeaseId,omitempty"`

	// sendArticle
	Data json.RawMessage `json:"data,omitempty"`

	// admin_kick
	RetryAfter *int64 `json:"retryAfter,omitempty"`

	// error
	ErrorMsg json.RawMessage `json:"error,omitempty"`
}

// errorMessage extracts the human-readable string carried by an `error`
// frame, which the server may place under `data` or `error` (spec
// §4.3).
func (env *inboundEnvelope) errorMessage() string {
	if s, ok := decodeString(env.Data); ok {
		return s
	}
	if s, ok := decodeString(env.ErrorMsg); ok {
		return s
	}
	return ""
}

func decodeString(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}
