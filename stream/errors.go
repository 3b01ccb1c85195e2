package stream

import (
	"github.com/finlight/finlight-go/errors"
)

// wrapHandshakeError classifies a failure to encode or send the first
// outbound frame of a session (spec §4.2). Encoding failures are a
// caller-configuration problem (bad subscription parameters); a write
// failure on a freshly opened transport is transient.
func wrapHandshakeError(err error, cause string) error {
	if cause == "encode" {
		return errors.WrapInvalid(err, "stream", "handshake", "encode subscription frame")
	}
	return errors.WrapTransient(err, "stream", "handshake", "send subscription frame")
}

// IsPermanentCloseCode reports whether a remote close code halts the
// supervisor loop outright (spec §6, §7): only 1008, policy-violation /
// blocked-user, is permanent.
func IsPermanentCloseCode(code int) bool {
	return code == closeCodePolicyBlocked
}
