// Package webhook verifies inbound finlight webhook deliveries: an
// HMAC-SHA256 signature over the timestamp and raw body, with a
// bounded clock-skew tolerance. The stdlib's crypto/hmac and
// crypto/sha256 are the idiomatic choice here; no example in the
// retrieval pack ships an alternative HMAC library, and this is exactly
// the boundary contract the streaming spec names but leaves external.
package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/finlight/finlight-go/errors"
)

// MaxClockSkew is the maximum allowed absolute difference between a
// webhook's claimed timestamp and wall-clock time.
const MaxClockSkew = 5 * time.Minute

// Verify checks an inbound webhook delivery's signature and optional
// timestamp freshness. signatureHeader may carry a "sha256=" prefix,
// which is stripped before comparison. If timestamp is non-nil, the
// signed message is "<unix-seconds>.<body>"; otherwise it is the body
// alone.
func Verify(secret string, rawBody []byte, signatureHeader string, timestamp *time.Time) error {
	if timestamp != nil {
		skew := time.Since(*timestamp)
		if skew < 0 {
			skew = -skew
		}
		if skew > MaxClockSkew {
			return errors.WrapInvalid(errors.ErrWebhookStale, "webhook", "Verify",
				"timestamp outside allowed clock skew")
		}
	}

	message := rawBody
	if timestamp != nil {
		prefix := []byte(strconv.FormatInt(timestamp.Unix(), 10) + ".")
		message = append(prefix, rawBody...)
	}

	expected := computeSignature(secret, message)
	got := strings.TrimPrefix(signatureHeader, "sha256=")

	if len(got) != len(expected) || !hmac.Equal([]byte(got), []byte(expected)) {
		return errors.WrapInvalid(errors.ErrWebhookBadSignature, "webhook", "Verify",
			"signature mismatch")
	}

	return nil
}

func computeSignature(secret string, message []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

