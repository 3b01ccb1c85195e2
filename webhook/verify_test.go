package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finlight/finlight-go/errors"
)

func sign(t *testing.T, secret string, body []byte, ts *time.Time) string {
	t.Helper()
	message := body
	if ts != nil {
		prefix := []byte(strconv.FormatInt(ts.Unix(), 10) + ".")
		message = append(prefix, body...)
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(message)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerify_AcceptsValidSignatureWithoutTimestamp(t *testing.T) {
	body := []byte(`{"event":"article.created"}`)
	sig := sign(t, "secret", body, nil)

	err := Verify("secret", body, sig, nil)
	require.NoError(t, err)
}

func TestVerify_AcceptsValidSignatureWithTimestamp(t *testing.T) {
	body := []byte(`{"event":"article.created"}`)
	ts := time.Now()
	sig := sign(t, "secret", body, &ts)

	err := Verify("secret", body, sig, &ts)
	require.NoError(t, err)
}

func TestVerify_AcceptsShaPrefixedHeader(t *testing.T) {
	body := []byte(`{"event":"ping"}`)
	sig := sign(t, "secret", body, nil)

	err := Verify("secret", body, "sha256="+sig, nil)
	require.NoError(t, err)
}

func TestVerify_RejectsBadSignature(t *testing.T) {
	body := []byte(`{"event":"ping"}`)

	err := Verify("secret", body, "deadbeef", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrWebhookBadSignature)
}

func TestVerify_RejectsSignatureComputedWithWrongSecret(t *testing.T) {
	body := []byte(`{"event":"ping"}`)
	sig := sign(t, "wrong-secret", body, nil)

	err := Verify("secret", body, sig, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrWebhookBadSignature)
}

func TestVerify_RejectsTamperedBody(t *testing.T) {
	body := []byte(`{"event":"ping"}`)
	sig := sign(t, "secret", body, nil)

	err := Verify("secret", []byte(`{"event":"pong"}`), sig, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrWebhookBadSignature)
}

func TestVerify_RejectsTimestampOutsideClockSkew(t *testing.T) {
	body := []byte(`{"event":"ping"}`)
	stale := time.Now().Add(-MaxClockSkew - time.Second)
	sig := sign(t, "secret", body, &stale)

	err := Verify("secret", body, sig, &stale)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrWebhookStale)
}

func TestVerify_AcceptsTimestampJustInsideClockSkew(t *testing.T) {
	body := []byte(`{"event":"ping"}`)
	fresh := time.Now().Add(-MaxClockSkew + 5*time.Second)
	sig := sign(t, "secret", body, &fresh)

	err := Verify("secret", body, sig, &fresh)
	require.NoError(t, err)
}

func TestVerify_RejectsFutureTimestampOutsideClockSkew(t *testing.T) {
	body := []byte(`{"event":"ping"}`)
	future := time.Now().Add(MaxClockSkew + time.Minute)
	sig := sign(t, "secret", body, &future)

	err := Verify("secret", body, sig, &future)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrWebhookStale)
}
