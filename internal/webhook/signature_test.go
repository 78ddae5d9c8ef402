package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSign_Format(t *testing.T) {
	sig := Sign("secret", []byte(`{"event":"test"}`))

	assert.True(t, strings.HasPrefix(sig, "sha256="))
	assert.Len(t, strings.TrimPrefix(sig, "sha256="), 64)
}

func TestSign_MatchesIndependentHMAC(t *testing.T) {
	body := []byte(`{"event":"record.created","timestamp":"2026-01-02T03:04:05Z","data":{"id":"10001"}}`)

	mac := hmac.New(sha256.New, []byte("webhook-secret"))
	mac.Write(body)
	expected := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	assert.Equal(t, expected, Sign("webhook-secret", body))
}

func TestSign_DifferentSecretsDiffer(t *testing.T) {
	body := []byte("payload")

	assert.NotEqual(t, Sign("a", body), Sign("b", body))
	assert.NotEqual(t, Sign("a", body), Sign("a", []byte("other")))
}
