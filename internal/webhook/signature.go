package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignatureHeader carries the HMAC of the delivery body when the
// subscription has a secret.
const SignatureHeader = "X-Webhook-Signature"

// Sign computes the HMAC-SHA256 of body under secret and formats it as the
// signature header value, "sha256=<hex>". Receivers verify by recomputing
// the HMAC over the raw request body they received.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}
