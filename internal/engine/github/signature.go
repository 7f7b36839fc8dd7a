package github

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignaturePrefix tags the HMAC algorithm in the signature header, as
// GitHub sends it in X-Hub-Signature-256.
const SignaturePrefix = "sha256="

// Sign computes the signature header value for a raw request body.
func Sign(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return SignaturePrefix + hex.EncodeToString(h.Sum(nil))
}

// Verify checks a delivery's signature against the raw received bytes.
//
// An empty secret disables verification. A missing header with a secret
// configured is governed by requireSignature: strict mode rejects it,
// lenient mode accepts the delivery unverified. The comparison is
// constant-time via hmac.Equal so mismatch position never leaks through
// response timing.
func Verify(body []byte, signatureHeader, secret string, requireSignature bool) bool {
	if secret == "" {
		return true
	}
	if signatureHeader == "" {
		return !requireSignature
	}
	expected := Sign(secret, body)
	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}
