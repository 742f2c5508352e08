package webhook

import (
	"crypto/hmac"

	"pdfstore-bot/internal/util"
)

// Verifier checks that an inbound notification was signed with the
// shared webhook secret. It must see the raw request bytes: hashing a
// re-serialized body would not match what the provider signed.
type Verifier struct {
	secret string
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: secret}
}

// Verify compares the signature header against hex(HMAC-SHA256(secret,
// rawBody)) in constant time. A missing signature is a plain reject.
func (v *Verifier) Verify(rawBody []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := util.HMACSHA256Hex(v.secret, rawBody)
	return hmac.Equal([]byte(expected), []byte(signature))
}
