package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// SignBody returns the hex HMAC-SHA256 of body under key. The audit webhook
// sends it in the X-Signature header.
func SignBody(body []byte, key string) string {
	return hex.EncodeToString(mac(body, key))
}

// VerifySignature reports whether signature is the hex HMAC-SHA256 of body
// under key. The comparison runs in constant time.
func VerifySignature(body []byte, signature, key string) bool {
	got, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	return hmac.Equal(got, mac(body, key))
}

func mac(body []byte, key string) []byte {
	h := hmac.New(sha256.New, []byte(key))
	h.Write(body)
	return h.Sum(nil)
}
