package signing

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// Size is the length of a hex-encoded signature.
const Size = sha256.Size * 2

// Sign computes HMAC-SHA256 of data keyed with secret and returns it as
// lowercase hex.
func Sign(data, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignString is Sign for string inputs, using their UTF-8 bytes.
func SignString(data, secret string) string {
	return Sign([]byte(data), []byte(secret))
}

// Equal reports whether a and b are identical. It returns false at once when
// the lengths differ; otherwise it inspects every byte regardless of where
// the first mismatch is.
func Equal(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
