// Package service provides request body fingerprinting for the idempotency
// ledger.
package service

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Fingerprint returns a stable hex digest of a request body. JSON bodies are
// canonicalized first (decoded and re-encoded, which sorts object keys
// recursively), so two bodies that differ only in key order or insignificant
// whitespace produce the same fingerprint. Non-JSON bodies are hashed as raw
// bytes.
func Fingerprint(body []byte) string {
	canonical := body
	var decoded any
	if len(body) > 0 && json.Unmarshal(body, &decoded) == nil {
		if encoded, err := json.Marshal(decoded); err == nil {
			canonical = encoded
		}
	}

	digest := sha256.Sum256(canonical)
	return hex.EncodeToString(digest[:])
}
