// Package service provides the capability token codec.
//
// The codec is a pure function of the signing secret and the payload: encoding
// and verification never touch storage, so verification stays cheap and
// rotating the secret revokes every outstanding token at once.
package service

import (
	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
)

// Codec encodes token payloads into signed, URL-safe strings and verifies
// them back into payloads.
type Codec interface {
	// Encode signs the payload and returns a compact URL-safe token string.
	Encode(payload tokenDomain.Payload) (string, error)

	// DecodeAndVerify parses a token string, checks its signature, and
	// returns the embedded payload. Returns ErrTokenMalformed when the
	// string cannot be parsed and ErrTokenBadSignature when the signature
	// does not verify. Expiry is not checked here; callers decide what
	// "now" means.
	DecodeAndVerify(token string) (tokenDomain.Payload, error)
}
