package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"

	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
)

// segmentSeparator joins the payload and signature segments of a token.
const segmentSeparator = "."

type hmacCodec struct {
	secret []byte
}

// NewHMACCodec creates a token codec using HKDF-SHA256 for key derivation and
// HMAC-SHA256 for signing. The same secret must be used for encoding and
// verification.
func NewHMACCodec(secret []byte) Codec {
	return &hmacCodec{secret: secret}
}

// deriveSigningKey uses HKDF-SHA256 to derive a 32-byte signing key from the
// configured secret. Info parameter: "download-token-signing-v1" (versioned
// for future algorithm changes).
func (c *hmacCodec) deriveSigningKey() ([]byte, error) {
	info := []byte("download-token-signing-v1")
	hash := sha256.New
	hkdf := hkdf.New(hash, c.secret, nil, info)

	signingKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf, signingKey); err != nil {
		return nil, err
	}

	return signingKey, nil
}

// canonicalizePayload converts a payload to its canonical byte representation.
// Format: scope || subScope || resourceName || expiresAt
// Uses length-prefixed encoding for variable-length fields to prevent ambiguity.
func canonicalizePayload(payload tokenDomain.Payload) []byte {
	buf := make([]byte, 0, 256)

	buf = appendLengthPrefixed(buf, []byte(payload.Scope))
	buf = appendLengthPrefixed(buf, []byte(payload.SubScope))
	buf = appendLengthPrefixed(buf, []byte(payload.ResourceName))

	timeBytes := make([]byte, 8)
	binary.BigEndian.PutUint64(timeBytes, uint64(payload.ExpiresAt))
	buf = append(buf, timeBytes...)

	return buf
}

// parsePayload is the inverse of canonicalizePayload. It rejects trailing
// bytes so every payload has exactly one encoding.
func parsePayload(buf []byte) (tokenDomain.Payload, error) {
	var payload tokenDomain.Payload
	var err error

	rest := buf
	fields := []*string{&payload.Scope, &payload.SubScope, &payload.ResourceName}
	for _, field := range fields {
		*field, rest, err = readLengthPrefixed(rest)
		if err != nil {
			return tokenDomain.Payload{}, err
		}
	}

	if len(rest) != 8 {
		return tokenDomain.Payload{}, fmt.Errorf("unexpected payload tail length %d", len(rest))
	}
	payload.ExpiresAt = int64(binary.BigEndian.Uint64(rest))

	return payload, nil
}

// appendLengthPrefixed adds a 4-byte big-endian length prefix followed by data.
func appendLengthPrefixed(buf []byte, data []byte) []byte {
	dataLen := len(data)
	if dataLen > 0xFFFFFFFF {
		panic("data length exceeds uint32 max (4GB)")
	}
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(dataLen))
	buf = append(buf, length...)
	buf = append(buf, data...)
	return buf
}

// readLengthPrefixed reads one length-prefixed field and returns the remaining
// bytes.
func readLengthPrefixed(buf []byte) (string, []byte, error) {
	if len(buf) < 4 {
		return "", nil, fmt.Errorf("truncated length prefix")
	}
	length := binary.BigEndian.Uint32(buf[:4])
	buf = buf[4:]
	if uint32(len(buf)) < length {
		return "", nil, fmt.Errorf("truncated field: want %d bytes, have %d", length, len(buf))
	}
	return string(buf[:length]), buf[length:], nil
}

// sign generates the HMAC-SHA256 signature over the canonical payload bytes.
func (c *hmacCodec) sign(canonical []byte) ([]byte, error) {
	signingKey, err := c.deriveSigningKey()
	if err != nil {
		return nil, fmt.Errorf("failed to derive signing key: %w", err)
	}
	defer zero(signingKey)

	mac := hmac.New(sha256.New, signingKey)
	mac.Write(canonical)
	return mac.Sum(nil), nil
}

// Encode signs the payload and returns "<payload>.<signature>" with both
// segments base64 raw-URL encoded, safe to embed in a query string.
func (c *hmacCodec) Encode(payload tokenDomain.Payload) (string, error) {
	canonical := canonicalizePayload(payload)

	signature, err := c.sign(canonical)
	if err != nil {
		return "", fmt.Errorf("failed to sign token payload: %w", err)
	}

	encoded := base64.RawURLEncoding.EncodeToString(canonical) +
		segmentSeparator +
		base64.RawURLEncoding.EncodeToString(signature)
	return encoded, nil
}

// DecodeAndVerify parses and authenticates a token string. The signature is
// recomputed over the exact decoded payload bytes and compared in constant
// time before the payload is parsed.
func (c *hmacCodec) DecodeAndVerify(token string) (tokenDomain.Payload, error) {
	segments := strings.Split(token, segmentSeparator)
	if len(segments) != 2 {
		return tokenDomain.Payload{}, tokenDomain.ErrTokenMalformed
	}

	canonical, err := base64.RawURLEncoding.DecodeString(segments[0])
	if err != nil {
		return tokenDomain.Payload{}, tokenDomain.ErrTokenMalformed
	}
	signature, err := base64.RawURLEncoding.DecodeString(segments[1])
	if err != nil {
		return tokenDomain.Payload{}, tokenDomain.ErrTokenMalformed
	}

	expectedSig, err := c.sign(canonical)
	if err != nil {
		return tokenDomain.Payload{}, fmt.Errorf("failed to compute expected signature: %w", err)
	}
	if !hmac.Equal(signature, expectedSig) {
		return tokenDomain.Payload{}, tokenDomain.ErrTokenBadSignature
	}

	payload, err := parsePayload(canonical)
	if err != nil {
		// Signed by us but unparseable: treat as malformed rather than leak
		// parser detail.
		return tokenDomain.Payload{}, tokenDomain.ErrTokenMalformed
	}

	return payload, nil
}

// zero overwrites sensitive data in memory with zeros.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
