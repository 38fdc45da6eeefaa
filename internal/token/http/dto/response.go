package dto

import (
	"time"

	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
)

// SignedURLResponse represents a minted signed URL in API responses.
type SignedURLResponse struct {
	URL        string    `json:"url"`
	Token      string    `json:"token"`
	ExpiresAt  time.Time `json:"expires_at"`
	TTLSeconds int64     `json:"ttl_seconds"`
}

// MapSignedURLToResponse converts a domain signed URL to an API response.
func MapSignedURLToResponse(signedURL *tokenDomain.SignedURL) SignedURLResponse {
	return SignedURLResponse{
		URL:        signedURL.URL,
		Token:      signedURL.Token,
		ExpiresAt:  signedURL.ExpiresAt,
		TTLSeconds: int64(signedURL.TTL / time.Second),
	}
}
