// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"math"
	"strconv"
	"time"

	validation "github.com/jellydator/validation"

	tokenDomain "github.com/allisson/reportgate/internal/token/domain"
	customValidation "github.com/allisson/reportgate/internal/validation"
)

// IssueSignedURLRequest contains the parameters for minting a signed download
// URL. The tenant scope comes from the caller's credentials, not the body.
// TTLSeconds is left untyped so a non-numeric value can be reported as an
// invalid TTL instead of a generic bind failure.
type IssueSignedURLRequest struct {
	ClientID   string `json:"client_id"`
	Filename   string `json:"filename"`
	TTLSeconds any    `json:"ttl_seconds"`
}

// Validate checks if the issue request is valid. Filename path-safety rules
// are enforced by the use case; this only rejects structurally empty fields.
func (r *IssueSignedURLRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.ClientID, validation.Required, customValidation.NotBlank, customValidation.NoWhitespace),
		validation.Field(&r.Filename, validation.Required, customValidation.NotBlank),
	)
}

// TTL converts the raw ttl_seconds value into a duration. A missing value
// yields zero, which selects the server default; a supplied value must be a
// positive whole number of seconds. Returns ErrInvalidTTL otherwise.
func (r *IssueSignedURLRequest) TTL() (time.Duration, error) {
	switch v := r.TTLSeconds.(type) {
	case nil:
		return 0, nil
	case float64:
		if v != math.Trunc(v) || v <= 0 {
			return 0, tokenDomain.ErrInvalidTTL
		}
		return time.Duration(v) * time.Second, nil
	case string:
		seconds, err := strconv.ParseInt(v, 10, 64)
		if err != nil || seconds <= 0 {
			return 0, tokenDomain.ErrInvalidTTL
		}
		return time.Duration(seconds) * time.Second, nil
	default:
		return 0, tokenDomain.ErrInvalidTTL
	}
}
