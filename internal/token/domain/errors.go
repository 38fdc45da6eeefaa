package domain

import (
	"github.com/allisson/reportgate/internal/errors"
)

// Token-specific error definitions.
var (
	// ErrTokenRequired indicates no token was presented with the request.
	ErrTokenRequired = errors.Wrap(errors.ErrForbidden, "token required")

	// ErrTokenMalformed indicates the token could not be parsed into its
	// payload and signature segments.
	ErrTokenMalformed = errors.Wrap(errors.ErrForbidden, "token malformed")

	// ErrTokenBadSignature indicates the token signature did not verify.
	ErrTokenBadSignature = errors.Wrap(errors.ErrForbidden, "token signature mismatch")

	// ErrTokenExpired indicates the token expiry time has passed.
	ErrTokenExpired = errors.Wrap(errors.ErrForbidden, "token expired")

	// ErrTokenMismatch indicates the token does not grant access to the
	// requested artifact.
	ErrTokenMismatch = errors.Wrap(errors.ErrForbidden, "token does not match resource")

	// ErrInvalidFilename indicates the resource name failed path-safety
	// validation.
	ErrInvalidFilename = errors.Wrap(errors.ErrInvalidInput, "invalid filename")

	// ErrInvalidFileType indicates the resource name carries a disallowed
	// file extension.
	ErrInvalidFileType = errors.Wrap(errors.ErrInvalidInput, "invalid file type")

	// ErrInvalidTTL indicates the requested TTL was not a positive number.
	ErrInvalidTTL = errors.Wrap(errors.ErrInvalidInput, "invalid ttl")

	// ErrClientNotFound indicates the client the URL was requested for does
	// not exist.
	ErrClientNotFound = errors.Wrap(errors.ErrNotFound, "client not found")
)
