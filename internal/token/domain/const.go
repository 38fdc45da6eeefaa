// Package domain defines the capability token model for artifact downloads.
// A token is a self-contained, signed claim that its holder may fetch one
// specific artifact until an absolute expiry time. Verification never touches
// storage; rotating the signing secret invalidates every outstanding token.
package domain

// DenyReason is the machine-readable reason attached to an access denial.
type DenyReason string

const (
	// DenyTokenRequired indicates the request carried no token at all.
	DenyTokenRequired DenyReason = "PDF_TOKEN_REQUIRED"

	// DenyTokenInvalid indicates the token was malformed or its signature
	// did not match. The two cases are deliberately not distinguished to
	// the caller.
	DenyTokenInvalid DenyReason = "PDF_TOKEN_INVALID"

	// DenyTokenExpired indicates a well-formed, correctly signed token whose
	// expiry has passed.
	DenyTokenExpired DenyReason = "PDF_TOKEN_EXPIRED"

	// DenyTokenMismatch indicates a valid token presented against a different
	// artifact than the one it was minted for. Which field differed is never
	// revealed.
	DenyTokenMismatch DenyReason = "PDF_TOKEN_MISMATCH"

	// DenyInvalidFilename indicates the requested resource name failed the
	// path-safety validator, independent of any token.
	DenyInvalidFilename DenyReason = "INVALID_FILENAME"

	// DenyNotFound indicates the artifact does not exist. Responses carrying
	// it are shaped identically to denials to resist enumeration.
	DenyNotFound DenyReason = "PDF_NOT_FOUND"
)

// AllowedExtensions lists the artifact file extensions that may be issued
// and served. The comparison is case-insensitive.
var AllowedExtensions = []string{"pdf"}
