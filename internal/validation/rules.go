// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/reportgate/internal/errors"
)

var (
	// resourceNameRegex is the full-string pattern for artifact file names:
	// a stem of letters, digits, hyphens, and underscores followed by a single
	// dot-separated extension.
	resourceNameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+\.[A-Za-z0-9]+$`)

	// scopeNameRegex is the full-string pattern for tenant scopes and client
	// IDs. These become key segments, so the separator characters used in
	// key layouts are excluded by construction.
	scopeNameRegex = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// IsValidResourceName reports whether name is a safe artifact file name.
//
// The resource name later becomes part of a storage lookup key, so anything
// path-like is a traversal vector: path separators and ".." are rejected
// explicitly before the charset check, and the full string must match
// resourceNameRegex. The stem is matched exactly as given (case-sensitive);
// extension casing is the caller's concern via HasAllowedExtension.
func IsValidResourceName(name string) bool {
	if name == "" {
		return false
	}
	if strings.ContainsAny(name, `/\`) {
		return false
	}
	if strings.Contains(name, "..") {
		return false
	}
	return resourceNameRegex.MatchString(name)
}

// HasAllowedExtension reports whether name ends with one of the allowed
// extensions. The comparison is case-insensitive ("Report.PDF" matches "pdf");
// extensions are given without the leading dot.
func HasAllowedExtension(name string, allowed ...string) bool {
	idx := strings.LastIndexByte(name, '.')
	if idx < 0 || idx == len(name)-1 {
		return false
	}
	ext := strings.ToLower(name[idx+1:])
	for _, a := range allowed {
		if ext == strings.ToLower(a) {
			return true
		}
	}
	return false
}

// IsValidScopeName reports whether s is usable as a tenant scope or client
// ID: letters, digits, hyphens, and underscores only.
func IsValidScopeName(s string) bool {
	return scopeNameRegex.MatchString(s)
}

// ScopeName validates that a string is a safe tenant scope or client ID.
var ScopeName = validation.NewStringRuleWithError(
	IsValidScopeName,
	validation.NewError(
		"validation_scope_name",
		"must contain only letters, digits, hyphens, and underscores",
	),
)

// ResourceName validates that a string is a safe artifact file name.
var ResourceName = validation.NewStringRuleWithError(
	IsValidResourceName,
	validation.NewError(
		"validation_resource_name",
		"must contain only letters, digits, hyphens, underscores, and a single dot-extension",
	),
)

// FileExtension returns a rule validating that a file name carries one of the
// allowed extensions (case-insensitive).
func FileExtension(allowed ...string) validation.Rule {
	return validation.NewStringRuleWithError(
		func(s string) bool {
			return HasAllowedExtension(s, allowed...)
		},
		validation.NewError("validation_file_extension", "must have an allowed file extension"),
	)
}

// NotBlank validates that a string is not all whitespace. Like every string
// rule it skips empty input; pair with Required to also reject empty values.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)
