package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/reportgate/internal/errors"
)

func TestIsValidResourceName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"simple pdf", "report.pdf", true},
		{"uppercase extension", "Report.PDF", true},
		{"stem with hyphen and underscore", "weekly_report-2026.pdf", true},
		{"digits only stem", "2026.pdf", true},
		{"empty", "", false},
		{"dot dot traversal", "../secret.pdf", false},
		{"forward slash", "a/b.pdf", false},
		{"backslash", `a\b.pdf`, false},
		{"bare dot dot extension", "..pdf", false},
		{"embedded space", "report .pdf", false},
		{"non-ascii", "répôrt.pdf", false},
		{"no extension", "report", false},
		{"two extensions", "report.tar.gz", false},
		{"trailing dot", "report.", false},
		{"leading dot", ".pdf", false},
		{"query characters", "report.pdf?x=1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, IsValidResourceName(tt.input))
		})
	}
}

func TestHasAllowedExtension(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		allowed []string
		match   bool
	}{
		{"lowercase match", "report.pdf", []string{"pdf"}, true},
		{"uppercase match", "Report.PDF", []string{"pdf"}, true},
		{"mixed case allowed list", "report.pdf", []string{"PDF"}, true},
		{"no match", "report.csv", []string{"pdf"}, false},
		{"multiple allowed", "report.csv", []string{"pdf", "csv"}, true},
		{"no extension", "report", []string{"pdf"}, false},
		{"trailing dot", "report.", []string{"pdf"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, HasAllowedExtension(tt.input, tt.allowed...))
		})
	}
}

func TestResourceNameRule(t *testing.T) {
	assert.NoError(t, ResourceName.Validate("weekly.pdf"))
	assert.Error(t, ResourceName.Validate("../weekly.pdf"))
}

func TestFileExtensionRule(t *testing.T) {
	rule := FileExtension("pdf")
	assert.NoError(t, rule.Validate("weekly.pdf"))
	assert.NoError(t, rule.Validate("weekly.PDF"))
	assert.Error(t, rule.Validate("weekly.csv"))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("value"))
	assert.Error(t, NotBlank.Validate("   "))
	// String rules skip empty input; emptiness is Required's job, and the
	// DTOs always pair NotBlank with Required.
	assert.NoError(t, NotBlank.Validate(""))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("value"))
	assert.Error(t, NoWhitespace.Validate(" value"))
	assert.Error(t, NoWhitespace.Validate("value "))
}

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(apperrors.New("field is required"))
	assert.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
}
