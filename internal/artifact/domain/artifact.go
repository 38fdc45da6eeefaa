// Package domain defines the report artifact model. Artifacts are the PDF
// files delivered to clients; they live in blob storage under a
// tenant/client/name key layout.
package domain

import (
	"fmt"
	"time"

	"github.com/allisson/reportgate/internal/errors"
)

// Artifact describes a stored report file.
type Artifact struct {
	Scope       string
	SubScope    string
	Name        string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
}

// Key returns the blob storage key for the artifact.
func (a Artifact) Key() string {
	return BlobKey(a.Scope, a.SubScope, a.Name)
}

// BlobKey builds the blob storage key for an artifact. The layout is
// "<scope>/<subScope>/<name>"; resource name validation guarantees the name
// itself contains no separators.
func BlobKey(scope, subScope, name string) string {
	return fmt.Sprintf("%s/%s/%s", scope, subScope, name)
}

// BlobPrefix builds the composite prefix covering every artifact of one
// client. Wide deletions always address this prefix; there is no tenant-wide
// form.
func BlobPrefix(scope, subScope string) string {
	return fmt.Sprintf("%s/%s/", scope, subScope)
}

// DeletionScope selects how much of a tenant's data a deletion removes.
type DeletionScope string

const (
	// DeletionMetadataOnly removes the tenant's key-value entries (audit
	// trail, idempotency records, rate limit counters) but leaves stored
	// artifacts in place.
	DeletionMetadataOnly DeletionScope = "metadata_only"

	// DeletionCascade removes the tenant's key-value entries and every
	// stored artifact under the tenant's blob prefix.
	DeletionCascade DeletionScope = "cascade"
)

// ParseDeletionScope validates a deletion scope value.
func ParseDeletionScope(value string) (DeletionScope, error) {
	switch DeletionScope(value) {
	case DeletionMetadataOnly, DeletionCascade:
		return DeletionScope(value), nil
	default:
		return "", errors.Wrapf(errors.ErrInvalidInput,
			"deletion scope must be %q or %q", DeletionMetadataOnly, DeletionCascade)
	}
}

// Artifact-specific error definitions.
var (
	// ErrArtifactNotFound indicates the requested artifact does not exist.
	ErrArtifactNotFound = errors.Wrap(errors.ErrNotFound, "artifact not found")
)
