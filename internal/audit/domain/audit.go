// Package domain defines the audit trail model. Every security-relevant
// decision (URL issuance, download allow/deny, report send) is recorded as an
// immutable event scoped to the tenant it concerns.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Action identifies the kind of operation an audit event records.
type Action string

const (
	ActionURLIssued      Action = "url_issued"
	ActionDownloadAllow  Action = "download_allowed"
	ActionDownloadDeny   Action = "download_denied"
	ActionReportSent     Action = "report_sent"
	ActionReportReplayed Action = "report_replayed"
	ActionArtifactDelete Action = "artifact_deleted"
)

// Event is a single audit trail entry.
type Event struct {
	ID           uuid.UUID `json:"id"`
	Scope        string    `json:"scope"`
	SubScope     string    `json:"sub_scope,omitempty"`
	Action       Action    `json:"action"`
	ResourceName string    `json:"resource_name,omitempty"`
	Reason       string    `json:"reason,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewEvent creates an audit event with a UUIDv7 ID and the given creation
// time. UUIDv7 keeps events roughly time-ordered when listed by key.
func NewEvent(scope, subScope string, action Action, resourceName, reason string, now time.Time) Event {
	return Event{
		ID:           uuid.Must(uuid.NewV7()),
		Scope:        scope,
		SubScope:     subScope,
		Action:       action,
		ResourceName: resourceName,
		Reason:       reason,
		CreatedAt:    now.UTC(),
	}
}
