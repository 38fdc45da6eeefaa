package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	"github.com/allisson/reportgate/internal/store"
)

const keyPrefix = "audit"

type auditUseCase struct {
	store     store.KVStore
	retention time.Duration
	logger    *slog.Logger
}

// NewAuditUseCase creates an audit trail backed by the KV store. Events expire
// after the configured retention period.
func NewAuditUseCase(kvStore store.KVStore, retention time.Duration, logger *slog.Logger) UseCase {
	return &auditUseCase{
		store:     kvStore,
		retention: retention,
		logger:    logger,
	}
}

// ScopePrefix returns the key prefix under which a tenant's audit events are
// stored. Used for cascade deletion of a tenant.
func ScopePrefix(scope string) string {
	return fmt.Sprintf("%s:%s:", keyPrefix, scope)
}

func eventKey(event auditDomain.Event) string {
	// UnixNano before the ID keeps keys sortable by creation time.
	return fmt.Sprintf("%s%d_%s", ScopePrefix(event.Scope), event.CreatedAt.UnixNano(), event.ID)
}

// Record persists the event with the retention TTL. Failures are logged and
// swallowed so auditing never breaks the audited operation.
func (a *auditUseCase) Record(ctx context.Context, event auditDomain.Event) {
	value, err := json.Marshal(event)
	if err != nil {
		a.logger.Error("Failed to marshal audit event",
			slog.String("scope", event.Scope),
			slog.String("action", string(event.Action)),
			slog.String("error", err.Error()))
		return
	}

	if err := a.store.Put(ctx, eventKey(event), value, a.retention); err != nil {
		a.logger.Error("Failed to record audit event",
			slog.String("scope", event.Scope),
			slog.String("action", string(event.Action)),
			slog.String("error", err.Error()))
	}
}

// ListByScope returns the tenant's audit events ordered oldest first. Entries
// that fail to decode are skipped and logged.
func (a *auditUseCase) ListByScope(ctx context.Context, scope string) ([]auditDomain.Event, error) {
	entries, err := a.store.ListByPrefix(ctx, ScopePrefix(scope))
	if err != nil {
		return nil, fmt.Errorf("failed to list audit events: %w", err)
	}

	events := make([]auditDomain.Event, 0, len(entries))
	for _, entry := range entries {
		var event auditDomain.Event
		if err := json.Unmarshal(entry.Value, &event); err != nil {
			a.logger.Warn("Skipping undecodable audit event",
				slog.String("key", entry.Key),
				slog.String("error", err.Error()))
			continue
		}
		events = append(events, event)
	}

	sort.Slice(events, func(i, j int) bool {
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})
	return events, nil
}
