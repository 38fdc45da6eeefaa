package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	apperrors "github.com/allisson/reportgate/internal/errors"
	idempotencyDomain "github.com/allisson/reportgate/internal/idempotency/domain"
	"github.com/allisson/reportgate/internal/store"
)

const keyPrefix = "idem"

type ledgerUseCase struct {
	store     store.KVStore
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewLedgerUseCase creates an idempotency ledger backed by the KV store.
// Records expire after the retention period, after which a key may be reused.
func NewLedgerUseCase(kvStore store.KVStore, retention time.Duration, logger *slog.Logger) Ledger {
	return &ledgerUseCase{
		store:     kvStore,
		retention: retention,
		logger:    logger,
		now:       time.Now,
	}
}

// ScopePrefix returns the key prefix under which a tenant's idempotency
// records are stored. Used for tenant deletion.
func ScopePrefix(scope string) string {
	return fmt.Sprintf("%s:%s:", keyPrefix, scope)
}

// recordKey scopes the idempotency key to the tenant and client so the same
// key used by different tenants never collides.
func recordKey(key, scope, subScope string) string {
	return fmt.Sprintf("%s%s:%s", ScopePrefix(scope), subScope, key)
}

// Check classifies the request. Store errors other than not-found propagate
// wrapped in ErrUnavailable so callers fail closed.
func (l *ledgerUseCase) Check(
	ctx context.Context,
	key, scope, subScope, fingerprint string,
) (idempotencyDomain.CheckResult, error) {
	value, err := l.store.Get(ctx, recordKey(key, scope, subScope))
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return idempotencyDomain.CheckResult{Outcome: idempotencyDomain.OutcomeNew}, nil
		}
		return idempotencyDomain.CheckResult{},
			fmt.Errorf("idempotency check: %w: %v", apperrors.ErrUnavailable, err)
	}

	var record idempotencyDomain.Record
	if err := json.Unmarshal(value, &record); err != nil {
		// A record we wrote but cannot read back is as bad as an unreachable
		// store: refuse to guess whether this is a replay.
		return idempotencyDomain.CheckResult{},
			fmt.Errorf("idempotency record corrupt: %w: %v", apperrors.ErrUnavailable, err)
	}

	if record.Fingerprint != fingerprint {
		return idempotencyDomain.CheckResult{Outcome: idempotencyDomain.OutcomeConflict}, nil
	}
	return idempotencyDomain.CheckResult{
		Outcome: idempotencyDomain.OutcomeReplay,
		Record:  &record,
	}, nil
}

// Store persists the record with PutIfAbsent so concurrent first requests
// cannot overwrite each other; exactly one writer wins and later checks see
// its response. Failures are logged and swallowed.
func (l *ledgerUseCase) Store(
	ctx context.Context,
	key, scope, subScope, fingerprint string,
	statusCode int,
	response []byte,
) {
	record := idempotencyDomain.Record{
		Fingerprint: fingerprint,
		Response:    response,
		StatusCode:  statusCode,
		CreatedAt:   l.now().UTC(),
	}
	value, err := json.Marshal(record)
	if err != nil {
		l.logger.Error("Failed to marshal idempotency record",
			slog.String("scope", scope),
			slog.String("error", err.Error()))
		return
	}

	err = l.store.PutIfAbsent(ctx, recordKey(key, scope, subScope), value, l.retention)
	switch {
	case err == nil:
	case apperrors.Is(err, apperrors.ErrConflict):
		l.logger.Debug("Idempotency record already stored by a concurrent request",
			slog.String("scope", scope),
			slog.String("key", key))
	default:
		l.logger.Error("Failed to store idempotency record",
			slog.String("scope", scope),
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
