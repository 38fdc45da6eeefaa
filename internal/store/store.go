// Package store defines the key-value storage contract shared by the gating
// components (token audit trail, idempotency ledger, rate limiter, tenant index).
//
// The store is a durable mapping from string key to string value with explicit
// TTLs. Expired entries are treated as absent by every read and are reclaimed
// by the clean-expired-entries command. Implementations exist for PostgreSQL
// and MySQL over a single kv_entries table.
package store

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/allisson/reportgate/internal/errors"
)

// Entry is a single key-value pair returned by list operations.
type Entry struct {
	Key       string
	Value     []byte
	ExpiresAt *time.Time
}

// KVStore defines the storage operations used by the gating components.
//
// Error contract:
//   - Get returns ErrNotFound for absent or expired keys.
//   - PutIfAbsent and CompareAndSwap return ErrConflict when the condition
//     does not hold; these are the conditional-write primitives the
//     idempotency ledger and tenant index rely on for race-free writes.
//   - Any failure to reach the underlying database is wrapped in
//     ErrUnavailable so that gating reads can fail closed.
type KVStore interface {
	// Get retrieves the value for key. Expired entries count as absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, replacing any existing entry.
	// A zero ttl stores the entry without expiry.
	Put(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// PutIfAbsent stores value under key only if no live entry exists.
	// Returns ErrConflict if a live entry is already present.
	PutIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// CompareAndSwap replaces the value under key only if the current live
	// value equals old. Returns ErrConflict on mismatch or absence.
	CompareAndSwap(ctx context.Context, key string, old, new []byte, ttl time.Duration) error

	// Delete removes the entry for key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeleteByPrefix removes every entry whose key starts with prefix and
	// returns the number removed.
	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)

	// ListByPrefix returns all live entries whose key starts with prefix,
	// ordered by key.
	ListByPrefix(ctx context.Context, prefix string) ([]Entry, error)

	// CountExpired returns the number of entries whose TTL has elapsed.
	CountExpired(ctx context.Context) (int64, error)

	// DeleteExpired removes entries whose TTL has elapsed and returns the
	// number removed.
	DeleteExpired(ctx context.Context) (int64, error)
}

// wrapUnavailable marks a database failure as ErrUnavailable so gating
// callers can fail closed. The driver error text is preserved in the message;
// the chain carries ErrUnavailable, which is what callers match on.
func wrapUnavailable(err error, message string) error {
	return fmt.Errorf("%s: %w: %v", message, apperrors.ErrUnavailable, err)
}

// expiresAt converts a ttl into an absolute expiry, or nil for no expiry.
func expiresAt(now time.Time, ttl time.Duration) *time.Time {
	if ttl <= 0 {
		return nil
	}
	t := now.Add(ttl)
	return &t
}

// escapeLike escapes LIKE wildcards in a key prefix. Resource names may
// legitimately contain underscores, which LIKE would otherwise treat as a
// single-character wildcard.
func escapeLike(prefix string) string {
	out := make([]byte, 0, len(prefix))
	for i := 0; i < len(prefix); i++ {
		switch prefix[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, prefix[i])
	}
	return string(out)
}
