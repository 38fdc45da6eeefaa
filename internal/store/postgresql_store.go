package store

import (
	"context"
	"database/sql"
	"time"

	apperrors "github.com/allisson/reportgate/internal/errors"
)

// PostgreSQLStore implements KVStore for PostgreSQL databases.
type PostgreSQLStore struct {
	db *sql.DB
}

// NewPostgreSQLStore creates a new PostgreSQL KVStore instance.
func NewPostgreSQLStore(db *sql.DB) *PostgreSQLStore {
	return &PostgreSQLStore{db: db}
}

// Get retrieves the value for key, treating expired entries as absent.
func (p *PostgreSQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT v FROM kv_entries
			  WHERE k = $1 AND (expires_at IS NULL OR expires_at > $2)`

	var value string
	err := p.db.QueryRowContext(ctx, query, key, time.Now().UTC()).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, wrapUnavailable(err, "failed to get entry")
	}

	return []byte(value), nil
}

// Put stores value under key, replacing any existing entry.
func (p *PostgreSQLStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now().UTC()

	query := `INSERT INTO kv_entries (k, v, expires_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $4)
			  ON CONFLICT (k) DO UPDATE
			  SET v = EXCLUDED.v, expires_at = EXCLUDED.expires_at, updated_at = EXCLUDED.updated_at`

	_, err := p.db.ExecContext(ctx, query, key, string(value), expiresAt(now, ttl), now)
	if err != nil {
		return wrapUnavailable(err, "failed to put entry")
	}

	return nil
}

// PutIfAbsent stores value under key only if no live entry exists.
// An expired entry under the same key is reclaimed first, so the conditional
// insert only ever loses to a live entry.
func (p *PostgreSQLStore) PutIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now().UTC()

	reclaim := `DELETE FROM kv_entries
				WHERE k = $1 AND expires_at IS NOT NULL AND expires_at <= $2`
	if _, err := p.db.ExecContext(ctx, reclaim, key, now); err != nil {
		return wrapUnavailable(err, "failed to reclaim expired entry")
	}

	query := `INSERT INTO kv_entries (k, v, expires_at, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $4)
			  ON CONFLICT (k) DO NOTHING`

	result, err := p.db.ExecContext(ctx, query, key, string(value), expiresAt(now, ttl), now)
	if err != nil {
		return wrapUnavailable(err, "failed to put entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapUnavailable(err, "failed to get affected rows")
	}
	if affected == 0 {
		return apperrors.ErrConflict
	}

	return nil
}

// CompareAndSwap replaces the value under key only if the current live value equals old.
func (p *PostgreSQLStore) CompareAndSwap(
	ctx context.Context,
	key string,
	old, new []byte,
	ttl time.Duration,
) error {
	now := time.Now().UTC()

	query := `UPDATE kv_entries
			  SET v = $1, expires_at = $2, updated_at = $3
			  WHERE k = $4 AND v = $5 AND (expires_at IS NULL OR expires_at > $3)`

	result, err := p.db.ExecContext(ctx, query, string(new), expiresAt(now, ttl), now, key, string(old))
	if err != nil {
		return wrapUnavailable(err, "failed to compare-and-swap entry")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapUnavailable(err, "failed to get affected rows")
	}
	if affected == 0 {
		return apperrors.ErrConflict
	}

	return nil
}

// Delete removes the entry for key.
func (p *PostgreSQLStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entries WHERE k = $1`

	if _, err := p.db.ExecContext(ctx, query, key); err != nil {
		return wrapUnavailable(err, "failed to delete entry")
	}

	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix.
func (p *PostgreSQLStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	query := `DELETE FROM kv_entries WHERE k LIKE $1`

	result, err := p.db.ExecContext(ctx, query, escapeLike(prefix)+"%")
	if err != nil {
		return 0, wrapUnavailable(err, "failed to delete entries by prefix")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapUnavailable(err, "failed to get affected rows")
	}

	return affected, nil
}

// ListByPrefix returns all live entries whose key starts with prefix.
func (p *PostgreSQLStore) ListByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	query := `SELECT k, v, expires_at FROM kv_entries
			  WHERE k LIKE $1 AND (expires_at IS NULL OR expires_at > $2)
			  ORDER BY k`

	rows, err := p.db.QueryContext(ctx, query, escapeLike(prefix)+"%", time.Now().UTC())
	if err != nil {
		return nil, wrapUnavailable(err, "failed to list entries by prefix")
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var value string
		if err := rows.Scan(&entry.Key, &value, &entry.ExpiresAt); err != nil {
			return nil, wrapUnavailable(err, "failed to scan entry")
		}
		entry.Value = []byte(value)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapUnavailable(err, "failed to iterate entries")
	}

	return entries, nil
}

// CountExpired returns the number of entries whose TTL has elapsed.
func (p *PostgreSQLStore) CountExpired(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM kv_entries
			  WHERE expires_at IS NOT NULL AND expires_at <= $1`

	var count int64
	if err := p.db.QueryRowContext(ctx, query, time.Now().UTC()).Scan(&count); err != nil {
		return 0, wrapUnavailable(err, "failed to count expired entries")
	}

	return count, nil
}

// DeleteExpired removes entries whose TTL has elapsed.
func (p *PostgreSQLStore) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM kv_entries
			  WHERE expires_at IS NOT NULL AND expires_at <= $1`

	result, err := p.db.ExecContext(ctx, query, time.Now().UTC())
	if err != nil {
		return 0, wrapUnavailable(err, "failed to delete expired entries")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapUnavailable(err, "failed to get affected rows")
	}

	return affected, nil
}
