package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	apperrors "github.com/allisson/reportgate/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for unique-constraint violations.
const mysqlDuplicateEntry = 1062

// MySQLStore implements KVStore for MySQL databases.
type MySQLStore struct {
	db *sql.DB
}

// NewMySQLStore creates a new MySQL KVStore instance.
func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{db: db}
}

// Get retrieves the value for key, treating expired entries as absent.
func (m *MySQLStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `SELECT v FROM kv_entries
			  WHERE k = ? AND (expires_at IS NULL OR expires_at > ?)`

	var value string
	err := m.db.QueryRowContext(ctx, query, key, time.Now().UTC()).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.ErrNotFound
		}
		return nil, wrapUnavailable(err, "failed to get entry")
	}

	return []byte(value), nil
}

// Put stores value under key, replacing any existing entry.
func (m *MySQLStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now().UTC()

	query := `INSERT INTO kv_entries (k, v, expires_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)
			  ON DUPLICATE KEY UPDATE v = VALUES(v), expires_at = VALUES(expires_at), updated_at = VALUES(updated_at)`

	_, err := m.db.ExecContext(ctx, query, key, string(value), expiresAt(now, ttl), now, now)
	if err != nil {
		return wrapUnavailable(err, "failed to put entry")
	}

	return nil
}

// PutIfAbsent stores value under key only if no live entry exists.
// An expired entry under the same key is reclaimed first, so the conditional
// insert only ever loses to a live entry.
func (m *MySQLStore) PutIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	now := time.Now().UTC()

	reclaim := `DELETE FROM kv_entries
				WHERE k = ? AND expires_at IS NOT NULL AND expires_at <= ?`
	if _, err := m.db.ExecContext(ctx, reclaim, key, now); err != nil {
		return wrapUnavailable(err, "failed to reclaim expired entry")
	}

	query := `INSERT INTO kv_entries (k, v, expires_at, created_at, updated_at)
			  VALUES (?, ?, ?, ?, ?)`

	if _, err := m.db.ExecContext(ctx, query, key, string(value), expiresAt(now, ttl), now, now); err != nil {
		if isDuplicateEntry(err) {
			return apperrors.ErrConflict
		}
		return wrapUnavailable(err, "failed to put entry")
	}

	return nil
}

// CompareAndSwap replaces the value under key only if the current live value equals old.
func (m *MySQLStore) CompareAndSwap(
	ctx context.Context,
	key string,
	old, new []byte,
	ttl time.Duration,
) error {
	now := time.Now().UTC()

	query := `UPDATE kv_entries
			  SET v = ?, expires_at = ?, updated_at = ?
			  WHERE k = ? AND v = ? AND (expires_at IS NULL OR expires_at > ?)`

	result, err := m.db.ExecContext(ctx, query, string(new), expiresAt(now, ttl), now, key, string(old), now)
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
func (m *MySQLStore) Delete(ctx context.Context, key string) error {
	query := `DELETE FROM kv_entries WHERE k = ?`

	if _, err := m.db.ExecContext(ctx, query, key); err != nil {
		return wrapUnavailable(err, "failed to delete entry")
	}

	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix.
func (m *MySQLStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	query := `DELETE FROM kv_entries WHERE k LIKE ?`

	result, err := m.db.ExecContext(ctx, query, escapeLike(prefix)+"%")
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
func (m *MySQLStore) ListByPrefix(ctx context.Context, prefix string) ([]Entry, error) {
	query := `SELECT k, v, expires_at FROM kv_entries
			  WHERE k LIKE ? AND (expires_at IS NULL OR expires_at > ?)
			  ORDER BY k`

	rows, err := m.db.QueryContext(ctx, query, escapeLike(prefix)+"%", time.Now().UTC())
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
func (m *MySQLStore) CountExpired(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM kv_entries
			  WHERE expires_at IS NOT NULL AND expires_at <= ?`

	var count int64
	if err := m.db.QueryRowContext(ctx, query, time.Now().UTC()).Scan(&count); err != nil {
		return 0, wrapUnavailable(err, "failed to count expired entries")
	}

	return count, nil
}

// DeleteExpired removes entries whose TTL has elapsed.
func (m *MySQLStore) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM kv_entries
			  WHERE expires_at IS NOT NULL AND expires_at <= ?`

	result, err := m.db.ExecContext(ctx, query, time.Now().UTC())
	if err != nil {
		return 0, wrapUnavailable(err, "failed to delete expired entries")
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, wrapUnavailable(err, "failed to get affected rows")
	}

	return affected, nil
}

// isDuplicateEntry reports whether err is a MySQL duplicate-key violation.
func isDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	if apperrors.As(err, &mysqlErr) {
		return mysqlErr.Number == mysqlDuplicateEntry
	}
	// Fallback for drivers that don't expose the error number
	return strings.Contains(err.Error(), "Duplicate entry")
}
