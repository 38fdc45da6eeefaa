package store

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/allisson/reportgate/internal/errors"
)

func TestMySQLStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT v FROM kv_entries")).
			WithArgs("k1", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"v"}).AddRow("v1"))

		s := NewMySQLStore(db)
		value, err := s.Get(ctx, "k1")

		assert.NoError(t, err)
		assert.Equal(t, []byte("v1"), value)
	})

	t.Run("NotFound", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT v FROM kv_entries")).
			WithArgs("missing", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"v"}))

		s := NewMySQLStore(db)
		_, err = s.Get(ctx, "missing")

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestMySQLStore_PutIfAbsent(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AbsentKey", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries")).
			WithArgs("k1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries")).
			WithArgs("k1", "v1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))

		s := NewMySQLStore(db)
		err = s.PutIfAbsent(ctx, "k1", []byte("v1"), time.Hour)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Conflict_DuplicateEntry", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM kv_entries")).
			WithArgs("k1", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO kv_entries")).
			WithArgs("k1", "v1", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'k1'"})

		s := NewMySQLStore(db)
		err = s.PutIfAbsent(ctx, "k1", []byte("v1"), time.Hour)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestMySQLStore_CompareAndSwap(t *testing.T) {
	ctx := context.Background()

	t.Run("Conflict_ValueChanged", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer func() { _ = db.Close() }()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE kv_entries")).
			WithArgs("new", sqlmock.AnyArg(), sqlmock.AnyArg(), "tenants:index", "stale", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 0))

		s := NewMySQLStore(db)
		err = s.CompareAndSwap(ctx, "tenants:index", []byte("stale"), []byte("new"), 0)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestIsDuplicateEntry(t *testing.T) {
	assert.True(t, isDuplicateEntry(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))
	assert.False(t, isDuplicateEntry(&mysql.MySQLError{Number: 1045, Message: "Access denied"}))
	assert.True(t, isDuplicateEntry(apperrors.New("Duplicate entry 'k1' for key 'PRIMARY'")))
	assert.False(t, isDuplicateEntry(apperrors.New("connection refused")))
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"audit:a:", "audit:a:"},
		{"audit:agency_1:", `audit:agency\_1:`},
		{"100%:", `100\%:`},
		{`a\b`, `a\\b`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, escapeLike(tt.input))
	}
}
