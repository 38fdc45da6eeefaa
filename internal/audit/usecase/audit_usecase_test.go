package usecase

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/reportgate/internal/audit/domain"
	"github.com/allisson/reportgate/internal/store"
)

// mockKVStore is a mock implementation of store.KVStore for failure paths.
type mockKVStore struct {
	mock.Mock
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *mockKVStore) Put(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockKVStore) PutIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *mockKVStore) CompareAndSwap(ctx context.Context, key string, old, new []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, old, new, ttl)
	return args.Error(0)
}

func (m *mockKVStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *mockKVStore) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockKVStore) ListByPrefix(ctx context.Context, prefix string) ([]store.Entry, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Entry), args.Error(1)
}

func (m *mockKVStore) CountExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockKVStore) DeleteExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestAuditUseCase_RecordAndList(t *testing.T) {
	ctx := context.Background()
	auditUseCase := NewAuditUseCase(store.NewMemoryStore(), time.Hour, testLogger())

	now := time.Now()
	first := auditDomain.NewEvent("agency_1", "client_1", auditDomain.ActionURLIssued, "report.pdf", "", now)
	second := auditDomain.NewEvent("agency_1", "", auditDomain.ActionDownloadDeny, "report.pdf", "PDF_TOKEN_EXPIRED", now.Add(time.Second))
	other := auditDomain.NewEvent("agency_2", "", auditDomain.ActionDownloadAllow, "other.pdf", "", now)

	auditUseCase.Record(ctx, first)
	auditUseCase.Record(ctx, second)
	auditUseCase.Record(ctx, other)

	events, err := auditUseCase.ListByScope(ctx, "agency_1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, first.ID, events[0].ID, "events are ordered oldest first")
	assert.Equal(t, second.ID, events[1].ID)
	assert.Equal(t, "PDF_TOKEN_EXPIRED", events[1].Reason)

	events, err = auditUseCase.ListByScope(ctx, "agency_3")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAuditUseCase_RecordSwallowsStoreFailures(t *testing.T) {
	ctx := context.Background()
	mockStore := &mockKVStore{}
	mockStore.On("Put", ctx, mock.Anything, mock.Anything, time.Hour).
		Return(errors.New("connection refused"))

	auditUseCase := NewAuditUseCase(mockStore, time.Hour, testLogger())

	event := auditDomain.NewEvent("agency_1", "", auditDomain.ActionReportSent, "report.pdf", "", time.Now())
	assert.NotPanics(t, func() {
		auditUseCase.Record(ctx, event)
	})
	mockStore.AssertExpectations(t)
}

func TestAuditUseCase_ListSkipsUndecodableEntries(t *testing.T) {
	ctx := context.Background()
	kvStore := store.NewMemoryStore()
	auditUseCase := NewAuditUseCase(kvStore, time.Hour, testLogger())

	event := auditDomain.NewEvent("agency_1", "", auditDomain.ActionReportSent, "report.pdf", "", time.Now())
	auditUseCase.Record(ctx, event)
	require.NoError(t, kvStore.Put(ctx, ScopePrefix("agency_1")+"corrupt", []byte("{not json"), 0))

	events, err := auditUseCase.ListByScope(ctx, "agency_1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, event.ID, events[0].ID)
}
