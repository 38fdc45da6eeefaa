package commands

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/allisson/reportgate/internal/store"
)

func TestRunCleanExpiredEntries(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.DiscardHandler)

	seedStore := func(t *testing.T) store.KVStore {
		t.Helper()
		kvStore := store.NewMemoryStore()
		require.NoError(t, kvStore.Put(ctx, "idem:a:c:k1", []byte("{}"), time.Nanosecond))
		require.NoError(t, kvStore.Put(ctx, "ratelimit:a:100", []byte("{}"), time.Nanosecond))
		require.NoError(t, kvStore.Put(ctx, "tenant:a", []byte("{}"), 0))
		time.Sleep(time.Millisecond)
		return kvStore
	}

	t.Run("text-output", func(t *testing.T) {
		kvStore := seedStore(t)

		var out bytes.Buffer
		err := RunCleanExpiredEntries(ctx, kvStore, logger, &out, false, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Successfully deleted 2 expired entry(ies)")

		// The live entry survives.
		_, err = kvStore.Get(ctx, "tenant:a")
		require.NoError(t, err)
	})

	t.Run("dry-run", func(t *testing.T) {
		kvStore := seedStore(t)

		var out bytes.Buffer
		err := RunCleanExpiredEntries(ctx, kvStore, logger, &out, true, "text")

		require.NoError(t, err)
		require.Contains(t, out.String(), "Would delete 2 expired entry(ies)")

		// Dry-run must not delete anything.
		count, err := kvStore.CountExpired(ctx)
		require.NoError(t, err)
		require.Equal(t, int64(2), count)
	})

	t.Run("json-output", func(t *testing.T) {
		kvStore := seedStore(t)

		var out bytes.Buffer
		err := RunCleanExpiredEntries(ctx, kvStore, logger, &out, true, "json")

		require.NoError(t, err)
		require.Contains(t, out.String(), `"count": 2`)
		require.Contains(t, out.String(), `"dry_run": true`)
	})
}
