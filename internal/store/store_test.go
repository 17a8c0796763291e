package store

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the shared Store contract against st.
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("get missing", func(t *testing.T) {
		_, err := st.Get(ctx, "11111111-1111-4111-8111-111111111111")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, IsNotFound(err))
	})

	t.Run("put then get", func(t *testing.T) {
		id := "22222222-2222-4222-8222-222222222222"
		token := "eyJjYXRlZ29yaWVzIjpbXX0="
		require.NoError(t, st.Put(ctx, id, token))

		got, err := st.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, token, got)
	})

	t.Run("duplicate id", func(t *testing.T) {
		id := "33333333-3333-4333-8333-333333333333"
		require.NoError(t, st.Put(ctx, id, "Zmlyc3Q="))
		assert.ErrorIs(t, st.Put(ctx, id, "c2Vjb25k"), ErrConflict)

		got, err := st.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Zmlyc3Q=", got)
	})

	t.Run("concurrent writers", func(t *testing.T) {
		var wg sync.WaitGroup
		errs := make(chan error, 20)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- st.Put(ctx, fmt.Sprintf("44444444-4444-4444-8444-%012d", i), fmt.Sprintf("token-%d", i))
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			assert.NoError(t, err)
		}
		got, err := st.Get(ctx, "44444444-4444-4444-8444-000000000007")
		require.NoError(t, err)
		assert.Equal(t, "token-7", got)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, st.Ping(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	st := NewMemoryStore()
	defer st.Close()
	exerciseStore(t, st)
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	st := NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, st.Put(ctx, "id", "token"), context.Canceled)
	_, err := st.Get(ctx, "id")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "connections.db")
	st, err := OpenSQLite(context.Background(), path, 5)
	require.NoError(t, err)
	defer st.Close()

	assert.Equal(t, DialectSQLite, st.Dialect())
	exerciseStore(t, st)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "connections.db")

	st, err := OpenSQLite(ctx, path, 1)
	require.NoError(t, err)
	require.NoError(t, st.Put(ctx, "55555555-5555-4555-8555-555555555555", "cGVyc2lzdGVk"))
	require.NoError(t, st.Close())

	// Migrations are recorded, so reopening must not fail or wipe data.
	st, err = OpenSQLite(ctx, path, 1)
	require.NoError(t, err)
	defer st.Close()

	got, err := st.Get(ctx, "55555555-5555-4555-8555-555555555555")
	require.NoError(t, err)
	assert.Equal(t, "cGVyc2lzdGVk", got)
}
