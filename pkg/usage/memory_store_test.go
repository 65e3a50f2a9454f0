package usage_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatekit/gatekit/pkg/feature"
	"github.com/gatekit/gatekit/pkg/usage"
)

func TestMemoryStore_IncrementIfBelow(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	expireAt := time.Now().Add(time.Hour)

	t.Run("claims slots up to the limit", func(t *testing.T) {
		t.Parallel()

		store := usage.NewMemoryStore()
		defer store.Close()

		for want := int64(1); want <= 3; want++ {
			allowed, current, err := store.IncrementIfBelow(ctx, "u1:practice:2025-01-11", 3, expireAt)
			require.NoError(t, err)
			assert.True(t, allowed)
			assert.Equal(t, want, current)
		}

		allowed, current, err := store.IncrementIfBelow(ctx, "u1:practice:2025-01-11", 3, expireAt)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, int64(3), current)
	})

	t.Run("unlimited always increments", func(t *testing.T) {
		t.Parallel()

		store := usage.NewMemoryStore()
		defer store.Close()

		for range 10 {
			allowed, _, err := store.IncrementIfBelow(ctx, "u1:practice:2025-01-11", usage.Unlimited, expireAt)
			require.NoError(t, err)
			assert.True(t, allowed)
		}

		current, err := store.Get(ctx, "u1:practice:2025-01-11")
		require.NoError(t, err)
		assert.Equal(t, int64(10), current)
	})

	t.Run("zero limit never admits", func(t *testing.T) {
		t.Parallel()

		store := usage.NewMemoryStore()
		defer store.Close()

		allowed, current, err := store.IncrementIfBelow(ctx, "u1:practice:2025-01-11", 0, expireAt)
		require.NoError(t, err)
		assert.False(t, allowed)
		assert.Equal(t, int64(0), current)
	})

	t.Run("expired bucket restarts from zero", func(t *testing.T) {
		t.Parallel()

		store := usage.NewMemoryStore()
		defer store.Close()

		// Fill the bucket with an expiry that is already in the past.
		allowed, _, err := store.IncrementIfBelow(ctx, "u1:practice:2025-01-10", 1, time.Now().Add(-time.Second))
		require.NoError(t, err)
		require.True(t, allowed)

		allowed, current, err := store.IncrementIfBelow(ctx, "u1:practice:2025-01-10", 1, expireAt)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, int64(1), current)
	})

	t.Run("empty key", func(t *testing.T) {
		t.Parallel()

		store := usage.NewMemoryStore()
		defer store.Close()

		_, _, err := store.IncrementIfBelow(ctx, "", 1, expireAt)
		assert.ErrorIs(t, err, usage.ErrInvalidKey)
	})
}

func TestMemoryStore_Get(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := usage.NewMemoryStore()
	defer store.Close()

	current, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, int64(0), current)

	_, _, err = store.IncrementIfBelow(ctx, "u1:export:2025-01", 5, time.Now().Add(time.Hour))
	require.NoError(t, err)

	current, err = store.Get(ctx, "u1:export:2025-01")
	require.NoError(t, err)
	assert.Equal(t, int64(1), current)

	_, err = store.Get(ctx, "")
	assert.ErrorIs(t, err, usage.ErrInvalidKey)
}

func TestMemoryStore_Delete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := usage.NewMemoryStore()
	defer store.Close()

	_, _, err := store.IncrementIfBelow(ctx, "u1:export:2025-01", 5, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, "u1:export:2025-01"))

	current, err := store.Get(ctx, "u1:export:2025-01")
	require.NoError(t, err)
	assert.Equal(t, int64(0), current)
}

func TestMemoryStore_ConcurrentAdmission(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := usage.NewMemoryStore()
	defer store.Close()

	const limit = 10
	const attempts = 100

	var admitted atomic.Int64
	var wg sync.WaitGroup

	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _, err := store.IncrementIfBelow(ctx, "shared", limit, time.Now().Add(time.Hour))
			assert.NoError(t, err)
			if allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	// Exactly limit slots must be claimed, never more.
	assert.Equal(t, int64(limit), admitted.Load())

	current, err := store.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, int64(limit), current)
}

func TestSnapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := usage.NewMemoryStore()
	defer store.Close()

	expireAt := time.Now().Add(time.Hour)
	for range 2 {
		_, _, err := store.IncrementIfBelow(ctx, "u1:practice_session:2025-01-11", 10, expireAt)
		require.NoError(t, err)
	}

	counts, err := usage.Snapshot(ctx, store, map[feature.ID]string{
		"practice_session": "u1:practice_session:2025-01-11",
		"deck_export":      "u1:deck_export:2025-01",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(2), counts["practice_session"])
	assert.Equal(t, int64(0), counts["deck_export"])
}
