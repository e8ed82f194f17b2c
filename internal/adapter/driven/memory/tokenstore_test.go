package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/blogpanel/internal/adapter/driven/memory"
)

func TestTokenStore_RoundTrip(t *testing.T) {
	store := memory.NewTokenStore()
	ctx := context.Background()

	val, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Empty(t, val)

	require.NoError(t, store.Set(ctx, "k", "v"))
	val, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	require.NoError(t, store.Delete(ctx, "k"))
	require.NoError(t, store.Delete(ctx, "k"))
	assert.Zero(t, store.Len())
}

func TestTokenStore_ConcurrentAccess(t *testing.T) {
	store := memory.NewTokenStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = store.Set(ctx, "k", "v")
		}()
		go func() {
			defer wg.Done()
			_, _ = store.Get(ctx, "k")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.Len())
}
