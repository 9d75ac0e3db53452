package memory

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	memoryconfig "github.com/weisyn/credproof/internal/config/storage/memory"
	"github.com/weisyn/credproof/internal/core/credential/testutil"
)

// setupTestStore 创建测试存储
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(memoryconfig.New(nil), testutil.NewTestLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestBasicOperations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	_, exists, err := store.Get(ctx, "vk")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Set(ctx, "vk", []byte("verifying key"), 0))

	value, exists, err := store.Get(ctx, "vk")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, []byte("verifying key"), value)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	require.NoError(t, store.Delete(ctx, "vk"))
	exists, err = store.Exists(ctx, "vk")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, store.Delete(ctx, "vk"), "重复删除不应报错")
}

func TestEmptyValue(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "empty", []byte{}, 0))
	value, exists, err := store.Get(ctx, "empty")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Empty(t, value)
}

func TestTTLExpiration(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "short", []byte("v"), time.Minute))
	exists, err := store.Exists(ctx, "short")
	require.NoError(t, err)
	assert.True(t, exists)

	now = now.Add(2 * time.Minute)
	_, exists, err = store.Get(ctx, "short")
	require.NoError(t, err)
	assert.False(t, exists)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count, "过期条目在读取时被删除")
}

func TestClear(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Set(ctx, fmt.Sprintf("k%d", i), []byte{byte(i)}, 0))
	}
	require.NoError(t, store.Clear(ctx))

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestClosedStore(t *testing.T) {
	store, err := New(memoryconfig.New(nil), testutil.NewTestLogger())
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NoError(t, store.Close())

	_, _, err = store.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, store.Set(context.Background(), "k", nil, 0), ErrStoreClosed)
}

func TestConcurrentAccess(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("key-%d", i)
			assert.NoError(t, store.Set(ctx, key, []byte(key), 0))
			value, exists, err := store.Get(ctx, key)
			assert.NoError(t, err)
			assert.True(t, exists)
			assert.Equal(t, []byte(key), value)
		}(i)
	}
	wg.Wait()
}
