package badger

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	badgerconfig "github.com/weisyn/credproof/internal/config/storage/badger"
)

// setupTestStore 在临时目录中创建存储
func setupTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
		Path:             t.TempDir(),
		SyncWrites:       false,
		MemTableSize:     8 << 20,
		ValueLogFileSize: 16 << 20,
	})
	store, err := New(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestStore_BasicOperations(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	key := []byte("setup/default/proving_key")
	value := []byte("proving key bytes")

	got, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Nil(t, got, "不存在的键应返回 nil")

	require.NoError(t, store.Set(ctx, key, value))

	got, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, key))
	exists, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	// 删除不存在的键不报错
	require.NoError(t, store.Delete(ctx, []byte("missing")))
}

func TestStore_SetWithTTL(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetWithTTL(ctx, []byte("short"), []byte("v"), time.Second))
	got, err := store.Get(ctx, []byte("short"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	assert.Eventually(t, func() bool {
		v, err := store.Get(ctx, []byte("short"))
		return err == nil && v == nil
	}, 5*time.Second, 200*time.Millisecond)
}

func TestStore_PrefixScan(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Set(ctx, []byte(fmt.Sprintf("setup/s%d/verifying_key", i)), []byte{byte(i)}))
	}
	require.NoError(t, store.Set(ctx, []byte("other/key"), []byte("x")))

	result, err := store.PrefixScan(ctx, []byte("setup/"))
	require.NoError(t, err)
	assert.Len(t, result, 3)
	assert.Equal(t, []byte{1}, result["setup/s1/verifying_key"])
}

func TestStore_LargeValue(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	value := make([]byte, 4<<20)
	for i := range value {
		value[i] = byte(i)
	}
	require.NoError(t, store.Set(ctx, []byte("big"), value))

	got, err := store.Get(ctx, []byte("big"))
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestStore_ConcurrentWrites(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, store.Set(ctx, []byte(fmt.Sprintf("k%02d", i)), []byte{byte(i)}))
		}(i)
	}
	wg.Wait()

	result, err := store.PrefixScan(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Len(t, result, 20)
}

func TestStore_Close(t *testing.T) {
	cfg := badgerconfig.NewFromOptions(&badgerconfig.BadgerOptions{
		InMemory:         true,
		MemTableSize:     8 << 20,
		ValueLogFileSize: 16 << 20,
	})
	store, err := New(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, store.Close())
	require.NoError(t, store.Close(), "重复关闭应无副作用")

	err = store.Set(context.Background(), []byte("k"), []byte("v"))
	assert.ErrorIs(t, err, ErrStoreClosing)
}

func TestStore_Persistence(t *testing.T) {
	dir := t.TempDir()
	opts := &badgerconfig.BadgerOptions{
		Path:             dir,
		SyncWrites:       true,
		MemTableSize:     8 << 20,
		ValueLogFileSize: 16 << 20,
	}
	ctx := context.Background()

	store, err := New(badgerconfig.NewFromOptions(opts), nil)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, []byte("vk"), []byte("verifying key")))
	require.NoError(t, store.Close())

	reopened, err := New(badgerconfig.NewFromOptions(opts), nil)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, []byte("vk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("verifying key"), got)
}
