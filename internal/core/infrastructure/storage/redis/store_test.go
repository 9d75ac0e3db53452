package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	redisconfig "github.com/weisyn/credproof/internal/config/storage/redis"
	"github.com/weisyn/credproof/internal/core/credential/testutil"
)

// ==================== Mock redisClient ====================

type mockRedisClient struct {
	mu      sync.RWMutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	closed  bool
	failGet error
}

func newMockRedisClient() *mockRedisClient {
	return &mockRedisClient{
		data: make(map[string][]byte),
		ttls: make(map[string]time.Duration),
	}
}

func (m *mockRedisClient) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	value, ok := m.data[key]
	if !ok {
		return nil, errKeyNotFound
	}
	return append([]byte(nil), value...), nil
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value []byte, expiration time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("client closed")
	}
	m.data[key] = append([]byte(nil), value...)
	m.ttls[key] = expiration
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			delete(m.ttls, key)
			n++
		}
	}
	return n, nil
}

func (m *mockRedisClient) Exists(ctx context.Context, keys ...string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			n++
		}
	}
	return n, nil
}

func (m *mockRedisClient) ScanPrefix(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []string
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (m *mockRedisClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// ==================== Store 测试 ====================

func TestStore_BasicOperations(t *testing.T) {
	client := newMockRedisClient()
	store := newStore(client, "credproof:", testutil.NewTestLogger())
	ctx := context.Background()

	value, err := store.Get(ctx, []byte("missing"))
	require.NoError(t, err)
	assert.Nil(t, value)

	require.NoError(t, store.Set(ctx, []byte("setup/default/verifying_key"), []byte("vk")))
	assert.Contains(t, client.data, "credproof:setup/default/verifying_key", "键应带有前缀")

	value, err = store.Get(ctx, []byte("setup/default/verifying_key"))
	require.NoError(t, err)
	assert.Equal(t, []byte("vk"), value)

	exists, err := store.Exists(ctx, []byte("setup/default/verifying_key"))
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, []byte("setup/default/verifying_key")))
	exists, err = store.Exists(ctx, []byte("setup/default/verifying_key"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestStore_SetWithTTL(t *testing.T) {
	client := newMockRedisClient()
	store := newStore(client, "p:", testutil.NewTestLogger())

	require.NoError(t, store.SetWithTTL(context.Background(), []byte("k"), []byte("v"), time.Minute))
	assert.Equal(t, time.Minute, client.ttls["p:k"])

	require.NoError(t, store.Set(context.Background(), []byte("forever"), []byte("v")))
	assert.Equal(t, time.Duration(0), client.ttls["p:forever"])
}

func TestStore_PrefixScan(t *testing.T) {
	client := newMockRedisClient()
	store := newStore(client, "p:", testutil.NewTestLogger())
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, []byte("setup/a/proving_key"), []byte("pa")))
	require.NoError(t, store.Set(ctx, []byte("setup/b/proving_key"), []byte("pb")))
	require.NoError(t, store.Set(ctx, []byte("other"), []byte("x")))
	client.data["foreign:setup/c/proving_key"] = []byte("not ours")

	result, err := store.PrefixScan(ctx, []byte("setup/"))
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"setup/a/proving_key": []byte("pa"),
		"setup/b/proving_key": []byte("pb"),
	}, result)
}

func TestStore_GetError(t *testing.T) {
	client := newMockRedisClient()
	client.failGet = errors.New("connection reset")
	store := newStore(client, "p:", testutil.NewTestLogger())

	_, err := store.Get(context.Background(), []byte("k"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
}

// ==================== 真实 Redis 集成测试 ====================

func TestStore_RealRedis(t *testing.T) {
	addr := os.Getenv("CREDPROOF_REDIS_ADDR")
	if addr == "" {
		t.Skip("CREDPROOF_REDIS_ADDR 未设置，跳过 Redis 集成测试")
	}

	options := redisconfig.New(nil).GetOptions()
	options.Addr = addr
	options.KeyPrefix = "credproof-test:" + uuid.NewString() + ":"

	store, err := New(redisconfig.NewFromOptions(options), testutil.NewTestLogger())
	if err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	key := []byte("setup/it/verifying_key")
	defer store.Delete(ctx, key)

	require.NoError(t, store.Set(ctx, key, []byte{0, 1, 2, 0xff}))
	value, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 1, 2, 0xff}, value)

	result, err := store.PrefixScan(ctx, []byte("setup/"))
	require.NoError(t, err)
	assert.Len(t, result, 1)
}
