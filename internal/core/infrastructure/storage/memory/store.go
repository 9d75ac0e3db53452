// Package memory 提供基于BigCache的内存缓存实现
package memory

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/allegro/bigcache/v3"

	memoryconfig "github.com/weisyn/credproof/internal/config/storage/memory"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	storage "github.com/weisyn/credproof/pkg/interfaces/infrastructure/storage"
)

// expiryHeaderSize 值前缀中过期时间（UnixNano，0 表示不过期）的字节数
const expiryHeaderSize = 8

// ErrStoreClosed 缓存已关闭
var ErrStoreClosed = errors.New("memory store is closed")

// Store 基于BigCache实现 MemoryStore
//
// BigCache 只有全局生命周期窗口，单条目 TTL 以 8 字节过期时间前缀保存在值中。
type Store struct {
	cache  *bigcache.BigCache
	logger log.Logger
	config *memoryconfig.Config
	mutex  sync.RWMutex
	closed bool
	now    func() time.Time
}

var _ storage.MemoryStore = (*Store)(nil)

// New 创建BigCache内存缓存
func New(config *memoryconfig.Config, logger log.Logger) (*Store, error) {
	bigCacheConfig := bigcache.DefaultConfig(config.GetDefaultTTL())
	bigCacheConfig.MaxEntriesInWindow = config.GetMaxEntriesInWindow()
	bigCacheConfig.MaxEntrySize = config.GetMaxEntrySize()
	bigCacheConfig.Shards = config.GetShards()
	bigCacheConfig.CleanWindow = config.GetCleanupInterval()
	bigCacheConfig.HardMaxCacheSize = config.GetMaxMemory()
	bigCacheConfig.Verbose = false

	cache, err := bigcache.New(context.Background(), bigCacheConfig)
	if err != nil {
		return nil, fmt.Errorf("创建BigCache实例失败: %w", err)
	}

	return &Store{
		cache:  cache,
		logger: logger,
		config: config,
		now:    time.Now,
	}, nil
}

// Close 关闭缓存并释放资源
func (s *Store) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.closed {
		return nil
	}
	if err := s.cache.Close(); err != nil {
		return err
	}
	s.closed = true
	s.logger.Debug("内存缓存已关闭")
	return nil
}

// Get 获取缓存值，过期条目视为未命中并被删除
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return nil, false, ErrStoreClosed
	}

	value, expired, err := s.load(key)
	if err != nil {
		return nil, false, err
	}
	if value == nil || expired {
		return nil, false, nil
	}
	return value, true, nil
}

// Set 设置缓存值，ttl 为 0 时由 BigCache 生命周期窗口控制
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	var expiresAt int64
	if ttl > 0 {
		expiresAt = s.now().Add(ttl).UnixNano()
	}
	entry := make([]byte, expiryHeaderSize+len(value))
	binary.LittleEndian.PutUint64(entry, uint64(expiresAt))
	copy(entry[expiryHeaderSize:], value)

	if err := s.cache.Set(key, entry); err != nil {
		s.logger.Warnf("设置缓存键[%s]失败: %v", key, err)
		return err
	}
	return nil
}

// Delete 删除缓存值，键不存在时不报错
func (s *Store) Delete(ctx context.Context, key string) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}

	if err := s.cache.Delete(key); err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	return nil
}

// Exists 检查键是否存在且未过期
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	_, exists, err := s.Get(ctx, key)
	return exists, err
}

// Clear 清空缓存
func (s *Store) Clear(ctx context.Context) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return s.cache.Reset()
}

// Count 返回缓存条目数，包含尚未被访问清理的过期条目
func (s *Store) Count(ctx context.Context) (int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if s.closed {
		return 0, ErrStoreClosed
	}
	return int64(s.cache.Len()), nil
}

// load 读取条目并拆出过期时间，调用方持有读锁
func (s *Store) load(key string) ([]byte, bool, error) {
	entry, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	if len(entry) < expiryHeaderSize {
		_ = s.cache.Delete(key)
		return nil, false, nil
	}

	expiresAt := int64(binary.LittleEndian.Uint64(entry))
	if expiresAt != 0 && s.now().UnixNano() >= expiresAt {
		_ = s.cache.Delete(key)
		return nil, true, nil
	}
	return entry[expiryHeaderSize:], false, nil
}
