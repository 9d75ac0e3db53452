package storage

import (
	"context"
	"time"

	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/credproof/pkg/interfaces/infrastructure/storage"
)

// CachedStore 在持久化工件存储前加一层内存读缓存
//
// 写操作先落持久层再更新缓存；缓存失败只记录日志，不影响结果。
type CachedStore struct {
	backing storageInterface.ArtifactStore
	cache   storageInterface.MemoryStore
	ttl     time.Duration
	logger  log.Logger
}

var _ storageInterface.ArtifactStore = (*CachedStore)(nil)

// NewCachedStore 创建带读缓存的工件存储，ttl 为 0 时使用缓存默认生命周期
func NewCachedStore(backing storageInterface.ArtifactStore, cache storageInterface.MemoryStore, ttl time.Duration, logger log.Logger) *CachedStore {
	return &CachedStore{
		backing: backing,
		cache:   cache,
		ttl:     ttl,
		logger:  logger,
	}
}

// Get 优先读缓存，未命中时回源并回填
func (s *CachedStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	if value, ok, err := s.cache.Get(ctx, string(key)); err == nil && ok {
		return value, nil
	} else if err != nil {
		s.logger.Warnf("读取工件缓存失败: key=%s err=%v", key, err)
	}

	value, err := s.backing.Get(ctx, key)
	if err != nil || value == nil {
		return value, err
	}
	s.fill(ctx, key, value, s.ttl)
	return value, nil
}

// Set 写入持久层并刷新缓存
func (s *CachedStore) Set(ctx context.Context, key, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL 写入持久层并刷新缓存，缓存条目不会比持久层活得更久
func (s *CachedStore) SetWithTTL(ctx context.Context, key, value []byte, ttl time.Duration) error {
	if err := s.backing.SetWithTTL(ctx, key, value, ttl); err != nil {
		s.evict(ctx, key)
		return err
	}
	cacheTTL := s.ttl
	if ttl > 0 && (cacheTTL == 0 || ttl < cacheTTL) {
		cacheTTL = ttl
	}
	s.fill(ctx, key, value, cacheTTL)
	return nil
}

// Delete 同时删除缓存与持久层
func (s *CachedStore) Delete(ctx context.Context, key []byte) error {
	s.evict(ctx, key)
	return s.backing.Delete(ctx, key)
}

// Exists 以持久层为准
func (s *CachedStore) Exists(ctx context.Context, key []byte) (bool, error) {
	return s.backing.Exists(ctx, key)
}

// PrefixScan 直接扫描持久层
func (s *CachedStore) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	return s.backing.PrefixScan(ctx, prefix)
}

// Close 关闭缓存与持久层
func (s *CachedStore) Close() error {
	if err := s.cache.Close(); err != nil {
		s.logger.Warnf("关闭工件缓存失败: %v", err)
	}
	return s.backing.Close()
}

func (s *CachedStore) fill(ctx context.Context, key, value []byte, ttl time.Duration) {
	if err := s.cache.Set(ctx, string(key), value, ttl); err != nil {
		// 超过分片容量的大工件无法缓存，直接回源
		s.logger.Debugf("工件未缓存: key=%s size=%d err=%v", key, len(value), err)
		s.evict(ctx, key)
	}
}

func (s *CachedStore) evict(ctx context.Context, key []byte) {
	if err := s.cache.Delete(ctx, string(key)); err != nil {
		s.logger.Warnf("删除工件缓存失败: key=%s err=%v", key, err)
	}
}
