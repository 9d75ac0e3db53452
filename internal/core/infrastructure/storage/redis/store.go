// Package redis 提供基于Redis的工件存储实现
//
// 多个证明节点共享同一套可信设置时使用。
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	redisconfig "github.com/weisyn/credproof/internal/config/storage/redis"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	interfaces "github.com/weisyn/credproof/pkg/interfaces/infrastructure/storage"
)

// Store 基于Redis的 ArtifactStore 实现，所有键带有配置的前缀
type Store struct {
	client    redisClient
	keyPrefix string
	logger    log.Logger
}

var _ interfaces.ArtifactStore = (*Store)(nil)

// New 连接Redis并创建存储
func New(config *redisconfig.Config, logger log.Logger) (*Store, error) {
	client, err := newGoRedisClient(config.GetOptions())
	if err != nil {
		return nil, err
	}
	logger.Infof("Redis工件存储已连接: addr=%s db=%d", config.GetAddr(), config.GetDB())
	return newStore(client, config.GetKeyPrefix(), logger), nil
}

func newStore(client redisClient, keyPrefix string, logger log.Logger) *Store {
	return &Store{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

func (s *Store) fullKey(key []byte) string {
	return s.keyPrefix + string(key)
}

// Get 获取指定键的值，键不存在时返回 nil, nil
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	value, err := s.client.Get(ctx, s.fullKey(key))
	if errors.Is(err, errKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis获取键失败: %w", err)
	}
	return value, nil
}

// Set 设置键值对
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	return s.SetWithTTL(ctx, key, value, 0)
}

// SetWithTTL 设置键值对并指定过期时间，0 表示永不过期
func (s *Store) SetWithTTL(ctx context.Context, key, value []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.fullKey(key), value, ttl); err != nil {
		return fmt.Errorf("redis设置键失败: %w", err)
	}
	return nil
}

// Delete 删除指定键
func (s *Store) Delete(ctx context.Context, key []byte) error {
	if _, err := s.client.Del(ctx, s.fullKey(key)); err != nil {
		return fmt.Errorf("redis删除键失败: %w", err)
	}
	return nil
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key []byte) (bool, error) {
	n, err := s.client.Exists(ctx, s.fullKey(key))
	if err != nil {
		return false, fmt.Errorf("redis检查键存在性失败: %w", err)
	}
	return n > 0, nil
}

// PrefixScan 按前缀扫描键值对，返回的键不含存储前缀
func (s *Store) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	keys, err := s.client.ScanPrefix(ctx, s.fullKey(prefix))
	if err != nil {
		return nil, fmt.Errorf("redis前缀扫描失败: %w", err)
	}

	result := make(map[string][]byte, len(keys))
	for _, fullKey := range keys {
		value, err := s.client.Get(ctx, fullKey)
		if errors.Is(err, errKeyNotFound) {
			// 扫描与读取之间被删除或过期
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("redis前缀扫描失败: %w", err)
		}
		result[strings.TrimPrefix(fullKey, s.keyPrefix)] = value
	}
	return result, nil
}

// Close 关闭连接
func (s *Store) Close() error {
	return s.client.Close()
}
