// Package storage 定义证明工件的存储接口
//
// 工件（proving key、verifying key、proof）体积较大且生成成本高，
// 需要持久化后复用，以保证同一套可信设置在多次运行之间保持一致。
package storage

import (
	"context"
	"time"
)

// ArtifactStore 定义了键值形式的工件存储
// 由 BadgerDB、Redis 等后端实现
type ArtifactStore interface {
	// Get 获取指定键的值
	// 如果键不存在，返回nil值和nil错误
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set 设置键值对，已存在时覆盖
	Set(ctx context.Context, key, value []byte) error

	// SetWithTTL 设置键值对并指定过期时间，ttl为0表示永不过期
	SetWithTTL(ctx context.Context, key, value []byte, ttl time.Duration) error

	// Delete 删除指定键，键不存在时不返回错误
	Delete(ctx context.Context, key []byte) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key []byte) (bool, error)

	// PrefixScan 返回指定前缀下的全部键值
	PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error)

	// Close 关闭存储，释放底层资源
	Close() error
}
