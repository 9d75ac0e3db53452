package storage

import (
	"context"
	"time"
)

// MemoryStore 定义了内存缓存接口
// 用作持久化工件存储前面的读缓存
type MemoryStore interface {
	// Get 获取缓存值，exists 为 false 表示未命中
	Get(ctx context.Context, key string) (value []byte, exists bool, err error)

	// Set 设置缓存值，ttl 为 0 时使用缓存的默认生命周期
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete 删除缓存值
	Delete(ctx context.Context, key string) error

	// Exists 检查键是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// Clear 清空缓存
	Clear(ctx context.Context) error

	// Count 返回缓存条目数
	Count(ctx context.Context) (int64, error)

	// Close 关闭缓存
	Close() error
}
