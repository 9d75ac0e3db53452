// Package memory 提供内存缓存（BigCache）配置
package memory

import "time"

// MemoryOptions 内存缓存配置选项
type MemoryOptions struct {
	MaxMemory       int           `json:"max_memory"`       // 最大内存(MB)
	MaxEntries      int           `json:"max_entries"`      // 窗口内最大条目数
	MaxEntrySize    int           `json:"max_entry_size"`   // 单条目大小提示（字节）
	Shards          int           `json:"shards"`           // 分片数
	DefaultTTL      time.Duration `json:"default_ttl"`      // 默认TTL
	CleanupInterval time.Duration `json:"cleanup_interval"` // 清理间隔
}

// Config 内存缓存配置实现
type Config struct {
	options *MemoryOptions
}

// New 创建内存缓存配置
func New(userConfig interface{}) *Config {
	options := &MemoryOptions{
		MaxMemory:       defaultMaxMemory,
		MaxEntries:      defaultMaxEntries,
		MaxEntrySize:    defaultMaxEntrySize,
		Shards:          defaultShards,
		DefaultTTL:      defaultDefaultTTL,
		CleanupInterval: defaultCleanupInterval,
	}
	if in, ok := userConfig.(*MemoryOptions); ok && in != nil {
		if in.DefaultTTL > 0 {
			options.DefaultTTL = in.DefaultTTL
		}
		if in.CleanupInterval > 0 {
			options.CleanupInterval = in.CleanupInterval
		}
		if in.MaxMemory > 0 {
			options.MaxMemory = in.MaxMemory
		}
	}
	return &Config{options: options}
}

// GetOptions 获取完整的内存缓存配置选项
func (c *Config) GetOptions() *MemoryOptions {
	return c.options
}

// GetMaxMemory 获取最大内存(MB)
func (c *Config) GetMaxMemory() int {
	return c.options.MaxMemory
}

// GetMaxEntriesInWindow 获取窗口内最大条目数
func (c *Config) GetMaxEntriesInWindow() int {
	return c.options.MaxEntries
}

// GetMaxEntrySize 获取单条目大小提示
func (c *Config) GetMaxEntrySize() int {
	return c.options.MaxEntrySize
}

// GetShards 获取分片数
func (c *Config) GetShards() int {
	return c.options.Shards
}

// GetDefaultTTL 获取默认TTL
func (c *Config) GetDefaultTTL() time.Duration {
	return c.options.DefaultTTL
}

// GetCleanupInterval 获取清理间隔
func (c *Config) GetCleanupInterval() time.Duration {
	return c.options.CleanupInterval
}
