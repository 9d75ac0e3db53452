// Package badger 提供BadgerDB工件存储配置
package badger

import (
	"path/filepath"

	configtypes "github.com/weisyn/credproof/pkg/types"
)

// BadgerOptions BadgerDB存储配置选项
type BadgerOptions struct {
	Path             string `json:"path"`                // 数据库存储路径
	SyncWrites       bool   `json:"sync_writes"`         // 是否同步写入
	MemTableSize     int64  `json:"mem_table_size"`      // 内存表大小
	ValueLogFileSize int64  `json:"value_log_file_size"` // value log 文件大小
	InMemory         bool   `json:"in_memory"`           // 纯内存模式（测试使用）
}

// Config BadgerDB配置实现
type Config struct {
	options *BadgerOptions
}

// New 创建BadgerDB配置实现
//
// 路径规则：配置了 storage.data_root 时使用 {data_root}/badger，否则使用默认路径。
func New(userConfig interface{}) *Config {
	options := &BadgerOptions{
		Path:             defaultPath,
		SyncWrites:       defaultSyncWrites,
		MemTableSize:     defaultMemTableSize,
		ValueLogFileSize: defaultValueLogFileSize,
		InMemory:         defaultInMemory,
	}

	if storageConfig, ok := userConfig.(*configtypes.UserStorageConfig); ok && storageConfig != nil {
		if storageConfig.DataRoot != nil {
			options.Path = filepath.Join(*storageConfig.DataRoot, "badger")
		}
	}

	return &Config{options: options}
}

// NewFromOptions 从BadgerOptions创建配置实现
func NewFromOptions(options *BadgerOptions) *Config {
	return &Config{options: options}
}

// GetOptions 获取完整的BadgerDB配置选项
func (c *Config) GetOptions() *BadgerOptions {
	return c.options
}

// GetPath 获取数据库路径
func (c *Config) GetPath() string {
	return c.options.Path
}

// IsSyncWritesEnabled 是否启用同步写入
func (c *Config) IsSyncWritesEnabled() bool {
	return c.options.SyncWrites
}

// GetMemTableSize 获取内存表大小
func (c *Config) GetMemTableSize() int64 {
	return c.options.MemTableSize
}

// GetValueLogFileSize 获取 value log 文件大小
func (c *Config) GetValueLogFileSize() int64 {
	return c.options.ValueLogFileSize
}

// IsInMemory 是否为纯内存模式
func (c *Config) IsInMemory() bool {
	return c.options.InMemory
}
