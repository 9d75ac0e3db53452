// Package redis 提供Redis工件存储配置
package redis

import (
	"time"

	configtypes "github.com/weisyn/credproof/pkg/types"
)

const (
	defaultAddr         = "127.0.0.1:6379"
	defaultDB           = 0
	defaultKeyPrefix    = "credproof:"
	defaultDialTimeout  = 5 * time.Second
	defaultReadTimeout  = 30 * time.Second // proving key 体积较大
	defaultWriteTimeout = 30 * time.Second
)

// RedisOptions Redis存储配置选项
type RedisOptions struct {
	Addr         string        `json:"addr"`
	Password     string        `json:"-"`
	DB           int           `json:"db"`
	KeyPrefix    string        `json:"key_prefix"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// Config Redis配置实现
type Config struct {
	options *RedisOptions
}

// New 创建Redis配置
func New(userConfig interface{}) *Config {
	options := &RedisOptions{
		Addr:         defaultAddr,
		DB:           defaultDB,
		KeyPrefix:    defaultKeyPrefix,
		DialTimeout:  defaultDialTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
	}
	if storageConfig, ok := userConfig.(*configtypes.UserStorageConfig); ok && storageConfig != nil {
		if storageConfig.RedisAddr != nil {
			options.Addr = *storageConfig.RedisAddr
		}
		if storageConfig.RedisDB != nil {
			options.DB = *storageConfig.RedisDB
		}
	}
	return &Config{options: options}
}

// NewFromOptions 从RedisOptions创建配置
func NewFromOptions(options *RedisOptions) *Config {
	return &Config{options: options}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *RedisOptions {
	return c.options
}

// GetAddr 获取地址
func (c *Config) GetAddr() string {
	return c.options.Addr
}

// GetDB 获取库编号
func (c *Config) GetDB() int {
	return c.options.DB
}

// GetKeyPrefix 获取键前缀
func (c *Config) GetKeyPrefix() string {
	return c.options.KeyPrefix
}
