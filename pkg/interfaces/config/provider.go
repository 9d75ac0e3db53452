// Package config provides configuration provider interfaces.
package config

import (
	eventconfig "github.com/weisyn/credproof/internal/config/event"
	logconfig "github.com/weisyn/credproof/internal/config/log"
	metricsconfig "github.com/weisyn/credproof/internal/config/metrics"
	proofconfig "github.com/weisyn/credproof/internal/config/proof"
	badgerconfig "github.com/weisyn/credproof/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/credproof/internal/config/storage/memory"
	redisconfig "github.com/weisyn/credproof/internal/config/storage/redis"
)

// Provider 配置提供者接口
type Provider interface {
	// GetLog 获取日志配置
	GetLog() *logconfig.LogOptions

	// GetProof 获取证明流水线配置
	GetProof() *proofconfig.ProofOptions

	// GetBadger 获取BadgerDB工件存储配置
	GetBadger() *badgerconfig.BadgerOptions

	// GetMemory 获取内存缓存配置
	GetMemory() *memoryconfig.MemoryOptions

	// GetRedis 获取Redis工件存储配置
	GetRedis() *redisconfig.RedisOptions

	// GetMetrics 获取指标配置
	GetMetrics() *metricsconfig.MetricsOptions

	// GetEvent 获取事件配置
	GetEvent() *eventconfig.EventOptions
}
