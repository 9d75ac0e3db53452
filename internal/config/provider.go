package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/weisyn/credproof/internal/config/event"
	"github.com/weisyn/credproof/internal/config/log"
	"github.com/weisyn/credproof/internal/config/metrics"
	"github.com/weisyn/credproof/internal/config/proof"
	"github.com/weisyn/credproof/internal/config/storage/badger"
	"github.com/weisyn/credproof/internal/config/storage/memory"
	"github.com/weisyn/credproof/internal/config/storage/redis"
	"github.com/weisyn/credproof/pkg/interfaces/config"
	"github.com/weisyn/credproof/pkg/types"
)

// Provider 实现配置提供者接口
type Provider struct {
	appConfig *types.AppConfig
}

// NewProvider 创建配置提供者，appConfig 为 nil 时全部使用默认值
func NewProvider(appConfig *types.AppConfig) config.Provider {
	if appConfig == nil {
		appConfig = &types.AppConfig{}
	}
	return &Provider{
		appConfig: appConfig,
	}
}

// LoadAppConfig 从 JSON 文件加载应用配置
func LoadAppConfig(path string) (*types.AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var appConfig types.AppConfig
	if err := json.Unmarshal(data, &appConfig); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	return &appConfig, nil
}

// GetLog 获取日志配置
func (p *Provider) GetLog() *log.LogOptions {
	return log.New(p.appConfig.Log).GetOptions()
}

// GetProof 获取证明流水线配置
func (p *Provider) GetProof() *proof.ProofOptions {
	return proof.New(p.appConfig.Proof).GetOptions()
}

// GetBadger 获取BadgerDB配置
func (p *Provider) GetBadger() *badger.BadgerOptions {
	storageConfig := p.appConfig.Storage
	if storageConfig == nil && p.appConfig.DataDir != nil {
		storageConfig = &types.UserStorageConfig{DataRoot: p.appConfig.DataDir}
	}
	return badger.New(storageConfig).GetOptions()
}

// GetMemory 获取内存缓存配置
func (p *Provider) GetMemory() *memory.MemoryOptions {
	return memory.New(nil).GetOptions()
}

// GetRedis 获取Redis配置
func (p *Provider) GetRedis() *redis.RedisOptions {
	options := redis.New(p.appConfig.Storage).GetOptions()
	if password := os.Getenv("CREDPROOF_REDIS_PASSWORD"); password != "" {
		options.Password = password
	}
	return options
}

// GetMetrics 获取指标配置
func (p *Provider) GetMetrics() *metrics.MetricsOptions {
	return metrics.New(p.appConfig.Metrics).GetOptions()
}

// GetEvent 获取事件配置
func (p *Provider) GetEvent() *event.EventOptions {
	return event.New(p.appConfig.Event).GetOptions()
}
