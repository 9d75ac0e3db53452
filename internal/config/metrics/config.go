// Package metrics 提供指标配置
package metrics

import configtypes "github.com/weisyn/credproof/pkg/types"

const (
	defaultEnabled   = true
	defaultNamespace = "credproof"
)

// MetricsOptions 指标配置选项
type MetricsOptions struct {
	Enabled   bool   `json:"enabled"`
	Namespace string `json:"namespace"`
}

// Config 指标配置实现
type Config struct {
	options *MetricsOptions
}

// New 创建指标配置
func New(userConfig interface{}) *Config {
	options := &MetricsOptions{
		Enabled:   defaultEnabled,
		Namespace: defaultNamespace,
	}
	if cfg, ok := userConfig.(*configtypes.UserMetricsConfig); ok && cfg != nil {
		if cfg.Enabled != nil {
			options.Enabled = *cfg.Enabled
		}
		if cfg.Namespace != nil && *cfg.Namespace != "" {
			options.Namespace = *cfg.Namespace
		}
	}
	return &Config{options: options}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *MetricsOptions {
	return c.options
}
