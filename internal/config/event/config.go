// Package event 提供事件总线配置
package event

import configtypes "github.com/weisyn/credproof/pkg/types"

// EventOptions 事件系统配置选项
type EventOptions struct {
	Enabled       bool `json:"enabled"`        // 是否启用事件系统
	HistoryLength int  `json:"history_length"` // 每类事件保留的历史条数，0 表示不保留
}

// Config 事件配置实现
type Config struct {
	options *EventOptions
}

// New 创建事件配置实现
func New(userConfig interface{}) *Config {
	options := &EventOptions{
		Enabled:       defaultEnabled,
		HistoryLength: defaultHistoryLength,
	}
	if cfg, ok := userConfig.(*configtypes.UserEventConfig); ok && cfg != nil {
		if cfg.Enabled != nil {
			options.Enabled = *cfg.Enabled
		}
		if cfg.HistoryLength != nil && *cfg.HistoryLength >= 0 {
			options.HistoryLength = *cfg.HistoryLength
		}
	}
	return &Config{options: options}
}

// NewFromOptions 从 EventOptions 创建配置
func NewFromOptions(options *EventOptions) *Config {
	if options == nil {
		return New(nil)
	}
	return &Config{options: options}
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *EventOptions {
	return c.options
}

// IsEnabled 是否启用事件系统
func (c *Config) IsEnabled() bool {
	return c.options.Enabled
}

// GetHistoryLength 获取历史条数
func (c *Config) GetHistoryLength() int {
	return c.options.HistoryLength
}
