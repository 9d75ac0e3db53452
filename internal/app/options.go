package app

import (
	"github.com/weisyn/credproof/pkg/interfaces/config"
	"github.com/weisyn/credproof/pkg/types"
)

// Option 应用程序选项函数类型
type Option func(*options)

// options 应用程序选项，实现 config.AppOptions 接口
type options struct {
	// 配置文件路径，为空时查找环境变量和默认路径
	configFilePath string

	// 用户配置，优先级高于配置文件
	appConfig *types.AppConfig

	// 命令行等来源的覆盖项，在配置加载之后应用
	overrides []func(*types.AppConfig)
}

var _ config.AppOptions = (*options)(nil)

// WithConfigFile 设置配置文件路径
func WithConfigFile(configPath string) Option {
	return func(o *options) {
		o.configFilePath = configPath
	}
}

// WithAppConfig 直接使用已构建的应用配置
func WithAppConfig(appConfig *types.AppConfig) Option {
	return func(o *options) {
		o.appConfig = appConfig
	}
}

// WithArtifactBackend 覆盖工件存储后端
func WithArtifactBackend(backend string) Option {
	return withOverride(func(c *types.AppConfig) {
		if c.Proof == nil {
			c.Proof = &types.UserProofConfig{}
		}
		c.Proof.ArtifactBackend = &backend
	})
}

// WithDataDir 覆盖数据根目录
func WithDataDir(dir string) Option {
	return withOverride(func(c *types.AppConfig) {
		if c.Storage == nil {
			c.Storage = &types.UserStorageConfig{}
		}
		c.Storage.DataRoot = &dir
	})
}

// WithLogLevel 覆盖日志级别
func WithLogLevel(level string) Option {
	return withOverride(func(c *types.AppConfig) {
		if c.Log == nil {
			c.Log = &types.UserLogConfig{}
		}
		c.Log.Level = &level
	})
}

func withOverride(fn func(*types.AppConfig)) Option {
	return func(o *options) {
		o.overrides = append(o.overrides, fn)
	}
}

// newOptions 创建选项：先确定配置来源，再应用覆盖项
func newOptions(opts ...Option) (*options, error) {
	o := &options{}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.appConfig == nil {
		appConfig, err := loadConfigFile(o.configFilePath)
		if err != nil {
			return nil, err
		}
		o.appConfig = appConfig
	}
	for _, override := range o.overrides {
		override(o.appConfig)
	}
	return o, nil
}

// GetAppConfig 返回应用程序配置
func (o *options) GetAppConfig() *types.AppConfig {
	return o.appConfig
}
