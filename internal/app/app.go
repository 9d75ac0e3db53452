// Package app 组装凭证证明应用的 fx 模块
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/fx"

	config "github.com/weisyn/credproof/internal/config"
	"github.com/weisyn/credproof/internal/core/credential/zkproof"
	"github.com/weisyn/credproof/internal/core/infrastructure/event"
	log "github.com/weisyn/credproof/internal/core/infrastructure/log"
	"github.com/weisyn/credproof/internal/core/infrastructure/metrics"
	"github.com/weisyn/credproof/internal/core/infrastructure/storage"
	configiface "github.com/weisyn/credproof/pkg/interfaces/config"
	logiface "github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	metricsiface "github.com/weisyn/credproof/pkg/interfaces/infrastructure/metrics"
	"github.com/weisyn/credproof/pkg/types"
)

const (
	// ConfigPathEnv 配置文件路径环境变量
	ConfigPathEnv = "CREDPROOF_CONFIG_PATH"

	// DefaultConfigPath 默认配置文件路径，不存在时使用内置默认值
	DefaultConfigPath = "configs/credproof.json"

	startTimeout = 30 * time.Second
	stopTimeout  = 60 * time.Second
)

// App 凭证证明应用
type App struct {
	fxApp    *fx.App
	manager  *zkproof.Manager
	logger   logiface.Logger
	recorder metricsiface.ProofRecorder
	provider configiface.Provider
}

// Modules 返回全部 fx 模块，按依赖顺序排列
func Modules() []fx.Option {
	return []fx.Option{
		// 基础设施层
		config.Module(),
		log.Module(),
		metrics.Module(),
		event.Module(),
		// 存储层
		storage.Module(),
		// 业务层
		zkproof.Module(),
	}
}

// New 构建并启动应用
func New(opts ...Option) (*App, error) {
	o, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	a := &App{}
	a.fxApp = fx.New(
		fx.Provide(func() configiface.AppOptions { return o }),
		fx.Options(Modules()...),
		fx.NopLogger,
		fx.Populate(&a.manager, &a.logger, &a.recorder, &a.provider),
	)
	if err := a.fxApp.Err(); err != nil {
		return nil, fmt.Errorf("组装应用失败: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), startTimeout)
	defer cancel()
	if err := a.fxApp.Start(ctx); err != nil {
		return nil, fmt.Errorf("启动应用失败: %w", err)
	}
	return a, nil
}

// Manager 返回证明管理器
func (a *App) Manager() *zkproof.Manager {
	return a.manager
}

// Logger 返回应用日志记录器
func (a *App) Logger() logiface.Logger {
	return a.logger
}

// Recorder 返回指标记录器
func (a *App) Recorder() metricsiface.ProofRecorder {
	return a.recorder
}

// Provider 返回配置提供者
func (a *App) Provider() configiface.Provider {
	return a.provider
}

// Stop 停止应用，关闭存储并刷新日志
func (a *App) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	err := a.fxApp.Stop(ctx)
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

// resolveConfigPath 环境变量优先于默认路径
func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if envPath := os.Getenv(ConfigPathEnv); envPath != "" {
		return envPath
	}
	return DefaultConfigPath
}

// loadConfigFile 加载配置文件；未显式指定且默认文件不存在时使用内置默认值
func loadConfigFile(path string) (*types.AppConfig, error) {
	explicit := path != "" || os.Getenv(ConfigPathEnv) != ""
	resolved := resolveConfigPath(path)

	appConfig, err := config.LoadAppConfig(resolved)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return &types.AppConfig{}, nil
		}
		return nil, err
	}
	return appConfig, nil
}
