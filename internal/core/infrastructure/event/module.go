// Package event 提供事件管理功能
package event

import (
	"go.uber.org/fx"

	eventconfig "github.com/weisyn/credproof/internal/config/event"
	"github.com/weisyn/credproof/pkg/interfaces/config"
	eventInterface "github.com/weisyn/credproof/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
)

// ModuleInput 事件模块输入依赖
type ModuleInput struct {
	fx.In

	Provider config.Provider // 配置提供者
	Logger   log.Logger      `optional:"true"` // 日志记录器（可选）
}

// ModuleOutput 事件模块输出服务
type ModuleOutput struct {
	fx.Out

	EventBus eventInterface.EventBus // 基础事件总线
}

// Module 返回事件模块
func Module() fx.Option {
	return fx.Module("event",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 创建事件总线
func ProvideServices(input ModuleInput) (ModuleOutput, error) {
	cfg := eventconfig.NewFromOptions(input.Provider.GetEvent())
	if input.Logger != nil {
		input.Logger.Debugf("事件总线已创建: enabled=%t, history=%d", cfg.IsEnabled(), cfg.GetHistoryLength())
	}
	return ModuleOutput{EventBus: New(cfg)}, nil
}
