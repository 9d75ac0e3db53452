package zkproof

import (
	"context"

	"go.uber.org/fx"

	"github.com/weisyn/credproof/internal/config/proof"
	logimpl "github.com/weisyn/credproof/internal/core/infrastructure/log"
	"github.com/weisyn/credproof/pkg/interfaces/credential"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/metrics"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/storage"
)

// 确保 Manager 实现了 ProofService 接口
var _ credential.ProofService = (*Manager)(nil)

// ModuleParams 定义证明模块的依赖参数
type ModuleParams struct {
	fx.In

	Logger   log.Logger
	Options  *proof.ProofOptions
	Store    storage.ArtifactStore `optional:"true"`
	Recorder metrics.ProofRecorder `optional:"true"`
	EventBus event.EventBus        `optional:"true"`
}

// ModuleOutput 定义证明模块的输出
type ModuleOutput struct {
	fx.Out

	Manager      *Manager
	ProofService credential.ProofService
}

// Module 返回证明模块
func Module() fx.Option {
	return fx.Module("zkproof",
		fx.Provide(ProvideServices),
		fx.Invoke(RegisterEventLogger),
	)
}

// ProvideServices 组装证明管理器
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	config, err := NewManagerConfig(params.Options)
	if err != nil {
		return ModuleOutput{}, err
	}

	manager := NewManager(logimpl.NewModuleLogger(params.Logger, "zkproof"), config, ManagerDeps{
		Store:    params.Store,
		Recorder: params.Recorder,
		EventBus: params.EventBus,
	})

	return ModuleOutput{
		Manager:      manager,
		ProofService: manager,
	}, nil
}

// EventLoggerParams 事件日志订阅的依赖
type EventLoggerParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    log.Logger
	EventBus  event.EventBus `optional:"true"`
}

// RegisterEventLogger 订阅证明流水线事件，应用停止时取消订阅
func RegisterEventLogger(params EventLoggerParams) error {
	if params.EventBus == nil {
		return nil
	}
	subscriber := NewEventLogger(logimpl.NewModuleLogger(params.Logger, "zkproof"))
	if err := subscriber.Register(params.EventBus); err != nil {
		return err
	}
	params.Lifecycle.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return subscriber.Unregister(params.EventBus)
		},
	})
	return nil
}
