// Package metrics 提供证明流水线指标模块
package metrics

import (
	"go.uber.org/fx"

	metricsconfig "github.com/weisyn/credproof/internal/config/metrics"
	"github.com/weisyn/credproof/pkg/interfaces/config"
	metricsiface "github.com/weisyn/credproof/pkg/interfaces/infrastructure/metrics"
)

// ModuleInput 指标模块输入依赖
type ModuleInput struct {
	fx.In

	Config config.Provider
}

// ModuleOutput 指标模块输出
type ModuleOutput struct {
	fx.Out

	Recorder metricsiface.ProofRecorder
}

// Module 返回 metrics 模块的 fx.Option
func Module() fx.Option {
	return fx.Module("metrics",
		fx.Provide(ProvideServices),
	)
}

// ProvideServices 根据配置创建指标记录器，关闭时返回 NopRecorder
func ProvideServices(input ModuleInput) ModuleOutput {
	options := input.Config.GetMetrics()
	if options == nil {
		options = metricsconfig.New(nil).GetOptions()
	}
	if !options.Enabled {
		return ModuleOutput{Recorder: metricsiface.NopRecorder{}}
	}
	return ModuleOutput{Recorder: NewPrometheusRecorder(options.Namespace)}
}
