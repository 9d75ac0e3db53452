// Package storage 提供证明工件存储模块
package storage

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	badgerconfig "github.com/weisyn/credproof/internal/config/storage/badger"
	memoryconfig "github.com/weisyn/credproof/internal/config/storage/memory"
	redisconfig "github.com/weisyn/credproof/internal/config/storage/redis"
	"github.com/weisyn/credproof/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/credproof/internal/core/infrastructure/storage/memory"
	"github.com/weisyn/credproof/internal/core/infrastructure/storage/redis"
	"github.com/weisyn/credproof/pkg/interfaces/config"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	storageInterface "github.com/weisyn/credproof/pkg/interfaces/infrastructure/storage"
)

// 工件存储后端
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ModuleParams 定义存储模块的依赖参数
type ModuleParams struct {
	fx.In

	Provider config.Provider
	Logger   log.Logger
}

// ModuleOutput 定义存储模块的输出结构
type ModuleOutput struct {
	fx.Out

	ArtifactStore storageInterface.ArtifactStore
	MemoryStore   storageInterface.MemoryStore
}

// Module 返回存储模块
func Module() fx.Option {
	return fx.Module("storage",
		fx.Provide(ProvideServices),
		fx.Invoke(func(lc fx.Lifecycle, store storageInterface.ArtifactStore, logger log.Logger) {
			lc.Append(fx.Hook{
				OnStop: func(ctx context.Context) error {
					logger.Info("正在关闭工件存储...")
					if err := store.Close(); err != nil {
						logger.Errorf("关闭工件存储失败: %v", err)
						return err
					}
					return nil
				},
			})
		}),
	)
}

// ProvideServices 按配置的后端创建工件存储，并在其前面挂载内存读缓存
func ProvideServices(params ModuleParams) (ModuleOutput, error) {
	logger := params.Logger.With("module", "storage")
	backend := params.Provider.GetProof().ArtifactBackend

	backing, err := OpenArtifactStore(params.Provider, backend, logger)
	if err != nil {
		return ModuleOutput{}, err
	}

	memConfig := memoryconfig.New(params.Provider.GetMemory())
	cache, err := memory.New(memConfig, logger)
	if err != nil {
		_ = backing.Close()
		return ModuleOutput{}, err
	}

	logger.Infof("工件存储已就绪: backend=%s", backend)
	return ModuleOutput{
		ArtifactStore: NewCachedStore(backing, cache, memConfig.GetDefaultTTL(), logger),
		MemoryStore:   cache,
	}, nil
}

// OpenArtifactStore 打开指定后端的持久化工件存储
func OpenArtifactStore(provider config.Provider, backend string, logger log.Logger) (storageInterface.ArtifactStore, error) {
	switch backend {
	case BackendBadger, "":
		return badger.New(badgerconfig.NewFromOptions(provider.GetBadger()), logger)
	case BackendMemory:
		options := *provider.GetBadger()
		options.InMemory = true
		return badger.New(badgerconfig.NewFromOptions(&options), logger)
	case BackendRedis:
		return redis.New(redisconfig.NewFromOptions(provider.GetRedis()), logger)
	default:
		return nil, fmt.Errorf("不支持的工件存储后端: %s", backend)
	}
}
