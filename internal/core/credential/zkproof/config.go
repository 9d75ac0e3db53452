package zkproof

import (
	"fmt"
	"io"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	gnarklogger "github.com/consensys/gnark/logger"
	"github.com/rs/zerolog"
	"github.com/weisyn/credproof/internal/config/proof"
	"github.com/weisyn/credproof/internal/core/credential/hashing"
)

// ManagerConfig 证明流水线配置
type ManagerConfig struct {
	Curve               ecc.ID // 椭圆曲线，Jubjub 要求 BLS12-381
	ProvingScheme       string // 证明方案
	HashSeed            string // Pedersen 参数种子
	MaxConcurrentProofs int    // 最大并发证明数
	CompressArtifacts   bool   // 持久化工件是否压缩

	// 反序列化缓存容量（LRU），proving key 通常数 MB
	ProvingKeyCacheSize   int
	VerifyingKeyCacheSize int
}

const (
	defaultProvingKeyCacheSize   = 4
	defaultVerifyingKeyCacheSize = 64
)

// DefaultManagerConfig 返回默认配置
func DefaultManagerConfig() *ManagerConfig {
	return &ManagerConfig{
		Curve:               ecc.BLS12_381,
		ProvingScheme:       "groth16",
		HashSeed:            hashing.DefaultSeed,
		MaxConcurrentProofs:   2,
		CompressArtifacts:     true,
		ProvingKeyCacheSize:   defaultProvingKeyCacheSize,
		VerifyingKeyCacheSize: defaultVerifyingKeyCacheSize,
	}
}

// NewManagerConfig 由配置选项构造流水线配置
func NewManagerConfig(options *proof.ProofOptions) (*ManagerConfig, error) {
	if options == nil {
		return DefaultManagerConfig(), nil
	}

	curveID, err := resolveCurveID(options.Curve)
	if err != nil {
		return nil, err
	}
	if options.ProvingScheme != "groth16" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedScheme, options.ProvingScheme)
	}

	cfg := &ManagerConfig{
		Curve:               curveID,
		ProvingScheme:       options.ProvingScheme,
		HashSeed:            options.HashSeed,
		MaxConcurrentProofs:   options.MaxConcurrentProofs,
		CompressArtifacts:     options.CompressArtifacts,
		ProvingKeyCacheSize:   defaultProvingKeyCacheSize,
		VerifyingKeyCacheSize: defaultVerifyingKeyCacheSize,
	}
	if cfg.HashSeed == "" {
		cfg.HashSeed = hashing.DefaultSeed
	}
	if cfg.MaxConcurrentProofs <= 0 {
		cfg.MaxConcurrentProofs = 1
	}
	return cfg, nil
}

// cacheSize 非正容量退回默认值
func cacheSize(size, fallback int) int {
	if size <= 0 {
		return fallback
	}
	return size
}

// resolveCurveID Pedersen 参数定义在 Jubjub 上，只能使用 BLS12-381 的标量域
func resolveCurveID(name string) (ecc.ID, error) {
	switch name {
	case "", "bls12-381", "bls12_381":
		return ecc.BLS12_381, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedCurve, name)
	}
}

var (
	gnarkLogMu    sync.Mutex
	gnarkLogDepth int
	gnarkLogSaved zerolog.Logger
)

// silenceGnark 在编译、证明、验证期间禁用 gnark 自带的 zerolog 输出。
// 支持嵌套和并发调用，最后一个调用方恢复原记录器。
func silenceGnark() (restore func()) {
	gnarkLogMu.Lock()
	if gnarkLogDepth == 0 {
		gnarkLogSaved = gnarklogger.Logger()
		gnarklogger.Set(zerolog.New(io.Discard).Level(zerolog.Disabled))
	}
	gnarkLogDepth++
	gnarkLogMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			gnarkLogMu.Lock()
			gnarkLogDepth--
			if gnarkLogDepth == 0 {
				gnarklogger.Set(gnarkLogSaved)
			}
			gnarkLogMu.Unlock()
		})
	}
}
