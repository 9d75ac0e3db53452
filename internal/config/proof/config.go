// Package proof 提供证明流水线配置
package proof

import (
	"fmt"

	"github.com/pbnjay/memory"
	configtypes "github.com/weisyn/credproof/pkg/types"
)

// ProofOptions 证明流水线配置选项
type ProofOptions struct {
	Curve               string `json:"curve"`                 // 椭圆曲线
	ProvingScheme       string `json:"proving_scheme"`        // 证明方案
	HashSeed            string `json:"hash_seed"`             // Pedersen 参数派生种子
	ArtifactBackend     string `json:"artifact_backend"`      // 工件存储后端：badger | redis | memory
	MaxConcurrentProofs int    `json:"max_concurrent_proofs"` // 最大并发证明数
	CompressArtifacts   bool   `json:"compress_artifacts"`    // 是否使用 snappy 压缩持久化工件
}

// Config 证明配置实现
type Config struct {
	options *ProofOptions
}

// New 创建证明配置
func New(userConfig interface{}) *Config {
	options := createDefaultProofOptions()

	if cfg, ok := userConfig.(*configtypes.UserProofConfig); ok && cfg != nil {
		if cfg.Curve != nil {
			options.Curve = *cfg.Curve
		}
		if cfg.ProvingScheme != nil {
			options.ProvingScheme = *cfg.ProvingScheme
		}
		if cfg.HashSeed != nil {
			options.HashSeed = *cfg.HashSeed
		}
		if cfg.ArtifactBackend != nil {
			options.ArtifactBackend = *cfg.ArtifactBackend
		}
		if cfg.MaxConcurrentProofs != nil && *cfg.MaxConcurrentProofs > 0 {
			options.MaxConcurrentProofs = *cfg.MaxConcurrentProofs
		}
		if cfg.CompressArtifacts != nil {
			options.CompressArtifacts = *cfg.CompressArtifacts
		}
	}

	return &Config{options: options}
}

// NewFromOptions 从 ProofOptions 创建配置
func NewFromOptions(options *ProofOptions) *Config {
	if options == nil {
		return New(nil)
	}
	return &Config{options: options}
}

func createDefaultProofOptions() *ProofOptions {
	return &ProofOptions{
		Curve:               defaultCurve,
		ProvingScheme:       defaultProvingScheme,
		HashSeed:            defaultHashSeed,
		ArtifactBackend:     defaultArtifactBackend,
		MaxConcurrentProofs: defaultMaxConcurrentProofs(memory.TotalMemory()),
		CompressArtifacts:   defaultCompressArtifacts,
	}
}

// defaultMaxConcurrentProofs 根据主机内存推导并发证明数
// 无法获取内存信息时（TotalMemory 返回 0）退化为 1
func defaultMaxConcurrentProofs(totalMemory uint64) int {
	n := int(totalMemory / 2 / proofMemoryFootprint)
	if n < minConcurrentProofs {
		return minConcurrentProofs
	}
	if n > maxConcurrentProofs {
		return maxConcurrentProofs
	}
	return n
}

// Validate 校验配置
func (c *Config) Validate() error {
	if c.options.Curve != defaultCurve {
		return fmt.Errorf("unsupported curve: %s", c.options.Curve)
	}
	if c.options.ProvingScheme != defaultProvingScheme {
		return fmt.Errorf("unsupported proving scheme: %s", c.options.ProvingScheme)
	}
	if c.options.HashSeed == "" {
		return fmt.Errorf("hash seed must not be empty")
	}
	switch c.options.ArtifactBackend {
	case "badger", "redis", "memory":
	default:
		return fmt.Errorf("unsupported artifact backend: %s", c.options.ArtifactBackend)
	}
	return nil
}

// GetOptions 获取完整配置
func (c *Config) GetOptions() *ProofOptions {
	return c.options
}

// GetCurve 获取曲线名称
func (c *Config) GetCurve() string {
	return c.options.Curve
}

// GetProvingScheme 获取证明方案
func (c *Config) GetProvingScheme() string {
	return c.options.ProvingScheme
}

// GetHashSeed 获取哈希参数种子
func (c *Config) GetHashSeed() string {
	return c.options.HashSeed
}

// GetArtifactBackend 获取工件存储后端
func (c *Config) GetArtifactBackend() string {
	return c.options.ArtifactBackend
}

// GetMaxConcurrentProofs 获取最大并发证明数
func (c *Config) GetMaxConcurrentProofs() int {
	return c.options.MaxConcurrentProofs
}

// IsCompressionEnabled 是否压缩工件
func (c *Config) IsCompressionEnabled() bool {
	return c.options.CompressArtifacts
}
