package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/credproof/pkg/types"
)

// TestProvider_Defaults 未配置时全部使用默认值
func TestProvider_Defaults(t *testing.T) {
	provider := NewProvider(nil)

	assert.Equal(t, "info", provider.GetLog().Level)
	assert.Equal(t, "bls12-381", provider.GetProof().Curve)
	assert.Equal(t, "groth16", provider.GetProof().ProvingScheme)
	assert.Equal(t, "./data/artifacts/badger", provider.GetBadger().Path)
	assert.Equal(t, "credproof", provider.GetMetrics().Namespace)
	assert.True(t, provider.GetEvent().Enabled)
}

// TestProvider_UserOverrides 用户配置覆盖默认值
func TestProvider_UserOverrides(t *testing.T) {
	cfg := &types.AppConfig{
		Log: &types.UserLogConfig{
			Level: types.StringPtr("debug"),
		},
		Proof: &types.UserProofConfig{
			ArtifactBackend: types.StringPtr("redis"),
		},
		Storage: &types.UserStorageConfig{
			DataRoot:  types.StringPtr("/tmp/credproof"),
			RedisAddr: types.StringPtr("redis:6379"),
			RedisDB:   types.IntPtr(2),
		},
		Metrics: &types.UserMetricsConfig{
			Enabled: types.BoolPtr(false),
		},
	}
	provider := NewProvider(cfg)

	assert.Equal(t, "debug", provider.GetLog().Level)
	assert.Equal(t, "redis", provider.GetProof().ArtifactBackend)
	assert.Equal(t, filepath.Join("/tmp/credproof", "badger"), provider.GetBadger().Path)
	assert.Equal(t, "redis:6379", provider.GetRedis().Addr)
	assert.Equal(t, 2, provider.GetRedis().DB)
	assert.False(t, provider.GetMetrics().Enabled)
}

// TestProvider_DataDirFallback data_dir 作为存储根目录的兜底
func TestProvider_DataDirFallback(t *testing.T) {
	provider := NewProvider(&types.AppConfig{DataDir: types.StringPtr("/var/lib/credproof")})
	assert.Equal(t, filepath.Join("/var/lib/credproof", "badger"), provider.GetBadger().Path)
}

// TestLoadAppConfig 从文件加载配置
func TestLoadAppConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{"log":{"level":"warn"},"proof":{"hash_seed":"seed-x","max_concurrent_proofs":2}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	appConfig, err := LoadAppConfig(path)
	require.NoError(t, err)

	provider := NewProvider(appConfig)
	assert.Equal(t, "warn", provider.GetLog().Level)
	assert.Equal(t, "seed-x", provider.GetProof().HashSeed)
	assert.Equal(t, 2, provider.GetProof().MaxConcurrentProofs)
}

// TestLoadAppConfig_Invalid 非法文件返回错误
func TestLoadAppConfig_Invalid(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0600))
	_, err = LoadAppConfig(path)
	require.Error(t, err)
}
