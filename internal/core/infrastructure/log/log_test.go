package log

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/credproof/internal/config"
	logconfig "github.com/weisyn/credproof/internal/config/log"
	"github.com/weisyn/credproof/pkg/types"
)

// TestFileLog 测试文件日志写入与级别过滤
func TestFileLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "credproof.log")

	logger, err := New(logconfig.New(&logconfig.LogOptions{
		Level:     InfoLevel,
		FilePath:  logPath,
		ToConsole: false,
	}))
	require.NoError(t, err)

	logger.Debug("调试日志")
	logger.Info("信息日志")
	logger.Warn("警告日志")
	logger.Error("错误日志")
	_ = logger.Sync()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	contentStr := string(content)
	assert.NotContains(t, contentStr, "调试日志", "info 级别不应输出调试日志")
	assert.Contains(t, contentStr, "信息日志")
	assert.Contains(t, contentStr, "警告日志")
	assert.Contains(t, contentStr, "错误日志")
	assert.Contains(t, contentStr, "\"message\":\"信息日志\"", "文件输出应为 JSON 编码")
	assert.Contains(t, contentStr, "\"level\":\"info\"")
}

// TestWithFields 测试结构化字段
func TestWithFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "fields.log")

	logger, err := New(logconfig.New(&logconfig.LogOptions{
		Level:    DebugLevel,
		FilePath: logPath,
	}))
	require.NoError(t, err)

	moduleLogger := NewModuleLogger(logger, "zkproof")
	moduleLogger.With("proof_id", "abc", "dangling").Infof("证明完成: %d", 641)
	_ = logger.Sync()

	content, err := os.ReadFile(logPath)
	require.NoError(t, err)

	line := string(content)
	assert.Contains(t, line, "\"module\":\"zkproof\"")
	assert.Contains(t, line, "\"proof_id\":\"abc\"")
	assert.Contains(t, line, "证明完成: 641")
	assert.False(t, strings.Contains(line, "dangling"), "奇数个参数时应丢弃最后一个")
}

// TestNoOutputLogger 测试未配置任何输出时的记录器
func TestNoOutputLogger(t *testing.T) {
	logger, err := New(logconfig.New(&logconfig.LogOptions{Level: InfoLevel}))
	require.NoError(t, err)
	require.NotNil(t, logger.GetZapLogger())

	// 不应 panic
	logger.Info("discarded")
	assert.Nil(t, NewModuleLogger(nil, "x"))
}

// TestSetLogger 测试设置和切换全局日志记录器
func TestSetLogger(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	logger1, err := NewLoggerFromConfig(InfoLevel, "", false, false)
	require.NoError(t, err)
	logger2, err := NewLoggerFromConfig(WarnLevel, "", false, false)
	require.NoError(t, err)

	SetLogger(logger1)
	assert.Same(t, logger1, GetLogger())

	SetLogger(logger2)
	assert.Same(t, logger2, GetLogger())

	SetLogger(nil)
	assert.Same(t, logger2, GetLogger(), "nil 不应覆盖全局记录器")
}

// TestResetDefault 测试重置默认日志记录器
func TestResetDefault(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	custom, err := NewLoggerFromConfig(WarnLevel, "", false, false)
	require.NoError(t, err)
	SetLogger(custom)

	ResetDefault()
	assert.NotSame(t, custom, GetLogger())
}

// TestProvideServices 测试从配置提供者构建模块输出
func TestProvideServices(t *testing.T) {
	original := GetLogger()
	defer SetLogger(original)

	provider := config.NewProvider(&types.AppConfig{
		Log: &types.UserLogConfig{
			Level:     types.StringPtr("debug"),
			ToConsole: types.BoolPtr(false),
		},
	})

	out, err := ProvideServices(ModuleParams{Provider: provider})
	require.NoError(t, err)
	require.NotNil(t, out.Logger)
	assert.Same(t, out.ZapLogger, out.Logger.GetZapLogger())
	assert.Same(t, out.Logger, GetLogger())
}
