package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weisyn/credproof/internal/app"
	"github.com/weisyn/credproof/internal/cli/output"
	metricsiface "github.com/weisyn/credproof/pkg/interfaces/infrastructure/metrics"
)

// GlobalFlags 全局标志
type GlobalFlags struct {
	ConfigPath   string // 配置文件
	DataDir      string // 数据目录
	Backend      string // 工件存储后端
	SetupName    string // 可信设置名称
	OutputFormat string // 输出格式
	Silent       bool   // 静默模式
	Verbose      bool   // 详细日志
	MetricsOut   string // 命令结束后写出指标的文件
}

// errProofInvalid 证明未通过验证，进程以退出码 2 结束
var errProofInvalid = errors.New("proof is invalid")

var (
	globalFlags GlobalFlags
	formatter   *output.Formatter
)

// rootCmd 根命令
var rootCmd = &cobra.Command{
	Use:   "credproof",
	Short: "凭证承诺零知识证明工具",
	Long: `credproof 为凭证字段生成并验证 Groth16 证明。

证明内容：持有秘密 secret 与 nonce，使得
  commitment = H(id ∥ secret ∥ nonce ∥ H(name ∥ birth))
其中 id、name/birth 摘要与 commitment 公开，secret 与 nonce 保密。

典型流程:
  credproof setup                       # 生成（或加载）可信设置
  credproof commitment --id ... --name ... --birth ... --secret ... --nonce ...
  credproof prove --id ... --name ... --birth ... > proof.json
  credproof verify --proof-file proof.json`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(globalFlags.OutputFormat)
		if err != nil {
			return err
		}
		formatter = output.NewFormatter(format, cmd.OutOrStdout())
		formatter.SetLogWriter(cmd.ErrOrStderr())
		formatter.SetSilent(globalFlags.Silent)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&globalFlags.ConfigPath, "config", "c", "", "配置文件路径 (默认: $"+app.ConfigPathEnv+" 或 "+app.DefaultConfigPath+")")
	flags.StringVar(&globalFlags.DataDir, "data-dir", "", "数据根目录，覆盖配置文件")
	flags.StringVar(&globalFlags.Backend, "backend", "", "工件存储后端: badger|redis|memory")
	flags.StringVar(&globalFlags.SetupName, "setup", "default", "可信设置名称")
	flags.StringVarP(&globalFlags.OutputFormat, "output", "o", "json", "输出格式: json|pretty|text")
	flags.BoolVar(&globalFlags.Silent, "silent", false, "静默模式 (仅输出结果)")
	flags.BoolVarP(&globalFlags.Verbose, "verbose", "v", false, "输出调试日志")
	flags.StringVar(&globalFlags.MetricsOut, "metrics-out", "", "命令结束后以 Prometheus 文本格式写出指标到该文件")

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(proveCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(statementCmd)
	rootCmd.AddCommand(commitmentCmd)
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(versionCmd)
}

// appOptions 由全局标志构建应用选项
func appOptions() []app.Option {
	var opts []app.Option
	if globalFlags.ConfigPath != "" {
		opts = append(opts, app.WithConfigFile(globalFlags.ConfigPath))
	}
	if globalFlags.DataDir != "" {
		opts = append(opts, app.WithDataDir(globalFlags.DataDir))
	}
	if globalFlags.Backend != "" {
		opts = append(opts, app.WithArtifactBackend(globalFlags.Backend))
	}
	if globalFlags.Verbose {
		opts = append(opts, app.WithLogLevel("debug"))
	}
	return opts
}

// withApp 启动应用、执行 fn 后停止
func withApp(fn func(a *app.App) error) (err error) {
	a, err := app.New(appOptions()...)
	if err != nil {
		return err
	}
	defer func() {
		if stopErr := a.Stop(); stopErr != nil && err == nil {
			err = stopErr
		}
	}()
	err = fn(a)
	if globalFlags.MetricsOut != "" {
		if exportErr := exportMetrics(a.Recorder(), globalFlags.MetricsOut); exportErr != nil && err == nil {
			err = exportErr
		}
	}
	return err
}

// exportMetrics 将记录器中的指标写入文件；指标关闭时不写文件
func exportMetrics(recorder metricsiface.ProofRecorder, path string) error {
	exporter, ok := recorder.(metricsiface.Exporter)
	if !ok {
		if formatter != nil {
			formatter.PrintWarning("指标未启用，忽略 --metrics-out")
		}
		return nil
	}
	var buf bytes.Buffer
	if err := exporter.Export(&buf); err != nil {
		return err
	}
	return writeFile(path, strings.TrimRight(buf.String(), "\n"))
}

// readArgValue 支持 @path 形式从文件读取参数值
func readArgValue(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return strings.TrimSpace(value), nil
	}
	data, err := os.ReadFile(value[1:])
	if err != nil {
		return "", fmt.Errorf("读取文件 %s 失败: %w", value[1:], err)
	}
	return strings.TrimSpace(string(data)), nil
}

// writeFile 写入工件文件，仅所有者可读写
func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content+"\n"), 0600); err != nil {
		return fmt.Errorf("写入文件 %s 失败: %w", path, err)
	}
	return nil
}
