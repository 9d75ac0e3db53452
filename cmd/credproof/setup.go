package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/weisyn/credproof/internal/app"
	"github.com/weisyn/credproof/internal/core/credential/artifact"
)

var setupFlags struct {
	force bool
	pkOut string
	vkOut string
}

// SetupResult setup 命令输出
type SetupResult struct {
	Name            string `json:"name"`
	VerifyingKey    string `json:"verifying_key"`
	ProvingKeyBytes int    `json:"proving_key_bytes"`
	ConstraintCount int    `json:"constraint_count"`
	PublicInputs    int    `json:"public_inputs"`
}

// Rows 以键值行形式输出，verifying key 只显示长度
func (r *SetupResult) Rows() [][]string {
	return [][]string{
		{"name", r.Name},
		{"verifying_key", fmt.Sprintf("%d 字符", len(r.VerifyingKey))},
		{"proving_key_bytes", strconv.Itoa(r.ProvingKeyBytes)},
		{"constraint_count", strconv.Itoa(r.ConstraintCount)},
		{"public_inputs", strconv.Itoa(r.PublicInputs)},
	}
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "生成或加载可信设置",
	Long: `生成或加载可信设置并保存到工件存储。

已存在同名设置时直接加载，--force 重新生成并覆盖。
重新生成后，之前签发的证明全部无法通过新设置的验证。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			manager := a.Manager()
			name := globalFlags.SetupName

			if setupFlags.force {
				formatter.PrintWarning(fmt.Sprintf("重新生成可信设置: %s", name))
				if err := manager.SaveSetup(ctx, name); err != nil {
					return err
				}
			}
			artifacts, err := manager.EnsureSetup(ctx, name)
			if err != nil {
				return err
			}

			if setupFlags.pkOut != "" {
				if err := writeFile(setupFlags.pkOut, artifacts.ProvingKey); err != nil {
					return err
				}
			}
			if setupFlags.vkOut != "" {
				if err := writeFile(setupFlags.vkOut, artifacts.VerifyingKey); err != nil {
					return err
				}
			}

			constraints, err := manager.ConstraintCount()
			if err != nil {
				return err
			}
			publicInputs, err := manager.PublicInputCount()
			if err != nil {
				return err
			}
			pk, err := artifact.FromHex(artifacts.ProvingKey)
			if err != nil {
				return err
			}

			formatter.PrintSuccess(fmt.Sprintf("可信设置已就绪: %s", name))
			return formatter.Print(&SetupResult{
				Name:            name,
				VerifyingKey:    artifacts.VerifyingKey,
				ProvingKeyBytes: len(pk),
				ConstraintCount: constraints,
				PublicInputs:    publicInputs,
			})
		})
	},
}

func init() {
	setupCmd.Flags().BoolVar(&setupFlags.force, "force", false, "重新生成并覆盖已有设置")
	setupCmd.Flags().StringVar(&setupFlags.pkOut, "pk-out", "", "将 proving key（十六进制）写入文件")
	setupCmd.Flags().StringVar(&setupFlags.vkOut, "vk-out", "", "将 verifying key（十六进制）写入文件")
}
