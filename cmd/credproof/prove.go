package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/credproof/internal/app"
)

var (
	proveFields fieldFlags
	proveFlags  struct {
		provingKey string
		out        string
	}
)

var proveCmd = &cobra.Command{
	Use:   "prove",
	Short: "为凭证字段生成证明",
	Long: `为凭证字段生成 Groth16 证明。

未指定 --pk 时使用工件存储中 --setup 对应的可信设置。
输出包含证明、承诺、name/birth 摘要以及完整的公开陈述。`,
	Example: `  credproof prove --id 5FLSigC9... --name koyamaatsuki --birth 20000510 --out proof.json
  credproof prove --pk @pk.hex --id ... --secret 12345678 --nonce afe387d2 --name ... --birth ...`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := proveFields.fields(true)
		if err != nil {
			return err
		}

		return withApp(func(a *app.App) error {
			ctx := cmd.Context()
			manager := a.Manager()

			provingKey := proveFlags.provingKey
			if provingKey != "" {
				if provingKey, err = readArgValue(provingKey); err != nil {
					return err
				}
			} else {
				if err := manager.LoadSetup(ctx, globalFlags.SetupName); err != nil {
					return fmt.Errorf("加载可信设置 %s 失败（先运行 credproof setup）: %w", globalFlags.SetupName, err)
				}
				artifacts, err := manager.Setup(ctx)
				if err != nil {
					return err
				}
				provingKey = artifacts.ProvingKey
			}

			result, err := manager.CreateProof(ctx, fields, provingKey)
			if err != nil {
				return err
			}

			if proveFlags.out != "" {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return err
				}
				if err := writeFile(proveFlags.out, string(data)); err != nil {
					return err
				}
				formatter.PrintSuccess(fmt.Sprintf("证明已写入 %s", proveFlags.out))
			}
			formatter.PrintSuccess(fmt.Sprintf("证明已生成: proof_id=%s", result.ProofID))
			return formatter.Print(result)
		})
	},
}

func init() {
	proveFields.register(proveCmd)
	proveCmd.Flags().StringVar(&proveFlags.provingKey, "pk", "", "proving key（十六进制或 @文件）")
	proveCmd.Flags().StringVar(&proveFlags.out, "out", "", "将证明 JSON 写入文件")
	_ = proveCmd.MarkFlagRequired("id")
	_ = proveCmd.MarkFlagRequired("name")
	_ = proveCmd.MarkFlagRequired("birth")
}
