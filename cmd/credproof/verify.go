package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/weisyn/credproof/internal/app"
	"github.com/weisyn/credproof/internal/core/credential/artifact"
	"github.com/weisyn/credproof/internal/core/credential/zkproof"
	"github.com/weisyn/credproof/pkg/types"
)

var verifyFlags struct {
	proofFile     string
	proof         string
	verifyingKey  string
	statementFile string
	commitment    string
	id            string
	digest        string
}

// VerifyResult verify 命令输出
type VerifyResult struct {
	Valid      bool   `json:"valid"`
	Commitment string `json:"commitment,omitempty"`
}

// Rows 以键值行形式输出
func (r *VerifyResult) Rows() [][]string {
	return [][]string{
		{"valid", strconv.FormatBool(r.Valid)},
		{"commitment", r.Commitment},
	}
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "验证证明",
	Long: `验证 Groth16 证明。

证明与陈述的来源（三选一）：
  --proof-file proof.json                      prove 命令输出的证明文件
  --proof ... --statement-file statement.json   证明与陈述（十进制字符串数组）
  --proof ... --commitment ... --id ... --digest ...   由公开值重建陈述

未指定 --vk 时使用工件存储中 --setup 对应的 verifying key。
证明无效时输出 valid=false 并以退出码 2 结束。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		proof, statement, err := verifyInput()
		if err != nil {
			return err
		}

		var valid bool
		err = withApp(func(a *app.App) error {
			ctx := cmd.Context()
			manager := a.Manager()

			verifyingKey := verifyFlags.verifyingKey
			if verifyingKey != "" {
				if verifyingKey, err = readArgValue(verifyingKey); err != nil {
					return err
				}
			} else {
				if err := manager.LoadSetup(ctx, globalFlags.SetupName); err != nil {
					return fmt.Errorf("加载可信设置 %s 失败: %w", globalFlags.SetupName, err)
				}
				artifacts, err := manager.Setup(ctx)
				if err != nil {
					return err
				}
				verifyingKey = artifacts.VerifyingKey
			}

			if valid, err = manager.Verify(ctx, proof, verifyingKey, statement); err != nil {
				return err
			}

			result := &VerifyResult{Valid: valid}
			if st, err := zkproof.ParseStatement(statement); err == nil && len(st) > 0 {
				commitment := st.Commitment()
				result.Commitment = artifact.ToHex(commitment[:])
			}
			return formatter.Print(result)
		})
		if err != nil {
			return err
		}
		if !valid {
			formatter.PrintWarning("证明无效")
			return errProofInvalid
		}
		formatter.PrintSuccess("证明有效")
		return nil
	},
}

// verifyInput 按标志组合收集证明与陈述文本
func verifyInput() (proof string, statement []string, err error) {
	switch {
	case verifyFlags.proofFile != "":
		raw, err := readArgValue("@" + verifyFlags.proofFile)
		if err != nil {
			return "", nil, err
		}
		var out types.ProofOutput
		if err := json.Unmarshal([]byte(raw), &out); err != nil {
			return "", nil, fmt.Errorf("解析证明文件失败: %w", err)
		}
		return out.Proof, out.Statement, nil

	case verifyFlags.proof == "":
		return "", nil, fmt.Errorf("需要 --proof-file 或 --proof")

	case verifyFlags.statementFile != "":
		if proof, err = readArgValue(verifyFlags.proof); err != nil {
			return "", nil, err
		}
		raw, err := readArgValue("@" + verifyFlags.statementFile)
		if err != nil {
			return "", nil, err
		}
		if err := json.Unmarshal([]byte(raw), &statement); err != nil {
			return "", nil, fmt.Errorf("解析陈述文件失败: %w", err)
		}
		return proof, statement, nil

	default:
		if proof, err = readArgValue(verifyFlags.proof); err != nil {
			return "", nil, err
		}
		st, err := zkproof.DeriveStatement(verifyFlags.commitment, verifyFlags.id, verifyFlags.digest)
		if err != nil {
			return "", nil, err
		}
		return proof, st.Strings(), nil
	}
}

func init() {
	flags := verifyCmd.Flags()
	flags.StringVar(&verifyFlags.proofFile, "proof-file", "", "prove 命令输出的证明 JSON 文件")
	flags.StringVar(&verifyFlags.proof, "proof", "", "证明（十六进制或 @文件）")
	flags.StringVar(&verifyFlags.verifyingKey, "vk", "", "verifying key（十六进制或 @文件）")
	flags.StringVar(&verifyFlags.statementFile, "statement-file", "", "陈述 JSON 文件（十进制字符串数组）")
	flags.StringVar(&verifyFlags.commitment, "commitment", "", "承诺（十六进制）")
	flags.StringVar(&verifyFlags.id, "id", "", "凭证 ID（Base58）")
	flags.StringVar(&verifyFlags.digest, "digest", "", "name/birth 摘要（十六进制，40 字节）")
	verifyCmd.MarkFlagsMutuallyExclusive("proof-file", "proof")
	verifyCmd.MarkFlagsMutuallyExclusive("proof-file", "statement-file")
	verifyCmd.MarkFlagsMutuallyExclusive("statement-file", "commitment")
}
