package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/weisyn/credproof/internal/core/credential/zkproof"
)

var statementFlags struct {
	commitment string
	id         string
	digest     string
}

var statementCmd = &cobra.Command{
	Use:   "statement",
	Short: "由公开值构造公开陈述",
	Long: `由承诺、凭证 ID 与 name/birth 摘要构造 641 个元素的公开陈述，
输出为十进制字符串数组，可作为 verify --statement-file 的输入。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := zkproof.DeriveStatement(statementFlags.commitment, statementFlags.id, statementFlags.digest)
		if err != nil {
			return err
		}
		formatter.PrintInfo(fmt.Sprintf("陈述元素数: %d", len(st)))
		return formatter.Print(st.Strings())
	},
}

func init() {
	flags := statementCmd.Flags()
	flags.StringVar(&statementFlags.commitment, "commitment", "", "承诺（十六进制）")
	flags.StringVar(&statementFlags.id, "id", "", "凭证 ID（Base58）")
	flags.StringVar(&statementFlags.digest, "digest", "", "name/birth 摘要（十六进制）")
	_ = statementCmd.MarkFlagRequired("commitment")
	_ = statementCmd.MarkFlagRequired("id")
	_ = statementCmd.MarkFlagRequired("digest")
}
