package main

import (
	"github.com/spf13/cobra"

	"github.com/weisyn/credproof/internal/app"
	"github.com/weisyn/credproof/internal/core/credential/artifact"
)

var commitmentFields fieldFlags

// CommitmentResult commitment 命令输出
type CommitmentResult struct {
	Commitment      string `json:"commitment"`
	NameBirthDigest string `json:"name_birth_digest"`
}

// Rows 以键值行形式输出
func (r *CommitmentResult) Rows() [][]string {
	return [][]string{
		{"commitment", r.Commitment},
		{"name_birth_digest", r.NameBirthDigest},
	}
}

var commitmentCmd = &cobra.Command{
	Use:   "commitment",
	Short: "计算凭证承诺与 name/birth 摘要",
	Long:  `在电路外计算两阶段 Pedersen 哈希，不需要可信设置。`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := commitmentFields.fields(true)
		if err != nil {
			return err
		}
		return withApp(func(a *app.App) error {
			_, composition, err := a.Manager().Compose(fields)
			if err != nil {
				return err
			}
			return formatter.Print(&CommitmentResult{
				Commitment:      artifact.ToHex(composition.Commitment[:]),
				NameBirthDigest: artifact.ToHex(composition.NameBirthBuffer[:]),
			})
		})
	},
}

func init() {
	commitmentFields.register(commitmentCmd)
	_ = commitmentCmd.MarkFlagRequired("id")
	_ = commitmentCmd.MarkFlagRequired("name")
	_ = commitmentCmd.MarkFlagRequired("birth")
}
