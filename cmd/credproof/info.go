package main

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/weisyn/credproof/internal/app"
)

// InfoResult info 命令输出
type InfoResult struct {
	ConstraintCount  int      `json:"constraint_count"`
	PublicInputCount int      `json:"public_input_count"`
	Backend          string   `json:"backend"`
	Setups           []string `json:"setups"`
}

// Rows 以键值行形式输出
func (r *InfoResult) Rows() [][]string {
	return [][]string{
		{"constraint_count", strconv.Itoa(r.ConstraintCount)},
		{"public_input_count", strconv.Itoa(r.PublicInputCount)},
		{"backend", r.Backend},
		{"setups", strings.Join(r.Setups, ",")},
	}
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "显示电路与已保存的可信设置",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(func(a *app.App) error {
			manager := a.Manager()
			constraints, err := manager.ConstraintCount()
			if err != nil {
				return err
			}
			publicInputs, err := manager.PublicInputCount()
			if err != nil {
				return err
			}
			setups, err := manager.ListSetups(cmd.Context())
			if err != nil {
				return err
			}
			if setups == nil {
				setups = []string{}
			}
			return formatter.Print(&InfoResult{
				ConstraintCount:  constraints,
				PublicInputCount: publicInputs,
				Backend:          a.Provider().GetProof().ArtifactBackend,
				Setups:           setups,
			})
		})
	},
}
