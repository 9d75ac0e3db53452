package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/weisyn/credproof/pkg/types"
)

// fieldFlags 凭证字段标志，prove 与 commitment 共用
type fieldFlags struct {
	id     string
	secret string
	nonce  string
	name   string
	birth  string
}

func (f *fieldFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.id, "id", "", "凭证 ID（Base58）")
	cmd.Flags().StringVar(&f.secret, "secret", "", "秘密值（十六进制，最多 6 字节）；为空时在终端提示输入")
	cmd.Flags().StringVar(&f.nonce, "nonce", "", "随机数（十六进制，最多 6 字节）；为空时在终端提示输入")
	cmd.Flags().StringVar(&f.name, "name", "", "姓名（Base58）")
	cmd.Flags().StringVar(&f.birth, "birth", "", "出生日期（十六进制）")
}

// fields 收集凭证字段，缺失的私有字段从终端读取（不回显）
func (f *fieldFlags) fields(prompt bool) (types.CredentialFields, error) {
	secret, nonce := f.secret, f.nonce
	var err error
	if secret == "" && prompt {
		if secret, err = promptHidden("secret"); err != nil {
			return types.CredentialFields{}, err
		}
	}
	if nonce == "" && prompt {
		if nonce, err = promptHidden("nonce"); err != nil {
			return types.CredentialFields{}, err
		}
	}

	fields := types.CredentialFields{
		ID:     strings.TrimSpace(f.id),
		Secret: strings.TrimSpace(secret),
		Nonce:  strings.TrimSpace(nonce),
		Name:   strings.TrimSpace(f.name),
		Birth:  strings.TrimSpace(f.birth),
	}
	return fields, nil
}

// promptHidden 从终端读取不回显的输入；stdin 不是终端时报错
func promptHidden(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("缺少 --%s，且标准输入不是终端", label)
	}
	fmt.Fprintf(os.Stderr, "%s: ", label)
	value, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("读取 %s 失败: %w", label, err)
	}
	return string(value), nil
}
