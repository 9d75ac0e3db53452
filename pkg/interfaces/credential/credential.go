// Package credential 定义凭证承诺证明服务的公共接口
package credential

import (
	"context"

	"github.com/weisyn/credproof/pkg/types"
)

// ProofService 凭证承诺证明服务
//
// 所有工件均以 0x 前缀十六进制文本进出。
type ProofService interface {
	// Setup 生成（或返回已缓存的）proving/verifying 工件
	Setup(ctx context.Context) (*types.SetupArtifacts, error)

	// CreateProof 针对给定凭证字段生成证明
	CreateProof(ctx context.Context, fields types.CredentialFields, provingKeyHex string) (*types.ProofOutput, error)

	// Verify 验证证明，证明无效时返回 (false, nil)
	Verify(ctx context.Context, proofHex, verifyingKeyHex string, statement []string) (bool, error)
}
