// Package zkproof 实现凭证承诺电路的可信设置、证明生成与验证流水线。
package zkproof

import (
	"errors"
	"fmt"

	"github.com/weisyn/credproof/internal/core/credential/artifact"
	"github.com/weisyn/credproof/internal/core/credential/circuits"
	"github.com/weisyn/credproof/internal/core/credential/encoding"
	"github.com/weisyn/credproof/internal/core/credential/hashing"
)

// ============================================================================
//                            零知识证明错误定义
// ============================================================================

var (
	// ErrArtifactDeserialization 工件（proving key、verifying key、证明）无法反序列化
	ErrArtifactDeserialization = errors.New("artifact deserialization failed")

	// ErrStatementLength 公开陈述长度不等于 PublicInputCount
	ErrStatementLength = errors.New("invalid statement length")

	// ErrInvalidStatement 公开陈述元素不是规范的域元素
	ErrInvalidStatement = errors.New("invalid statement element")

	// ErrCircuitCompilationFailed 电路编译失败
	ErrCircuitCompilationFailed = errors.New("circuit compilation failed")

	// ErrSetupFailed 可信设置失败
	ErrSetupFailed = errors.New("trusted setup failed")

	// ErrSetupNotFound 存储中没有指定名称的可信设置
	ErrSetupNotFound = errors.New("setup not found")

	// ErrSetupMismatch 已保存的可信设置与当前哈希参数或电路形状不一致
	ErrSetupMismatch = errors.New("setup does not match circuit")

	// ErrProofGenerationFailed 证明生成失败
	ErrProofGenerationFailed = errors.New("proof generation failed")

	// ErrUnsupportedCurve 不支持的椭圆曲线
	ErrUnsupportedCurve = errors.New("unsupported curve")

	// ErrUnsupportedScheme 不支持的证明方案
	ErrUnsupportedScheme = errors.New("unsupported proving scheme")

	// ErrStoreUnavailable 未配置工件存储
	ErrStoreUnavailable = errors.New("artifact store unavailable")
)

// 下层包的错误，在此统一导出，调用方只需依赖本包
var (
	ErrEncodingOverflow  = encoding.ErrEncodingOverflow
	ErrFieldDecoding     = encoding.ErrFieldDecoding
	ErrAssignmentMissing = circuits.ErrAssignmentMissing
	ErrPreimageTooLong   = hashing.ErrPreimageTooLong
	ErrInvalidHex        = artifact.ErrInvalidHex
)

// ============================================================================
//                               错误包装函数
// ============================================================================

// WrapArtifactDeserializationError 包装工件反序列化错误
func WrapArtifactDeserializationError(kind string, err error) error {
	return fmt.Errorf("%w: kind=%s, cause=%v", ErrArtifactDeserialization, kind, err)
}

// WrapStatementLengthError 包装陈述长度错误
func WrapStatementLengthError(actual int) error {
	return fmt.Errorf("%w: expected=%d, actual=%d", ErrStatementLength, circuits.PublicInputCount, actual)
}

// WrapInvalidStatementError 包装陈述元素错误
func WrapInvalidStatementError(index int, reason string) error {
	return fmt.Errorf("%w: index=%d, reason=%s", ErrInvalidStatement, index, reason)
}

// WrapCircuitCompilationFailedError 包装电路编译失败错误
func WrapCircuitCompilationFailedError(err error) error {
	return fmt.Errorf("%w: cause=%v", ErrCircuitCompilationFailed, err)
}

// WrapSetupFailedError 包装可信设置失败错误
func WrapSetupFailedError(err error) error {
	return fmt.Errorf("%w: cause=%v", ErrSetupFailed, err)
}

// WrapSetupNotFoundError 包装可信设置不存在错误
func WrapSetupNotFoundError(name string) error {
	return fmt.Errorf("%w: name=%s", ErrSetupNotFound, name)
}

// WrapSetupMismatchError 包装可信设置不匹配错误
func WrapSetupMismatchError(name, reason string) error {
	return fmt.Errorf("%w: name=%s, reason=%s", ErrSetupMismatch, name, reason)
}

// WrapProofGenerationFailedError 包装证明生成失败错误
func WrapProofGenerationFailedError(err error) error {
	return fmt.Errorf("%w: cause=%v", ErrProofGenerationFailed, err)
}
