// Package metrics 定义证明流水线的指标上报接口
//
// 接口定义在此处，实现位于 internal/core/infrastructure/metrics（Prometheus）。
package metrics

import (
	"io"
	"time"
)

// VerifyOutcome 验证结果分类
type VerifyOutcome string

const (
	VerifyValid   VerifyOutcome = "valid"   // 证明有效
	VerifyInvalid VerifyOutcome = "invalid" // 证明无效（正常的布尔结果）
	VerifyError   VerifyOutcome = "error"   // 输入格式错误等硬错误
)

// ProofRecorder 证明流水线指标记录器
type ProofRecorder interface {
	// ObserveSetup 记录一次可信设置
	ObserveSetup(duration time.Duration, err error)

	// ObserveProof 记录一次证明生成
	ObserveProof(duration time.Duration, err error)

	// ObserveVerify 记录一次验证
	ObserveVerify(duration time.Duration, outcome VerifyOutcome)

	// SetConstraintCount 记录电路约束数量
	SetConstraintCount(count int)
}

// Exporter 以 Prometheus 文本格式导出已采集的指标
type Exporter interface {
	Export(w io.Writer) error
}

// NopRecorder 不记录任何指标
type NopRecorder struct{}

func (NopRecorder) ObserveSetup(time.Duration, error)          {}
func (NopRecorder) ObserveProof(time.Duration, error)          {}
func (NopRecorder) ObserveVerify(time.Duration, VerifyOutcome) {}
func (NopRecorder) SetConstraintCount(int)                     {}
