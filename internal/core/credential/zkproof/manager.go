package zkproof

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	// 公共接口依赖
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/metrics"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/credproof/pkg/types"

	// 凭证组件
	"github.com/weisyn/credproof/internal/core/credential/artifact"
	"github.com/weisyn/credproof/internal/core/credential/circuits"
	"github.com/weisyn/credproof/internal/core/credential/encoding"
	"github.com/weisyn/credproof/internal/core/credential/hashing"
)

// SetupCompletedEvent 可信设置完成事件
type SetupCompletedEvent struct {
	Name            string        // 设置名称，未持久化时为空
	Generated       bool          // true 表示本次新生成，false 表示从存储加载
	ConstraintCount int           // 电路约束数
	Duration        time.Duration // 耗时
}

// ProofCreatedEvent 证明生成事件
type ProofCreatedEvent struct {
	ProofID    string
	Commitment string
	Duration   time.Duration
}

// ProofVerifiedEvent 证明验证事件
type ProofVerifiedEvent struct {
	Commitment string
	Valid      bool
	Duration   time.Duration
}

// Manager 凭证证明管理器
//
// 薄实现：只做依赖管理和横切关注点（指标、事件、持久化），业务逻辑委托给子组件。
type Manager struct {
	// ==================== 基础设施服务 ====================
	logger   log.Logger
	recorder metrics.ProofRecorder
	eventBus event.EventBus

	// ==================== 专门的子组件 ====================
	circuitManager *CircuitManager
	prover         *Prover
	validator      *Validator
	setupStore     *SetupStore

	// ==================== 配置参数 ====================
	config *ManagerConfig
}

// ManagerDeps 管理器的可选依赖
type ManagerDeps struct {
	Store    storage.ArtifactStore // 为空时不支持 SaveSetup/LoadSetup
	Recorder metrics.ProofRecorder // 为空时不记录指标
	EventBus event.EventBus        // 为空时不发布事件
}

// NewManager 创建凭证证明管理器
func NewManager(logger log.Logger, config *ManagerConfig, deps ManagerDeps) *Manager {
	if config == nil {
		config = DefaultManagerConfig()
	}
	recorder := deps.Recorder
	if recorder == nil {
		recorder = metrics.NopRecorder{}
	}

	circuitManager := NewCircuitManager(logger, config)
	m := &Manager{
		logger:         logger,
		recorder:       recorder,
		eventBus:       deps.EventBus,
		circuitManager: circuitManager,
		prover:         NewProver(logger, circuitManager, config),
		validator:      NewValidator(logger, config),
		config:         config,
	}
	if deps.Store != nil {
		m.setupStore = NewSetupStore(logger, deps.Store, config.CompressArtifacts)
	}
	return m
}

// ==================== ProofService 接口实现 ====================

// Setup 返回可信设置的十六进制工件，首次调用时执行设置
func (m *Manager) Setup(ctx context.Context) (*types.SetupArtifacts, error) {
	pk, vk, err := m.SetupRaw(ctx)
	if err != nil {
		return nil, err
	}
	return &types.SetupArtifacts{
		ProvingKey:   artifact.ToHex(pk),
		VerifyingKey: artifact.ToHex(vk),
	}, nil
}

// CreateProof 生成证明，proving key 为十六进制文本（0x 前缀可选）
func (m *Manager) CreateProof(ctx context.Context, fields types.CredentialFields, provingKeyHex string) (*types.ProofOutput, error) {
	pk, err := artifact.FromHex(provingKeyHex)
	if err != nil {
		return nil, WrapArtifactDeserializationError("proving_key", err)
	}

	result, err := m.Prove(ctx, fields, pk)
	if err != nil {
		return nil, err
	}
	return m.toProofOutput(result), nil
}

// Verify 验证证明，陈述为十进制文本元素
func (m *Manager) Verify(ctx context.Context, proofHex, verifyingKeyHex string, statement []string) (bool, error) {
	proof, vk, st, err := parseVerifyInput(proofHex, verifyingKeyHex, statement)
	if err != nil {
		m.recorder.ObserveVerify(0, metrics.VerifyError)
		return false, err
	}
	return m.VerifyStatement(ctx, proof, vk, st)
}

// parseVerifyInput 陈述长度先于任何工件解码与密码学运算检查
func parseVerifyInput(proofHex, verifyingKeyHex string, statement []string) (proof, vk []byte, st Statement, err error) {
	if len(statement) != circuits.PublicInputCount {
		return nil, nil, nil, WrapStatementLengthError(len(statement))
	}
	if st, err = ParseStatement(statement); err != nil {
		return nil, nil, nil, err
	}

	if proof, err = artifact.FromHex(proofHex); err != nil {
		return nil, nil, nil, WrapArtifactDeserializationError("proof", err)
	}
	if vk, err = artifact.FromHex(verifyingKeyHex); err != nil {
		return nil, nil, nil, WrapArtifactDeserializationError("verifying_key", err)
	}
	return proof, vk, st, nil
}

// ==================== 二进制接口 ====================

// SetupRaw 返回序列化后的 proving key 与 verifying key
func (m *Manager) SetupRaw(ctx context.Context) (provingKey, verifyingKey []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	start := time.Now()

	entry, generated, err := m.circuitManager.trustedSetup()
	m.recorder.ObserveSetup(time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}

	if generated {
		m.prover.rememberProvingKey(entry.provingKeyBytes, entry.provingKey)
		m.afterSetup("", true, time.Since(start))
	}
	return entry.provingKeyBytes, entry.verifyingKeyBytes, nil
}

// Prove 生成证明，返回包含陈述的完整结果
func (m *Manager) Prove(ctx context.Context, fields types.CredentialFields, provingKey []byte) (*ProofResult, error) {
	result, err := m.prover.CreateProof(ctx, fields, provingKey)
	if err != nil {
		m.recorder.ObserveProof(0, err)
		m.logger.Warnf("凭证证明生成失败: %v", err)
		return nil, err
	}
	m.recorder.ObserveProof(result.Duration, nil)
	return result, nil
}

// VerifyStatement 使用二进制工件和已解析的陈述验证证明
func (m *Manager) VerifyStatement(ctx context.Context, proof, verifyingKey []byte, statement Statement) (bool, error) {
	start := time.Now()

	valid, err := m.validator.Verify(ctx, proof, verifyingKey, statement)
	duration := time.Since(start)
	if err != nil {
		m.recorder.ObserveVerify(duration, metrics.VerifyError)
		return false, err
	}

	outcome := metrics.VerifyInvalid
	if valid {
		outcome = metrics.VerifyValid
	}
	m.recorder.ObserveVerify(duration, outcome)
	m.publish(event.EventTypeProofVerified, &ProofVerifiedEvent{
		Commitment: artifact.ToHex(statementCommitment(statement)),
		Valid:      valid,
		Duration:   duration,
	})
	return valid, nil
}

// Compose 链下计算 name/birth 摘要和承诺，不生成证明
func (m *Manager) Compose(fields types.CredentialFields) (*encoding.CanonicalFields, *hashing.Composition, error) {
	return m.prover.Compose(fields)
}

// ==================== 可信设置持久化 ====================

// SaveSetup 将当前可信设置（必要时先生成）保存到工件存储
func (m *Manager) SaveSetup(ctx context.Context, name string) error {
	if m.setupStore == nil {
		return ErrStoreUnavailable
	}
	pk, vk, err := m.SetupRaw(ctx)
	if err != nil {
		return err
	}
	fingerprint, err := m.fingerprint()
	if err != nil {
		return err
	}
	return m.setupStore.Save(ctx, name, fingerprint, pk, vk)
}

// LoadSetup 从工件存储加载可信设置并替换当前设置
func (m *Manager) LoadSetup(ctx context.Context, name string) error {
	if m.setupStore == nil {
		return ErrStoreUnavailable
	}
	start := time.Now()

	fingerprint, err := m.fingerprint()
	if err != nil {
		return err
	}
	pk, vk, err := m.setupStore.Load(ctx, name, fingerprint)
	if err != nil {
		return err
	}
	if err := m.circuitManager.InstallSetup(pk, vk); err != nil {
		return err
	}

	m.afterSetup(name, false, time.Since(start))
	return nil
}

// EnsureSetup 存在则加载，否则生成并保存
func (m *Manager) EnsureSetup(ctx context.Context, name string) (*types.SetupArtifacts, error) {
	err := m.LoadSetup(ctx, name)
	switch {
	case err == nil:
		m.logger.Infof("已加载可信设置: name=%s", name)
	case errors.Is(err, ErrSetupNotFound):
		m.logger.Infof("未找到可信设置，开始生成: name=%s", name)
		if err := m.SaveSetup(ctx, name); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}
	return m.Setup(ctx)
}

// ListSetups 列出已保存的可信设置
func (m *Manager) ListSetups(ctx context.Context) ([]string, error) {
	if m.setupStore == nil {
		return nil, ErrStoreUnavailable
	}
	return m.setupStore.List(ctx)
}

// ==================== 电路信息 ====================

// ConstraintCount 电路约束数量
func (m *Manager) ConstraintCount() (int, error) {
	return m.circuitManager.ConstraintCount()
}

// PublicInputCount 公开输入数量
func (m *Manager) PublicInputCount() (int, error) {
	return m.circuitManager.PublicInputCount()
}

// ==================== 内部方法 ====================

// fingerprint 当前哈希参数与电路形状
func (m *Manager) fingerprint() (SetupFingerprint, error) {
	constraints, err := m.circuitManager.ConstraintCount()
	if err != nil {
		return SetupFingerprint{}, err
	}
	publicInputs, err := m.circuitManager.PublicInputCount()
	if err != nil {
		return SetupFingerprint{}, err
	}
	return SetupFingerprint{
		HashSeed:         m.config.HashSeed,
		Curve:            m.config.Curve.String(),
		ConstraintCount:  constraints,
		PublicInputCount: publicInputs,
	}, nil
}

func (m *Manager) afterSetup(name string, generated bool, duration time.Duration) {
	count, err := m.circuitManager.ConstraintCount()
	if err == nil {
		m.recorder.SetConstraintCount(count)
	}
	m.publish(event.EventTypeSetupCompleted, &SetupCompletedEvent{
		Name:            name,
		Generated:       generated,
		ConstraintCount: count,
		Duration:        duration,
	})
}

func (m *Manager) toProofOutput(result *ProofResult) *types.ProofOutput {
	out := &types.ProofOutput{
		ProofID:         uuid.NewString(),
		Proof:           artifact.ToHex(result.Proof),
		Commitment:      artifact.ToHex(result.Commitment[:]),
		NameBirthDigest: artifact.ToHex(result.NameBirthDigest[:]),
		Statement:       result.Statement.Strings(),
	}

	m.logger.Infof("凭证证明已生成: proof_id=%s, commitment=%s", out.ProofID, out.Commitment)
	m.publish(event.EventTypeProofCreated, &ProofCreatedEvent{
		ProofID:    out.ProofID,
		Commitment: out.Commitment,
		Duration:   result.Duration,
	})
	return out
}

func (m *Manager) publish(eventType event.EventType, payload interface{}) {
	if m.eventBus == nil {
		return
	}
	m.eventBus.Publish(eventType, payload)
}

func statementCommitment(s Statement) []byte {
	if len(s) == 0 {
		return nil
	}
	d := s.Commitment()
	return d[:]
}
