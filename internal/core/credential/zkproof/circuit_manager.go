package zkproof

import (
	"bytes"
	"fmt"
	"sync"
	"time"

	// 基础设施
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"

	// 电路与哈希参数
	"github.com/weisyn/credproof/internal/core/credential/circuits"
	"github.com/weisyn/credproof/internal/core/credential/hashing"

	// gnark ZK库
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"
)

// CircuitManager 电路管理器
//
// 负责派生哈希参数、编译空白电路和执行可信设置。三者都只构造一次，之后只读共享。
type CircuitManager struct {
	logger log.Logger
	config *ManagerConfig

	paramsOnce sync.Once
	params     *hashing.Params
	paramsErr  error

	compileMutex sync.Mutex
	compiled     constraint.ConstraintSystem

	// Trusted setup 缓存（proving/verifying key 及其序列化结果）
	setupMutex sync.RWMutex
	setup      *trustedSetupEntry
}

type trustedSetupEntry struct {
	provingKey        groth16.ProvingKey
	verifyingKey      groth16.VerifyingKey
	provingKeyBytes   []byte
	verifyingKeyBytes []byte
}

// NewCircuitManager 创建电路管理器
func NewCircuitManager(logger log.Logger, config *ManagerConfig) *CircuitManager {
	if config == nil {
		config = DefaultManagerConfig()
	}
	return &CircuitManager{
		logger: logger,
		config: config,
	}
}

// Params 返回 Pedersen 哈希参数，首次调用时由种子派生
func (cm *CircuitManager) Params() (*hashing.Params, error) {
	cm.paramsOnce.Do(func() {
		start := time.Now()
		cm.params, cm.paramsErr = hashing.NewParams(cm.config.HashSeed)
		if cm.paramsErr == nil {
			cm.logger.Debugf("Pedersen 参数派生完成: 耗时=%v", time.Since(start))
		}
	})
	return cm.params, cm.paramsErr
}

// Compiled 返回编译后的约束系统，失败后允许下次调用重试
func (cm *CircuitManager) Compiled() (constraint.ConstraintSystem, error) {
	cm.compileMutex.Lock()
	defer cm.compileMutex.Unlock()

	if cm.compiled != nil {
		return cm.compiled, nil
	}

	params, err := cm.Params()
	if err != nil {
		return nil, err
	}

	restore := silenceGnark()
	defer restore()

	start := time.Now()
	ccs, err := frontend.Compile(cm.config.Curve.ScalarField(), r1cs.NewBuilder, circuits.NewBlankCircuit(params))
	if err != nil {
		return nil, WrapCircuitCompilationFailedError(err)
	}

	if got := ccs.GetNbPublicVariables() - 1; got != circuits.PublicInputCount {
		return nil, WrapCircuitCompilationFailedError(
			fmt.Errorf("公开输入数量不符: expected=%d, actual=%d", circuits.PublicInputCount, got))
	}

	cm.logger.Infof("凭证电路编译完成: 约束数=%d, 公开输入=%d, 耗时=%v",
		ccs.GetNbConstraints(), circuits.PublicInputCount, time.Since(start))
	cm.compiled = ccs
	return ccs, nil
}

// ConstraintCount 返回电路约束数量
func (cm *CircuitManager) ConstraintCount() (int, error) {
	ccs, err := cm.Compiled()
	if err != nil {
		return 0, err
	}
	return ccs.GetNbConstraints(), nil
}

// PublicInputCount 返回公开输入数量（不含常数 1）
func (cm *CircuitManager) PublicInputCount() (int, error) {
	ccs, err := cm.Compiled()
	if err != nil {
		return 0, err
	}
	return ccs.GetNbPublicVariables() - 1, nil
}

// trustedSetup 返回可信设置；并发调用方只会触发一次 groth16.Setup
func (cm *CircuitManager) trustedSetup() (*trustedSetupEntry, bool, error) {
	cm.setupMutex.RLock()
	if entry := cm.setup; entry != nil {
		cm.setupMutex.RUnlock()
		return entry, false, nil
	}
	cm.setupMutex.RUnlock()

	cm.setupMutex.Lock()
	defer cm.setupMutex.Unlock()

	// 等待锁期间可能已有其他调用方完成设置
	if cm.setup != nil {
		return cm.setup, false, nil
	}

	ccs, err := cm.Compiled()
	if err != nil {
		return nil, false, err
	}

	restore := silenceGnark()
	defer restore()

	start := time.Now()
	pk, vk, err := groth16.Setup(ccs)
	if err != nil {
		return nil, false, WrapSetupFailedError(err)
	}

	entry, err := newTrustedSetupEntry(pk, vk)
	if err != nil {
		return nil, false, WrapSetupFailedError(err)
	}

	cm.logger.Infof("可信设置完成: pk=%d字节, vk=%d字节, 耗时=%v",
		len(entry.provingKeyBytes), len(entry.verifyingKeyBytes), time.Since(start))
	cm.setup = entry
	return entry, true, nil
}

// InstallSetup 安装外部加载的可信设置，替换当前缓存
func (cm *CircuitManager) InstallSetup(provingKey, verifyingKey []byte) error {
	pk, err := readProvingKey(cm.config, provingKey)
	if err != nil {
		return err
	}
	vk, err := readVerifyingKey(cm.config, verifyingKey)
	if err != nil {
		return err
	}

	cm.setupMutex.Lock()
	cm.setup = &trustedSetupEntry{
		provingKey:        pk,
		verifyingKey:      vk,
		provingKeyBytes:   provingKey,
		verifyingKeyBytes: verifyingKey,
	}
	cm.setupMutex.Unlock()

	cm.logger.Debugf("已安装外部可信设置: pk=%d字节, vk=%d字节", len(provingKey), len(verifyingKey))
	return nil
}

// HasSetup 是否已有可信设置
func (cm *CircuitManager) HasSetup() bool {
	cm.setupMutex.RLock()
	defer cm.setupMutex.RUnlock()
	return cm.setup != nil
}

func newTrustedSetupEntry(pk groth16.ProvingKey, vk groth16.VerifyingKey) (*trustedSetupEntry, error) {
	var pkBuf, vkBuf bytes.Buffer
	if _, err := pk.WriteTo(&pkBuf); err != nil {
		return nil, fmt.Errorf("序列化 proving key 失败: %w", err)
	}
	if _, err := vk.WriteTo(&vkBuf); err != nil {
		return nil, fmt.Errorf("序列化 verifying key 失败: %w", err)
	}
	return &trustedSetupEntry{
		provingKey:        pk,
		verifyingKey:      vk,
		provingKeyBytes:   pkBuf.Bytes(),
		verifyingKeyBytes: vkBuf.Bytes(),
	}, nil
}

// readProvingKey 反序列化 proving key，要求恰好消费全部字节
func readProvingKey(config *ManagerConfig, data []byte) (groth16.ProvingKey, error) {
	if len(data) == 0 {
		return nil, WrapArtifactDeserializationError("proving_key", fmt.Errorf("empty"))
	}
	pk := groth16.NewProvingKey(config.Curve)
	n, err := pk.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, WrapArtifactDeserializationError("proving_key", err)
	}
	if n != int64(len(data)) {
		return nil, WrapArtifactDeserializationError("proving_key", fmt.Errorf("trailing bytes: read=%d, total=%d", n, len(data)))
	}
	return pk, nil
}

// readVerifyingKey 反序列化 verifying key
func readVerifyingKey(config *ManagerConfig, data []byte) (groth16.VerifyingKey, error) {
	if len(data) == 0 {
		return nil, WrapArtifactDeserializationError("verifying_key", fmt.Errorf("empty"))
	}
	vk := groth16.NewVerifyingKey(config.Curve)
	n, err := vk.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, WrapArtifactDeserializationError("verifying_key", err)
	}
	if n != int64(len(data)) {
		return nil, WrapArtifactDeserializationError("verifying_key", fmt.Errorf("trailing bytes: read=%d, total=%d", n, len(data)))
	}
	if vk.NbPublicWitness() != circuits.PublicInputCount {
		return nil, WrapArtifactDeserializationError("verifying_key",
			fmt.Errorf("public witness mismatch: expected=%d, actual=%d", circuits.PublicInputCount, vk.NbPublicWitness()))
	}
	return vk, nil
}

// readProof 反序列化证明
func readProof(config *ManagerConfig, data []byte) (groth16.Proof, error) {
	if len(data) == 0 {
		return nil, WrapArtifactDeserializationError("proof", fmt.Errorf("empty"))
	}
	proof := groth16.NewProof(config.Curve)
	n, err := proof.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, WrapArtifactDeserializationError("proof", err)
	}
	if n != int64(len(data)) {
		return nil, WrapArtifactDeserializationError("proof", fmt.Errorf("trailing bytes: read=%d, total=%d", n, len(data)))
	}
	return proof, nil
}
