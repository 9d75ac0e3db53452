package zkproof

import (
	"bytes"
	"context"
	"fmt"
	"time"

	// 基础设施
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/credproof/pkg/types"

	// 凭证编码、哈希与电路
	"github.com/weisyn/credproof/internal/core/credential/circuits"
	"github.com/weisyn/credproof/internal/core/credential/encoding"
	"github.com/weisyn/credproof/internal/core/credential/hashing"

	// gnark ZK库
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"
)

// ProofResult 一次证明生成的完整结果
type ProofResult struct {
	Proof           []byte
	Statement       Statement
	Commitment      hashing.Digest
	NameBirthDigest [encoding.NameBirthDigestWidth]byte
	ConstraintCount int
	Duration        time.Duration
}

// Prover 凭证证明生成器
//
// 每次调用独立构造电路实例与见证，仅共享只读的参数、约束系统和 proving key。
type Prover struct {
	logger         log.Logger
	circuitManager *CircuitManager
	config         *ManagerConfig

	// 并发证明数限制
	slots chan struct{}

	// proving key 反序列化缓存（LRU），按内容哈希索引
	pkCache *lru.Cache[[32]byte, groth16.ProvingKey]
}

// NewProver 创建证明生成器
func NewProver(logger log.Logger, circuitManager *CircuitManager, config *ManagerConfig) *Prover {
	if config == nil {
		config = DefaultManagerConfig()
	}
	slots := config.MaxConcurrentProofs
	if slots <= 0 {
		slots = 1
	}
	pkCache, _ := lru.New[[32]byte, groth16.ProvingKey](cacheSize(config.ProvingKeyCacheSize, defaultProvingKeyCacheSize))
	return &Prover{
		logger:         logger,
		circuitManager: circuitManager,
		config:         config,
		slots:          make(chan struct{}, slots),
		pkCache:        pkCache,
	}
}

// Compose 解码并规范化字段，执行两阶段哈希，不涉及电路
func (p *Prover) Compose(fields types.CredentialFields) (*encoding.CanonicalFields, *hashing.Composition, error) {
	canonical, err := encoding.DecodeAndCanonicalize(fields)
	if err != nil {
		return nil, nil, err
	}

	params, err := p.circuitManager.Params()
	if err != nil {
		return nil, nil, err
	}

	comp, err := params.Compose(canonical)
	if err != nil {
		return nil, nil, err
	}
	return canonical, comp, nil
}

// CreateProof 生成凭证证明
//
// 编码溢出在任何哈希之前返回；proving key 无法反序列化时返回 ErrArtifactDeserialization。
func (p *Prover) CreateProof(ctx context.Context, fields types.CredentialFields, provingKey []byte) (*ProofResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	startTime := time.Now()

	canonical, comp, err := p.Compose(fields)
	if err != nil {
		return nil, err
	}

	assignment, err := circuits.NewAssignment(canonical, comp)
	if err != nil {
		return nil, err
	}
	witnessCircuit, err := assignment.Circuit()
	if err != nil {
		return nil, err
	}

	pk, err := p.provingKey(provingKey)
	if err != nil {
		return nil, err
	}

	ccs, err := p.circuitManager.Compiled()
	if err != nil {
		return nil, err
	}

	// 等待空闲证明槽位
	select {
	case p.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.slots }()

	restore := silenceGnark()
	defer restore()

	fullWitness, err := frontend.NewWitness(witnessCircuit, p.config.Curve.ScalarField())
	if err != nil {
		return nil, WrapProofGenerationFailedError(fmt.Errorf("构建见证失败: %w", err))
	}

	proof, err := groth16.Prove(ccs, pk, fullWitness)
	if err != nil {
		return nil, WrapProofGenerationFailedError(err)
	}

	var buf bytes.Buffer
	if _, err := proof.WriteTo(&buf); err != nil {
		return nil, WrapProofGenerationFailedError(fmt.Errorf("序列化证明失败: %w", err))
	}

	result := &ProofResult{
		Proof:           buf.Bytes(),
		Statement:       BuildStatement(comp.Commitment, canonical.ID, comp.NameBirthBuffer),
		Commitment:      comp.Commitment,
		NameBirthDigest: comp.NameBirthBuffer,
		ConstraintCount: ccs.GetNbConstraints(),
		Duration:        time.Since(startTime),
	}

	p.logger.Debugf("凭证证明生成完成: 耗时=%v, 大小=%d字节", result.Duration, len(result.Proof))
	return result, nil
}

// provingKey 反序列化 proving key；与当前可信设置一致时直接复用内存中的对象
func (p *Prover) provingKey(data []byte) (groth16.ProvingKey, error) {
	key := sha3.Sum256(data)
	if pk, ok := p.pkCache.Get(key); ok {
		return pk, nil
	}

	pk, err := readProvingKey(p.config, data)
	if err != nil {
		return nil, err
	}
	p.pkCache.Add(key, pk)

	p.logger.Debugf("proving key 反序列化并缓存: hash=%x", key[:8])
	return pk, nil
}

// rememberProvingKey 预先放入缓存，避免对刚生成的 key 再做一次反序列化
func (p *Prover) rememberProvingKey(data []byte, pk groth16.ProvingKey) {
	p.pkCache.Add(sha3.Sum256(data), pk)
}
