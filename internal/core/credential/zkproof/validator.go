package zkproof

import (
	"context"
	"time"

	// 基础设施
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"

	// gnark ZK库
	"github.com/consensys/gnark/backend/groth16"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/crypto/sha3"
)

// Validator 凭证证明验证器
//
// 验证密钥按内容哈希缓存（LRU），同一 verifying key 的多次验证只反序列化一次。
type Validator struct {
	logger log.Logger
	config *ManagerConfig

	vkCache *lru.Cache[[32]byte, groth16.VerifyingKey]
}

// NewValidator 创建证明验证器
func NewValidator(logger log.Logger, config *ManagerConfig) *Validator {
	if config == nil {
		config = DefaultManagerConfig()
	}
	// 容量为正时 lru.New 不会失败
	vkCache, _ := lru.New[[32]byte, groth16.VerifyingKey](cacheSize(config.VerifyingKeyCacheSize, defaultVerifyingKeyCacheSize))
	return &Validator{
		logger:  logger,
		config:  config,
		vkCache: vkCache,
	}
}

// Verify 验证证明
//
// 陈述长度在任何密码学运算之前检查。证明不满足验证方程时返回 (false, nil)；
// 只有输入格式错误（长度不符、工件无法反序列化）才返回错误。
func (v *Validator) Verify(ctx context.Context, proofData, verifyingKey []byte, statement Statement) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	startTime := time.Now()

	// 1. 陈述长度
	if err := statement.Validate(); err != nil {
		return false, err
	}

	// 2. 验证密钥（带缓存）
	vk, err := v.getVerifyingKey(verifyingKey)
	if err != nil {
		return false, err
	}

	// 3. 反序列化证明对象
	proof, err := readProof(v.config, proofData)
	if err != nil {
		return false, err
	}

	restore := silenceGnark()
	defer restore()

	// 4. 构建公开输入witness
	publicWitness, err := statement.PublicWitness(v.config.Curve)
	if err != nil {
		return false, err
	}

	// 5. 执行验证
	if err := groth16.Verify(proof, vk, publicWitness); err != nil {
		v.logger.Debugf("凭证证明验证未通过: %v", err)
		return false, nil // 验证失败但不是系统错误
	}

	v.logger.Debugf("凭证证明验证成功: 耗时=%v", time.Since(startTime))
	return true, nil
}

// getVerifyingKey 获取或反序列化验证密钥（带缓存）
func (v *Validator) getVerifyingKey(data []byte) (groth16.VerifyingKey, error) {
	key := sha3.Sum256(data)
	if vk, ok := v.vkCache.Get(key); ok {
		return vk, nil
	}

	vk, err := readVerifyingKey(v.config, data)
	if err != nil {
		return nil, err
	}

	if evicted := v.vkCache.Add(key, vk); evicted {
		v.logger.Debugf("验证密钥缓存已满，淘汰最久未使用的条目")
	}
	v.logger.Debugf("验证密钥反序列化并缓存: hash=%x", key[:8])
	return vk, nil
}
