package zkproof

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/golang/snappy"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/storage"
)

const (
	setupKeyPrefix     = "setup/"
	provingKeySuffix   = "/proving_key"
	verifyingKeySuffix = "/verifying_key"
	metadataSuffix     = "/metadata"

	// 存储格式标记，首字节
	formatRaw    byte = 0x00
	formatSnappy byte = 0x01
)

// SetupFingerprint 一套可信设置所对应的哈希参数与电路形状
//
// 种子不同则电路中的 Pedersen 生成元常量不同，旧设置的 proving key 无法用于新电路。
type SetupFingerprint struct {
	HashSeed         string `json:"hash_seed"`
	Curve            string `json:"curve"`
	ConstraintCount  int    `json:"constraint_count"`
	PublicInputCount int    `json:"public_input_count"`
}

// mismatch 返回第一处不一致的描述，一致时返回空串
func (f SetupFingerprint) mismatch(want SetupFingerprint) string {
	switch {
	case f.HashSeed != want.HashSeed:
		return fmt.Sprintf("hash_seed stored=%q current=%q", f.HashSeed, want.HashSeed)
	case f.Curve != want.Curve:
		return fmt.Sprintf("curve stored=%s current=%s", f.Curve, want.Curve)
	case f.ConstraintCount != want.ConstraintCount:
		return fmt.Sprintf("constraints stored=%d current=%d", f.ConstraintCount, want.ConstraintCount)
	case f.PublicInputCount != want.PublicInputCount:
		return fmt.Sprintf("public inputs stored=%d current=%d", f.PublicInputCount, want.PublicInputCount)
	}
	return ""
}

// SetupStore 在工件存储中按名称持久化可信设置
//
// Groth16 设置无法用种子复现，同一套设置需要持久化后在多次运行之间复用。
type SetupStore struct {
	logger   log.Logger
	store    storage.ArtifactStore
	compress bool
}

// NewSetupStore 创建可信设置存储
func NewSetupStore(logger log.Logger, store storage.ArtifactStore, compress bool) *SetupStore {
	return &SetupStore{logger: logger, store: store, compress: compress}
}

func provingKeyKey(name string) []byte {
	return []byte(setupKeyPrefix + name + provingKeySuffix)
}

func verifyingKeyKey(name string) []byte {
	return []byte(setupKeyPrefix + name + verifyingKeySuffix)
}

func metadataKey(name string) []byte {
	return []byte(setupKeyPrefix + name + metadataSuffix)
}

// Save 保存一套可信设置及其指纹，已存在时覆盖
func (s *SetupStore) Save(ctx context.Context, name string, fingerprint SetupFingerprint, provingKey, verifyingKey []byte) error {
	if name == "" {
		return fmt.Errorf("可信设置名称不能为空")
	}
	meta, err := json.Marshal(fingerprint)
	if err != nil {
		return fmt.Errorf("编码可信设置指纹失败: %w", err)
	}
	if err := s.store.Set(ctx, metadataKey(name), meta); err != nil {
		return fmt.Errorf("保存可信设置指纹失败: %w", err)
	}
	if err := s.store.Set(ctx, verifyingKeyKey(name), s.encode(verifyingKey)); err != nil {
		return fmt.Errorf("保存 verifying key 失败: %w", err)
	}
	if err := s.store.Set(ctx, provingKeyKey(name), s.encode(provingKey)); err != nil {
		return fmt.Errorf("保存 proving key 失败: %w", err)
	}
	s.logger.Infof("可信设置已保存: name=%s, pk=%d字节, vk=%d字节", name, len(provingKey), len(verifyingKey))
	return nil
}

// Load 读取一套可信设置，不存在时返回 ErrSetupNotFound，
// 指纹缺失或与 want 不一致时返回 ErrSetupMismatch
func (s *SetupStore) Load(ctx context.Context, name string, want SetupFingerprint) (provingKey, verifyingKey []byte, err error) {
	pkData, err := s.store.Get(ctx, provingKeyKey(name))
	if err != nil {
		return nil, nil, fmt.Errorf("读取 proving key 失败: %w", err)
	}
	vkData, err := s.store.Get(ctx, verifyingKeyKey(name))
	if err != nil {
		return nil, nil, fmt.Errorf("读取 verifying key 失败: %w", err)
	}
	if pkData == nil || vkData == nil {
		return nil, nil, WrapSetupNotFoundError(name)
	}

	meta, err := s.store.Get(ctx, metadataKey(name))
	if err != nil {
		return nil, nil, fmt.Errorf("读取可信设置指纹失败: %w", err)
	}
	if meta == nil {
		return nil, nil, WrapSetupMismatchError(name, "metadata missing")
	}
	var stored SetupFingerprint
	if err := json.Unmarshal(meta, &stored); err != nil {
		return nil, nil, WrapSetupMismatchError(name, fmt.Sprintf("metadata unreadable: %v", err))
	}
	if reason := stored.mismatch(want); reason != "" {
		return nil, nil, WrapSetupMismatchError(name, reason)
	}

	if provingKey, err = decodeStored(pkData); err != nil {
		return nil, nil, WrapArtifactDeserializationError("proving_key", err)
	}
	if verifyingKey, err = decodeStored(vkData); err != nil {
		return nil, nil, WrapArtifactDeserializationError("verifying_key", err)
	}
	return provingKey, verifyingKey, nil
}

// Delete 删除一套可信设置
func (s *SetupStore) Delete(ctx context.Context, name string) error {
	for _, key := range [][]byte{provingKeyKey(name), verifyingKeyKey(name), metadataKey(name)} {
		if err := s.store.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// List 列出全部已保存的设置名称（proving key、verifying key 与指纹齐全的才算完整）
func (s *SetupStore) List(ctx context.Context) ([]string, error) {
	entries, err := s.store.PrefixScan(ctx, []byte(setupKeyPrefix))
	if err != nil {
		return nil, err
	}

	seen := make(map[string]int)
	for key := range entries {
		rest := strings.TrimPrefix(key, setupKeyPrefix)
		switch {
		case strings.HasSuffix(rest, provingKeySuffix):
			seen[strings.TrimSuffix(rest, provingKeySuffix)]++
		case strings.HasSuffix(rest, verifyingKeySuffix):
			seen[strings.TrimSuffix(rest, verifyingKeySuffix)]++
		case strings.HasSuffix(rest, metadataSuffix):
			seen[strings.TrimSuffix(rest, metadataSuffix)]++
		}
	}

	names := make([]string, 0, len(seen))
	for name, n := range seen {
		if n == 3 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (s *SetupStore) encode(data []byte) []byte {
	if !s.compress {
		return append([]byte{formatRaw}, data...)
	}
	return append([]byte{formatSnappy}, snappy.Encode(nil, data)...)
}

// decodeStored 按首字节格式标记解码，与写入时的压缩设置无关
func decodeStored(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("empty stored artifact")
	}
	switch data[0] {
	case formatRaw:
		return data[1:], nil
	case formatSnappy:
		return snappy.Decode(nil, data[1:])
	default:
		return nil, fmt.Errorf("unknown artifact format: 0x%02x", data[0])
	}
}
