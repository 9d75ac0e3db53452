package circuits

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/weisyn/credproof/internal/core/credential/encoding"
	"github.com/weisyn/credproof/internal/core/credential/hashing"
)

// ErrAssignmentMissing 见证实例中存在缺失的取值
var ErrAssignmentMissing = errors.New("assignment missing")

// Assignment 见证实例的输入，每个字节位置显式标记存在或缺失
type Assignment struct {
	ID              []encoding.NullableByte
	Secret          []encoding.NullableByte
	Nonce           []encoding.NullableByte
	NameBirthDigest []encoding.NullableByte
	Commitment      *big.Int
}

// NewAssignment 由定宽字段和哈希组合结果构造见证输入
func NewAssignment(fields *encoding.CanonicalFields, comp *hashing.Composition) (*Assignment, error) {
	id, err := encoding.EncodeNullable(fields.ID[:], encoding.IDWidth)
	if err != nil {
		return nil, err
	}
	secret, err := encoding.EncodeNullable(fields.Secret[:], encoding.SecretWidth)
	if err != nil {
		return nil, err
	}
	nonce, err := encoding.EncodeNullable(fields.Nonce[:], encoding.NonceWidth)
	if err != nil {
		return nil, err
	}
	digest, err := encoding.EncodeNullable(comp.NameBirthBuffer[:], encoding.NameBirthDigestWidth)
	if err != nil {
		return nil, err
	}

	return &Assignment{
		ID:              id,
		Secret:          secret,
		Nonce:           nonce,
		NameBirthDigest: digest,
		Commitment:      comp.Commitment.BigInt(),
	}, nil
}

// WrapAssignmentMissingError 包装取值缺失错误
func WrapAssignmentMissingError(field string, position int) error {
	return fmt.Errorf("%w: field=%s, position=%d", ErrAssignmentMissing, field, position)
}

// Circuit 生成见证电路实例。任一字节或承诺缺失时返回 ErrAssignmentMissing，不做默认值替换。
func (a *Assignment) Circuit() (*CredentialCircuit, error) {
	if a.Commitment == nil {
		return nil, WrapAssignmentMissingError("commitment", 0)
	}

	id, err := requireBytes(encoding.FieldID, a.ID, encoding.IDWidth)
	if err != nil {
		return nil, err
	}
	secret, err := requireBytes(encoding.FieldSecret, a.Secret, encoding.SecretWidth)
	if err != nil {
		return nil, err
	}
	nonce, err := requireBytes(encoding.FieldNonce, a.Nonce, encoding.NonceWidth)
	if err != nil {
		return nil, err
	}
	digest, err := requireBytes("name_birth_digest", a.NameBirthDigest, encoding.NameBirthDigestWidth)
	if err != nil {
		return nil, err
	}

	c := &CredentialCircuit{Commitment: new(big.Int).Set(a.Commitment)}
	for i, bit := range ByteBits(id) {
		c.ID[i] = int(bit)
	}
	for i, bit := range ByteBits(digest) {
		c.NameBirthDigest[i] = int(bit)
	}
	for i, b := range secret {
		c.Secret[i] = int(b)
	}
	for i, b := range nonce {
		c.Nonce[i] = int(b)
	}
	return c, nil
}

func requireBytes(field string, buf []encoding.NullableByte, width int) ([]byte, error) {
	out := make([]byte, width)
	for i := 0; i < width; i++ {
		if i >= len(buf) || !buf[i].Present {
			return nil, WrapAssignmentMissingError(field, i)
		}
		out[i] = buf[i].Value
	}
	if len(buf) > width {
		return nil, encoding.WrapOverflowError(len(buf), width)
	}
	return out, nil
}

// ByteBits 将字节展开为位，字节顺序不变，字节内低位优先
func ByteBits(b []byte) []uint8 {
	bits := make([]uint8, 0, len(b)*8)
	for _, v := range b {
		for j := 0; j < 8; j++ {
			bits = append(bits, (v>>uint(j))&1)
		}
	}
	return bits
}
