package encoding

import (
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/weisyn/credproof/internal/core/credential/artifact"
	"github.com/weisyn/credproof/pkg/types"
)

// ErrFieldDecoding 身份字段文本解码失败
var ErrFieldDecoding = errors.New("field decoding failed")

// 字段名，用于错误报告
const (
	FieldID     = "id"
	FieldSecret = "secret"
	FieldNonce  = "nonce"
	FieldName   = "name"
	FieldBirth  = "birth"
)

// RawFields 解码后的原始字段字节
type RawFields struct {
	ID     []byte
	Secret []byte
	Nonce  []byte
	Name   []byte
	Birth  []byte
}

// CanonicalFields 定宽编码后的字段。
// 名字和生日不单独定宽，它们只经过第一阶段哈希。
type CanonicalFields struct {
	ID     [IDWidth]byte
	Secret [SecretWidth]byte
	Nonce  [NonceWidth]byte
	Name   []byte
	Birth  []byte
}

// WrapFieldDecodingError 包装字段解码错误
func WrapFieldDecodingError(field string, err error) error {
	return fmt.Errorf("%w: field=%s, cause=%v", ErrFieldDecoding, field, err)
}

// DecodeFields 解码文本字段：id 和 name 为 Base58，secret、nonce、birth 为十六进制
func DecodeFields(fields types.CredentialFields) (*RawFields, error) {
	id, err := base58.Decode(fields.ID)
	if err != nil {
		return nil, WrapFieldDecodingError(FieldID, err)
	}
	name, err := base58.Decode(fields.Name)
	if err != nil {
		return nil, WrapFieldDecodingError(FieldName, err)
	}

	secret, err := decodeHex(FieldSecret, fields.Secret)
	if err != nil {
		return nil, err
	}
	nonce, err := decodeHex(FieldNonce, fields.Nonce)
	if err != nil {
		return nil, err
	}
	birth, err := decodeHex(FieldBirth, fields.Birth)
	if err != nil {
		return nil, err
	}

	return &RawFields{
		ID:     id,
		Secret: secret,
		Nonce:  nonce,
		Name:   name,
		Birth:  birth,
	}, nil
}

func decodeHex(field, text string) ([]byte, error) {
	b, err := artifact.FromHex(text)
	if err != nil {
		return nil, WrapFieldDecodingError(field, err)
	}
	return b, nil
}

// Canonicalize 对原始字段做定宽编码，任一字段溢出即返回 ErrEncodingOverflow
func (r *RawFields) Canonicalize() (*CanonicalFields, error) {
	out := &CanonicalFields{
		Name:  append([]byte(nil), r.Name...),
		Birth: append([]byte(nil), r.Birth...),
	}

	targets := []struct {
		name string
		raw  []byte
		dst  []byte
	}{
		{FieldID, r.ID, out.ID[:]},
		{FieldSecret, r.Secret, out.Secret[:]},
		{FieldNonce, r.Nonce, out.Nonce[:]},
	}
	for _, t := range targets {
		fixed, err := EncodeFixed(t.raw, len(t.dst))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.name, err)
		}
		copy(t.dst, fixed)
	}
	return out, nil
}

// DecodeAndCanonicalize 组合 DecodeFields 与 Canonicalize
func DecodeAndCanonicalize(fields types.CredentialFields) (*CanonicalFields, error) {
	raw, err := DecodeFields(fields)
	if err != nil {
		return nil, err
	}
	return raw.Canonicalize()
}
