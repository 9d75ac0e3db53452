// Package encoding 将身份字段规范化为定宽字节缓冲区。
//
// 宽度属于外部契约：修改任一宽度都会使已有的承诺、证明和密钥全部失效。
package encoding

import (
	"errors"
	"fmt"
)

// 各字段的规范宽度（字节）
const (
	IDWidth              = 40
	SecretWidth          = 6
	NonceWidth           = 6
	NameBirthDigestWidth = 40
)

// ErrEncodingOverflow 原始字段长度超过规范宽度
var ErrEncodingOverflow = errors.New("encoding overflow")

// NullableByte 表示一个可能缺失的字节
type NullableByte struct {
	Value   byte
	Present bool
}

// Present 构造一个存在的字节
func Present(v byte) NullableByte {
	return NullableByte{Value: v, Present: true}
}

// Absent 构造一个缺失的字节
func Absent() NullableByte {
	return NullableByte{}
}

// WrapOverflowError 包装溢出错误
func WrapOverflowError(length, width int) error {
	return fmt.Errorf("%w: length=%d, width=%d", ErrEncodingOverflow, length, width)
}

// EncodeFixed 原样复制 raw 并在尾部补零至 width。
// len(raw) > width 时返回 ErrEncodingOverflow，不做截断。
func EncodeFixed(raw []byte, width int) ([]byte, error) {
	if len(raw) > width {
		return nil, WrapOverflowError(len(raw), width)
	}
	out := make([]byte, width)
	copy(out, raw)
	return out, nil
}

// EncodeNullable 与 EncodeFixed 相同，但每个字节都标记为 Present，补零部分为 Present(0)
func EncodeNullable(raw []byte, width int) ([]NullableByte, error) {
	fixed, err := EncodeFixed(raw, width)
	if err != nil {
		return nil, err
	}
	out := make([]NullableByte, width)
	for i, b := range fixed {
		out[i] = Present(b)
	}
	return out, nil
}

// BlankNullable 返回全部缺失的缓冲区，仅用于空白电路实例
func BlankNullable(width int) []NullableByte {
	return make([]NullableByte, width)
}

// Bytes 取回全部字节；任一位置缺失时 ok 为 false
func Bytes(buf []NullableByte) (out []byte, ok bool) {
	out = make([]byte, len(buf))
	for i, nb := range buf {
		if !nb.Present {
			return nil, false
		}
		out[i] = nb.Value
	}
	return out, true
}
