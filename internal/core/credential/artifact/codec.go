// Package artifact 负责证明产物（证明密钥、验证密钥、证明）的十六进制文本编解码。
package artifact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Prefix 外部表示使用的十六进制前缀
const Prefix = "0x"

// ErrInvalidHex 十六进制文本格式错误
var ErrInvalidHex = errors.New("invalid hex artifact")

// ToHex 将字节编码为带 0x 前缀的小写十六进制文本
func ToHex(b []byte) string {
	return hexutil.Encode(b)
}

// FromHex 是 ToHex 的逆操作，0x 前缀可选。
// 奇数长度或包含非十六进制字符时返回 ErrInvalidHex。
func FromHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !HasPrefix(s) {
		s = Prefix + s
	}

	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return b, nil
}

// HasPrefix 判断文本是否带 0x/0X 前缀
func HasPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}
