// Package circuits 定义凭证承诺电路及其 Pedersen 哈希组件。
package circuits

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/weisyn/credproof/internal/core/credential/hashing"
)

var (
	// ErrParamsMissing 电路缺少哈希参数
	ErrParamsMissing = errors.New("hash parameters missing")

	// ErrTooManyBits 输入位数超过窗口容量
	ErrTooManyBits = errors.New("too many input bits")
)

// PedersenHasher 是 hashing.Params 在电路中的对应实现，
// 对同一字节序列与链下 Params.Hash 得到相同的 x 坐标
type PedersenHasher struct {
	api    frontend.API
	curve  twistededwards.Curve
	params *hashing.Params
}

// NewPedersenHasher 创建 Pedersen 哈希组件，曲线固定为 BLS12-381 上的 Jubjub
func NewPedersenHasher(api frontend.API, params *hashing.Params) (*PedersenHasher, error) {
	if params == nil {
		return nil, ErrParamsMissing
	}
	curve, err := twistededwards.NewEdCurve(api, tedwards.BLS12_381)
	if err != nil {
		return nil, fmt.Errorf("创建 Jubjub 曲线失败: %w", err)
	}
	return &PedersenHasher{api: api, curve: curve, params: params}, nil
}

// HashBits 对按字节分组、字节内低位优先的位序列求哈希。
// 每一位选择常量生成元或单位元：(b·Gx, 1 + b·(Gy-1))，调用方负责保证位为布尔值。
func (h *PedersenHasher) HashBits(bits []frontend.Variable) (frontend.Variable, error) {
	if len(bits) > hashing.MaxInputBytes*8 {
		return nil, fmt.Errorf("%w: bits=%d, max=%d", ErrTooManyBits, len(bits), hashing.MaxInputBytes*8)
	}
	if len(bits) == 0 {
		return 0, nil
	}

	var acc twistededwards.Point
	for i, b := range bits {
		gen := h.params.Generator(i/hashing.WindowSize, i%hashing.WindowSize)
		term := h.selectGenerator(b, &gen.X, &gen.Y)
		if i == 0 {
			acc = term
			continue
		}
		acc = h.curve.Add(acc, term)
	}
	return acc.X, nil
}

func (h *PedersenHasher) selectGenerator(b frontend.Variable, gx, gy *fr.Element) twistededwards.Point {
	var one, gyMinusOne fr.Element
	one.SetOne()
	gyMinusOne.Sub(gy, &one)

	return twistededwards.Point{
		X: h.api.Mul(b, gx.BigInt(new(big.Int))),
		Y: h.api.Add(1, h.api.Mul(b, gyMinusOne.BigInt(new(big.Int)))),
	}
}
