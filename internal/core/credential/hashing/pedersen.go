package hashing

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"
)

// DigestSize 摘要字节数（x 坐标的小端序列化）
const DigestSize = fr.Bytes

var (
	// ErrPreimageTooLong 原像超过窗口容量
	ErrPreimageTooLong = errors.New("preimage too long")

	// ErrHalfLengthMismatch 二合一哈希左右两半长度不同
	ErrHalfLengthMismatch = errors.New("two-to-one halves differ in length")
)

// Digest 是 Pedersen 哈希输出，小端字节序
type Digest [DigestSize]byte

// NewDigest 由域元素构造摘要
func NewDigest(x fr.Element) Digest {
	be := x.Bytes()
	var d Digest
	for i := range be {
		d[i] = be[DigestSize-1-i]
	}
	return d
}

// Element 返回摘要对应的域元素
func (d Digest) Element() fr.Element {
	var be [DigestSize]byte
	for i := range d {
		be[i] = d[DigestSize-1-i]
	}
	var x fr.Element
	x.SetBytes(be[:])
	return x
}

// InField 小端整数值是否小于标量域模数，即摘要是否为规范编码
func (d Digest) InField() bool {
	var be [DigestSize]byte
	for i := range d {
		be[i] = d[DigestSize-1-i]
	}
	return new(big.Int).SetBytes(be[:]).Cmp(fr.Modulus()) < 0
}

// BigInt 返回摘要对应的整数值，用作电路公开输入
func (d Digest) BigInt() *big.Int {
	x := d.Element()
	return x.BigInt(new(big.Int))
}

// String 返回十进制表示
func (d Digest) String() string {
	return d.BigInt().String()
}

// Point 计算 Σ bit(w,j)·2^j·B_w，从单位元 (0,1) 开始累加
func (p *Params) Point(input []byte) (twistededwards.PointAffine, error) {
	if len(input) > MaxInputBytes {
		return twistededwards.PointAffine{}, fmt.Errorf("%w: length=%d, max=%d", ErrPreimageTooLong, len(input), MaxInputBytes)
	}

	var acc twistededwards.PointAffine
	acc.Y.SetOne()
	for w, b := range input {
		for j := 0; j < WindowSize; j++ {
			if (b>>uint(j))&1 == 1 {
				acc.Add(&acc, &p.generators[w][j])
			}
		}
	}
	return acc, nil
}

// Hash 对任意不超过 MaxInputBytes 的输入求摘要
func (p *Params) Hash(input []byte) (Digest, error) {
	point, err := p.Point(input)
	if err != nil {
		return Digest{}, err
	}
	return NewDigest(point.X), nil
}

// TwoToOne 对 left∥right 求摘要，要求两半等长
func (p *Params) TwoToOne(left, right []byte) (Digest, error) {
	if len(left) != len(right) {
		return Digest{}, fmt.Errorf("%w: left=%d, right=%d", ErrHalfLengthMismatch, len(left), len(right))
	}
	input := make([]byte, 0, len(left)+len(right))
	input = append(input, left...)
	input = append(input, right...)
	return p.Hash(input)
}
