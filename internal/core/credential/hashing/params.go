// Package hashing 实现 Jubjub 上的 Pedersen 二合一抗碰撞哈希以及两阶段承诺组合。
//
// 输入按字节分窗：第 w 个字节的第 j 位（低位优先）对应生成元 2^j·B_w，
// 摘要为点和的 x 坐标。B_w 由种子经 SHAKE256 试探映射到曲线并清除余因子得到，
// 各生成元之间不存在已知的离散对数关系。
package hashing

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/twistededwards"
	"golang.org/x/crypto/sha3"
)

const (
	// WindowSize 每个窗口的位数
	WindowSize = 8
	// NumWindows 窗口数量
	NumWindows = 128
	// MaxInputBytes 单次哈希允许的最大输入字节数
	MaxInputBytes = WindowSize * NumWindows / 8

	// DefaultSeed 默认参数种子
	DefaultSeed = "credproof/pedersen/jubjub/v1"

	// 每次试探读取的字节数，多出的部分在约减时平滑偏差
	sampleBytes = 48
)

// ErrEmptySeed 参数种子为空
var ErrEmptySeed = errors.New("empty hash parameter seed")

// Params 是 Pedersen 哈希的公共参数，构造后只读，可在多个 goroutine 间共享
type Params struct {
	seed       string
	generators [NumWindows][WindowSize]twistededwards.PointAffine
}

// NewParams 由种子确定性地派生全部生成元
func NewParams(seed string) (*Params, error) {
	if seed == "" {
		return nil, ErrEmptySeed
	}

	curve := twistededwards.GetEdwardsCurve()
	var cofactor big.Int
	curve.Cofactor.BigInt(&cofactor)

	p := &Params{seed: seed}
	for w := 0; w < NumWindows; w++ {
		base, err := hashToCurve(seed, uint32(w), &curve, &cofactor)
		if err != nil {
			return nil, err
		}
		p.generators[w][0] = base
		for j := 1; j < WindowSize; j++ {
			p.generators[w][j].Double(&p.generators[w][j-1])
		}
	}
	return p, nil
}

// Seed 返回派生参数所用的种子
func (p *Params) Seed() string {
	return p.seed
}

// Generator 返回第 window 个字节第 bit 位对应的生成元
func (p *Params) Generator(window, bit int) twistededwards.PointAffine {
	return p.generators[window][bit]
}

// hashToCurve 试探-递增地把 (seed, window, counter) 映射为素数阶子群中的非单位元点
func hashToCurve(seed string, window uint32, curve *twistededwards.CurveParams, cofactor *big.Int) (twistededwards.PointAffine, error) {
	var buf [sampleBytes]byte
	var tag [8]byte
	binary.BigEndian.PutUint32(tag[:4], window)

	for counter := uint32(0); counter < 1<<16; counter++ {
		binary.BigEndian.PutUint32(tag[4:], counter)

		h := sha3.NewShake256()
		_, _ = h.Write([]byte(seed))
		_, _ = h.Write(tag[:])
		_, _ = h.Read(buf[:])

		var y, y2, num, den, x2, x fr.Element
		y.SetBytes(buf[:])

		// x^2 = (1 - y^2) / (a - d·y^2)
		y2.Square(&y)
		num.SetOne().Sub(&num, &y2)
		den.Mul(&curve.D, &y2)
		den.Sub(&curve.A, &den)
		if den.IsZero() {
			continue
		}
		x2.Div(&num, &den)
		if x.Sqrt(&x2) == nil {
			continue
		}

		candidate := twistededwards.PointAffine{X: x, Y: y}
		if !candidate.IsOnCurve() {
			continue
		}

		var point twistededwards.PointAffine
		point.ScalarMultiplication(&candidate, cofactor)
		if point.IsZero() {
			continue
		}
		return point, nil
	}
	return twistededwards.PointAffine{}, fmt.Errorf("无法为窗口 %d 派生生成元", window)
}
