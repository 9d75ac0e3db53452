package circuits

import (
	"github.com/consensys/gnark/frontend"
	"github.com/weisyn/credproof/internal/core/credential/encoding"
	"github.com/weisyn/credproof/internal/core/credential/hashing"
)

const (
	// IDBits 公开 id 位数
	IDBits = encoding.IDWidth * 8
	// NameBirthDigestBits 公开 name/birth 摘要位数
	NameBirthDigestBits = encoding.NameBirthDigestWidth * 8
	// PublicInputCount 公开陈述长度：承诺 + id 位 + 摘要位
	PublicInputCount = 1 + IDBits + NameBirthDigestBits
)

// CredentialCircuit 凭证承诺电路。
//
// 公开输入按声明顺序排列：Commitment、ID 的 320 位、NameBirthDigest 的 320 位，
// 每个字节内低位优先。Secret 与 Nonce 以字节为单位作为私有见证，在电路内分解为 8 位。
// 电路约束 H(id∥secret∥nonce∥digest) 的 x 坐标等于 Commitment。
type CredentialCircuit struct {
	Commitment      frontend.Variable                       `gnark:",public"`
	ID              [IDBits]frontend.Variable               `gnark:",public"`
	NameBirthDigest [NameBirthDigestBits]frontend.Variable  `gnark:",public"`
	Secret          [encoding.SecretWidth]frontend.Variable `gnark:",secret"`
	Nonce           [encoding.NonceWidth]frontend.Variable  `gnark:",secret"`

	params *hashing.Params `gnark:"-"`
}

// NewBlankCircuit 创建只有形状、没有取值的空白实例，用于编译和可信设置
func NewBlankCircuit(params *hashing.Params) *CredentialCircuit {
	return &CredentialCircuit{params: params}
}

// Define 定义电路约束
func (c *CredentialCircuit) Define(api frontend.API) error {
	hasher, err := NewPedersenHasher(api, c.params)
	if err != nil {
		return err
	}

	bits := make([]frontend.Variable, 0, hashing.CommitmentPreimageSize*8)
	for _, b := range c.ID {
		api.AssertIsBoolean(b)
		bits = append(bits, b)
	}
	for _, v := range c.Secret {
		bits = append(bits, api.ToBinary(v, 8)...)
	}
	for _, v := range c.Nonce {
		bits = append(bits, api.ToBinary(v, 8)...)
	}
	for _, b := range c.NameBirthDigest {
		api.AssertIsBoolean(b)
		bits = append(bits, b)
	}

	image, err := hasher.HashBits(bits)
	if err != nil {
		return err
	}
	api.AssertIsEqual(image, c.Commitment)
	return nil
}
