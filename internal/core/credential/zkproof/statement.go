package zkproof

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"
	"github.com/mr-tron/base58"
	"github.com/weisyn/credproof/internal/core/credential/artifact"
	"github.com/weisyn/credproof/internal/core/credential/circuits"
	"github.com/weisyn/credproof/internal/core/credential/encoding"
	"github.com/weisyn/credproof/internal/core/credential/hashing"
)

// Statement 公开陈述：承诺，随后是 id 的 320 位和 name/birth 摘要的 320 位，字节内低位优先
type Statement []fr.Element

// BuildStatement 由承诺与公开字节构造陈述
func BuildStatement(
	commitment hashing.Digest,
	id [encoding.IDWidth]byte,
	nameBirth [encoding.NameBirthDigestWidth]byte,
) Statement {
	s := make(Statement, 0, circuits.PublicInputCount)
	s = append(s, commitment.Element())
	for _, bit := range circuits.ByteBits(id[:]) {
		s = append(s, fr.NewElement(uint64(bit)))
	}
	for _, bit := range circuits.ByteBits(nameBirth[:]) {
		s = append(s, fr.NewElement(uint64(bit)))
	}
	return s
}

// DeriveStatement 由公开文本输入构造陈述：承诺为 0x 十六进制（小端），
// id 为 Base58，摘要为十六进制（不足 40 字节时补零）
func DeriveStatement(commitmentHex, idBase58, nameBirthDigestHex string) (Statement, error) {
	commitmentBytes, err := artifact.FromHex(commitmentHex)
	if err != nil {
		return nil, fmt.Errorf("解析承诺失败: %w", err)
	}
	if len(commitmentBytes) != hashing.DigestSize {
		return nil, WrapInvalidStatementError(0, fmt.Sprintf("commitment must be %d bytes", hashing.DigestSize))
	}
	var commitment hashing.Digest
	copy(commitment[:], commitmentBytes)
	// 非规范编码（C+r）会被 SetBytes 约化为同一元素，必须拒绝
	if !commitment.InField() {
		return nil, WrapInvalidStatementError(0, "commitment out of field range")
	}

	rawID, err := base58.Decode(idBase58)
	if err != nil {
		return nil, encoding.WrapFieldDecodingError(encoding.FieldID, err)
	}
	idBuf, err := encoding.EncodeFixed(rawID, encoding.IDWidth)
	if err != nil {
		return nil, err
	}

	rawDigest, err := artifact.FromHex(nameBirthDigestHex)
	if err != nil {
		return nil, fmt.Errorf("解析摘要失败: %w", err)
	}
	digestBuf, err := encoding.EncodeFixed(rawDigest, encoding.NameBirthDigestWidth)
	if err != nil {
		return nil, err
	}

	var id [encoding.IDWidth]byte
	var nameBirth [encoding.NameBirthDigestWidth]byte
	copy(id[:], idBuf)
	copy(nameBirth[:], digestBuf)
	return BuildStatement(commitment, id, nameBirth), nil
}

// ParseStatement 解析十进制（或 0x 十六进制）文本形式的陈述，不检查长度。
// 前导零的十进制仍按十进制解析。
func ParseStatement(values []string) (Statement, error) {
	modulus := fr.Modulus()
	s := make(Statement, len(values))
	for i, v := range values {
		n, ok := parseElementText(strings.TrimSpace(v))
		if !ok {
			return nil, WrapInvalidStatementError(i, "not an integer")
		}
		if n.Sign() < 0 || n.Cmp(modulus) >= 0 {
			return nil, WrapInvalidStatementError(i, "out of field range")
		}
		s[i].SetBigInt(n)
	}
	return s, nil
}

func parseElementText(v string) (*big.Int, bool) {
	if digits, found := strings.CutPrefix(v, "0x"); found {
		return new(big.Int).SetString(digits, 16)
	}
	if digits, found := strings.CutPrefix(v, "0X"); found {
		return new(big.Int).SetString(digits, 16)
	}
	return new(big.Int).SetString(v, 10)
}

// Strings 返回十进制文本形式
func (s Statement) Strings() []string {
	out := make([]string, len(s))
	for i := range s {
		out[i] = s[i].String()
	}
	return out
}

// Validate 检查陈述长度
func (s Statement) Validate() error {
	if len(s) != circuits.PublicInputCount {
		return WrapStatementLengthError(len(s))
	}
	return nil
}

// Commitment 返回陈述中的承诺
func (s Statement) Commitment() hashing.Digest {
	return hashing.NewDigest(s[0])
}

// PublicWitness 构造 gnark 公开见证，元素顺序与电路公开字段声明顺序一致
func (s Statement) PublicWitness(curve ecc.ID) (witness.Witness, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	toBig := func(e *fr.Element) *big.Int {
		return e.BigInt(new(big.Int))
	}

	c := circuits.CredentialCircuit{Commitment: toBig(&s[0])}
	for i := range c.ID {
		c.ID[i] = toBig(&s[1+i])
	}
	for i := range c.NameBirthDigest {
		c.NameBirthDigest[i] = toBig(&s[1+circuits.IDBits+i])
	}
	// 公开见证不包含私有字段
	for i := range c.Secret {
		c.Secret[i] = 0
	}
	for i := range c.Nonce {
		c.Nonce[i] = 0
	}

	w, err := frontend.NewWitness(&c, curve.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return nil, fmt.Errorf("构建公开见证失败: %w", err)
	}
	return w, nil
}
