package hashing

import (
	"github.com/weisyn/credproof/internal/core/credential/encoding"
)

// CommitmentPreimageSize 第二阶段原像长度：id∥secret∥nonce∥digest1
const CommitmentPreimageSize = encoding.IDWidth + encoding.SecretWidth + encoding.NonceWidth + encoding.NameBirthDigestWidth

// Composition 两阶段哈希的全部中间结果
type Composition struct {
	// NameBirthDigest 第一阶段摘要
	NameBirthDigest Digest
	// NameBirthBuffer 第一阶段摘要补零到 40 字节后的公开缓冲区
	NameBirthBuffer [encoding.NameBirthDigestWidth]byte
	// Commitment 顶层承诺
	Commitment Digest
}

// SplitNameBirth 拼接 name∥birth，奇数长度时尾部补一个零字节，再从中点切分
func SplitNameBirth(name, birth []byte) (left, right []byte) {
	joined := make([]byte, 0, len(name)+len(birth)+1)
	joined = append(joined, name...)
	joined = append(joined, birth...)
	if len(joined)%2 == 1 {
		joined = append(joined, 0)
	}
	half := len(joined) / 2
	return joined[:half], joined[half:]
}

// ComposeNameBirth 第一阶段：digest1 = H(left, right)
func (p *Params) ComposeNameBirth(name, birth []byte) (Digest, error) {
	left, right := SplitNameBirth(name, birth)
	return p.TwoToOne(left, right)
}

// CommitmentPreimage 按固定顺序拼接第二阶段原像
func CommitmentPreimage(
	id [encoding.IDWidth]byte,
	secret [encoding.SecretWidth]byte,
	nonce [encoding.NonceWidth]byte,
	nameBirth [encoding.NameBirthDigestWidth]byte,
) [CommitmentPreimageSize]byte {
	var out [CommitmentPreimageSize]byte
	n := copy(out[:], id[:])
	n += copy(out[n:], secret[:])
	n += copy(out[n:], nonce[:])
	copy(out[n:], nameBirth[:])
	return out
}

// ComposeCommitment 第二阶段：在中点切分定宽原像，commitment = H(left, right)
func (p *Params) ComposeCommitment(
	id [encoding.IDWidth]byte,
	secret [encoding.SecretWidth]byte,
	nonce [encoding.NonceWidth]byte,
	nameBirth [encoding.NameBirthDigestWidth]byte,
) (Digest, error) {
	preimage := CommitmentPreimage(id, secret, nonce, nameBirth)
	half := CommitmentPreimageSize / 2
	return p.TwoToOne(preimage[:half], preimage[half:])
}

// Compose 依次执行两个阶段
func (p *Params) Compose(fields *encoding.CanonicalFields) (*Composition, error) {
	digest1, err := p.ComposeNameBirth(fields.Name, fields.Birth)
	if err != nil {
		return nil, err
	}

	buf, err := encoding.EncodeFixed(digest1[:], encoding.NameBirthDigestWidth)
	if err != nil {
		return nil, err
	}

	out := &Composition{NameBirthDigest: digest1}
	copy(out.NameBirthBuffer[:], buf)

	out.Commitment, err = p.ComposeCommitment(fields.ID, fields.Secret, fields.Nonce, out.NameBirthBuffer)
	if err != nil {
		return nil, err
	}
	return out, nil
}
