package zkproof

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/credproof/internal/core/credential/artifact"
	"github.com/weisyn/credproof/internal/core/credential/circuits"
	"github.com/weisyn/credproof/internal/core/credential/encoding"
	"github.com/weisyn/credproof/internal/core/credential/hashing"
)

func TestBuildStatement_Layout(t *testing.T) {
	var commitment hashing.Digest
	commitment[0] = 7

	var id [encoding.IDWidth]byte
	id[0] = 0x01
	id[39] = 0x80
	var nameBirth [encoding.NameBirthDigestWidth]byte
	nameBirth[1] = 0x02

	s := BuildStatement(commitment, id, nameBirth)
	require.Len(t, s, circuits.PublicInputCount)
	require.NoError(t, s.Validate())

	one := fr.One()
	assert.Equal(t, uint64(7), s[0].Uint64())
	assert.True(t, s[1].Equal(&one), "id 第 0 字节最低位")
	assert.True(t, s[2].IsZero())
	assert.True(t, s[circuits.IDBits].Equal(&one), "id 第 39 字节最高位")
	assert.True(t, s[1+circuits.IDBits+9].Equal(&one), "摘要第 1 字节第 1 位")
	assert.Equal(t, commitment, s.Commitment())
}

func TestParseStatement_RoundTrip(t *testing.T) {
	var commitment hashing.Digest
	for i := range commitment[:31] {
		commitment[i] = byte(i + 1)
	}
	s := BuildStatement(commitment, [encoding.IDWidth]byte{0xff}, [encoding.NameBirthDigestWidth]byte{0x0f})

	parsed, err := ParseStatement(s.Strings())
	require.NoError(t, err)
	assert.Equal(t, s, parsed)
}

func TestParseStatement_Invalid(t *testing.T) {
	_, err := ParseStatement([]string{"1", "abc"})
	require.ErrorIs(t, err, ErrInvalidStatement)
	assert.Contains(t, err.Error(), "index=1")

	_, err = ParseStatement([]string{fr.Modulus().String()})
	assert.ErrorIs(t, err, ErrInvalidStatement)

	_, err = ParseStatement([]string{"-1"})
	assert.ErrorIs(t, err, ErrInvalidStatement)

	hexValue, err := ParseStatement([]string{"0x10"})
	require.NoError(t, err)
	assert.Equal(t, uint64(16), hexValue[0].Uint64())

	_, err = ParseStatement([]string{"0x"})
	assert.ErrorIs(t, err, ErrInvalidStatement)
}

func TestParseStatement_LeadingZeroIsDecimal(t *testing.T) {
	s, err := ParseStatement([]string{"010", "0008", "0"})
	require.NoError(t, err)
	assert.Equal(t, uint64(10), s[0].Uint64())
	assert.Equal(t, uint64(8), s[1].Uint64())
	assert.True(t, s[2].IsZero())
}

func TestStatement_Validate(t *testing.T) {
	s := BuildStatement(hashing.Digest{}, [encoding.IDWidth]byte{}, [encoding.NameBirthDigestWidth]byte{})

	err := s[:len(s)-1].Validate()
	require.ErrorIs(t, err, ErrStatementLength)

	longer := append(append(Statement(nil), s...), fr.NewElement(0))
	assert.ErrorIs(t, longer.Validate(), ErrStatementLength)

	_, err = s[:10].PublicWitness(ecc.BLS12_381)
	assert.ErrorIs(t, err, ErrStatementLength)

	w, err := s.PublicWitness(ecc.BLS12_381)
	require.NoError(t, err)
	assert.NotNil(t, w)
}

func TestDeriveStatement(t *testing.T) {
	rawID := []byte{0x11, 0x22, 0x33}
	var commitment hashing.Digest
	commitment[0] = 0x42
	digest := []byte{0xaa, 0xbb}

	s, err := DeriveStatement(artifact.ToHex(commitment[:]), base58.Encode(rawID), artifact.ToHex(digest))
	require.NoError(t, err)

	var id [encoding.IDWidth]byte
	copy(id[:], rawID)
	var nameBirth [encoding.NameBirthDigestWidth]byte
	copy(nameBirth[:], digest)
	assert.Equal(t, BuildStatement(commitment, id, nameBirth), s)

	_, err = DeriveStatement("0x01", base58.Encode(rawID), "0x")
	assert.ErrorIs(t, err, ErrInvalidStatement)

	_, err = DeriveStatement(artifact.ToHex(commitment[:]), base58.Encode(rawID), artifact.ToHex(make([]byte, 41)))
	assert.ErrorIs(t, err, ErrEncodingOverflow)
}

// leBytes 返回 n 的 32 字节小端编码
func leBytes(n *big.Int) []byte {
	be := n.FillBytes(make([]byte, hashing.DigestSize))
	out := make([]byte, len(be))
	for i := range be {
		out[i] = be[len(be)-1-i]
	}
	return out
}

func TestDeriveStatement_RejectsNonCanonicalCommitment(t *testing.T) {
	id := base58.Encode([]byte{0x01})
	modulus := fr.Modulus()

	// C 与 C+r 约化后是同一个域元素，只接受规范编码
	canonical := big.NewInt(0x42)
	alias := new(big.Int).Add(canonical, modulus)

	s, err := DeriveStatement(artifact.ToHex(leBytes(canonical)), id, "0x")
	require.NoError(t, err)
	assert.Equal(t, "66", s[0].String())

	_, err = DeriveStatement(artifact.ToHex(leBytes(alias)), id, "0x")
	require.ErrorIs(t, err, ErrInvalidStatement)
	assert.Contains(t, err.Error(), "index=0")

	_, err = DeriveStatement(artifact.ToHex(leBytes(modulus)), id, "0x")
	assert.ErrorIs(t, err, ErrInvalidStatement)

	maxCanonical := new(big.Int).Sub(modulus, big.NewInt(1))
	_, err = DeriveStatement(artifact.ToHex(leBytes(maxCanonical)), id, "0x")
	assert.NoError(t, err)
}
