package encoding

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weisyn/credproof/pkg/types"
)

func TestEncodeFixed_PadsWithZeros(t *testing.T) {
	out, err := EncodeFixed([]byte{1, 2, 3}, SecretWidth)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 0, 0, 0}, out)

	empty, err := EncodeFixed(nil, IDWidth)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, IDWidth), empty)
}

func TestEncodeFixed_DoesNotAliasInput(t *testing.T) {
	raw := []byte{9, 9}
	out, err := EncodeFixed(raw, 4)
	require.NoError(t, err)
	out[0] = 0
	assert.Equal(t, byte(9), raw[0])
}

func TestEncodeFixed_Idempotent(t *testing.T) {
	for n := 0; n <= IDWidth; n++ {
		raw := bytes.Repeat([]byte{0xa5}, n)
		once, err := EncodeFixed(raw, IDWidth)
		require.NoError(t, err)
		twice, err := EncodeFixed(once, IDWidth)
		require.NoError(t, err)
		assert.Equal(t, once, twice, "n=%d", n)
	}
}

func TestEncodeFixed_Overflow(t *testing.T) {
	_, err := EncodeFixed(make([]byte, NonceWidth+1), NonceWidth)
	assert.ErrorIs(t, err, ErrEncodingOverflow)

	_, err = EncodeNullable(make([]byte, IDWidth+1), IDWidth)
	assert.ErrorIs(t, err, ErrEncodingOverflow)
}

func TestEncodeNullable_AllPresent(t *testing.T) {
	buf, err := EncodeNullable([]byte{0xaf, 0xe3}, NonceWidth)
	require.NoError(t, err)
	require.Len(t, buf, NonceWidth)

	for i, nb := range buf {
		assert.True(t, nb.Present, "position %d", i)
	}
	assert.Equal(t, byte(0xaf), buf[0].Value)
	assert.Equal(t, byte(0), buf[5].Value)

	raw, ok := Bytes(buf)
	require.True(t, ok)
	assert.Equal(t, []byte{0xaf, 0xe3, 0, 0, 0, 0}, raw)
}

func TestBlankNullable_AllAbsent(t *testing.T) {
	buf := BlankNullable(SecretWidth)
	require.Len(t, buf, SecretWidth)
	for _, nb := range buf {
		assert.False(t, nb.Present)
	}

	_, ok := Bytes(buf)
	assert.False(t, ok)
}

func TestDecodeFields_Scenario(t *testing.T) {
	raw, err := DecodeFields(types.CredentialFields{
		ID:     "5FLSigC9HGRKVhB9FiEo4Y3koPsNmBmLJbpXg2mp1hXcS59Y",
		Secret: "12345678",
		Nonce:  "afe387d2",
		Name:   "koyamaatsuki",
		Birth:  "20000510",
	})
	require.NoError(t, err)

	assert.LessOrEqual(t, len(raw.ID), IDWidth)
	assert.Greater(t, len(raw.ID), 30)
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x78}, raw.Secret)
	assert.Equal(t, []byte{0xaf, 0xe3, 0x87, 0xd2}, raw.Nonce)
	assert.Equal(t, []byte{0x20, 0x00, 0x05, 0x10}, raw.Birth)
	assert.NotEmpty(t, raw.Name)

	canonical, err := raw.Canonicalize()
	require.NoError(t, err)
	assert.Equal(t, raw.ID, canonical.ID[:len(raw.ID)])
	assert.Equal(t, []byte{0x12, 0x34, 0x56, 0x78, 0, 0}, canonical.Secret[:])
	assert.Equal(t, raw.Name, canonical.Name)
}

func TestDecodeFields_ReportsField(t *testing.T) {
	valid := types.CredentialFields{
		ID:     "5FLSigC9HGRKVhB9FiEo4Y3koPsNmBmLJbpXg2mp1hXcS59Y",
		Secret: "12345678",
		Nonce:  "afe387d2",
		Name:   "koyamaatsuki",
		Birth:  "20000510",
	}

	cases := map[string]func(f *types.CredentialFields){
		FieldID:     func(f *types.CredentialFields) { f.ID = "0OIl" },
		FieldName:   func(f *types.CredentialFields) { f.Name = "" },
		FieldSecret: func(f *types.CredentialFields) { f.Secret = "123" },
		FieldNonce:  func(f *types.CredentialFields) { f.Nonce = "zz" },
		FieldBirth:  func(f *types.CredentialFields) { f.Birth = "2000051g" },
	}
	for field, mutate := range cases {
		t.Run(field, func(t *testing.T) {
			f := valid
			mutate(&f)
			_, err := DecodeFields(f)
			require.ErrorIs(t, err, ErrFieldDecoding)
			assert.Contains(t, err.Error(), "field="+field)
		})
	}
}

func TestCanonicalize_Overflow(t *testing.T) {
	raw := &RawFields{
		ID:     make([]byte, 10),
		Secret: make([]byte, SecretWidth+1),
		Nonce:  make([]byte, 2),
	}
	_, err := raw.Canonicalize()
	require.ErrorIs(t, err, ErrEncodingOverflow)
	assert.Contains(t, err.Error(), FieldSecret)
}
