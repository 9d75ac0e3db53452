package zkproof

import (
	"context"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"

	"github.com/weisyn/credproof/internal/core/credential/testutil"
)

func TestProver_ProvingKeyCacheBounded(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.ProvingKeyCacheSize = 2
	p := NewProver(testutil.NewTestLogger(), nil, cfg)

	pk := groth16.NewProvingKey(ecc.BLS12_381)
	for i := 0; i < 5; i++ {
		p.rememberProvingKey([]byte{byte(i)}, pk)
	}

	assert.Equal(t, 2, p.pkCache.Len())
	assert.True(t, p.pkCache.Contains(sha3.Sum256([]byte{4})))
	assert.True(t, p.pkCache.Contains(sha3.Sum256([]byte{3})))
	assert.False(t, p.pkCache.Contains(sha3.Sum256([]byte{0})))
}

func TestProver_CacheSizeFallsBackToDefault(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.ProvingKeyCacheSize = 0
	cfg.VerifyingKeyCacheSize = -1

	p := NewProver(testutil.NewTestLogger(), nil, cfg)
	v := NewValidator(testutil.NewTestLogger(), cfg)
	require.NotNil(t, p.pkCache)
	require.NotNil(t, v.vkCache)
}

func TestValidator_VerifyingKeyCacheEvictsLeastRecentlyUsed(t *testing.T) {
	setupShared(t)
	ctx := context.Background()

	cfg := DefaultManagerConfig()
	cfg.VerifyingKeyCacheSize = 1
	v := NewValidator(testutil.NewTestLogger(), cfg)

	stale := sha3.Sum256([]byte("stale"))
	v.vkCache.Add(stale, groth16.NewVerifyingKey(ecc.BLS12_381))

	vk := mustHex(t, sharedSetup.VerifyingKey)
	proof := mustHex(t, sharedProof.Proof)
	statement, err := ParseStatement(sharedProof.Statement)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		valid, err := v.Verify(ctx, proof, vk, statement)
		require.NoError(t, err)
		assert.True(t, valid)
	}

	assert.Equal(t, 1, v.vkCache.Len())
	assert.False(t, v.vkCache.Contains(stale))
	assert.True(t, v.vkCache.Contains(sha3.Sum256(vk)))
}
