package zkproof

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eventconfig "github.com/weisyn/credproof/internal/config/event"
	"github.com/weisyn/credproof/internal/core/credential/artifact"
	"github.com/weisyn/credproof/internal/core/credential/testutil"
	eventimpl "github.com/weisyn/credproof/internal/core/infrastructure/event"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/metrics"
	"github.com/weisyn/credproof/pkg/types"
)

// 可信设置与证明生成耗时较长，同一包内的测试共享一套设置和一份场景证明
var (
	sharedOnce     sync.Once
	sharedManager  *Manager
	sharedStore    *testutil.MockArtifactStore
	sharedRecorder *testutil.MockRecorder
	sharedBus      *eventimpl.EventBus
	sharedSetup    *types.SetupArtifacts
	sharedProof    *types.ProofOutput
	sharedErr      error
)

func setupShared(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping groth16 setup in short mode")
	}
	sharedOnce.Do(func() {
		sharedStore = testutil.NewTestArtifactStore()
		sharedRecorder = &testutil.MockRecorder{}
		sharedBus = eventimpl.New(eventconfig.New(nil))
		sharedManager = NewManager(testutil.NewTestLogger(), DefaultManagerConfig(), ManagerDeps{
			Store:    sharedStore,
			Recorder: sharedRecorder,
			EventBus: sharedBus,
		})

		ctx := context.Background()
		if sharedSetup, sharedErr = sharedManager.Setup(ctx); sharedErr != nil {
			return
		}
		sharedProof, sharedErr = sharedManager.CreateProof(ctx, testutil.ScenarioFields(), sharedSetup.ProvingKey)
	})
	require.NoError(t, sharedErr)
}

// incremented 返回第 index 个陈述元素加一后的副本
func incremented(statement []string, index int) []string {
	out := append([]string(nil), statement...)
	v, _ := new(big.Int).SetString(out[index], 10)
	out[index] = v.Add(v, big.NewInt(1)).String()
	return out
}

func TestManager_ScenarioRoundTrip(t *testing.T) {
	setupShared(t)
	ctx := context.Background()
	fields := testutil.ScenarioFields()

	assert.NotEmpty(t, sharedProof.ProofID)
	assert.Len(t, sharedProof.Statement, 641)
	assert.Regexp(t, "^0x[0-9a-f]+$", sharedProof.Proof)
	assert.Regexp(t, "^0x[0-9a-f]{64}$", sharedProof.Commitment)
	assert.Regexp(t, "^0x[0-9a-f]{80}$", sharedProof.NameBirthDigest)

	// 验证方可以只凭公开文本重建陈述
	derived, err := DeriveStatement(sharedProof.Commitment, fields.ID, sharedProof.NameBirthDigest)
	require.NoError(t, err)
	assert.Equal(t, sharedProof.Statement, derived.Strings())

	valid, err := sharedManager.Verify(ctx, sharedProof.Proof, sharedSetup.VerifyingKey, sharedProof.Statement)
	require.NoError(t, err)
	assert.True(t, valid)

	// 链下计算的承诺与证明中的一致
	_, comp, err := sharedManager.Compose(fields)
	require.NoError(t, err)
	assert.Equal(t, sharedProof.Statement[0], comp.Commitment.BigInt().String())
}

func TestManager_VerifyRejectsTamperedStatement(t *testing.T) {
	setupShared(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		index int
	}{
		{"commitment", 0},
		{"id bit", 1 + 5},
		{"name birth digest bit", 1 + 320 + 17},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := sharedManager.Verify(ctx, sharedProof.Proof, sharedSetup.VerifyingKey,
				incremented(sharedProof.Statement, tt.index))
			require.NoError(t, err, "无效证明不是硬错误")
			assert.False(t, valid)
		})
	}
}

func TestManager_VerifyRejectsFlippedCommitmentBit(t *testing.T) {
	setupShared(t)

	statement, err := ParseStatement(sharedProof.Statement)
	require.NoError(t, err)

	commitment := statement.Commitment()
	commitment[0] ^= 0x01
	flipped := append(Statement(nil), statement...)
	flipped[0] = commitment.Element()

	valid, err := sharedManager.VerifyStatement(context.Background(), mustHex(t, sharedProof.Proof),
		mustHex(t, sharedSetup.VerifyingKey), flipped)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestManager_DeriveStatementRejectsCommitmentAlias(t *testing.T) {
	setupShared(t)

	raw := mustHex(t, sharedProof.Commitment)
	be := make([]byte, len(raw))
	for i := range raw {
		be[i] = raw[len(raw)-1-i]
	}
	alias := new(big.Int).Add(new(big.Int).SetBytes(be), fr.Modulus())
	aliasBE := alias.FillBytes(make([]byte, len(raw)))
	aliasLE := make([]byte, len(raw))
	for i := range aliasBE {
		aliasLE[i] = aliasBE[len(aliasBE)-1-i]
	}

	_, err := DeriveStatement(artifact.ToHex(aliasLE), testutil.ScenarioFields().ID, sharedProof.NameBirthDigest)
	assert.ErrorIs(t, err, ErrInvalidStatement)
}

func TestManager_VerifyRejectsOtherPrivateInputs(t *testing.T) {
	setupShared(t)
	ctx := context.Background()

	fields := testutil.ScenarioFields()
	fields.Secret = "12345679"
	other, err := sharedManager.CreateProof(ctx, fields, sharedSetup.ProvingKey)
	require.NoError(t, err)
	assert.NotEqual(t, sharedProof.Commitment, other.Commitment)

	// 另一组私有输入的证明不能满足原陈述
	valid, err := sharedManager.Verify(ctx, other.Proof, sharedSetup.VerifyingKey, sharedProof.Statement)
	require.NoError(t, err)
	assert.False(t, valid)

	// 但满足它自己的陈述
	valid, err = sharedManager.Verify(ctx, other.Proof, sharedSetup.VerifyingKey, other.Statement)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestManager_VerifyStatementLength(t *testing.T) {
	setupShared(t)
	ctx := context.Background()

	short := sharedProof.Statement[:640]
	long := append(append([]string(nil), sharedProof.Statement...), "0")

	for _, st := range [][]string{short, long, nil} {
		valid, err := sharedManager.Verify(ctx, sharedProof.Proof, sharedSetup.VerifyingKey, st)
		assert.ErrorIs(t, err, ErrStatementLength)
		assert.False(t, valid)
	}

	// 长度检查先于工件解码
	_, err := sharedManager.Verify(ctx, "not hex", "not hex", short)
	assert.ErrorIs(t, err, ErrStatementLength)
}

func TestManager_VerifyMalformedArtifacts(t *testing.T) {
	setupShared(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		proof string
		vk    string
	}{
		{"proof not hex", "0xzz", sharedSetup.VerifyingKey},
		{"proof truncated", "0x1234", sharedSetup.VerifyingKey},
		{"proof trailing bytes", sharedProof.Proof + "00", sharedSetup.VerifyingKey},
		{"vk not hex", sharedProof.Proof, "0xg0"},
		{"vk truncated", sharedProof.Proof, sharedSetup.VerifyingKey[:100]},
		{"vk empty", sharedProof.Proof, "0x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid, err := sharedManager.Verify(ctx, tt.proof, tt.vk, sharedProof.Statement)
			assert.ErrorIs(t, err, ErrArtifactDeserialization)
			assert.False(t, valid)
		})
	}

	_, err := sharedManager.Verify(ctx, sharedProof.Proof, sharedSetup.VerifyingKey,
		append(append([]string(nil), sharedProof.Statement[:640]...), "abc"))
	assert.ErrorIs(t, err, ErrInvalidStatement)
}

func TestManager_CreateProofErrors(t *testing.T) {
	setupShared(t)
	ctx := context.Background()

	oversized := testutil.ScenarioFields()
	oversized.Secret = "11223344556677"
	_, err := sharedManager.CreateProof(ctx, oversized, sharedSetup.ProvingKey)
	assert.ErrorIs(t, err, ErrEncodingOverflow)

	// 编码错误先于 proving key 反序列化
	_, err = sharedManager.CreateProof(ctx, oversized, "0x00")
	assert.ErrorIs(t, err, ErrEncodingOverflow)

	badField := testutil.ScenarioFields()
	badField.ID = "0OIl"
	_, err = sharedManager.CreateProof(ctx, badField, sharedSetup.ProvingKey)
	assert.ErrorIs(t, err, ErrFieldDecoding)

	_, err = sharedManager.CreateProof(ctx, testutil.ScenarioFields(), "0x0102")
	assert.ErrorIs(t, err, ErrArtifactDeserialization)

	_, err = sharedManager.CreateProof(ctx, testutil.ScenarioFields(), "xyz")
	assert.ErrorIs(t, err, ErrArtifactDeserialization)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = sharedManager.CreateProof(cancelled, testutil.ScenarioFields(), sharedSetup.ProvingKey)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestManager_SetupIsStable(t *testing.T) {
	setupShared(t)

	again, err := sharedManager.Setup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sharedSetup, again, "同一进程内重复 Setup 返回同一套工件")

	count, err := sharedManager.PublicInputCount()
	require.NoError(t, err)
	assert.Equal(t, 641, count)

	constraints, err := sharedManager.ConstraintCount()
	require.NoError(t, err)
	assert.Greater(t, constraints, 0)
}

func TestManager_PersistAndReload(t *testing.T) {
	setupShared(t)
	ctx := context.Background()

	require.NoError(t, sharedManager.SaveSetup(ctx, "persist"))
	names, err := sharedManager.ListSetups(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, "persist")

	// 新进程：从共享存储加载同一套设置
	reloaded := NewManager(testutil.NewTestLogger(), DefaultManagerConfig(), ManagerDeps{Store: sharedStore})
	require.NoError(t, reloaded.LoadSetup(ctx, "persist"))

	artifacts, err := reloaded.Setup(ctx)
	require.NoError(t, err)
	assert.Equal(t, sharedSetup.VerifyingKey, artifacts.VerifyingKey)

	valid, err := reloaded.Verify(ctx, sharedProof.Proof, artifacts.VerifyingKey, sharedProof.Statement)
	require.NoError(t, err)
	assert.True(t, valid, "旧证明在重新加载的设置下仍然有效")

	err = reloaded.LoadSetup(ctx, "missing")
	assert.ErrorIs(t, err, ErrSetupNotFound)
}

func TestManager_EnsureSetup(t *testing.T) {
	setupShared(t)
	ctx := context.Background()

	artifacts, err := sharedManager.EnsureSetup(ctx, "ensure")
	require.NoError(t, err)
	assert.Equal(t, sharedSetup.VerifyingKey, artifacts.VerifyingKey)

	exists, err := sharedStore.Exists(ctx, verifyingKeyKey("ensure"))
	require.NoError(t, err)
	assert.True(t, exists, "EnsureSetup 在未找到时应保存")

	// 第二次走加载路径
	artifacts, err = sharedManager.EnsureSetup(ctx, "ensure")
	require.NoError(t, err)
	assert.Equal(t, sharedSetup.ProvingKey, artifacts.ProvingKey)
}

func TestManager_LoadSetupRejectsOtherHashSeed(t *testing.T) {
	setupShared(t)
	ctx := context.Background()
	require.NoError(t, sharedManager.SaveSetup(ctx, "seeded"))

	cfg := DefaultManagerConfig()
	cfg.HashSeed = "credproof/pedersen/jubjub/other"
	other := NewManager(testutil.NewTestLogger(), cfg, ManagerDeps{Store: sharedStore})

	err := other.LoadSetup(ctx, "seeded")
	require.ErrorIs(t, err, ErrSetupMismatch)
	assert.Contains(t, err.Error(), "hash_seed")

	// 不匹配不是"不存在"，EnsureSetup 不会静默覆盖
	_, err = other.EnsureSetup(ctx, "seeded")
	assert.ErrorIs(t, err, ErrSetupMismatch)
}

func TestManager_WithoutStore(t *testing.T) {
	m := NewManager(testutil.NewTestLogger(), nil, ManagerDeps{})
	ctx := context.Background()

	assert.ErrorIs(t, m.SaveSetup(ctx, "x"), ErrStoreUnavailable)
	assert.ErrorIs(t, m.LoadSetup(ctx, "x"), ErrStoreUnavailable)
	_, err := m.ListSetups(ctx)
	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestManager_MetricsAndEvents(t *testing.T) {
	setupShared(t)
	ctx := context.Background()

	var mu sync.Mutex
	var verified []*ProofVerifiedEvent
	handler := func(e *ProofVerifiedEvent) {
		mu.Lock()
		defer mu.Unlock()
		verified = append(verified, e)
	}
	require.NoError(t, sharedBus.Subscribe(event.EventTypeProofVerified, handler))
	defer sharedBus.Unsubscribe(event.EventTypeProofVerified, handler)

	validBefore := sharedRecorder.VerifyCount(metrics.VerifyValid)
	invalidBefore := sharedRecorder.VerifyCount(metrics.VerifyInvalid)
	errorBefore := sharedRecorder.VerifyCount(metrics.VerifyError)

	_, err := sharedManager.Verify(ctx, sharedProof.Proof, sharedSetup.VerifyingKey, sharedProof.Statement)
	require.NoError(t, err)
	_, err = sharedManager.Verify(ctx, sharedProof.Proof, sharedSetup.VerifyingKey, incremented(sharedProof.Statement, 0))
	require.NoError(t, err)
	_, err = sharedManager.Verify(ctx, sharedProof.Proof, sharedSetup.VerifyingKey, nil)
	require.Error(t, err)

	assert.Equal(t, validBefore+1, sharedRecorder.VerifyCount(metrics.VerifyValid))
	assert.Equal(t, invalidBefore+1, sharedRecorder.VerifyCount(metrics.VerifyInvalid))
	assert.Equal(t, errorBefore+1, sharedRecorder.VerifyCount(metrics.VerifyError))
	assert.Greater(t, sharedRecorder.Constraints, 0)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, verified, 2, "格式错误的输入不发布验证事件")
	assert.True(t, verified[0].Valid)
	assert.False(t, verified[1].Valid)
	assert.Equal(t, sharedProof.Commitment, verified[0].Commitment)

	assert.NotEmpty(t, sharedBus.GetEventHistory(event.EventTypeSetupCompleted))
	assert.NotEmpty(t, sharedBus.GetEventHistory(event.EventTypeProofCreated))
}

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := artifact.FromHex(s)
	require.NoError(t, err)
	return b
}
