package proof

// 证明流水线配置默认值
const (
	// defaultCurve 默认椭圆曲线
	// 承诺哈希使用 Jubjub（定义在 BLS12-381 标量域上），电路只能编译到 BLS12-381
	defaultCurve = "bls12-381"

	// defaultProvingScheme 默认证明方案
	defaultProvingScheme = "groth16"

	// defaultHashSeed Pedersen 生成元派生种子
	// 修改种子会改变所有承诺值，使已签发的证明全部失效
	defaultHashSeed = "credproof/pedersen/jubjub/v1"

	// defaultArtifactBackend 默认工件存储后端
	defaultArtifactBackend = "badger"

	// defaultCompressArtifacts 默认压缩持久化的工件
	defaultCompressArtifacts = true

	// proofMemoryFootprint 单个证明生成的内存估算（字节）
	proofMemoryFootprint = 512 << 20

	// minConcurrentProofs / maxConcurrentProofs 并发证明数上下限
	minConcurrentProofs = 1
	maxConcurrentProofs = 16
)
