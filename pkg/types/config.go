package types

// AppConfig 应用配置（对应 JSON 配置文件）
//
// 所有字段均为指针，只有配置文件中实际出现的字段才会覆盖默认值。
type AppConfig struct {
	AppName *string `json:"app_name,omitempty"` // 应用名称
	DataDir *string `json:"data_dir,omitempty"` // 数据目录路径

	Log     *UserLogConfig     `json:"log,omitempty"`
	Proof   *UserProofConfig   `json:"proof,omitempty"`
	Storage *UserStorageConfig `json:"storage,omitempty"`
	Metrics *UserMetricsConfig `json:"metrics,omitempty"`
	Event   *UserEventConfig   `json:"event,omitempty"`
}

// UserLogConfig 用户日志配置
type UserLogConfig struct {
	Level     *string `json:"level,omitempty"`      // 日志级别：debug, info, warn, error, fatal
	FilePath  *string `json:"file_path,omitempty"`  // 日志文件路径
	ToConsole *bool   `json:"to_console,omitempty"` // 是否输出到控制台
}

// UserProofConfig 用户证明配置
type UserProofConfig struct {
	Curve               *string `json:"curve,omitempty"`                 // 椭圆曲线（目前仅 bls12-381）
	ProvingScheme       *string `json:"proving_scheme,omitempty"`        // 证明方案（目前仅 groth16）
	HashSeed            *string `json:"hash_seed,omitempty"`             // Pedersen 参数派生种子
	ArtifactBackend     *string `json:"artifact_backend,omitempty"`      // badger | redis | memory
	MaxConcurrentProofs *int    `json:"max_concurrent_proofs,omitempty"` // 最大并发证明数
	CompressArtifacts   *bool   `json:"compress_artifacts,omitempty"`    // 是否压缩存储的工件
}

// UserStorageConfig 用户存储配置
type UserStorageConfig struct {
	DataRoot  *string `json:"data_root,omitempty"`  // 数据根目录
	RedisAddr *string `json:"redis_addr,omitempty"` // Redis 地址（artifact_backend=redis 时使用）
	RedisDB   *int    `json:"redis_db,omitempty"`   // Redis 库编号
}

// UserMetricsConfig 用户指标配置
type UserMetricsConfig struct {
	Enabled   *bool   `json:"enabled,omitempty"`
	Namespace *string `json:"namespace,omitempty"`
}

// UserEventConfig 用户事件配置
type UserEventConfig struct {
	Enabled       *bool `json:"enabled,omitempty"`
	HistoryLength *int  `json:"history_length,omitempty"`
}

// StringPtr 返回字符串指针
func StringPtr(s string) *string { return &s }

// BoolPtr 返回布尔指针
func BoolPtr(b bool) *bool { return &b }

// IntPtr 返回整数指针
func IntPtr(i int) *int { return &i }
