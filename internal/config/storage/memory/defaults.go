package memory

import "time"

const (
	// defaultMaxMemory 缓存最大内存(MB)，0 表示不限制
	// 单条目不能超过 MaxMemory/Shards，proving key 需要放得下
	defaultMaxMemory = 512

	// defaultMaxEntries 窗口内最大条目数
	// 工件缓存条目少而大，不需要大窗口
	defaultMaxEntries = 256

	// defaultMaxEntrySize 单条目大小提示（字节），仅用于预分配
	defaultMaxEntrySize = 64 << 10

	// defaultShards 分片数（必须是2的幂）
	defaultShards = 16

	// defaultDefaultTTL 默认生命周期
	defaultDefaultTTL = time.Hour

	// defaultCleanupInterval 清理间隔
	defaultCleanupInterval = 10 * time.Minute
)
