package badger

const (
	// defaultPath 默认数据目录
	defaultPath = "./data/artifacts/badger"

	// defaultSyncWrites 工件写入频率低、价值高，默认同步写
	defaultSyncWrites = true

	// defaultMemTableSize 内存表大小
	defaultMemTableSize = 64 << 20 // 64MB

	// defaultValueLogFileSize value log 文件大小
	// proving key 通常为数十 MB，单文件不宜过小
	defaultValueLogFileSize = 256 << 20 // 256MB

	// defaultInMemory 默认持久化到磁盘
	defaultInMemory = false
)
