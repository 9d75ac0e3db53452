package event

const (
	// defaultEnabled 默认启用事件系统
	defaultEnabled = true

	// defaultHistoryLength 每类事件保留的历史条数
	defaultHistoryLength = 100
)
