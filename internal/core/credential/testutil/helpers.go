package testutil

import (
	"crypto/rand"

	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/credproof/pkg/types"
)

// NewTestLogger 创建测试用的Logger
func NewTestLogger() log.Logger {
	return &MockLogger{}
}

// NewTestBehavioralLogger 创建行为Logger（记录调用）
func NewTestBehavioralLogger() *BehavioralMockLogger {
	return &BehavioralMockLogger{
		logs: make([]string, 0),
	}
}

// NewTestArtifactStore 创建内存工件存储
func NewTestArtifactStore() *MockArtifactStore {
	return &MockArtifactStore{data: make(map[string][]byte)}
}

// ==================== 测试数据 ====================

// ScenarioFields 返回标准测试凭证
func ScenarioFields() types.CredentialFields {
	return types.CredentialFields{
		ID:     "5FLSigC9HGRKVhB9FiEo4Y3koPsNmBmLJbpXg2mp1hXcS59Y",
		Secret: "12345678",
		Nonce:  "afe387d2",
		Name:   "koyamaatsuki",
		Birth:  "20000510",
	}
}

// RandomBytes 生成随机字节
func RandomBytes(size int) []byte {
	b := make([]byte, size)
	_, _ = rand.Read(b)
	return b
}
