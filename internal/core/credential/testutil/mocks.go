// Package testutil 提供凭证证明模块测试的辅助工具
//
// 本包提供测试所需的 Mock 对象、测试数据和辅助函数。
package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/metrics"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/storage"
)

// ==================== Mock 对象 ====================

// MockLogger 统一的日志Mock实现，所有方法为空
type MockLogger struct{}

func (m *MockLogger) Debug(msg string)                          {}
func (m *MockLogger) Debugf(format string, args ...interface{}) {}
func (m *MockLogger) Info(msg string)                           {}
func (m *MockLogger) Infof(format string, args ...interface{})  {}
func (m *MockLogger) Warn(msg string)                           {}
func (m *MockLogger) Warnf(format string, args ...interface{})  {}
func (m *MockLogger) Error(msg string)                          {}
func (m *MockLogger) Errorf(format string, args ...interface{}) {}
func (m *MockLogger) Fatal(msg string)                          {}
func (m *MockLogger) Fatalf(format string, args ...interface{}) {}
func (m *MockLogger) With(args ...interface{}) log.Logger       { return m }
func (m *MockLogger) Sync() error                               { return nil }
func (m *MockLogger) GetZapLogger() *zap.Logger                 { return zap.NewNop() }

// BehavioralMockLogger 行为Mock日志（记录格式化后的调用）
type BehavioralMockLogger struct {
	logs  []string
	mutex sync.Mutex
}

func (m *BehavioralMockLogger) record(level, msg string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.logs = append(m.logs, level+": "+msg)
}

func (m *BehavioralMockLogger) Debug(msg string) { m.record("DEBUG", msg) }
func (m *BehavioralMockLogger) Debugf(format string, args ...interface{}) {
	m.record("DEBUG", fmt.Sprintf(format, args...))
}
func (m *BehavioralMockLogger) Info(msg string) { m.record("INFO", msg) }
func (m *BehavioralMockLogger) Infof(format string, args ...interface{}) {
	m.record("INFO", fmt.Sprintf(format, args...))
}
func (m *BehavioralMockLogger) Warn(msg string) { m.record("WARN", msg) }
func (m *BehavioralMockLogger) Warnf(format string, args ...interface{}) {
	m.record("WARN", fmt.Sprintf(format, args...))
}
func (m *BehavioralMockLogger) Error(msg string) { m.record("ERROR", msg) }
func (m *BehavioralMockLogger) Errorf(format string, args ...interface{}) {
	m.record("ERROR", fmt.Sprintf(format, args...))
}
func (m *BehavioralMockLogger) Fatal(msg string) { m.record("FATAL", msg) }
func (m *BehavioralMockLogger) Fatalf(format string, args ...interface{}) {
	m.record("FATAL", fmt.Sprintf(format, args...))
}
func (m *BehavioralMockLogger) With(args ...interface{}) log.Logger { return m }
func (m *BehavioralMockLogger) Sync() error                         { return nil }
func (m *BehavioralMockLogger) GetZapLogger() *zap.Logger           { return zap.NewNop() }

// GetLogs 获取所有日志记录
func (m *BehavioralMockLogger) GetLogs() []string {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return append([]string{}, m.logs...)
}

// Contains 是否存在包含 substr 的日志
func (m *BehavioralMockLogger) Contains(substr string) bool {
	for _, l := range m.GetLogs() {
		if strings.Contains(l, substr) {
			return true
		}
	}
	return false
}

// ClearLogs 清空日志记录
func (m *BehavioralMockLogger) ClearLogs() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.logs = m.logs[:0]
}

// MockArtifactStore 基于 map 的工件存储，TTL 被忽略
type MockArtifactStore struct {
	mutex  sync.RWMutex
	data   map[string][]byte
	closed bool

	// GetErr 非空时 Get 返回该错误
	GetErr error
}

var _ storage.ArtifactStore = (*MockArtifactStore)(nil)

func (s *MockArtifactStore) Get(ctx context.Context, key []byte) ([]byte, error) {
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	v, ok := s.data[string(key)]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (s *MockArtifactStore) Set(ctx context.Context, key, value []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.data[string(key)] = append([]byte(nil), value...)
	return nil
}

func (s *MockArtifactStore) SetWithTTL(ctx context.Context, key, value []byte, ttl time.Duration) error {
	return s.Set(ctx, key, value)
}

func (s *MockArtifactStore) Delete(ctx context.Context, key []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.data, string(key))
	return nil
}

func (s *MockArtifactStore) Exists(ctx context.Context, key []byte) (bool, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	_, ok := s.data[string(key)]
	return ok, nil
}

func (s *MockArtifactStore) PrefixScan(ctx context.Context, prefix []byte) (map[string][]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	out := make(map[string][]byte)
	for k, v := range s.data {
		if strings.HasPrefix(k, string(prefix)) {
			out[k] = append([]byte(nil), v...)
		}
	}
	return out, nil
}

func (s *MockArtifactStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.closed = true
	return nil
}

// Len 返回条目数
func (s *MockArtifactStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.data)
}

// Raw 返回原始存储值
func (s *MockArtifactStore) Raw(key string) []byte {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.data[key]
}

// MockRecorder 记录指标调用次数
type MockRecorder struct {
	mutex       sync.Mutex
	Setups      int
	SetupErrors int
	Proofs      int
	ProofErrors int
	Verifies    map[metrics.VerifyOutcome]int
	Constraints int
}

var _ metrics.ProofRecorder = (*MockRecorder)(nil)

func (r *MockRecorder) ObserveSetup(d time.Duration, err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Setups++
	if err != nil {
		r.SetupErrors++
	}
}

func (r *MockRecorder) ObserveProof(d time.Duration, err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Proofs++
	if err != nil {
		r.ProofErrors++
	}
}

func (r *MockRecorder) ObserveVerify(d time.Duration, outcome metrics.VerifyOutcome) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	if r.Verifies == nil {
		r.Verifies = make(map[metrics.VerifyOutcome]int)
	}
	r.Verifies[outcome]++
}

func (r *MockRecorder) SetConstraintCount(count int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.Constraints = count
}

// VerifyCount 返回某类验证结果的次数
func (r *MockRecorder) VerifyCount(outcome metrics.VerifyOutcome) int {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.Verifies[outcome]
}
