// Package event 定义事件总线接口
package event

// EventType 事件类型
type EventType string

// 凭证证明相关事件
const (
	EventTypeSetupCompleted EventType = "credential.setup.completed"
	EventTypeProofCreated   EventType = "credential.proof.created"
	EventTypeProofVerified  EventType = "credential.proof.verified"
)

// EventBus 事件总线接口
type EventBus interface {
	// Subscribe 同步订阅，handler 必须是函数
	Subscribe(eventType EventType, handler interface{}) error

	// SubscribeAsync 异步订阅
	SubscribeAsync(eventType EventType, handler interface{}, transactional bool) error

	// Unsubscribe 取消订阅
	Unsubscribe(eventType EventType, handler interface{}) error

	// Publish 发布事件
	Publish(eventType EventType, args ...interface{})

	// HasCallback 是否存在订阅者
	HasCallback(eventType EventType) bool

	// WaitAsync 等待所有异步处理器完成
	WaitAsync()

	// GetEventHistory 获取事件历史
	GetEventHistory(eventType EventType) []interface{}
}
