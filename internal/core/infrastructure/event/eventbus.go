// 基于asaskevich/EventBus的事件总线实现，附带按事件类型的有限历史记录

package event

import (
	"sync"

	evbus "github.com/asaskevich/EventBus"
	eventconfig "github.com/weisyn/credproof/internal/config/event"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/event"
)

// EventBus 是基于asaskevich/EventBus的实现
//
// 事件系统关闭时所有操作静默成功；历史记录保存每类事件最近的首个参数。
type EventBus struct {
	bus    evbus.Bus           // 底层事件总线
	config *eventconfig.Config // 配置

	historyMu    sync.RWMutex                      // 历史记录锁
	eventHistory map[event.EventType][]interface{} // 历史事件存储
}

var _ event.EventBus = (*EventBus)(nil)

// New 创建事件总线实例
func New(config *eventconfig.Config) *EventBus {
	if config == nil {
		config = eventconfig.New(nil)
	}
	return &EventBus{
		bus:          evbus.New(),
		config:       config,
		eventHistory: make(map[event.EventType][]interface{}),
	}
}

// Subscribe 实现订阅
func (eb *EventBus) Subscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil // 如果事件系统未启用，静默成功
	}
	return eb.bus.Subscribe(string(eventType), handler)
}

// SubscribeAsync 实现异步订阅
func (eb *EventBus) SubscribeAsync(eventType event.EventType, handler interface{}, transactional bool) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	return eb.bus.SubscribeAsync(string(eventType), handler, transactional)
}

// Unsubscribe 取消订阅
func (eb *EventBus) Unsubscribe(eventType event.EventType, handler interface{}) error {
	if !eb.config.IsEnabled() {
		return nil
	}
	return eb.bus.Unsubscribe(string(eventType), handler)
}

// Publish 实现发布
func (eb *EventBus) Publish(eventType event.EventType, args ...interface{}) {
	if !eb.config.IsEnabled() {
		return
	}
	eb.saveEventToHistory(eventType, args)
	eb.bus.Publish(string(eventType), args...)
}

// HasCallback 是否存在订阅者
func (eb *EventBus) HasCallback(eventType event.EventType) bool {
	if !eb.config.IsEnabled() {
		return false
	}
	return eb.bus.HasCallback(string(eventType))
}

// WaitAsync 等待异步处理完成
func (eb *EventBus) WaitAsync() {
	if !eb.config.IsEnabled() {
		return
	}
	eb.bus.WaitAsync()
}

// GetEventHistory 获取指定类型的事件历史（按发布顺序）
func (eb *EventBus) GetEventHistory(eventType event.EventType) []interface{} {
	eb.historyMu.RLock()
	defer eb.historyMu.RUnlock()
	return append([]interface{}(nil), eb.eventHistory[eventType]...)
}

func (eb *EventBus) saveEventToHistory(eventType event.EventType, args []interface{}) {
	limit := eb.config.GetHistoryLength()
	if limit <= 0 {
		return
	}

	var payload interface{}
	if len(args) > 0 {
		payload = args[0]
	}

	eb.historyMu.Lock()
	defer eb.historyMu.Unlock()

	history := append(eb.eventHistory[eventType], payload)
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	eb.eventHistory[eventType] = history
}
