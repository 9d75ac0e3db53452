package zkproof

import (
	"fmt"

	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/event"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/log"
)

// EventLogger 订阅证明流水线事件并写入模块日志
//
// 处理函数在构造时创建一次，Unregister 依赖同一函数值才能取消订阅。
type EventLogger struct {
	logger log.Logger

	onSetup    func(*SetupCompletedEvent)
	onProof    func(*ProofCreatedEvent)
	onVerified func(*ProofVerifiedEvent)
}

// NewEventLogger 创建事件日志订阅者
func NewEventLogger(logger log.Logger) *EventLogger {
	l := &EventLogger{logger: logger}
	l.onSetup = l.handleSetup
	l.onProof = l.handleProof
	l.onVerified = l.handleVerified
	return l
}

// Register 订阅设置、证明与验证事件
func (l *EventLogger) Register(bus event.EventBus) error {
	if bus == nil {
		if l.logger != nil {
			l.logger.Debug("[EventLogger] 事件总线未提供，跳过订阅")
		}
		return nil
	}
	for _, sub := range l.subscriptions() {
		if err := bus.Subscribe(sub.eventType, sub.handler); err != nil {
			return fmt.Errorf("订阅事件 %s 失败: %w", sub.eventType, err)
		}
	}
	return nil
}

// Unregister 取消订阅
func (l *EventLogger) Unregister(bus event.EventBus) error {
	if bus == nil {
		return nil
	}
	for _, sub := range l.subscriptions() {
		if !bus.HasCallback(sub.eventType) {
			continue
		}
		if err := bus.Unsubscribe(sub.eventType, sub.handler); err != nil {
			return fmt.Errorf("取消订阅事件 %s 失败: %w", sub.eventType, err)
		}
	}
	return nil
}

type subscription struct {
	eventType event.EventType
	handler   interface{}
}

func (l *EventLogger) subscriptions() []subscription {
	return []subscription{
		{event.EventTypeSetupCompleted, l.onSetup},
		{event.EventTypeProofCreated, l.onProof},
		{event.EventTypeProofVerified, l.onVerified},
	}
}

func (l *EventLogger) handleSetup(e *SetupCompletedEvent) {
	if e == nil || l.logger == nil {
		return
	}
	source := "loaded"
	if e.Generated {
		source = "generated"
	}
	name := e.Name
	if name == "" {
		name = "-"
	}
	l.logger.Infof("[EventLogger] 可信设置完成: name=%s source=%s constraints=%d duration=%s",
		name, source, e.ConstraintCount, e.Duration)
}

func (l *EventLogger) handleProof(e *ProofCreatedEvent) {
	if e == nil || l.logger == nil {
		return
	}
	l.logger.Infof("[EventLogger] 证明已生成: id=%s commitment=%s duration=%s",
		e.ProofID, e.Commitment, e.Duration)
}

func (l *EventLogger) handleVerified(e *ProofVerifiedEvent) {
	if e == nil || l.logger == nil {
		return
	}
	if !e.Valid {
		l.logger.Warnf("[EventLogger] 证明验证未通过: commitment=%s duration=%s", e.Commitment, e.Duration)
		return
	}
	l.logger.Infof("[EventLogger] 证明验证通过: commitment=%s duration=%s", e.Commitment, e.Duration)
}
