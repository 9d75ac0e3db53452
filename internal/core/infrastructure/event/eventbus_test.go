package event

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	eventconfig "github.com/weisyn/credproof/internal/config/event"
	"github.com/weisyn/credproof/pkg/interfaces/infrastructure/event"
)

const testEvent event.EventType = "test-event"

func TestEventBus(t *testing.T) {
	eventBus := New(eventconfig.New(nil))

	// 同步订阅
	var received string
	handler := func(data string) { received = data }
	require.NoError(t, eventBus.Subscribe(testEvent, handler))
	assert.True(t, eventBus.HasCallback(testEvent))

	eventBus.Publish(testEvent, "hello world")
	assert.Equal(t, "hello world", received)

	// 异步订阅
	var asyncData string
	var wg sync.WaitGroup
	wg.Add(1)
	require.NoError(t, eventBus.SubscribeAsync("async-event", func(data string) {
		asyncData = data
		wg.Done()
	}, false))

	eventBus.Publish("async-event", "async data")
	eventBus.WaitAsync()
	wg.Wait()
	assert.Equal(t, "async data", asyncData)

	// 取消订阅
	require.NoError(t, eventBus.Unsubscribe(testEvent, handler))
	received = ""
	eventBus.Publish(testEvent, "should not receive")
	assert.Empty(t, received)
}

func TestEventBus_History(t *testing.T) {
	eventBus := New(eventconfig.NewFromOptions(&eventconfig.EventOptions{
		Enabled:       true,
		HistoryLength: 2,
	}))

	eventBus.Publish(testEvent, 1)
	eventBus.Publish(testEvent, 2)
	eventBus.Publish(testEvent, 3)
	eventBus.Publish("other", "x")

	assert.Equal(t, []interface{}{2, 3}, eventBus.GetEventHistory(testEvent))
	assert.Equal(t, []interface{}{"x"}, eventBus.GetEventHistory("other"))
	assert.Empty(t, eventBus.GetEventHistory("missing"))
}

func TestEventBus_Disabled(t *testing.T) {
	eventBus := New(eventconfig.NewFromOptions(&eventconfig.EventOptions{
		Enabled:       false,
		HistoryLength: 10,
	}))

	called := false
	require.NoError(t, eventBus.Subscribe(testEvent, func(int) { called = true }))
	eventBus.Publish(testEvent, 1)
	eventBus.WaitAsync()

	assert.False(t, called)
	assert.False(t, eventBus.HasCallback(testEvent))
	assert.Empty(t, eventBus.GetEventHistory(testEvent))
}
