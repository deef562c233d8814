package hooks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/soyeahso/relay/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager() *Manager {
	return NewManager(logging.New(nil, "silent"))
}

func TestManager_On_And_Emit(t *testing.T) {
	m := testManager()

	var called bool
	m.On(EventSessionStart, "test", func(_ context.Context, p Payload) error {
		called = true
		assert.Equal(t, EventSessionStart, p.Event)
		return nil
	})

	m.Emit(context.Background(), EventSessionStart, nil)
	assert.True(t, called)
}

func TestManager_Emit_MultipleHandlers(t *testing.T) {
	m := testManager()

	var order []string
	m.On(EventMessageReceived, "first", func(_ context.Context, _ Payload) error {
		order = append(order, "first")
		return nil
	})
	m.On(EventMessageReceived, "second", func(_ context.Context, _ Payload) error {
		order = append(order, "second")
		return nil
	})

	m.Emit(context.Background(), EventMessageReceived, nil)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestManager_Emit_WithData(t *testing.T) {
	m := testManager()

	var gotData map[string]any
	m.On(EventMessageReceived, "test", func(_ context.Context, p Payload) error {
		gotData = p.Data
		return nil
	})

	m.Emit(context.Background(), EventMessageReceived, map[string]any{
		"agent":        "order",
		"conversation": "c42",
	})

	assert.Equal(t, "order", gotData["agent"])
	assert.Equal(t, "c42", gotData["conversation"])
}

func TestManager_Emit_HandlerError(t *testing.T) {
	m := testManager()

	var secondCalled bool
	m.On(EventSessionStart, "failing", func(_ context.Context, _ Payload) error {
		return errors.New("handler broke")
	})
	m.On(EventSessionStart, "second", func(_ context.Context, _ Payload) error {
		secondCalled = true
		return nil
	})

	// Should not panic; second handler should still run
	m.Emit(context.Background(), EventSessionStart, nil)
	assert.True(t, secondCalled)
}

func TestManager_Emit_NoHandlers(t *testing.T) {
	m := testManager()
	// Should not panic
	m.Emit(context.Background(), EventSessionEnd, nil)
}

func TestManager_PayloadTime(t *testing.T) {
	m := testManager()
	fixed := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	var got Payload
	m.On(EventRevealComplete, "stamp", func(_ context.Context, p Payload) error {
		got = p
		return nil
	})
	m.Emit(context.Background(), EventRevealComplete, map[string]any{"messageId": "m1"})

	assert.Equal(t, fixed, got.Time)
	assert.Equal(t, "m1", got.Data["messageId"])
}

func TestManager_EmitAsync(t *testing.T) {
	m := testManager()

	var count atomic.Int32
	var wg sync.WaitGroup
	wg.Add(2)

	m.On(EventMessageSending, "async1", func(_ context.Context, _ Payload) error {
		count.Add(1)
		wg.Done()
		return nil
	})
	m.On(EventMessageSending, "async2", func(_ context.Context, _ Payload) error {
		count.Add(1)
		wg.Done()
		return nil
	})

	m.EmitAsync(context.Background(), EventMessageSending, nil)

	// Wait with timeout
	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("async handlers did not complete in time")
	}

	assert.Equal(t, int32(2), count.Load())
}

func TestManager_Count(t *testing.T) {
	m := testManager()

	assert.Equal(t, 0, m.Count(EventSessionStart))

	m.On(EventSessionStart, "h1", func(_ context.Context, _ Payload) error { return nil })
	assert.Equal(t, 1, m.Count(EventSessionStart))

	m.On(EventSessionStart, "h2", func(_ context.Context, _ Payload) error { return nil })
	assert.Equal(t, 2, m.Count(EventSessionStart))
}

func TestManager_Drain(t *testing.T) {
	m := testManager()

	release := make(chan struct{})
	var finished atomic.Bool
	m.On(EventSendFailed, "slow", func(_ context.Context, _ Payload) error {
		<-release
		finished.Store(true)
		return nil
	})

	m.EmitAsync(context.Background(), EventSendFailed, nil)
	assert.False(t, m.Drain(20*time.Millisecond))

	close(release)
	assert.True(t, m.Drain(2*time.Second))
	assert.True(t, finished.Load())
}

func TestManager_DrainWithNothingPending(t *testing.T) {
	assert.True(t, testManager().Drain(time.Millisecond))
}

func TestAllEvents_NotEmpty(t *testing.T) {
	require.NotEmpty(t, AllEvents)
	assert.Contains(t, AllEvents, EventSessionStart)
	assert.Contains(t, AllEvents, EventMessageReceived)
}
