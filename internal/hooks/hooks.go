// Package hooks dispatches chat lifecycle events to registered handlers.
package hooks

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/soyeahso/relay/internal/logging"
)

// Event names for the hook system.
const (
	EventMessageSending  = "message_sending"
	EventMessageReceived = "message_received"
	EventSendFailed      = "send_failed"
	EventRevealComplete  = "reveal_complete"
	EventSessionStart    = "session_start"
	EventSessionEnd      = "session_end"
	EventDevServerStart  = "dev_server_start"
	EventDevServerStop   = "dev_server_stop"
)

// AllEvents lists all known hook event names.
var AllEvents = []string{
	EventMessageSending,
	EventMessageReceived,
	EventSendFailed,
	EventRevealComplete,
	EventSessionStart,
	EventSessionEnd,
	EventDevServerStart,
	EventDevServerStop,
}

// Payload carries event data to hook handlers. Command hooks receive it as
// JSON on stdin.
type Payload struct {
	Event string         `json:"event"`
	Time  time.Time      `json:"time"`
	Data  map[string]any `json:"data,omitempty"`
}

// Handler is a function that handles a hook event.
// Returning an error logs the failure but does not stop processing.
type Handler func(ctx context.Context, p Payload) error

// Manager manages hook registrations and dispatches events.
type Manager struct {
	mu       sync.RWMutex
	handlers map[string][]namedHandler
	log      *logging.Logger
	now      func() time.Time

	// pending tracks handlers started by EmitAsync.
	pending sync.WaitGroup
}

type namedHandler struct {
	name    string
	handler Handler
}

// NewManager creates a hook manager.
func NewManager(log *logging.Logger) *Manager {
	return &Manager{
		handlers: make(map[string][]namedHandler),
		log:      log.Sub("hooks"),
		now:      time.Now,
	}
}

// On registers a handler for the given event.
// The name identifies the handler in logs.
func (m *Manager) On(event, name string, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[event] = append(m.handlers[event], namedHandler{name: name, handler: handler})
	m.log.Debug().Str("event", event).Str("handler", name).Msg("hook registered")
}

func (m *Manager) prepare(event string, data map[string]any) ([]namedHandler, Payload) {
	m.mu.RLock()
	handlers := slices.Clone(m.handlers[event])
	m.mu.RUnlock()
	return handlers, Payload{Event: event, Time: m.now(), Data: data}
}

func (m *Manager) call(ctx context.Context, h namedHandler, p Payload) {
	start := time.Now()
	if err := h.handler(ctx, p); err != nil {
		m.log.Warn().
			Err(err).
			Str("event", p.Event).
			Str("handler", h.name).
			Msg("hook handler error")
		return
	}
	m.log.Debug().
		Str("event", p.Event).
		Str("handler", h.name).
		Dur("took", time.Since(start)).
		Msg("hook handled")
}

// Emit dispatches an event to all registered handlers synchronously.
// Handlers are called in registration order. Errors are logged but do not
// prevent subsequent handlers from running.
func (m *Manager) Emit(ctx context.Context, event string, data map[string]any) {
	handlers, payload := m.prepare(event, data)
	for _, h := range handlers {
		m.call(ctx, h, payload)
	}
}

// EmitAsync dispatches an event to all registered handlers concurrently and
// returns immediately. Use Drain to wait for them.
func (m *Manager) EmitAsync(ctx context.Context, event string, data map[string]any) {
	handlers, payload := m.prepare(event, data)
	for _, h := range handlers {
		m.pending.Add(1)
		go func() {
			defer m.pending.Done()
			m.call(ctx, h, payload)
		}()
	}
}

// Drain waits up to timeout for handlers started by EmitAsync. It reports
// whether they all finished.
func (m *Manager) Drain(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		m.pending.Wait()
		close(done)
	}()

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		m.log.Warn().Dur("timeout", timeout).Msg("hooks still running at shutdown")
		return false
	}
}

// Count returns the number of handlers registered for an event.
func (m *Manager) Count(event string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[event])
}
