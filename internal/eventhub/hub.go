package eventhub

import (
	"context"
	"sync"

	"saturn/internal/note"
)

const (
	EventSessionChanged = "session:changed"
	EventSessionError   = "session:error"
)

// Broadcaster 事件广播接口
type Broadcaster interface {
	BroadcastEvent(eventType string, payload interface{})
}

// EventHub 统一事件分发中心
type EventHub struct {
	ctx          context.Context
	mu           sync.RWMutex
	broadcasters []Broadcaster
}

// New 创建新的 EventHub
func New(ctx context.Context) *EventHub {
	return &EventHub{ctx: ctx}
}

// SetBroadcaster adds a sink for events. The desktop window and websocket
// clients can both be attached.
func (h *EventHub) SetBroadcaster(b Broadcaster) {
	if b == nil {
		return
	}
	h.mu.Lock()
	h.broadcasters = append(h.broadcasters, b)
	h.mu.Unlock()
}

// emit 统一的事件发送方法
func (h *EventHub) emit(eventName string, payload interface{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, b := range h.broadcasters {
		b.BroadcastEvent(eventName, payload)
	}
}

// EmitSessionChanged publishes the session state after a completed transition
func (h *EventHub) EmitSessionChanged(snapshot note.Snapshot) {
	h.emit(EventSessionChanged, snapshot)
}

// SessionErrorEvent describes an operation that did not complete
type SessionErrorEvent struct {
	Op    string `json:"op"`
	Path  string `json:"path,omitempty"`
	Error string `json:"error"`
}

func (h *EventHub) EmitSessionError(event SessionErrorEvent) {
	h.emit(EventSessionError, event)
}
