// internal/websocket/handler.go
package websocket

import (
	"context"
	"fmt"
	"sort"
	"sync"

	wstypes "estate-portal/internal/domain/websocket"
)

// MessageHandler answers client events for one area, such as
// notification counts.
type MessageHandler interface {
	HandleMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) error
	SupportedEvents() []wstypes.EventType
}

// builtin events are answered by the client itself.
var builtin = map[wstypes.EventType]bool{
	wstypes.EventTypePing:        true,
	wstypes.EventTypeSubscribe:   true,
	wstypes.EventTypeUnsubscribe: true,
}

// HandlerRegistry routes client events to handlers. Safe for concurrent use.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[wstypes.EventType]MessageHandler
}

func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{handlers: make(map[wstypes.EventType]MessageHandler)}
}

// Register claims handler's events. Built-in events and events already
// claimed by another handler are refused.
func (r *HandlerRegistry) Register(handler MessageHandler) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	events := handler.SupportedEvents()
	for _, e := range events {
		if builtin[e] {
			return fmt.Errorf("websocket event %q is built in", e)
		}
		if _, taken := r.handlers[e]; taken {
			return fmt.Errorf("websocket event %q already has a handler", e)
		}
	}
	for _, e := range events {
		r.handlers[e] = handler
	}
	return nil
}

func (r *HandlerRegistry) GetHandler(eventType wstypes.EventType) (MessageHandler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, exists := r.handlers[eventType]
	return handler, exists
}

// Events lists the routed event types, sorted.
func (r *HandlerRegistry) Events() []wstypes.EventType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]wstypes.EventType, 0, len(r.handlers))
	for e := range r.handlers {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
