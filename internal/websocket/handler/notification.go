// internal/websocket/handler/notification.go
package handler

import (
	"context"
	"fmt"

	"estate-portal/internal/domain/notification"
	wstypes "estate-portal/internal/domain/websocket"
	ws "estate-portal/internal/websocket"
)

// UnreadCounter reads notification counts from an identity's loaded snapshot.
type UnreadCounter interface {
	Summary(identity string) (notification.Summary, bool)
}

type NotificationHandler struct {
	counter UnreadCounter
}

func NewNotificationHandler(counter UnreadCounter) *NotificationHandler {
	return &NotificationHandler{counter: counter}
}

// SupportedEvents returns events this handler supports
func (h *NotificationHandler) SupportedEvents() []wstypes.EventType {
	return []wstypes.EventType{wstypes.EventTypeNotificationCount}
}

// HandleMessage answers count requests without touching the upstream API.
func (h *NotificationHandler) HandleMessage(ctx context.Context, client *ws.Client, msg *wstypes.WSMessage) error {
	if msg.Type != wstypes.EventTypeNotificationCount {
		return fmt.Errorf("unsupported event type: %s", msg.Type)
	}

	summary, loaded := h.counter.Summary(client.Identity())
	out := wstypes.NewMessage(wstypes.EventTypeNotificationCount, wstypes.NotificationCountData{
		Unread: summary.TotalUnread,
		Total:  summary.Total,
	})
	out.Metadata = map[string]interface{}{"loaded": loaded}
	client.SendMessage(out)
	return nil
}
