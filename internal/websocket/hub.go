// internal/websocket/hub.go
package websocket

import (
	"context"
	"sync"

	"estate-portal/internal/collection"
	wstypes "estate-portal/internal/domain/websocket"

	"go.uber.org/zap"
)

type Hub struct {
	// Registered clients by portal identity
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	// Registration/unregistration
	Register   chan *Client
	unregister chan *Client

	// Broadcasting
	broadcast chan *BroadcastMessage

	// Handler registry for modular message handling
	handlerRegistry *HandlerRegistry

	// done is closed once Run has returned.
	done     chan struct{}
	doneOnce sync.Once

	logger *zap.Logger
}

type BroadcastMessage struct {
	Identities []string
	Channel    wstypes.ChannelType
	Message    *wstypes.WSMessage
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:         make(map[string]map[*Client]bool),
		Register:        make(chan *Client),
		unregister:      make(chan *Client, 16),
		broadcast:       make(chan *BroadcastMessage, 256),
		handlerRegistry: NewHandlerRegistry(),
		done:            make(chan struct{}),
		logger:          logger,
	}
}

// RegisterHandler routes handler's events from every client.
func (h *Hub) RegisterHandler(handler MessageHandler) error {
	return h.handlerRegistry.Register(handler)
}

// HandledEvents lists the client events routed to registered handlers.
func (h *Hub) HandledEvents() []wstypes.EventType {
	return h.handlerRegistry.Events()
}

// HandleClientMessage processes a message from a client using registered handlers.
// handled is false when no handler claims the event type.
func (h *Hub) HandleClientMessage(ctx context.Context, client *Client, msg *wstypes.WSMessage) (handled bool, err error) {
	handler, exists := h.handlerRegistry.GetHandler(msg.Type)
	if !exists {
		return false, nil
	}
	return true, handler.HandleMessage(ctx, client, msg)
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.shutdown()
			h.doneOnce.Do(func() { close(h.done) })
			return

		case client := <-h.Register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.BroadcastMessage(msg)
		}
	}
}

// Join hands client to the run loop. It reports false once Run has
// returned.
func (h *Hub) Join(client *Client) bool {
	select {
	case h.Register <- client:
		return true
	case <-h.done:
		client.Close()
		return false
	}
}

// leave hands client to the run loop for unregistration. After Run has
// returned there is no loop left, so the client is only closed.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
		client.Close()
	}
}

// Done is closed when Run returns.
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	if h.clients[client.identity] == nil {
		h.clients[client.identity] = make(map[*Client]bool)
	}
	h.clients[client.identity][client] = true
	total := h.totalClients()
	h.mu.Unlock()

	h.logger.Info("websocket client connected",
		zap.String("identity", client.identity),
		zap.String("subject", client.subject),
		zap.Int("total", total),
	)

	client.SendMessage(wstypes.NewMessage(wstypes.EventTypeConnected, map[string]interface{}{
		"session_id": client.sessionID,
		"subject":    client.subject,
		"channels":   client.Channels(),
	}))
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.identity]; ok {
		if _, exists := clients[client]; exists {
			delete(clients, client)
			client.Close()

			if len(clients) == 0 {
				delete(h.clients, client.identity)
			}

			h.logger.Info("websocket client disconnected",
				zap.String("identity", client.identity),
				zap.Int("total", h.totalClients()),
			)
		}
	}
}

func (h *Hub) BroadcastMessage(msg *BroadcastMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if msg.Identities == nil {
		for _, clients := range h.clients {
			for client := range clients {
				if client.IsSubscribed(msg.Channel) {
					client.SendMessage(msg.Message)
				}
			}
		}
		return
	}

	for _, identity := range msg.Identities {
		for client := range h.clients[identity] {
			if client.IsSubscribed(msg.Channel) {
				client.SendMessage(msg.Message)
			}
		}
	}
}

// enqueue hands msg to the run loop without blocking the caller. Messages
// are dropped when the queue is full.
func (h *Hub) enqueue(msg *BroadcastMessage) {
	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping message",
			zap.String("type", string(msg.Message.Type)),
		)
	}
}

func (h *Hub) GetConnectedClients(identity string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[identity])
}

func (h *Hub) TotalClients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.totalClients()
}

// IsUserConnected checks if an identity has any active connections
func (h *Hub) IsUserConnected(identity string) bool {
	return h.GetConnectedClients(identity) > 0
}

// Public methods for broadcasting

// PublishCollectionEvent pushes the outcome of a view refresh to the
// identity that owns the view.
func (h *Hub) PublishCollectionEvent(e collection.Event) {
	if e.Session == "" {
		return
	}
	eventType := wstypes.EventTypeCollectionRefreshed
	if e.State == collection.StateError {
		eventType = wstypes.EventTypeCollectionError
	}
	h.enqueue(&BroadcastMessage{
		Identities: []string{e.Session},
		Channel:    wstypes.ChannelCollections,
		Message: wstypes.NewMessage(eventType, wstypes.CollectionEventData{
			Collection: e.Collection,
			State:      string(e.State),
			TotalItems: e.TotalItems,
			Generation: e.Generation,
			Error:      e.Error,
		}),
	})
}

func (h *Hub) BroadcastNotificationCount(identity string, unread, total int) {
	h.enqueue(&BroadcastMessage{
		Identities: []string{identity},
		Channel:    wstypes.ChannelNotifications,
		Message: wstypes.NewMessage(wstypes.EventTypeNotificationCount, wstypes.NotificationCountData{
			Unread: unread,
			Total:  total,
		}),
	})
}

// DisconnectUser tells every socket of identity that its session ended
// and closes them.
func (h *Hub) DisconnectUser(identity, reason string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[identity]
	if !ok {
		return
	}
	msg := wstypes.NewMessage(wstypes.EventTypeSessionExpired, wstypes.SessionEventData{
		Reason:  reason,
		Message: "Your session has ended",
	})
	for client := range clients {
		client.SendMessage(msg)
		client.Close()
	}
	delete(h.clients, identity)
	h.logger.Info("disconnected identity", zap.String("identity", identity), zap.String("reason", reason))
}

func (h *Hub) totalClients() int {
	total := 0
	for _, clients := range h.clients {
		total += len(clients)
	}
	return total
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			client.Close()
		}
	}
	h.clients = make(map[string]map[*Client]bool)
}
