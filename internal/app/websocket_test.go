package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	wstypes "estate-portal/internal/domain/websocket"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func readUntil(t *testing.T, conn *websocket.Conn, want wstypes.EventType) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	for {
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		var msg struct {
			Type wstypes.EventType `json:"type"`
			Data map[string]any    `json:"data"`
		}
		require.NoError(t, json.Unmarshal(raw, &msg))
		if msg.Type == want {
			return msg.Data
		}
	}
}

func TestWebSocketReceivesViewEvents(t *testing.T) {
	p := newPortal(t)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go p.rt.Hub.Run(ctx)

	srv := httptest.NewServer(p.engine)
	t.Cleanup(srv.Close)

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	sid := p.login("tok")
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws?session="+sid, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	connected := readUntil(t, conn, wstypes.EventTypeConnected)
	require.Equal(t, sid, connected["session_id"])

	code, _ := p.do(http.MethodGet, "/api/v1/notifications", sid, nil)
	require.Equal(t, http.StatusOK, code)

	refreshed := readUntil(t, conn, wstypes.EventTypeCollectionRefreshed)
	require.Equal(t, "notifications", refreshed["collection"])
	require.EqualValues(t, 2, refreshed["total_items"])

	count := readUntil(t, conn, wstypes.EventTypeNotificationCount)
	require.EqualValues(t, 2, count["unread"])

	require.NoError(t, conn.WriteJSON(map[string]any{"type": "notification:count"}))
	count = readUntil(t, conn, wstypes.EventTypeNotificationCount)
	require.EqualValues(t, 2, count["unread"])

	code, _ = p.do(http.MethodDelete, "/api/v1/session", sid, nil)
	require.Equal(t, http.StatusOK, code)
	expired := readUntil(t, conn, wstypes.EventTypeSessionExpired)
	require.Equal(t, "logout", expired["reason"])
}
