package notification

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"estate-portal/internal/collection"
	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/pkg/session"
	"estate-portal/internal/service/listing"
	"estate-portal/internal/upstream/upstreamtest"

	"github.com/stretchr/testify/require"
)

const identity = "sess-1"

type count struct {
	identity      string
	unread, total int
}

type recorder struct {
	mu     sync.Mutex
	counts []count
	events []collection.Event
}

func (r *recorder) BroadcastNotificationCount(identity string, unread, total int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, count{identity, unread, total})
}

func (r *recorder) publish(e collection.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) last() count {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[len(r.counts)-1]
}

func setup(t *testing.T) (*NotificationService, *upstreamtest.Server, *recorder) {
	t.Helper()
	api := upstreamtest.New(t)
	api.Seed("notifications",
		map[string]any{"id": 1, "title": "Payment received", "message": "₦50K", "type": "payment", "isRead": false, "createdAt": "2024-03-01T09:00:00Z"},
		map[string]any{"id": 2, "title": "Visit booked", "type": "schedule", "isRead": true, "createdAt": "2024-03-02T09:00:00Z"},
		map[string]any{"id": 3, "title": "System update", "type": "system", "isRead": false, "createdAt": "2024-03-03T09:00:00Z"},
	)
	rec := &recorder{}
	svc := NewNotificationService(api.Client(t, session.Static("tok")), listing.Config{Publish: rec.publish}, rec)
	return svc, api, rec
}

func TestSummaryRequiresLoadedSnapshot(t *testing.T) {
	svc, _, rec := setup(t)

	_, ok := svc.Summary(identity)
	require.False(t, ok)

	summary, err := svc.GetUnreadCount(context.Background(), identity)
	require.NoError(t, err)
	require.Equal(t, 2, summary.TotalUnread)
	require.Equal(t, 3, summary.Total)

	summary, ok = svc.Summary(identity)
	require.True(t, ok)
	require.Equal(t, 1, summary.TotalRead)

	require.Equal(t, count{identity, 2, 3}, rec.last())
	require.Len(t, rec.events, 1)
	require.Equal(t, identity, rec.events[0].Session)
}

func TestUnreadFilter(t *testing.T) {
	svc, _, _ := setup(t)
	status := "unread"

	res, err := svc.List(context.Background(), identity, listing.Query{Status: &status})
	require.NoError(t, err)
	require.Equal(t, 2, res.Page.TotalItems)
	require.Equal(t, "3", res.Items[0].RecordID(), "newest first")
}

func TestMarkAsReadPushesCount(t *testing.T) {
	svc, api, rec := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.MarkAsRead(ctx, identity, "1"))
	require.Equal(t, 1, api.Count(http.MethodPatch, "notifications/read/1"))
	require.Equal(t, count{identity, 1, 3}, rec.last())

	require.ErrorIs(t, svc.MarkAsRead(ctx, identity, "42"), xerrors.ErrNotFound)
}

func TestMarkAllAsRead(t *testing.T) {
	svc, api, rec := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.MarkAllAsRead(ctx, identity))
	require.Equal(t, 1, api.Count(http.MethodPatch, "notifications/read-all"))
	require.Equal(t, count{identity, 0, 3}, rec.last())
}

func TestDeleteFailureKeepsCount(t *testing.T) {
	svc, api, rec := setup(t)
	ctx := context.Background()

	_, err := svc.GetUnreadCount(ctx, identity)
	require.NoError(t, err)

	api.Fail(http.MethodDelete, "notifications/delete", http.StatusInternalServerError, "")
	err = svc.DeleteNotification(ctx, identity, "3")
	require.ErrorIs(t, err, xerrors.ErrUpstream)
	require.Equal(t, xerrors.DefaultMessage, xerrors.Message(err))
	require.Equal(t, count{identity, 2, 3}, rec.last())

	api.Recover()
	require.NoError(t, svc.DeleteNotification(ctx, identity, "3"))
	require.Equal(t, count{identity, 1, 2}, rec.last())
}
