// internal/service/notification/service.go
package notification

import (
	"context"
	"fmt"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/notification"
	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/service/listing"
	"estate-portal/internal/upstream"
)

const Collection = "notifications"

// CountPublisher pushes unread counts to an identity's sockets.
type CountPublisher interface {
	BroadcastNotificationCount(identity string, unread, total int)
}

// NotificationService lists notifications and keeps the unread count
// pushed to the socket after every refresh, including the refresh that
// follows each mutation.
type NotificationService struct {
	*listing.Service[notification.Notification]
	resource *upstream.Resource[notification.Notification]
	counts   CountPublisher
}

func NewNotificationService(client *upstream.Client, cfg listing.Config, counts CountPublisher) *NotificationService {
	s := &NotificationService{
		resource: upstream.NewResource[notification.Notification](client, Collection),
		counts:   counts,
	}

	publish := cfg.Publish
	cfg.Name = Collection
	cfg.DefaultSort = notification.DefaultSort
	cfg.SortFields = notification.SortFields
	cfg.Publish = func(e collection.Event) {
		if publish != nil {
			publish(e)
		}
		s.pushCount(e.Session)
	}

	s.Service = listing.NewService(cfg, func([]string) collection.Fetcher[notification.Notification] {
		return s.resource.Fetcher(nil)
	})
	return s
}

// MarkAsRead flags one notification read.
func (s *NotificationService) MarkAsRead(ctx context.Context, identity, id string) error {
	n, err := s.Find(ctx, identity, id)
	if err != nil {
		return err
	}
	err = s.Mutate(ctx, identity,
		collection.Replacing(notification.MarkRead(n)),
		func(ctx context.Context) error { return s.resource.Patch(ctx, "read/"+id, nil) },
	)
	if err != nil {
		return xerrors.Wrap(err, "failed to mark notification as read")
	}
	return nil
}

// MarkAllAsRead flags every notification read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, identity string) error {
	err := s.Mutate(ctx, identity,
		func(items []notification.Notification) []notification.Notification {
			for i := range items {
				items[i] = notification.MarkRead(items[i])
			}
			return items
		},
		func(ctx context.Context) error { return s.resource.Patch(ctx, "read-all", nil) },
	)
	if err != nil {
		return xerrors.Wrap(err, "failed to mark all notifications as read")
	}
	return nil
}

// DeleteNotification removes one notification.
func (s *NotificationService) DeleteNotification(ctx context.Context, identity, id string) error {
	err := s.Mutate(ctx, identity,
		collection.Removing[notification.Notification](id),
		func(ctx context.Context) error { return s.resource.Delete(ctx, id) },
	)
	if err != nil {
		return xerrors.Wrap(err, "failed to delete notification")
	}
	return nil
}

// GetUnreadCount loads the identity's notifications when needed and counts them.
func (s *NotificationService) GetUnreadCount(ctx context.Context, identity string) (notification.Summary, error) {
	items, err := s.Records(ctx, identity)
	if err != nil {
		return notification.Summary{}, fmt.Errorf("failed to count notifications: %w", err)
	}
	return notification.Summarize(items), nil
}

// Summary counts the identity's loaded notifications without fetching.
// It reports false when nothing is loaded yet.
func (s *NotificationService) Summary(identity string) (notification.Summary, bool) {
	view, ok := s.Peek(identity)
	if !ok || !view.Loaded() {
		return notification.Summary{}, false
	}
	return notification.Summarize(view.Records()), true
}

func (s *NotificationService) pushCount(identity string) {
	if s.counts == nil || identity == "" {
		return
	}
	if summary, ok := s.Summary(identity); ok {
		s.counts.BroadcastNotificationCount(identity, summary.TotalUnread, summary.Total)
	}
}
