// internal/domain/notification/entity.go
package notification

import (
	"time"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/common"
)

type NotificationType string

const (
	TypeSystem   NotificationType = "system"
	TypeAlert    NotificationType = "alert"
	TypeInfo     NotificationType = "info"
	TypePayment  NotificationType = "payment"
	TypeSchedule NotificationType = "schedule"
)

// StatusRead is the Status of a read notification. Unread ones report "".
const StatusRead = "read"

var SortFields = []collection.SortField{collection.SortByName, collection.SortByDate}

var DefaultSort = collection.SortCriteria{Field: collection.SortByDate, Direction: collection.Descending}

type Notification struct {
	ID        common.ID        `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	IsRead    bool             `json:"isRead"`
	Link      string           `json:"link,omitempty"`
	CreatedAt string           `json:"createdAt"`
}

func (n Notification) RecordID() string           { return n.ID.String() }
func (n Notification) DisplayName() string        { return n.Title }
func (n Notification) Created() (time.Time, bool) { return common.ParseTime(n.CreatedAt) }
func (n Notification) Category() string           { return string(n.Type) }

func (n Notification) Metric(collection.SortField) (float64, bool) { return 0, false }

func (n Notification) Status() string {
	if n.IsRead {
		return StatusRead
	}
	return ""
}

// Summary counts notifications by read state.
type Summary struct {
	TotalUnread int `json:"total_unread"`
	TotalRead   int `json:"total_read"`
	Total       int `json:"total"`
}

func Summarize(items []Notification) Summary {
	s := Summary{Total: len(items)}
	for _, n := range items {
		if n.IsRead {
			s.TotalRead++
		} else {
			s.TotalUnread++
		}
	}
	return s
}

// MarkRead returns a copy of n flagged as read.
func MarkRead(n Notification) Notification {
	n.IsRead = true
	return n
}
