// internal/domain/schedule/entity.go
package schedule

import (
	"time"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/common"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

const SortVisitDate collection.SortField = "visit_date"

var SortFields = []collection.SortField{collection.SortByName, collection.SortByDate, SortVisitDate}

var DefaultSort = collection.SortCriteria{Field: SortVisitDate, Direction: collection.Ascending, TieBreak: collection.SortByName}

// Schedule is a property visitation booked by a client.
type Schedule struct {
	ID             common.ID `json:"id"`
	PropertyID     common.ID `json:"propertyId"`
	PropertyName   string    `json:"propertyName"`
	ClientName     string    `json:"clientName"`
	ClientEmail    string    `json:"clientEmail,omitempty"`
	ClientPhone    string    `json:"clientPhone,omitempty"`
	AgentName      string    `json:"agentName,omitempty"`
	VisitDate      string    `json:"visitDate"`
	ScheduleStatus Status    `json:"status"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      string    `json:"createdAt"`
}

func (s Schedule) RecordID() string           { return s.ID.String() }
func (s Schedule) Created() (time.Time, bool) { return common.ParseTime(s.CreatedAt) }
func (s Schedule) Status() string             { return string(s.ScheduleStatus) }
func (s Schedule) Category() string           { return "" }

func (s Schedule) DisplayName() string {
	if s.ClientName != "" {
		return s.ClientName
	}
	return s.PropertyName
}

func (s Schedule) Metric(f collection.SortField) (float64, bool) {
	if f != SortVisitDate {
		return 0, false
	}
	t, ok := common.ParseTime(s.VisitDate)
	if !ok {
		return 0, false
	}
	return float64(t.Unix()), true
}

type UpdateScheduleRequest struct {
	Status    *Status `json:"status,omitempty" binding:"omitempty,oneof=pending confirmed completed cancelled"`
	VisitDate *string `json:"visitDate,omitempty"`
	Note      *string `json:"note,omitempty" binding:"omitempty,max=500"`
}

// Apply returns s with the request's fields applied.
func (r UpdateScheduleRequest) Apply(s Schedule) Schedule {
	if r.Status != nil {
		s.ScheduleStatus = *r.Status
	}
	if r.VisitDate != nil {
		s.VisitDate = *r.VisitDate
	}
	if r.Note != nil {
		s.Note = *r.Note
	}
	return s
}
