// Package collection implements the client-side view layer shared by every
// listing in the portal: filter, stable sort and pagination over a snapshot
// fetched from the listing API, plus the per-session view controller that
// owns that snapshot.
package collection

import (
	"strings"
	"time"
)

// SortField names a sortable attribute. Name and date are understood by
// every record; anything else is looked up through Record.Metric.
type SortField string

const (
	SortByName SortField = "name"
	SortByDate SortField = "date"
)

// SortDirection represents ordering direction for sortable fields.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Status filter sentinels.
const (
	StatusAll    = "all"
	StatusUnread = "unread"
)

// Record is one item of a displayed collection.
type Record interface {
	RecordID() string
	DisplayName() string
	// Created reports the parsed creation time; false when the upstream
	// value is missing or malformed.
	Created() (time.Time, bool)
	Metric(field SortField) (float64, bool)
	Status() string
	Category() string
}

// FilterCriteria selects the records shown by a view.
type FilterCriteria struct {
	SearchTerm   string `json:"search"`
	StatusFilter string `json:"status,omitempty"`
}

// Normalize trims the inputs and folds the "all" sentinel into the empty value.
func (c FilterCriteria) Normalize() FilterCriteria {
	c.SearchTerm = strings.TrimSpace(c.SearchTerm)
	c.StatusFilter = strings.ToLower(strings.TrimSpace(c.StatusFilter))
	if c.StatusFilter == StatusAll {
		c.StatusFilter = ""
	}
	return c
}

// SortCriteria orders the records shown by a view.
type SortCriteria struct {
	Field     SortField     `json:"field"`
	Direction SortDirection `json:"direction"`
	TieBreak  SortField     `json:"tie_break,omitempty"`
}

// PageState describes the visible page. TotalPages is never below 1.
type PageState struct {
	CurrentPage  int  `json:"current_page"`
	ItemsPerPage int  `json:"items_per_page"`
	TotalItems   int  `json:"total_items"`
	TotalPages   int  `json:"total_pages"`
	HasNext      bool `json:"has_next"`
	HasPrevious  bool `json:"has_previous"`
}
