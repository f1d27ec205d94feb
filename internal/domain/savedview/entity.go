// internal/domain/savedview/entity.go
package savedview

import (
	"time"

	"estate-portal/internal/collection"

	"github.com/google/uuid"
)

// SavedView is a named set of list criteria an identity can reapply.
type SavedView struct {
	ID         uuid.UUID                 `json:"id" db:"id"`
	Owner      string                    `json:"-" db:"owner"`
	Collection string                    `json:"collection" db:"collection"`
	Name       string                    `json:"name" db:"name"`
	Filter     collection.FilterCriteria `json:"filter"`
	Sort       collection.SortCriteria   `json:"sort"`
	PageSize   int                       `json:"page_size" db:"page_size"`
	Tags       []string                  `json:"tags" db:"tags"`
	IsDefault  bool                      `json:"is_default" db:"is_default"`
	CreatedAt  time.Time                 `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time                 `json:"updated_at" db:"updated_at"`
}

type CreateSavedViewRequest struct {
	Collection    string   `json:"collection" binding:"required,oneof=agents properties sub-properties notifications schedules referrals"`
	Name          string   `json:"name" binding:"required,max=100"`
	Search        string   `json:"search" binding:"max=200"`
	Status        string   `json:"status" binding:"max=50"`
	SortField     string   `json:"sort_field"`
	SortDirection string   `json:"sort_direction" binding:"omitempty,oneof=asc desc"`
	TieBreak      string   `json:"tie_break"`
	PageSize      int      `json:"page_size" binding:"min=0,max=100"`
	Tags          []string `json:"tags"`
	IsDefault     bool     `json:"is_default"`
}

// ToView builds the entity for owner.
func (r CreateSavedViewRequest) ToView(owner string) SavedView {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return SavedView{
		Owner:      owner,
		Collection: r.Collection,
		Name:       r.Name,
		Filter:     collection.FilterCriteria{SearchTerm: r.Search, StatusFilter: r.Status}.Normalize(),
		Sort: collection.SortCriteria{
			Field:     collection.SortField(r.SortField),
			Direction: collection.SortDirection(r.SortDirection),
			TieBreak:  collection.SortField(r.TieBreak),
		},
		PageSize:  r.PageSize,
		Tags:      tags,
		IsDefault: r.IsDefault,
	}
}

type ListFilters struct {
	Collection string `form:"collection"`
	Tag        string `form:"tag"`
}
