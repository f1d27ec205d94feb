// internal/domain/property/entity.go
package property

import (
	"time"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/common"
	"estate-portal/internal/pkg/price"
)

type Status string

const (
	StatusAvailable Status = "available"
	StatusSold      Status = "sold"
	StatusReserved  Status = "reserved"
)

type Category string

const (
	CategoryLand       Category = "land"
	CategoryHouse      Category = "house"
	CategoryApartment  Category = "apartment"
	CategoryCommercial Category = "commercial"
)

const SortPrice collection.SortField = "price"

var SortFields = []collection.SortField{collection.SortByName, collection.SortByDate, SortPrice}

var DefaultSort = collection.SortCriteria{Field: collection.SortByDate, Direction: collection.Descending, TieBreak: collection.SortByName}

type Property struct {
	ID             common.ID   `json:"id"`
	Name           string      `json:"name"`
	Location       string      `json:"location"`
	Description    string      `json:"description,omitempty"`
	PropertyType   Category    `json:"category"`
	Price          price.Value `json:"price"`
	PropertyStatus Status      `json:"status"`
	AgentID        common.ID   `json:"agentId,omitempty"`
	CreatedAt      string      `json:"createdAt"`
}

func (p Property) RecordID() string           { return p.ID.String() }
func (p Property) DisplayName() string        { return p.Name }
func (p Property) Created() (time.Time, bool) { return common.ParseTime(p.CreatedAt) }
func (p Property) Status() string             { return string(p.PropertyStatus) }
func (p Property) Category() string           { return string(p.PropertyType) }

func (p Property) Metric(f collection.SortField) (float64, bool) {
	if f == SortPrice {
		return p.Price.Float(), true
	}
	return 0, false
}

// SubProperty is a unit (plot, flat) belonging to a parent Property.
type SubProperty struct {
	ID                common.ID   `json:"id"`
	PropertyID        common.ID   `json:"propertyId"`
	Name              string      `json:"name"`
	Size              string      `json:"size,omitempty"`
	Price             price.Value `json:"price"`
	SubPropertyStatus Status      `json:"status"`
	CreatedAt         string      `json:"createdAt"`
}

func (s SubProperty) RecordID() string           { return s.ID.String() }
func (s SubProperty) DisplayName() string        { return s.Name }
func (s SubProperty) Created() (time.Time, bool) { return common.ParseTime(s.CreatedAt) }
func (s SubProperty) Status() string             { return string(s.SubPropertyStatus) }
func (s SubProperty) Category() string           { return "" }

func (s SubProperty) Metric(f collection.SortField) (float64, bool) {
	if f == SortPrice {
		return s.Price.Float(), true
	}
	return 0, false
}
