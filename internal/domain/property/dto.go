// internal/domain/property/dto.go
package property

import (
	"estate-portal/internal/domain/common"
	"estate-portal/internal/pkg/price"
)

type CreatePropertyRequest struct {
	Name        string   `json:"name" binding:"required,max=255"`
	Location    string   `json:"location" binding:"required"`
	Description string   `json:"description"`
	Category    Category `json:"category" binding:"required,oneof=land house apartment commercial"`
	Price       string   `json:"price" binding:"required"`
	Status      Status   `json:"status" binding:"omitempty,oneof=available sold reserved"`
	AgentID     string   `json:"agentId"`
}

type UpdatePropertyRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=255"`
	Location    *string   `json:"location"`
	Description *string   `json:"description"`
	Category    *Category `json:"category" binding:"omitempty,oneof=land house apartment commercial"`
	Price       *string   `json:"price"`
	Status      *Status   `json:"status" binding:"omitempty,oneof=available sold reserved"`
}

type CreateSubPropertyRequest struct {
	Name   string `json:"name" binding:"required,max=255"`
	Size   string `json:"size"`
	Price  string `json:"price" binding:"required"`
	Status Status `json:"status" binding:"omitempty,oneof=available sold reserved"`
}

type UpdateSubPropertyRequest struct {
	Name   *string `json:"name" binding:"omitempty,max=255"`
	Size   *string `json:"size"`
	Price  *string `json:"price"`
	Status *Status `json:"status" binding:"omitempty,oneof=available sold reserved"`
}

// Payload is the body the listing API accepts for property and
// sub-property writes. Prices are sent in canonical numeric form.
type Payload struct {
	PropertyID  string    `json:"propertyId,omitempty"`
	Name        *string   `json:"name,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Size        *string   `json:"size,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	Status      *Status   `json:"status,omitempty"`
	AgentID     string    `json:"agentId,omitempty"`
}

func normalizedPrice(s *string) *float64 {
	if s == nil {
		return nil
	}
	v := price.Normalize(*s)
	return &v
}

func statusOrDefault(s Status) Status {
	if s == "" {
		return StatusAvailable
	}
	return s
}

// ToProperty builds the optimistic record shown until the API answers.
func (r CreatePropertyRequest) ToProperty() Property {
	return Property{
		Name:           r.Name,
		Location:       r.Location,
		Description:    r.Description,
		PropertyType:   r.Category,
		Price:          price.Value(price.Normalize(r.Price)),
		PropertyStatus: statusOrDefault(r.Status),
		AgentID:        common.ID(r.AgentID),
	}
}

func (r CreatePropertyRequest) Payload() Payload {
	status := statusOrDefault(r.Status)
	return Payload{
		Name:        &r.Name,
		Location:    &r.Location,
		Description: &r.Description,
		Category:    &r.Category,
		Price:       normalizedPrice(&r.Price),
		Status:      &status,
		AgentID:     r.AgentID,
	}
}

// Apply returns p with the request's fields applied.
func (r UpdatePropertyRequest) Apply(p Property) Property {
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Location != nil {
		p.Location = *r.Location
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Category != nil {
		p.PropertyType = *r.Category
	}
	if v := normalizedPrice(r.Price); v != nil {
		p.Price = price.Value(*v)
	}
	if r.Status != nil {
		p.PropertyStatus = *r.Status
	}
	return p
}

func (r UpdatePropertyRequest) Payload() Payload {
	return Payload{
		Name:        r.Name,
		Location:    r.Location,
		Description: r.Description,
		Category:    r.Category,
		Price:       normalizedPrice(r.Price),
		Status:      r.Status,
	}
}

func (r CreateSubPropertyRequest) ToSubProperty(propertyID string) SubProperty {
	return SubProperty{
		PropertyID:        common.ID(propertyID),
		Name:              r.Name,
		Size:              r.Size,
		Price:             price.Value(price.Normalize(r.Price)),
		SubPropertyStatus: statusOrDefault(r.Status),
	}
}

func (r CreateSubPropertyRequest) Payload(propertyID string) Payload {
	status := statusOrDefault(r.Status)
	return Payload{
		PropertyID: propertyID,
		Name:       &r.Name,
		Size:       &r.Size,
		Price:      normalizedPrice(&r.Price),
		Status:     &status,
	}
}

// Apply returns s with the request's fields applied.
func (r UpdateSubPropertyRequest) Apply(s SubProperty) SubProperty {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Size != nil {
		s.Size = *r.Size
	}
	if v := normalizedPrice(r.Price); v != nil {
		s.Price = price.Value(*v)
	}
	if r.Status != nil {
		s.SubPropertyStatus = *r.Status
	}
	return s
}

func (r UpdateSubPropertyRequest) Payload() Payload {
	return Payload{
		Name:   r.Name,
		Size:   r.Size,
		Price:  normalizedPrice(r.Price),
		Status: r.Status,
	}
}

// Detail is a property with its units and derived status.
type Detail struct {
	Property        Property       `json:"property"`
	EffectiveStatus Status         `json:"effective_status"`
	FormattedPrice  string         `json:"formatted_price"`
	SubProperties   []SubProperty  `json:"sub_properties"`
	Availability    map[Status]int `json:"availability"`
}
