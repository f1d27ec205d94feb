// internal/domain/agent/entity.go
package agent

import (
	"strings"
	"time"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/common"
	"estate-portal/internal/pkg/price"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"
)

// Sort fields beyond name and date.
const (
	SortPropertiesSold collection.SortField = "properties_sold"
	SortReferrals      collection.SortField = "referrals"
	SortCommission     collection.SortField = "commission"
)

var SortFields = []collection.SortField{
	collection.SortByName,
	collection.SortByDate,
	SortPropertiesSold,
	SortReferrals,
	SortCommission,
}

var DefaultSort = collection.SortCriteria{Field: collection.SortByDate, Direction: collection.Descending, TieBreak: collection.SortByName}

type Agent struct {
	ID              common.ID   `json:"id"`
	FirstName       string      `json:"firstName"`
	LastName        string      `json:"lastName"`
	Email           string      `json:"email"`
	Phone           string      `json:"phone,omitempty"`
	AgentStatus     Status      `json:"status"`
	PropertiesSold  int         `json:"propertiesSold"`
	ReferralCount   int         `json:"referralCount"`
	TotalCommission price.Value `json:"totalCommission"`
	CreatedAt       string      `json:"createdAt"`
}

func (a Agent) RecordID() string { return a.ID.String() }

func (a Agent) DisplayName() string {
	name := strings.TrimSpace(a.FirstName + " " + a.LastName)
	if name == "" {
		return a.Email
	}
	return name
}

func (a Agent) Created() (time.Time, bool) { return common.ParseTime(a.CreatedAt) }

func (a Agent) Metric(f collection.SortField) (float64, bool) {
	switch f {
	case SortPropertiesSold:
		return float64(a.PropertiesSold), true
	case SortReferrals:
		return float64(a.ReferralCount), true
	case SortCommission:
		return a.TotalCommission.Float(), true
	}
	return 0, false
}

func (a Agent) Status() string   { return string(a.AgentStatus) }
func (a Agent) Category() string { return "" }
