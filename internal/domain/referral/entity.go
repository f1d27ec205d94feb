package referral

import (
	"time"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/common"
	"estate-portal/internal/pkg/price"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConverted Status = "converted"
	StatusExpired   Status = "expired"
)

const SortReward collection.SortField = "reward"

var SortFields = []collection.SortField{collection.SortByName, collection.SortByDate, SortReward}

var DefaultSort = collection.SortCriteria{Field: collection.SortByDate, Direction: collection.Descending}

type Referral struct {
	ID             common.ID   `json:"id"`
	ReferrerName   string      `json:"referrerName"`
	ReferredName   string      `json:"referredName"`
	Email          string      `json:"email,omitempty"`
	ReferralStatus Status      `json:"status"`
	Reward         price.Value `json:"reward"`
	CreatedAt      string      `json:"createdAt"`
}

func (r Referral) RecordID() string           { return r.ID.String() }
func (r Referral) DisplayName() string        { return r.ReferredName }
func (r Referral) Created() (time.Time, bool) { return common.ParseTime(r.CreatedAt) }
func (r Referral) Status() string             { return string(r.ReferralStatus) }
func (r Referral) Category() string           { return "" }

func (r Referral) Metric(f collection.SortField) (float64, bool) {
	if f == SortReward {
		return r.Reward.Float(), true
	}
	return 0, false
}
