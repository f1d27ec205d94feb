// internal/service/referral/referral_service.go
package referral

import (
	"estate-portal/internal/collection"
	"estate-portal/internal/domain/referral"
	"estate-portal/internal/service/listing"
	"estate-portal/internal/upstream"
)

const Collection = "referrals"

type ReferralService struct {
	*listing.Service[referral.Referral]
}

func NewReferralService(client *upstream.Client, cfg listing.Config) *ReferralService {
	resource := upstream.NewResource[referral.Referral](client, Collection)

	cfg.Name = Collection
	cfg.DefaultSort = referral.DefaultSort
	cfg.SortFields = referral.SortFields

	return &ReferralService{
		Service: listing.NewService(cfg, func([]string) collection.Fetcher[referral.Referral] {
			return resource.Fetcher(nil)
		}),
	}
}
