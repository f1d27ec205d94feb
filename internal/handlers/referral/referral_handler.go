// internal/handlers/referral/referral_handler.go
package referral

import (
	"estate-portal/internal/domain/referral"
	"estate-portal/internal/handlers/listing"
	service "estate-portal/internal/service/referral"
)

// ReferralHandler is read-only: referrals are listed and refreshed.
type ReferralHandler struct {
	*listing.Handler[referral.Referral]
}

func NewReferralHandler(referralService *service.ReferralService, views listing.SavedViews) *ReferralHandler {
	return &ReferralHandler{Handler: listing.NewHandler(referralService.Service, views)}
}
