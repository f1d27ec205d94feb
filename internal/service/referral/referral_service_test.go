package referral

import (
	"context"
	"testing"

	"estate-portal/internal/domain/referral"
	"estate-portal/internal/pkg/price"
	"estate-portal/internal/pkg/session"
	"estate-portal/internal/service/listing"
	"estate-portal/internal/upstream/upstreamtest"

	"github.com/stretchr/testify/require"
)

func seedReferrals(api *upstreamtest.Server) {
	api.Seed("referrals",
		map[string]any{"id": 1, "referrerName": "Tunde", "referredName": "Adaeze Obi", "status": "pending", "reward": "₦50K", "createdAt": "2024-03-01T09:00:00Z"},
		map[string]any{"id": 2, "referrerName": "Obinna", "referredName": "Kemi Lawal", "status": "converted", "reward": 7500, "createdAt": "2024-03-02T09:00:00Z"},
		map[string]any{"id": "r-3", "referrerName": "Sade", "referredName": "Musa Bello", "status": "converted", "reward": "1.2M", "createdAt": "2024-03-03T09:00:00Z"},
		map[string]any{"id": 4, "referrerName": "Ife", "referredName": "Chidi Obiora", "status": "expired", "reward": nil, "createdAt": "2024-03-04T09:00:00Z"},
	)
}

func recordIDs(items []referral.Referral) []string {
	out := make([]string, len(items))
	for i, r := range items {
		out[i] = r.RecordID()
	}
	return out
}

func TestReferralsDecodeAndDefaultOrder(t *testing.T) {
	api := upstreamtest.New(t)
	seedReferrals(api)
	svc := NewReferralService(api.Client(t, session.Static("tok")), listing.Config{})

	res, err := svc.List(context.Background(), "sess", listing.Query{})
	require.NoError(t, err)
	require.Equal(t, []string{"4", "r-3", "2", "1"}, recordIDs(res.Items))
	require.Equal(t, 4, res.Page.TotalItems)

	musa := res.Items[1]
	require.Equal(t, "Musa Bello", musa.DisplayName())
	require.Equal(t, price.Value(1200000), musa.Reward)
	require.Equal(t, referral.StatusConverted, musa.ReferralStatus)
	require.Equal(t, price.Value(0), res.Items[0].Reward)
}

func TestReferralsSearchMatchesReferredName(t *testing.T) {
	api := upstreamtest.New(t)
	seedReferrals(api)
	svc := NewReferralService(api.Client(t, session.Static("tok")), listing.Config{})

	search := "OBI"
	res, err := svc.List(context.Background(), "sess", listing.Query{Search: &search})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"1", "4"}, recordIDs(res.Items))
}

func TestReferralsSortByReward(t *testing.T) {
	api := upstreamtest.New(t)
	seedReferrals(api)
	svc := NewReferralService(api.Client(t, session.Static("tok")), listing.Config{})
	ctx := context.Background()

	sortBy, dir := string(referral.SortReward), "asc"
	res, err := svc.List(ctx, "sess", listing.Query{Sort: &sortBy, Dir: &dir})
	require.NoError(t, err)
	require.Equal(t, []string{"4", "2", "1", "r-3"}, recordIDs(res.Items))

	dir = "desc"
	res, err = svc.List(ctx, "sess", listing.Query{Dir: &dir})
	require.NoError(t, err)
	require.Equal(t, []string{"r-3", "1", "2", "4"}, recordIDs(res.Items))
}
