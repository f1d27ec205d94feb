package agent

import (
	"context"
	"net/http"
	"testing"

	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/pkg/session"
	"estate-portal/internal/service/listing"
	"estate-portal/internal/upstream/upstreamtest"

	"github.com/stretchr/testify/require"
)

func TestAgentsListAndGet(t *testing.T) {
	api := upstreamtest.New(t)
	api.Seed("agents",
		map[string]any{"id": 1, "firstName": "Ada", "lastName": "Obi", "status": "active", "propertiesSold": 4, "createdAt": "2024-01-01"},
		map[string]any{"id": 2, "firstName": "Bola", "lastName": "Ade", "status": "inactive", "propertiesSold": 9, "createdAt": "2024-02-01"},
	)
	svc := NewAgentService(api.Client(t, session.Static("tok")), listing.Config{})
	ctx := context.Background()

	sortBy, dir := "properties_sold", "desc"
	res, err := svc.List(ctx, "sess", listing.Query{Sort: &sortBy, Dir: &dir})
	require.NoError(t, err)
	require.Equal(t, "2", res.Items[0].RecordID())

	a, err := svc.GetAgent(ctx, "sess", "1")
	require.NoError(t, err)
	require.Equal(t, "Ada Obi", a.DisplayName())
	require.Zero(t, api.Count(http.MethodGet, "agents/1"))

	_, err = svc.GetAgent(ctx, "sess", "7")
	require.ErrorIs(t, err, xerrors.ErrNotFound)
	require.Equal(t, 1, api.Count(http.MethodGet, "agents/7"))
}

func TestAgentsWithoutTokenFail(t *testing.T) {
	api := upstreamtest.New(t)
	svc := NewAgentService(api.Client(t, session.Static("")), listing.Config{})

	res, err := svc.List(context.Background(), "sess", listing.Query{})
	require.ErrorIs(t, err, xerrors.ErrUnauthorized)
	require.Empty(t, res.Items)
	require.Empty(t, api.Requests())
}
