package schedule

import (
	"context"
	"net/http"
	"testing"

	"estate-portal/internal/domain/schedule"
	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/pkg/session"
	"estate-portal/internal/service/listing"
	"estate-portal/internal/upstream/upstreamtest"

	"github.com/stretchr/testify/require"
)

func TestSchedulesSortByVisitDateAndUpdate(t *testing.T) {
	api := upstreamtest.New(t)
	api.Seed("schedules",
		map[string]any{"id": "s-1", "propertyName": "Lekki Gardens", "clientName": "Ada", "visitDate": "2024-06-10T10:00:00Z", "status": "pending"},
		map[string]any{"id": "s-2", "propertyName": "Abuja Court", "clientName": "Bola", "visitDate": "2024-06-01T10:00:00Z", "status": "confirmed"},
		map[string]any{"id": "s-3", "propertyName": "Ikoyi Towers", "clientName": "Chi", "status": "pending"},
	)
	svc := NewScheduleService(api.Client(t, session.Static("tok")), listing.Config{})
	ctx := context.Background()

	res, err := svc.List(ctx, "sess", listing.Query{})
	require.NoError(t, err)
	require.Equal(t, []string{"s-2", "s-1", "s-3"}, []string{res.Items[0].RecordID(), res.Items[1].RecordID(), res.Items[2].RecordID()})

	status := schedule.StatusConfirmed
	updated, err := svc.UpdateSchedule(ctx, "sess", "s-1", schedule.UpdateScheduleRequest{Status: &status})
	require.NoError(t, err)
	require.Equal(t, schedule.StatusConfirmed, updated.ScheduleStatus)
	require.Equal(t, 1, api.Count(http.MethodPatch, "schedules/update/s-1"))

	filter := "confirmed"
	res, err = svc.List(ctx, "sess", listing.Query{Status: &filter})
	require.NoError(t, err)
	require.Equal(t, 2, res.Page.TotalItems)

	_, err = svc.UpdateSchedule(ctx, "sess", "missing", schedule.UpdateScheduleRequest{Status: &status})
	require.ErrorIs(t, err, xerrors.ErrNotFound)
}
