// internal/service/schedule/schedule_service.go
package schedule

import (
	"context"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/schedule"
	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/service/listing"
	"estate-portal/internal/upstream"

	"go.uber.org/zap"
)

const Collection = "schedules"

type ScheduleService struct {
	*listing.Service[schedule.Schedule]
	resource *upstream.Resource[schedule.Schedule]
	logger   *zap.Logger
}

func NewScheduleService(client *upstream.Client, cfg listing.Config) *ScheduleService {
	resource := upstream.NewResource[schedule.Schedule](client, Collection)

	cfg.Name = Collection
	cfg.DefaultSort = schedule.DefaultSort
	cfg.SortFields = schedule.SortFields

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ScheduleService{
		Service: listing.NewService(cfg, func([]string) collection.Fetcher[schedule.Schedule] {
			return resource.Fetcher(nil)
		}),
		resource: resource,
		logger:   logger,
	}
}

// UpdateSchedule changes a visit's status, date or note.
func (s *ScheduleService) UpdateSchedule(ctx context.Context, identity, id string, req schedule.UpdateScheduleRequest) (schedule.Schedule, error) {
	current, err := s.Find(ctx, identity, id)
	if err != nil {
		return current, err
	}

	updated := req.Apply(current)
	err = s.Mutate(ctx, identity,
		collection.Replacing(updated),
		func(ctx context.Context) error {
			rec, err := s.resource.Update(ctx, id, req)
			if err == nil && rec.RecordID() != "" {
				updated = rec
			}
			return err
		},
	)
	if err != nil {
		return current, xerrors.Wrap(err, "failed to update schedule")
	}

	s.logger.Info("schedule updated",
		zap.String("id", id),
		zap.String("status", string(updated.ScheduleStatus)),
	)
	return updated, nil
}
