// internal/service/savedview/savedview_service.go
package savedview

import (
	"context"
	"fmt"

	"estate-portal/internal/domain/savedview"
	xerrors "estate-portal/internal/pkg/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Repository persists saved views.
type Repository interface {
	Create(ctx context.Context, v *savedview.SavedView) error
	FindByID(ctx context.Context, owner string, id uuid.UUID) (*savedview.SavedView, error)
	FindDefault(ctx context.Context, owner, collection string) (*savedview.SavedView, error)
	List(ctx context.Context, owner string, filters savedview.ListFilters) ([]savedview.SavedView, error)
	SetDefault(ctx context.Context, owner string, id uuid.UUID) error
	Delete(ctx context.Context, owner string, id uuid.UUID) error
}

type SavedViewService struct {
	repo   Repository
	logger *zap.Logger
}

func NewSavedViewService(repo Repository, logger *zap.Logger) *SavedViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SavedViewService{repo: repo, logger: logger}
}

func (s *SavedViewService) CreateView(ctx context.Context, owner string, req savedview.CreateSavedViewRequest) (*savedview.SavedView, error) {
	v := req.ToView(owner)
	if err := s.repo.Create(ctx, &v); err != nil {
		return nil, err
	}
	s.logger.Info("saved view created",
		zap.String("id", v.ID.String()),
		zap.String("collection", v.Collection),
		zap.Bool("default", v.IsDefault),
	)
	return &v, nil
}

func (s *SavedViewService) ListViews(ctx context.Context, owner string, filters savedview.ListFilters) ([]savedview.SavedView, error) {
	return s.repo.List(ctx, owner, filters)
}

// GetView returns owner's view. A malformed id is reported as not found.
func (s *SavedViewService) GetView(ctx context.Context, owner, id string) (*savedview.SavedView, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, owner, uid)
}

// FindDefault returns owner's default view for a collection.
func (s *SavedViewService) FindDefault(ctx context.Context, owner, collection string) (*savedview.SavedView, error) {
	return s.repo.FindDefault(ctx, owner, collection)
}

func (s *SavedViewService) SetDefault(ctx context.Context, owner, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.SetDefault(ctx, owner, uid)
}

func (s *SavedViewService) DeleteView(ctx context.Context, owner, id string) error {
	uid, err := parseID(id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, owner, uid)
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("saved view %q: %w", id, xerrors.ErrNotFound)
	}
	return uid, nil
}
