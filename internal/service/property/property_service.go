// internal/service/property/property_service.go
package property

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/property"
	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/pkg/price"
	"estate-portal/internal/service/listing"
	"estate-portal/internal/upstream"

	"go.uber.org/zap"
)

const (
	Collection    = "properties"
	SubCollection = "sub-properties"
)

// PropertyService serves properties and, per parent, their sub-properties.
type PropertyService struct {
	properties  *listing.Service[property.Property]
	units       *listing.Service[property.SubProperty]
	resource    *upstream.Resource[property.Property]
	subResource *upstream.Resource[property.SubProperty]
	formatter   price.Formatter
	logger      *zap.Logger
}

func NewPropertyService(client *upstream.Client, cfg listing.Config, formatter price.Formatter) *PropertyService {
	resource := upstream.NewResource[property.Property](client, Collection)
	subResource := upstream.NewResource[property.SubProperty](client, SubCollection)

	propCfg := cfg
	propCfg.Name = Collection
	propCfg.DefaultSort = property.DefaultSort
	propCfg.SortFields = property.SortFields

	unitCfg := cfg
	unitCfg.Name = SubCollection
	unitCfg.DefaultSort = property.DefaultSort
	unitCfg.SortFields = property.SortFields

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PropertyService{
		properties: listing.NewService(propCfg, func([]string) collection.Fetcher[property.Property] {
			return resource.Fetcher(nil)
		}),
		units: listing.NewService(unitCfg, func(parts []string) collection.Fetcher[property.SubProperty] {
			var parent string
			if len(parts) > 0 {
				parent = parts[0]
			}
			return subResource.Fetcher(url.Values{"parentId": {parent}})
		}),
		resource:    resource,
		subResource: subResource,
		formatter:   formatter,
		logger:      logger,
	}
}

// Properties is the property listing.
func (s *PropertyService) Properties() *listing.Service[property.Property] { return s.properties }

// SubProperties is the sub-property listing, keyed by parent property id.
func (s *PropertyService) SubProperties() *listing.Service[property.SubProperty] { return s.units }

// GetProperty returns a property from the snapshot or, failing that, the API.
func (s *PropertyService) GetProperty(ctx context.Context, identity, id string) (property.Property, error) {
	p, err := s.properties.Find(ctx, identity, id)
	if err == nil || !errors.Is(err, xerrors.ErrNotFound) {
		return p, err
	}
	p, err = s.resource.Get(ctx, id)
	if err != nil {
		return p, err
	}
	if p.RecordID() == "" {
		return p, fmt.Errorf("property %s: %w", id, xerrors.ErrNotFound)
	}
	return p, nil
}

// Detail returns a property with its sub-properties and effective status.
func (s *PropertyService) Detail(ctx context.Context, identity, id string) (*property.Detail, error) {
	p, err := s.GetProperty(ctx, identity, id)
	if err != nil {
		return nil, err
	}

	children, err := s.units.Records(ctx, identity, id)
	if err != nil {
		return nil, xerrors.Wrap(err, "failed to load sub-properties")
	}

	return &property.Detail{
		Property:        p,
		EffectiveStatus: property.DeriveEffectiveStatus(p, children),
		FormattedPrice:  s.formatter.Format(p.Price.Float(), false),
		SubProperties:   children,
		Availability:    property.Availability(children),
	}, nil
}

// CreateProperty shows the new property at the top of the list until the
// API confirms it, then refetches.
func (s *PropertyService) CreateProperty(ctx context.Context, identity string, req property.CreatePropertyRequest) (property.Property, error) {
	var created property.Property
	err := s.properties.Mutate(ctx, identity,
		collection.Prepending(req.ToProperty()),
		func(ctx context.Context) error {
			var err error
			created, err = s.resource.Create(ctx, req.Payload())
			return err
		},
	)
	if err != nil {
		return created, xerrors.Wrap(err, "failed to create property")
	}
	s.logger.Info("property created", zap.String("id", created.RecordID()))
	return created, nil
}

func (s *PropertyService) UpdateProperty(ctx context.Context, identity, id string, req property.UpdatePropertyRequest) (property.Property, error) {
	current, err := s.GetProperty(ctx, identity, id)
	if err != nil {
		return current, err
	}

	updated := req.Apply(current)
	err = s.properties.Mutate(ctx, identity,
		collection.Replacing(updated),
		func(ctx context.Context) error {
			rec, err := s.resource.Update(ctx, id, req.Payload())
			if err == nil && rec.RecordID() != "" {
				updated = rec
			}
			return err
		},
	)
	if err != nil {
		return current, xerrors.Wrap(err, "failed to update property")
	}
	return updated, nil
}

// DeleteProperty removes a property and forgets its sub-property view.
func (s *PropertyService) DeleteProperty(ctx context.Context, identity, id string) error {
	err := s.properties.Mutate(ctx, identity,
		collection.Removing[property.Property](id),
		func(ctx context.Context) error { return s.resource.Delete(ctx, id) },
	)
	if err != nil {
		return xerrors.Wrap(err, "failed to delete property")
	}
	s.units.Drop(identity, id)
	return nil
}

func (s *PropertyService) GetSubProperty(ctx context.Context, identity, propertyID, id string) (property.SubProperty, error) {
	return s.units.Find(ctx, identity, id, propertyID)
}

func (s *PropertyService) CreateSubProperty(ctx context.Context, identity, propertyID string, req property.CreateSubPropertyRequest) (property.SubProperty, error) {
	if _, err := s.GetProperty(ctx, identity, propertyID); err != nil {
		return property.SubProperty{}, err
	}

	var created property.SubProperty
	err := s.units.Mutate(ctx, identity,
		collection.Prepending(req.ToSubProperty(propertyID)),
		func(ctx context.Context) error {
			var err error
			created, err = s.subResource.Create(ctx, req.Payload(propertyID))
			return err
		},
		propertyID,
	)
	if err != nil {
		return created, xerrors.Wrap(err, "failed to create sub-property")
	}
	s.refreshParent(ctx, identity)
	return created, nil
}

func (s *PropertyService) UpdateSubProperty(ctx context.Context, identity, propertyID, id string, req property.UpdateSubPropertyRequest) (property.SubProperty, error) {
	current, err := s.units.Find(ctx, identity, id, propertyID)
	if err != nil {
		return current, err
	}

	updated := req.Apply(current)
	err = s.units.Mutate(ctx, identity,
		collection.Replacing(updated),
		func(ctx context.Context) error {
			rec, err := s.subResource.Update(ctx, id, req.Payload())
			if err == nil && rec.RecordID() != "" {
				updated = rec
			}
			return err
		},
		propertyID,
	)
	if err != nil {
		return current, xerrors.Wrap(err, "failed to update sub-property")
	}
	s.refreshParent(ctx, identity)
	return updated, nil
}

func (s *PropertyService) DeleteSubProperty(ctx context.Context, identity, propertyID, id string) error {
	err := s.units.Mutate(ctx, identity,
		collection.Removing[property.SubProperty](id),
		func(ctx context.Context) error { return s.subResource.Delete(ctx, id) },
		propertyID,
	)
	if err != nil {
		return xerrors.Wrap(err, "failed to delete sub-property")
	}
	s.refreshParent(ctx, identity)
	return nil
}

// refreshParent refetches the property list when it is already loaded,
// since unit changes can change a parent's status upstream.
func (s *PropertyService) refreshParent(ctx context.Context, identity string) {
	view, ok := s.properties.Peek(identity)
	if !ok || !view.Loaded() {
		return
	}
	if err := view.Refresh(ctx); err != nil && !errors.Is(err, collection.ErrStale) {
		s.logger.Warn("failed to refresh properties after unit change", zap.Error(err))
	}
}
