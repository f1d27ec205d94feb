// internal/service/agent/agent_service.go
package agent

import (
	"context"
	"errors"

	"estate-portal/internal/collection"
	"estate-portal/internal/domain/agent"
	xerrors "estate-portal/internal/pkg/errors"
	"estate-portal/internal/service/listing"
	"estate-portal/internal/upstream"
)

const Collection = "agents"

type AgentService struct {
	*listing.Service[agent.Agent]
	resource *upstream.Resource[agent.Agent]
}

func NewAgentService(client *upstream.Client, cfg listing.Config) *AgentService {
	resource := upstream.NewResource[agent.Agent](client, Collection)

	cfg.Name = Collection
	cfg.DefaultSort = agent.DefaultSort
	cfg.SortFields = agent.SortFields

	return &AgentService{
		Service: listing.NewService(cfg, func([]string) collection.Fetcher[agent.Agent] {
			return resource.Fetcher(nil)
		}),
		resource: resource,
	}
}

// GetAgent returns an agent from the identity's snapshot, asking the API
// directly when the snapshot does not hold it.
func (s *AgentService) GetAgent(ctx context.Context, identity, id string) (agent.Agent, error) {
	a, err := s.Find(ctx, identity, id)
	if err == nil || !errors.Is(err, xerrors.ErrNotFound) {
		return a, err
	}
	a, err = s.resource.Get(ctx, id)
	if err != nil {
		return a, err
	}
	if a.RecordID() == "" {
		return a, xerrors.Wrap(xerrors.ErrNotFound, "agent "+id)
	}
	return a, nil
}
