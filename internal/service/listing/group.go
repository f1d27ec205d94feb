// internal/service/listing/group.go
package listing

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Collection is the session-scoped part of a Service, independent of its
// record type.
type Collection interface {
	Name() string
	DropSession(identity string) int
	Sweep() int
}

// Group fans session housekeeping out to every collection.
type Group []Collection

// DropSession discards identity's views in every collection.
func (g Group) DropSession(identity string) int {
	total := 0
	for _, c := range g {
		total += c.DropSession(identity)
	}
	return total
}

// Sweep evicts idle views in every collection.
func (g Group) Sweep() int {
	total := 0
	for _, c := range g {
		total += c.Sweep()
	}
	return total
}

// RunSweeper sweeps every interval until ctx is done.
func (g Group) RunSweeper(ctx context.Context, interval time.Duration, logger *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := g.Sweep(); n > 0 {
				logger.Debug("evicted idle views", zap.Int("count", n))
			}
		}
	}
}
