package routing

import (
	"context"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// RouteCount is one row of the grouped routing-history aggregate: how often a
// (team, priority) pair was the outcome for a category.
type RouteCount struct {
	Team     string                `json:"team"`
	Priority domain.TicketPriority `json:"priority"`
	Count    int64                 `json:"count"`
}

// RouteCounter is the read-only persistence query the history provider is
// built on. Rows are ordered by count descending, then team ascending, then
// priority ascending, so the first row is the deterministic dominant pair.
type RouteCounter interface {
	CountRoutesByCategory(ctx context.Context, category domain.Category) ([]RouteCount, error)
}

type dbHistory struct {
	counts RouteCounter
}

// NewHistory builds a HistoryProvider over the grouped-count query.
func NewHistory(counts RouteCounter) HistoryProvider {
	return &dbHistory{counts: counts}
}

func (h *dbHistory) DominantRoute(ctx context.Context, category domain.Category) (*Prior, error) {
	rows, err := h.counts.CountRoutesByCategory(ctx, category)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	top := rows[0]
	prior := &Prior{}
	if top.Team != "" {
		team := top.Team
		prior.Team = &team
	}
	if top.Priority != "" {
		priority := top.Priority
		prior.Priority = &priority
	}
	if prior.Team == nil && prior.Priority == nil {
		return nil, nil
	}
	return prior, nil
}
