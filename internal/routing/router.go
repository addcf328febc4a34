// Package routing maps a classified request to a responsible team and a
// priority, optionally corrected by the dominant historical outcome for the
// category.
package routing

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// DefaultTeam receives anything that has no explicit mapping.
const DefaultTeam = "ServiceDesk"

// priorConfidenceCeiling: the historical override never fires at or above
// this classification confidence.
const priorConfidenceCeiling = 0.7

var teamByCategory = map[domain.Category]string{
	domain.CategoryPassword:      "ServiceDesk",
	domain.CategoryVPN:           "Network",
	domain.CategoryEmailOutlook:  "Messaging",
	domain.CategoryPrinter:       "EndUserSupport",
	domain.CategoryNetwork:       "Network",
	domain.CategoryHardware:      "EndUserSupport",
	domain.CategorySoftware:      "Apps",
	domain.CategoryAccessRequest: "Identity",
	domain.CategoryOther:         "ServiceDesk",
}

// Decision is the routing outcome for one intake.
type Decision struct {
	Team         string
	Priority     domain.TicketPriority
	PriorApplied bool
}

// Prior is the dominant historical (team, priority) pair for a category.
// Either field may be nil; the override only replaces what is present.
type Prior struct {
	Team     *string
	Priority *domain.TicketPriority
}

// HistoryProvider supplies the dominant past routing outcome for a category.
// A nil Prior means no history exists.
type HistoryProvider interface {
	DominantRoute(ctx context.Context, category domain.Category) (*Prior, error)
}

// Router computes routing decisions.
type Router struct {
	history HistoryProvider
	logger  *zap.Logger
}

// NewRouter constructs a Router. history may be nil, in which case no
// historical correction is ever applied.
func NewRouter(history HistoryProvider, logger *zap.Logger) *Router {
	return &Router{history: history, logger: logger}
}

// Route maps (category, urgency, confidence) to a Decision. urgency may be
// empty (absent). The historical override fires only when a prior exists and
// confidence is below 0.7; a failing history lookup degrades to the base
// decision.
func (r *Router) Route(ctx context.Context, category domain.Category, urgency string, confidence float64) Decision {
	decision := Decision{
		Team:     teamFor(category),
		Priority: basePriority(category, urgency, confidence),
	}

	if r.history == nil || confidence >= priorConfidenceCeiling {
		return decision
	}

	prior, err := r.history.DominantRoute(ctx, category)
	if err != nil {
		r.logger.Warn("routing history lookup failed; keeping base decision",
			zap.String("category", string(category)),
			zap.Error(err))
		return decision
	}
	if prior == nil {
		return decision
	}

	if prior.Team != nil {
		decision.Team = *prior.Team
		decision.PriorApplied = true
	}
	if prior.Priority != nil {
		decision.Priority = *prior.Priority
		decision.PriorApplied = true
	}
	return decision
}

func teamFor(category domain.Category) string {
	if team, ok := teamByCategory[category]; ok {
		return team
	}
	return DefaultTeam
}

func basePriority(category domain.Category, urgency string, confidence float64) domain.TicketPriority {
	if urgency != "" {
		switch strings.ToLower(urgency) {
		case "critical", "p1":
			return domain.PriorityP1
		case "high", "p2":
			return domain.PriorityP2
		case "medium", "p3":
			return domain.PriorityP3
		default:
			return domain.PriorityP4
		}
	}

	if (category == domain.CategoryNetwork || category == domain.CategoryVPN) && confidence >= 0.7 {
		return domain.PriorityP2
	}
	if category == domain.CategoryPassword || category == domain.CategoryEmailOutlook {
		return domain.PriorityP3
	}
	return domain.PriorityP4
}
