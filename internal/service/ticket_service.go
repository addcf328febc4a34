package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketService covers ticket reads and staff-side updates after intake.
type TicketService struct {
	tickets    repository.TicketRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewTicketService constructs the service.
func NewTicketService(tickets repository.TicketRepository, dispatcher events.Dispatcher, logger *zap.Logger) *TicketService {
	return &TicketService{tickets: tickets, dispatcher: dispatcher, logger: logger}
}

// TicketUpdateInput describes a staff-side partial update.
type TicketUpdateInput struct {
	Status       *string
	Priority     *string
	AssigneeTeam *string
	AssigneeUser *string
}

// List returns tickets matching the filter, newest first.
func (s *TicketService) List(ctx context.Context, status *string, limit, offset int) ([]domain.Ticket, error) {
	filter := repository.TicketFilter{Limit: limit, Offset: offset}
	if status != nil {
		st := domain.TicketStatus(strings.ToLower(strings.TrimSpace(*status)))
		if !domain.ValidStatus(st) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *status})
		}
		filter.Status = &st
	}
	tickets, err := s.tickets.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// Get fetches one ticket by id.
func (s *TicketService) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return ticket, nil
}

// Update applies a partial update. Changing the assignee publishes an
// assignment event so the usual notices go out.
func (s *TicketService) Update(ctx context.Context, id int64, input TicketUpdateInput) (*domain.Ticket, error) {
	update := repository.TicketUpdate{
		AssigneeTeam: input.AssigneeTeam,
		AssigneeUser: input.AssigneeUser,
	}
	if input.Status != nil {
		st := domain.TicketStatus(strings.ToLower(strings.TrimSpace(*input.Status)))
		if !domain.ValidStatus(st) {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": *input.Status})
		}
		update.Status = &st
	}
	if input.Priority != nil {
		pr := domain.TicketPriority(strings.ToUpper(strings.TrimSpace(*input.Priority)))
		if !domain.ValidPriority(pr) {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": *input.Priority})
		}
		update.Priority = &pr
	}

	before, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	ticket, err := s.tickets.Update(ctx, id, update)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	if assigneeChanged(before.AssigneeUser, ticket.AssigneeUser) {
		s.publish(ctx, events.EventTicketAssigned, ticket, "")
	}
	return ticket, nil
}

// ContactRequester relays a free-text message to the ticket's requester via
// the notification channels.
func (s *TicketService) ContactRequester(ctx context.Context, id int64, message string) (*domain.Ticket, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperrors.NewValidationError("message required", nil)
	}
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publish(ctx, events.EventContactRequester, ticket, message)
	return ticket, nil
}

func assigneeChanged(before, after *string) bool {
	switch {
	case before == nil && after == nil:
		return false
	case before == nil || after == nil:
		return true
	default:
		return *before != *after
	}
}

func (s *TicketService) publish(ctx context.Context, eventType events.EventType, ticket *domain.Ticket, message string) {
	if s.dispatcher == nil {
		return
	}
	snapshot := *ticket
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Ticket:    &snapshot,
		Message:   message,
		Timestamp: time.Now(),
	})
}
