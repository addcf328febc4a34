package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/assignment"
	"github.com/spec-kit/helpdesk-service/internal/classifier"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/kb"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/routing"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// IntakeInput is the immutable intake payload consumed from HTTP or adapters.
type IntakeInput struct {
	Subject   string
	Body      string
	UserEmail *string
	UserPhone *string
	Channel   domain.Channel
	SourceRef *string
	Urgency   string
}

// IntakeResult is the outcome of one intake run: the committed ticket plus
// the classification, routing decision and knowledge suggestions that
// produced it.
type IntakeResult struct {
	Ticket         *domain.Ticket
	Classification classifier.Classification
	Decision       routing.Decision
	Suggestions    []kb.Suggestion
}

// IntakeService orchestrates the ticket intake pipeline: classify, route,
// persist, auto-assign, notify, suggest. Only persistence failures abort the
// run; every other collaborator degrades.
type IntakeService struct {
	tickets    repository.TicketRepository
	router     *routing.Router
	selector   *assignment.Selector
	knowledge  *KnowledgeService
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	autoAssign bool
	suggestK   int
}

// IntakeDependencies bundles collaborators for the intake service.
type IntakeDependencies struct {
	TicketRepo repository.TicketRepository
	Router     *routing.Router
	Selector   *assignment.Selector
	Knowledge  *KnowledgeService
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	AutoAssign bool
	SuggestK   int
}

// NewIntakeService constructs the orchestrator.
func NewIntakeService(deps IntakeDependencies) *IntakeService {
	suggestK := deps.SuggestK
	if suggestK <= 0 {
		suggestK = 3
	}
	return &IntakeService{
		tickets:    deps.TicketRepo,
		router:     deps.Router,
		selector:   deps.Selector,
		knowledge:  deps.Knowledge,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		autoAssign: deps.AutoAssign,
		suggestK:   suggestK,
	}
}

// Ingest runs the full pipeline for one intake request.
func (s *IntakeService) Ingest(ctx context.Context, input IntakeInput) (*IntakeResult, error) {
	subject := strings.TrimSpace(input.Subject)
	body := strings.TrimSpace(input.Body)
	if subject == "" && body == "" {
		return nil, apperrors.NewValidationError("subject or body required", nil)
	}
	if !domain.ValidChannel(input.Channel) {
		return nil, apperrors.NewValidationError("unknown channel", map[string]any{"channel": input.Channel})
	}

	text := subject + " " + body
	classification := classifier.Classify(text)
	decision := s.router.Route(ctx, classification.Category, input.Urgency, classification.Confidence)

	ticket := &domain.Ticket{
		Source:       input.Channel,
		SourceRef:    input.SourceRef,
		UserEmail:    input.UserEmail,
		UserPhone:    input.UserPhone,
		Subject:      subject,
		Body:         body,
		Category:     classification.Category,
		Priority:     decision.Priority,
		Status:       domain.TicketStatusOpen,
		AssigneeTeam: decision.Team,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.metrics.RecordIntake(string(ticket.Category))

	if s.autoAssign {
		if member, ok := s.selector.Choose(ticket.AssigneeTeam, ticket.ID); ok {
			updated, err := s.tickets.Update(ctx, ticket.ID, repository.TicketUpdate{AssigneeUser: &member})
			if err != nil {
				return nil, apperrors.MapError(err)
			}
			ticket = updated
		}
	}

	s.publish(ctx, events.EventTicketCreated, ticket, "")
	s.publish(ctx, events.EventTicketAssigned, ticket, "")

	suggestions := s.suggest(ctx, text)

	return &IntakeResult{
		Ticket:         ticket,
		Classification: classification,
		Decision:       decision,
		Suggestions:    suggestions,
	}, nil
}

// suggest degrades to an empty list; a retrieval failure never fails intake.
func (s *IntakeService) suggest(ctx context.Context, text string) []kb.Suggestion {
	if s.knowledge == nil {
		return []kb.Suggestion{}
	}
	suggestions, err := s.knowledge.Suggest(ctx, text, s.suggestK)
	if err != nil {
		s.logger.Warn("knowledge suggestion failed", zap.Error(err))
		s.metrics.RecordSuggestFailure()
		return []kb.Suggestion{}
	}
	if suggestions == nil {
		suggestions = []kb.Suggestion{}
	}
	return suggestions
}

func (s *IntakeService) publish(ctx context.Context, eventType events.EventType, ticket *domain.Ticket, message string) {
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
