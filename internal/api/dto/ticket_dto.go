package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// IngestTicketRequest is the intake payload accepted from HTTP and adapters.
type IngestTicketRequest struct {
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
	UserEmail *string `json:"user_email"`
	UserPhone *string `json:"user_phone"`
	Channel   string  `json:"channel"`
	SourceRef *string `json:"source_ref"`
	Urgency   string  `json:"urgency"`
}

// UpdateTicketRequest is a staff-side partial update.
type UpdateTicketRequest struct {
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	AssigneeTeam *string `json:"assignee_team"`
	AssigneeUser *string `json:"assignee_user"`
}

// ContactRequesterRequest carries a free-text message for the requester.
type ContactRequesterRequest struct {
	Message string `json:"message"`
}

// TicketView is the wire representation of a ticket.
type TicketView struct {
	ID           int64                 `json:"id"`
	CreatedAt    time.Time             `json:"created_at"`
	Source       domain.Channel        `json:"source"`
	SourceRef    *string               `json:"source_ref"`
	UserEmail    *string               `json:"user_email"`
	UserPhone    *string               `json:"user_phone"`
	Subject      string                `json:"subject"`
	Body         string                `json:"body"`
	Category     domain.Category       `json:"category"`
	Priority     domain.TicketPriority `json:"priority"`
	Status       domain.TicketStatus   `json:"status"`
	AssigneeTeam string                `json:"assignee_team"`
	AssigneeUser *string               `json:"assignee_user"`
}

// ClassificationView reports the classifier outcome.
type ClassificationView struct {
	Category   domain.Category `json:"category"`
	Confidence float64         `json:"confidence"`
}

// RoutingView reports the routing decision, including whether a historical
// prior replaced the rule-based outcome.
type RoutingView struct {
	Team         string                `json:"team"`
	Priority     domain.TicketPriority `json:"priority"`
	AssigneeUser *string               `json:"assignee_user"`
	PriorApplied bool                  `json:"prior_applied"`
}

// SuggestionView is one ranked knowledge article.
type SuggestionView struct {
	ID    int64   `json:"id"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// IntakeResponse is the full intake result.
type IntakeResponse struct {
	Ticket         TicketView         `json:"ticket"`
	Classification ClassificationView `json:"classification"`
	Routing        RoutingView        `json:"routing"`
	KBSuggestions  []SuggestionView   `json:"kb_suggestions"`
}

// TicketListResponse wraps a ticket page.
type TicketListResponse struct {
	Tickets []TicketView `json:"tickets"`
}

// NewTicketView maps a domain ticket onto the wire shape.
func NewTicketView(ticket *domain.Ticket) TicketView {
	return TicketView{
		ID:           ticket.ID,
		CreatedAt:    ticket.CreatedAt,
		Source:       ticket.Source,
		SourceRef:    ticket.SourceRef,
		UserEmail:    ticket.UserEmail,
		UserPhone:    ticket.UserPhone,
		Subject:      ticket.Subject,
		Body:         ticket.Body,
		Category:     ticket.Category,
		Priority:     ticket.Priority,
		Status:       ticket.Status,
		AssigneeTeam: ticket.AssigneeTeam,
		AssigneeUser: ticket.AssigneeUser,
	}
}
