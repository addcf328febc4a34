package events

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated    EventType = "ticket_created"
	EventTicketAssigned   EventType = "ticket_assigned"
	EventContactRequester EventType = "contact_requester"
)

// Event represents a ticket lifecycle event emitted by services. The ticket
// is a snapshot taken at publish time; Message is only set for
// contact-requester events.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Ticket    *domain.Ticket `json:"ticket"`
	Message   string         `json:"message,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}
