package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// ValidStatus reports whether s is a member of the closed status set.
func ValidStatus(s TicketStatus) bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// TicketPriority enumerates severity tiers, P1 highest.
type TicketPriority string

const (
	PriorityP1 TicketPriority = "P1"
	PriorityP2 TicketPriority = "P2"
	PriorityP3 TicketPriority = "P3"
	PriorityP4 TicketPriority = "P4"
)

// ValidPriority reports whether p is one of P1..P4.
func ValidPriority(p TicketPriority) bool {
	switch p {
	case PriorityP1, PriorityP2, PriorityP3, PriorityP4:
		return true
	}
	return false
}

// Channel identifies the intake source of a ticket.
type Channel string

const (
	ChannelWeb     Channel = "web"
	ChannelEmail   Channel = "email"
	ChannelChatbot Channel = "chatbot"
	ChannelGLPI    Channel = "glpi"
	ChannelSolman  Channel = "solman"
)

// ValidChannel reports whether c is a known intake channel.
func ValidChannel(c Channel) bool {
	switch c {
	case ChannelWeb, ChannelEmail, ChannelChatbot, ChannelGLPI, ChannelSolman:
		return true
	}
	return false
}

// Ticket is the aggregate for support requests. Identity is assigned by the
// persistence layer as a monotonically increasing integer; the round-robin
// assignee selection relies on that.
type Ticket struct {
	ID           int64
	CreatedAt    time.Time
	Source       Channel
	SourceRef    *string
	UserEmail    *string
	UserPhone    *string
	Subject      string
	Body         string
	Category     Category
	Priority     TicketPriority
	Status       TicketStatus
	AssigneeTeam string
	AssigneeUser *string
}
