package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// ChatInput is one inbound chatbot message. SessionID ties the messages of
// one conversation together; a fresh one is issued when absent.
type ChatInput struct {
	SessionID *string
	Message   string
	UserEmail *string
}

// ChatReply is the chatbot answer. When the message asked for a ticket,
// Result carries the full intake outcome.
type ChatReply struct {
	SessionID    string
	Response     string
	Resolved     bool
	Intent       string
	CreateTicket bool
	Result       *IntakeResult
}

// ChatService answers common self-service questions and opens tickets on
// request through the intake pipeline.
type ChatService struct {
	intake *IntakeService
}

// NewChatService constructs the service.
func NewChatService(intake *IntakeService) *ChatService {
	return &ChatService{intake: intake}
}

// Respond matches the message against the known intents in order. The
// password intent yields to VPN so "forgot my vpn password" gets VPN help.
// Every reply echoes the conversation session ID, minting one on first
// contact.
func (s *ChatService) Respond(ctx context.Context, input ChatInput) (*ChatReply, error) {
	reply, err := s.respond(ctx, input)
	if err != nil {
		return nil, err
	}
	reply.SessionID = sessionID(input.SessionID)
	return reply, nil
}

func sessionID(provided *string) string {
	if provided != nil && strings.TrimSpace(*provided) != "" {
		return strings.TrimSpace(*provided)
	}
	return uuid.NewString()
}

func (s *ChatService) respond(ctx context.Context, input ChatInput) (*ChatReply, error) {
	text := strings.ToLower(strings.TrimSpace(input.Message))

	if containsAny(text, "password", "reset", "forgot") && !strings.Contains(text, "vpn") {
		return &ChatReply{
			Response: "To reset your domain password: Press Ctrl+Alt+Del -> Change a password. If remote, connect VPN first. If locked, reply 'create ticket' to open one.",
			Resolved: true,
			Intent:   "password_reset",
		}, nil
	}
	if strings.Contains(text, "vpn") {
		return &ChatReply{
			Response: "VPN setup: Install FortiClient/AnyConnect. Login with AD credentials. Approve MFA in your Authenticator app. Reply 'create ticket' for help.",
			Resolved: true,
			Intent:   "vpn_help",
		}, nil
	}
	if containsAny(text, "outlook", "email", "o365") {
		return &ChatReply{
			Response: "Outlook config: Open Outlook -> Add Account -> Enter email -> pick Microsoft 365. Restart Outlook if prompted. Reply 'create ticket' if issue persists.",
			Resolved: true,
			Intent:   "outlook_config",
		}, nil
	}
	if containsAny(text, "printer", "print") {
		return &ChatReply{
			Response: "Printer fix: Check power/network. Reinstall driver from Company Portal. Use IP printing if needed. Reply 'create ticket' to escalate.",
			Resolved: true,
			Intent:   "printer_issue",
		}, nil
	}
	if containsAny(text, "create ticket", "open ticket") {
		email := "unknown@local"
		if input.UserEmail != nil && *input.UserEmail != "" {
			email = *input.UserEmail
		}
		result, err := s.intake.Ingest(ctx, IntakeInput{
			Subject:   "Chatbot-created ticket",
			Body:      input.Message,
			UserEmail: &email,
			Channel:   domain.ChannelChatbot,
		})
		if err != nil {
			return nil, err
		}
		return &ChatReply{
			Response:     "Ticket created from chat.",
			Resolved:     true,
			Intent:       "create_ticket",
			CreateTicket: true,
			Result:       result,
		}, nil
	}

	return &ChatReply{
		Response: "I can help with password reset, VPN, Outlook, or printer. Type your issue or say 'create ticket'.",
	}, nil
}

func containsAny(text string, needles ...string) bool {
	for _, needle := range needles {
		if strings.Contains(text, needle) {
			return true
		}
	}
	return false
}
