package dto

// ChatRequest is one inbound chatbot message.
type ChatRequest struct {
	SessionID *string `json:"session_id"`
	Message   string  `json:"message"`
	UserEmail *string `json:"user_email"`
}

// ChatResponse is the chatbot answer. Ticket fields are only present when a
// ticket was created from chat.
type ChatResponse struct {
	SessionID     string           `json:"session_id"`
	Response      string           `json:"response"`
	Resolved      bool             `json:"resolved"`
	Intent        *string          `json:"intent"`
	CreateTicket  bool             `json:"create_ticket"`
	Ticket        *TicketView      `json:"ticket,omitempty"`
	KBSuggestions []SuggestionView `json:"kb_suggestions,omitempty"`
}
