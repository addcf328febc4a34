package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// ChatHandler exposes the helpdesk chatbot.
type ChatHandler struct {
	chat *service.ChatService
}

// NewChatHandler constructs handler.
func NewChatHandler(chat *service.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

// Respond POST /chat.
func (h *ChatHandler) Respond(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Message == "" {
		return apperrors.NewValidationError("message required", nil)
	}

	reply, err := h.chat.Respond(c.UserContext(), service.ChatInput{
		SessionID: req.SessionID,
		Message:   req.Message,
		UserEmail: req.UserEmail,
	})
	if err != nil {
		return err
	}

	resp := dto.ChatResponse{
		SessionID:    reply.SessionID,
		Response:     reply.Response,
		Resolved:     reply.Resolved,
		CreateTicket: reply.CreateTicket,
	}
	if reply.Intent != "" {
		intent := reply.Intent
		resp.Intent = &intent
	}
	if reply.Result != nil {
		view := dto.NewTicketView(reply.Result.Ticket)
		resp.Ticket = &view
		resp.KBSuggestions = make([]dto.SuggestionView, 0, len(reply.Result.Suggestions))
		for _, s := range reply.Result.Suggestions {
			resp.KBSuggestions = append(resp.KBSuggestions, dto.SuggestionView{ID: s.ID, Title: s.Title, Score: s.Score})
		}
	}
	return c.JSON(resp)
}
