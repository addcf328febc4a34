package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// TicketsHandler manages intake and ticket endpoints.
type TicketsHandler struct {
	intake  *service.IntakeService
	tickets *service.TicketService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(intake *service.IntakeService, tickets *service.TicketService) *TicketsHandler {
	return &TicketsHandler{intake: intake, tickets: tickets}
}

// Ingest POST /tickets/ingest.
func (h *TicketsHandler) Ingest(c *fiber.Ctx) error {
	var req dto.IngestTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	channel := req.Channel
	if channel == "" {
		channel = string(domain.ChannelWeb)
	}

	result, err := h.intake.Ingest(c.UserContext(), service.IntakeInput{
		Subject:   req.Subject,
		Body:      req.Body,
		UserEmail: req.UserEmail,
		UserPhone: req.UserPhone,
		Channel:   domain.Channel(channel),
		SourceRef: req.SourceRef,
		Urgency:   req.Urgency,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(intakeResponse(result))
}

// List GET /tickets.
func (h *TicketsHandler) List(c *fiber.Ctx) error {
	var status *string
	if raw := c.Query("status"); raw != "" {
		status = &raw
	}
	limit := parseInt(c.Query("limit"), 50)
	offset := parseIntAllowZero(c.Query("offset"), 0)

	tickets, err := h.tickets.List(c.UserContext(), status, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.TicketView, 0, len(tickets))
	for i := range tickets {
		items = append(items, dto.NewTicketView(&tickets[i]))
	}
	return c.JSON(dto.TicketListResponse{Tickets: items})
}

// Get GET /tickets/:id.
func (h *TicketsHandler) Get(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketView(ticket))
}

// Update PATCH /tickets/:id.
func (h *TicketsHandler) Update(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.Update(c.UserContext(), id, service.TicketUpdateInput{
		Status:       req.Status,
		Priority:     req.Priority,
		AssigneeTeam: req.AssigneeTeam,
		AssigneeUser: req.AssigneeUser,
	})
	if err != nil {
		return err
	}
	return c.JSON(dto.NewTicketView(ticket))
}

// ContactRequester POST /tickets/:id/contact.
func (h *TicketsHandler) ContactRequester(c *fiber.Ctx) error {
	id, err := ticketID(c)
	if err != nil {
		return err
	}
	var req dto.ContactRequesterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	ticket, err := h.tickets.ContactRequester(c.UserContext(), id, req.Message)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(dto.NewTicketView(ticket))
}

func ticketID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid ticket id", nil)
	}
	return id, nil
}

func parseInt(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseIntAllowZero(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed < 0 {
		return def
	}
	return parsed
}

func intakeResponse(result *service.IntakeResult) dto.IntakeResponse {
	suggestions := make([]dto.SuggestionView, 0, len(result.Suggestions))
	for _, s := range result.Suggestions {
		suggestions = append(suggestions, dto.SuggestionView{ID: s.ID, Title: s.Title, Score: s.Score})
	}
	return dto.IntakeResponse{
		Ticket: dto.NewTicketView(result.Ticket),
		Classification: dto.ClassificationView{
			Category:   result.Classification.Category,
			Confidence: result.Classification.Confidence,
		},
		Routing: dto.RoutingView{
			Team:         result.Decision.Team,
			Priority:     result.Ticket.Priority,
			AssigneeUser: result.Ticket.AssigneeUser,
			PriorApplied: result.Decision.PriorApplied,
		},
		KBSuggestions: suggestions,
	}
}
