package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// KBHandler exposes the knowledge base.
type KBHandler struct {
	knowledge *service.KnowledgeService
}

// NewKBHandler constructs handler.
func NewKBHandler(knowledge *service.KnowledgeService) *KBHandler {
	return &KBHandler{knowledge: knowledge}
}

// Index POST /kb/index. The new article is stored immediately; the retrieval
// index picks it up on the next rebuild.
func (h *KBHandler) Index(c *fiber.Ctx) error {
	var req dto.KBIndexRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	article, err := h.knowledge.AddArticle(c.UserContext(), req.Title, req.Content, req.Tags)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.KBIndexResponse{
		ID:      article.ID,
		Title:   article.Title,
		Indexed: false,
	})
}

// Query POST /kb/query.
func (h *KBHandler) Query(c *fiber.Ctx) error {
	var req dto.KBQueryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Text == "" {
		return apperrors.NewValidationError("text required", nil)
	}
	topK := req.TopK
	if topK <= 0 {
		topK = 3
	}
	suggestions, err := h.knowledge.Suggest(c.UserContext(), req.Text, topK)
	if err != nil {
		return err
	}
	results := make([]dto.SuggestionView, 0, len(suggestions))
	for _, s := range suggestions {
		results = append(results, dto.SuggestionView{ID: s.ID, Title: s.Title, Score: s.Score})
	}
	return c.JSON(dto.KBQueryResponse{Results: results})
}

// Reindex POST /kb/reindex.
func (h *KBHandler) Reindex(c *fiber.Ctx) error {
	count, err := h.knowledge.Rebuild(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.KBReindexResponse{Articles: count})
}
