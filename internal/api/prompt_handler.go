package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsgram/internal/domain"
)

// defaultUserID scopes stored prompts until real authentication exists.
const defaultUserID = "default"

// PromptStore is the prompt template persistence used by the handler.
type PromptStore interface {
	ListByUser(ctx context.Context, userID string) ([]domain.PromptTemplate, error)
	GetByCategory(ctx context.Context, userID, category string) (*domain.PromptTemplate, error)
	Upsert(ctx context.Context, prompt *domain.PromptTemplate) error
	Delete(ctx context.Context, userID, category string) error
}

// PromptHandler handles stored per-category system prompts.
type PromptHandler struct {
	store PromptStore
}

// NewPromptHandler creates a new prompt handler.
func NewPromptHandler(store PromptStore) *PromptHandler {
	return &PromptHandler{store: store}
}

// ListPrompts handles GET /api/prompts.
func (h *PromptHandler) ListPrompts(c *gin.Context) {
	prompts, listErr := h.store.ListByUser(c.Request.Context(), defaultUserID)
	if listErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prompts"})
		return
	}
	if prompts == nil {
		prompts = []domain.PromptTemplate{}
	}

	c.JSON(http.StatusOK, gin.H{"prompts": prompts})
}

// GetPrompt handles GET /api/prompts/:category. A category with no stored
// prompt returns a null prompt, meaning the built-in default applies.
func (h *PromptHandler) GetPrompt(c *gin.Context) {
	prompt, getErr := h.store.GetByCategory(c.Request.Context(), defaultUserID, c.Param("category"))
	if getErr != nil {
		if errors.Is(getErr, domain.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"prompt": nil})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch prompt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"prompt": prompt})
}

// DeletePrompt handles DELETE /api/prompts/:category, resetting the category
// to its built-in default prompt.
func (h *PromptHandler) DeletePrompt(c *gin.Context) {
	if deleteErr := h.store.Delete(c.Request.Context(), defaultUserID, c.Param("category")); deleteErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete prompt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

type savePromptRequest struct {
	Category     string `binding:"required" json:"category"`
	SystemPrompt string `binding:"required" json:"systemPrompt"`
}

// SavePrompt handles POST /api/prompts, upserting on (user, category).
func (h *PromptHandler) SavePrompt(c *gin.Context) {
	var req savePromptRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Category and systemPrompt are required"})
		return
	}

	prompt := &domain.PromptTemplate{
		UserID:       defaultUserID,
		Category:     req.Category,
		SystemPrompt: req.SystemPrompt,
	}
	if upsertErr := h.store.Upsert(c.Request.Context(), prompt); upsertErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save prompt"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "prompt": prompt})
}
