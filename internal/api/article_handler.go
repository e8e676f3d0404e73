package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsgram/internal/domain"
)

// SingleClassifier runs on-demand analysis for one article.
type SingleClassifier interface {
	ClassifySingle(ctx context.Context, id string) (*domain.EnhancedClassificationResult, error)
	Summarize(ctx context.Context, id string) (*domain.ArticleSummary, error)
}

// ArticleHandler handles on-demand article analysis endpoints.
type ArticleHandler struct {
	svc SingleClassifier
}

// NewArticleHandler creates a new article handler.
func NewArticleHandler(svc SingleClassifier) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

type articleIDRequest struct {
	ID string `binding:"required" json:"id"`
}

// ClassifySingle handles POST /api/classify-single. It runs the enhanced
// classifier on one article and returns the full analysis.
func (h *ArticleHandler) ClassifySingle(c *gin.Context) {
	var req articleIDRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": bindErr.Error()})
		return
	}

	classification, classifyErr := h.svc.ClassifySingle(c.Request.Context(), req.ID)
	if classifyErr != nil {
		if errors.Is(classifyErr, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": classifyErr.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"classification": classification,
	})
}

// GenerateSummary handles POST /api/generate-summary.
func (h *ArticleHandler) GenerateSummary(c *gin.Context) {
	var req articleIDRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": bindErr.Error()})
		return
	}

	summary, summaryErr := h.svc.Summarize(c.Request.Context(), req.ID)
	if summaryErr != nil {
		if errors.Is(summaryErr, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Article not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": summaryErr.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"summary": summary,
	})
}
