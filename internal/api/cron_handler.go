// Package api provides HTTP handlers for the newsgram pipeline service.
package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"newsgram/internal/service"
)

// Scraper runs the feed scraping stage.
type Scraper interface {
	Scrape(ctx context.Context) (*service.ScrapeResult, error)
}

// ClassifyRunner runs the batch classification stage.
type ClassifyRunner interface {
	Classify(ctx context.Context) (*service.ClassifyResult, error)
}

// GenerateRunner runs the Instagram generation stage.
type GenerateRunner interface {
	Generate(ctx context.Context) (*service.GenerateResult, error)
	GenerateManual(ctx context.Context) (*service.ManualGenerateResult, error)
}

// WorkflowRunner runs the daily workflow.
type WorkflowRunner interface {
	Run(ctx context.Context) *service.WorkflowResult
}

// CronHandler handles the scheduled pipeline endpoints.
type CronHandler struct {
	scraper    Scraper
	classifier ClassifyRunner
	generator  GenerateRunner
	workflow   WorkflowRunner
}

// NewCronHandler creates a new cron handler.
func NewCronHandler(s Scraper, c ClassifyRunner, g GenerateRunner, w WorkflowRunner) *CronHandler {
	return &CronHandler{scraper: s, classifier: c, generator: g, workflow: w}
}

// ScrapeNews handles GET /api/cron/scrape-news.
func (h *CronHandler) ScrapeNews(c *gin.Context) {
	result, scrapeErr := h.scraper.Scrape(c.Request.Context())
	if scrapeErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Scraping failed",
			"message": scrapeErr.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ClassifyArticles handles GET /api/cron/classify-articles.
func (h *CronHandler) ClassifyArticles(c *gin.Context) {
	result, classifyErr := h.classifier.Classify(c.Request.Context())
	if classifyErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Classification failed",
			"message": classifyErr.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GenerateInstagram handles GET /api/cron/generate-instagram.
func (h *CronHandler) GenerateInstagram(c *gin.Context) {
	result, generateErr := h.generator.Generate(c.Request.Context())
	if generateErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Instagram generation failed",
			"message": generateErr.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// DailyWorkflow handles GET /api/cron/daily-workflow. A failed stage is
// reported in the body, never as a transport error.
func (h *CronHandler) DailyWorkflow(c *gin.Context) {
	c.JSON(http.StatusOK, h.workflow.Run(c.Request.Context()))
}

// GenerateContent handles GET /api/generate-instagram-content, the manual
// small-batch generation variant with per-article results.
func (h *CronHandler) GenerateContent(c *gin.Context) {
	result, generateErr := h.generator.GenerateManual(c.Request.Context())
	if generateErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   generateErr.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, result)
}
