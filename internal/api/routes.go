package api

import (
	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes. Cron endpoints are guarded by the
// shared-secret middleware; manual endpoints stay open for dashboard use.
func SetupRoutes(
	router *gin.Engine,
	cronHandler *CronHandler,
	articleHandler *ArticleHandler,
	promptHandler *PromptHandler,
	dashboardHandler *DashboardHandler,
	cronSecret string,
	enforceAuth bool,
) {
	apiGroup := router.Group("/api")

	cron := apiGroup.Group("/cron", CronAuth(cronSecret, enforceAuth))
	cron.GET("/scrape-news", cronHandler.ScrapeNews)
	cron.GET("/classify-articles", cronHandler.ClassifyArticles)
	cron.GET("/generate-instagram", cronHandler.GenerateInstagram)
	cron.GET("/daily-workflow", cronHandler.DailyWorkflow)

	apiGroup.POST("/classify-single", articleHandler.ClassifySingle)
	apiGroup.POST("/generate-summary", articleHandler.GenerateSummary)
	apiGroup.GET("/generate-instagram-content", cronHandler.GenerateContent)

	apiGroup.GET("/stats", dashboardHandler.Stats)
	apiGroup.GET("/instagram-posts", dashboardHandler.ListPosts)

	apiGroup.GET("/prompts", promptHandler.ListPrompts)
	apiGroup.POST("/prompts", promptHandler.SavePrompt)
	apiGroup.GET("/prompts/:category", promptHandler.GetPrompt)
	apiGroup.DELETE("/prompts/:category", promptHandler.DeletePrompt)
}
