package bootstrap

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"

	"newsgram/internal/api"
	"newsgram/internal/classifier"
	"newsgram/internal/config"
	"newsgram/internal/database"
	"newsgram/internal/extractor"
	"newsgram/internal/feeds"
	"newsgram/internal/instagram"
	"newsgram/internal/llm"
	"newsgram/internal/logger"
	"newsgram/internal/metrics"
	"newsgram/internal/server"
	"newsgram/internal/service"
)

const healthCheckTimeout = 2 * time.Second

// SetupHTTPServer wires the full pipeline and returns the HTTP server.
func SetupHTTPServer(cfg *config.Config, db *sqlx.DB, log logger.Logger) *server.Server {
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	articleRepo := database.NewArticleRepository(db)
	postRepo := database.NewInstagramRepository(db)
	promptRepo := database.NewPromptRepository(db)

	llmClient := llm.NewClient(cfg.LLM, log)
	articleClassifier := classifier.New(llmClient, log)
	contentGenerator := instagram.NewGenerator(llmClient, log)

	feedRegistry := feeds.NewRegistry()
	fetcher := feeds.NewFetcher(&http.Client{Timeout: cfg.Scraper.FetchTimeout}, log).
		WithDelayWindow(cfg.Scraper.MinDelay, cfg.Scraper.MaxDelay)
	pageExtractor := extractor.New(cfg.Scraper.FetchTimeout, cfg.Scraper.UserAgent, log).
		WithHostLimiter(cfg.Scraper.HostMinInterval)

	scrapeSvc := service.NewScrapeService(feedRegistry, fetcher, pageExtractor, articleRepo, m, cfg.Scraper, log)
	classifySvc := service.NewClassifyService(articleRepo, articleClassifier, m, log)
	generateSvc := service.NewGenerateService(articleRepo, postRepo, contentGenerator, m, log)
	workflowSvc := service.NewWorkflowService(cfg, nil, log)

	cronHandler := api.NewCronHandler(scrapeSvc, classifySvc, generateSvc, workflowSvc)
	articleHandler := api.NewArticleHandler(classifySvc)
	promptHandler := api.NewPromptHandler(promptRepo)
	dashboardHandler := api.NewDashboardHandler(articleRepo, postRepo)

	serverCfg := &server.Config{
		Port:           cfg.Service.Port,
		Debug:          cfg.Service.Debug,
		ServiceName:    cfg.Service.Name,
		ServiceVersion: cfg.Service.Version,
	}

	checks := map[string]server.HealthChecker{
		"database": server.DatabaseHealthChecker(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
			defer cancel()
			return db.PingContext(ctx)
		}),
	}

	return server.New(serverCfg, log, registry, checks, func(router *gin.Engine) {
		api.SetupRoutes(router,
			cronHandler, articleHandler, promptHandler, dashboardHandler,
			cfg.Cron.Secret, cfg.Service.IsProduction())
	})
}
