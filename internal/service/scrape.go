// Package service implements the pipeline stages: scraping feeds,
// classifying articles, generating Instagram content, and running the
// daily workflow that chains them.
package service

import (
	"context"
	"errors"
	"time"

	"newsgram/internal/config"
	"newsgram/internal/domain"
	"newsgram/internal/extractor"
	"newsgram/internal/feeds"
	"newsgram/internal/logger"
	"newsgram/internal/metrics"
	"newsgram/internal/ratelimit"
)

// minInlineContentLength is the feed content length below which the full
// page is fetched and extracted instead.
const minInlineContentLength = 200

// FeedSource fetches one feed's articles.
type FeedSource interface {
	Fetch(ctx context.Context, feedURL string) ([]feeds.Article, error)
}

// ContentExtractor pulls readable content out of an article page.
type ContentExtractor interface {
	Extract(ctx context.Context, rawURL string) (*extractor.Content, error)
}

// ArticleStore is the article persistence used by the pipeline stages.
type ArticleStore interface {
	InsertIfAbsent(ctx context.Context, article *domain.Article) (string, error)
	GetByID(ctx context.Context, id string) (*domain.Article, error)
	ListByStatus(ctx context.Context, status domain.ArticleStatus, minRelevance, limit int) ([]domain.Article, error)
	ApplyClassification(ctx context.Context, id string, result *domain.ClassificationResult) error
	AdvanceStatus(ctx context.Context, id string, from, to domain.ArticleStatus) error
}

// ScrapeResult summarizes one scraping run.
type ScrapeResult struct {
	Success           bool `json:"success"`
	TotalArticles     int  `json:"totalArticles"`
	NewArticles       int  `json:"newArticles"`
	ExtractedArticles int  `json:"extractedArticles"`
	Feeds             int  `json:"feeds"`
}

// ScrapeService ingests articles from the configured feed registry.
type ScrapeService struct {
	registry  *feeds.Registry
	fetcher   FeedSource
	extractor ContentExtractor
	articles  ArticleStore
	metrics   *metrics.Metrics
	cfg       config.ScraperConfig
	logger    logger.Logger

	// sleep and delay are replaceable in tests. delay paces outbound
	// page fetches with a randomized wait in the configured window.
	sleep func(ctx context.Context, d time.Duration) error
	delay func(ctx context.Context) error
}

// NewScrapeService wires a scraping stage.
func NewScrapeService(
	registry *feeds.Registry,
	fetcher FeedSource,
	ext ContentExtractor,
	articles ArticleStore,
	m *metrics.Metrics,
	cfg config.ScraperConfig,
	log logger.Logger,
) *ScrapeService {
	return &ScrapeService{
		registry:  registry,
		fetcher:   fetcher,
		extractor: ext,
		articles:  articles,
		metrics:   m,
		cfg:       cfg,
		logger:    log,
		sleep:     sleepCtx,
		delay: func(ctx context.Context) error {
			if cfg.MinDelay <= 0 && cfg.MaxDelay <= 0 {
				return nil
			}
			return ratelimit.RandomDelay(ctx, cfg.MinDelay, cfg.MaxDelay)
		},
	}
}

// Scrape walks every enabled feed, ingests fresh articles, and returns run
// counters. A feed or article failing is logged and skipped; the run only
// errors when the context is cancelled.
func (s *ScrapeService) Scrape(ctx context.Context) (*ScrapeResult, error) {
	sources := s.registry.Enabled()
	result := &ScrapeResult{Feeds: len(sources)}

	s.logger.Info("starting feed scrape", logger.Int("feeds", len(sources)))

	for i, source := range sources {
		if scrapeErr := s.scrapeSource(ctx, source, result); scrapeErr != nil {
			if errors.Is(scrapeErr, context.Canceled) || errors.Is(scrapeErr, context.DeadlineExceeded) {
				return result, scrapeErr
			}
			s.logger.Warn("feed scrape failed",
				logger.String("feed", source.URL),
				logger.Error(scrapeErr))
			s.metrics.StageFailures.WithLabelValues("scrape").Inc()
		}

		if i < len(sources)-1 {
			if sleepErr := s.sleep(ctx, s.cfg.FeedDelay); sleepErr != nil {
				return result, sleepErr
			}
		}
	}

	result.Success = true
	s.logger.Info("feed scrape completed",
		logger.Int("total", result.TotalArticles),
		logger.Int("new", result.NewArticles),
		logger.Int("extracted", result.ExtractedArticles))

	return result, nil
}

func (s *ScrapeService) scrapeSource(ctx context.Context, source feeds.Source, result *ScrapeResult) error {
	items, fetchErr := s.fetcher.Fetch(ctx, source.URL)
	if fetchErr != nil {
		return fetchErr
	}

	cutoff := time.Now().Add(-s.cfg.MaxArticleAge)
	taken := 0

	for _, item := range items {
		if source.Limit > 0 && taken >= source.Limit {
			break
		}
		if item.PublishedAt != nil && item.PublishedAt.Before(cutoff) {
			continue
		}
		taken++
		result.TotalArticles++

		if ingestErr := s.ingest(ctx, source, item, result); ingestErr != nil {
			if errors.Is(ingestErr, context.Canceled) || errors.Is(ingestErr, context.DeadlineExceeded) {
				return ingestErr
			}
			s.logger.Warn("article ingest failed",
				logger.String("url", item.Link),
				logger.Error(ingestErr))
			s.metrics.StageFailures.WithLabelValues("scrape").Inc()
		}

		if sleepErr := s.sleep(ctx, s.cfg.ArticleDelay); sleepErr != nil {
			return sleepErr
		}
	}

	return nil
}

func (s *ScrapeService) ingest(ctx context.Context, source feeds.Source, item feeds.Article, result *ScrapeResult) error {
	content := item.Content
	if content == "" {
		content = item.Summary
	}
	thumbnail := item.Thumbnail

	// Thin feed entries get their content from the page itself.
	if len(content) < minInlineContentLength {
		if delayErr := s.delay(ctx); delayErr != nil {
			return delayErr
		}
		extracted, extractErr := s.extractor.Extract(ctx, item.Link)
		if extractErr != nil {
			s.logger.Debug("content extraction failed, keeping feed content",
				logger.String("url", item.Link),
				logger.Error(extractErr))
		} else {
			content = extracted.Content
			if thumbnail == "" {
				thumbnail = extracted.Thumbnail
			}
			result.ExtractedArticles++
			s.metrics.ArticlesExtracted.Inc()
		}
	}

	article := &domain.Article{
		URL:          item.Link,
		Title:        item.Title,
		Content:      content,
		Excerpt:      domain.Excerpt(content),
		ThumbnailURL: thumbnail,
		Author:       item.Author,
		Source:       domain.SourceFromURL(source.URL),
		PublishedAt:  item.PublishedAt,
	}

	_, insertErr := s.articles.InsertIfAbsent(ctx, article)
	if errors.Is(insertErr, domain.ErrDuplicate) {
		return nil
	}
	if insertErr != nil {
		return insertErr
	}

	result.NewArticles++
	s.metrics.ArticlesScraped.Inc()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
