package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsgram/internal/domain"
	"newsgram/internal/logger"
	"newsgram/internal/metrics"
)

const (
	// minGenerateRelevance is the relevance score an article needs before
	// Instagram content is generated for it.
	minGenerateRelevance = 6

	// generateBatchLimit is the maximum number of articles processed per run.
	generateBatchLimit = 20

	// generateDelay is the wait between content generation calls.
	generateDelay = time.Second
)

// PostStore is the Instagram post persistence used by the generation stage.
type PostStore interface {
	InsertIfAbsent(ctx context.Context, post *domain.InstagramPost) (string, error)
	ExistsForArticle(ctx context.Context, articleID string) (bool, error)
}

// ContentGenerator produces Instagram content for one article.
type ContentGenerator interface {
	Generate(ctx context.Context, article *domain.Article) (*domain.InstagramContent, error)
}

// GenerateResult summarizes one generation run.
type GenerateResult struct {
	Success   bool `json:"success"`
	Total     int  `json:"total"`
	Generated int  `json:"generated"`
	Failed    int  `json:"failed"`
	Skipped   int  `json:"skipped"`
}

// GenerateService turns classified articles into draft Instagram posts.
type GenerateService struct {
	articles  ArticleStore
	posts     PostStore
	generator ContentGenerator
	metrics   *metrics.Metrics
	logger    logger.Logger

	sleep func(ctx context.Context, d time.Duration) error
}

// NewGenerateService wires a generation stage.
func NewGenerateService(articles ArticleStore, posts PostStore, g ContentGenerator, m *metrics.Metrics, log logger.Logger) *GenerateService {
	return &GenerateService{
		articles:  articles,
		posts:     posts,
		generator: g,
		metrics:   m,
		logger:    log,
		sleep:     sleepCtx,
	}
}

// Generate processes classified articles with sufficient relevance, creating
// one draft post per article and advancing the article's status. One article
// failing never fails the run.
func (s *GenerateService) Generate(ctx context.Context) (*GenerateResult, error) {
	articles, listErr := s.articles.ListByStatus(ctx, domain.StatusClassified, minGenerateRelevance, generateBatchLimit)
	if listErr != nil {
		return nil, fmt.Errorf("list classified articles: %w", listErr)
	}

	result := &GenerateResult{Success: true, Total: len(articles)}
	if len(articles) == 0 {
		s.logger.Info("no articles to generate content for")
		return result, nil
	}

	s.logger.Info("starting instagram generation", logger.Int("articles", len(articles)))

	for i := range articles {
		article := &articles[i]

		if _, genErr := s.generateOne(ctx, article, result); genErr != nil {
			if errors.Is(genErr, context.Canceled) || errors.Is(genErr, context.DeadlineExceeded) {
				return result, genErr
			}
			result.Failed++
			s.metrics.StageFailures.WithLabelValues("generate").Inc()
			s.logger.Warn("instagram generation failed",
				logger.String("article_id", article.ID),
				logger.Error(genErr))
		}

		if i < len(articles)-1 {
			if sleepErr := s.sleep(ctx, generateDelay); sleepErr != nil {
				return result, sleepErr
			}
		}
	}

	s.logger.Info("instagram generation completed",
		logger.Int("generated", result.Generated),
		logger.Int("failed", result.Failed),
		logger.Int("skipped", result.Skipped))

	return result, nil
}

// manualBatchLimit caps how many articles one manual generation call handles.
const manualBatchLimit = 3

// ManualItemResult is the per-article outcome of a manual generation call.
type ManualItemResult struct {
	Title  string `json:"title"`
	Status string `json:"status"`
	PostID string `json:"post_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ManualGenerateResult is the response of the manual generation endpoint.
type ManualGenerateResult struct {
	Success   bool               `json:"success"`
	Processed int                `json:"processed"`
	Results   []ManualItemResult `json:"results"`
	Message   string             `json:"message,omitempty"`
}

// GenerateManual processes a small batch of classified articles on demand,
// reporting a per-article outcome instead of aggregate counters.
func (s *GenerateService) GenerateManual(ctx context.Context) (*ManualGenerateResult, error) {
	articles, listErr := s.articles.ListByStatus(ctx, domain.StatusClassified, 0, generateBatchLimit)
	if listErr != nil {
		return nil, fmt.Errorf("list classified articles: %w", listErr)
	}

	result := &ManualGenerateResult{Results: []ManualItemResult{}}

	for i := range articles {
		if result.Processed >= manualBatchLimit {
			break
		}
		article := &articles[i]

		exists, existsErr := s.posts.ExistsForArticle(ctx, article.ID)
		if existsErr != nil {
			return nil, existsErr
		}
		if exists {
			continue
		}
		result.Processed++

		run := &GenerateResult{}
		post, genErr := s.generateOne(ctx, article, run)
		if genErr != nil {
			s.metrics.StageFailures.WithLabelValues("generate").Inc()
			result.Results = append(result.Results, ManualItemResult{
				Title:  article.Title,
				Status: "failed",
				Error:  genErr.Error(),
			})
			continue
		}

		item := ManualItemResult{Title: article.Title, Status: "success"}
		if post != nil {
			item.PostID = post.ID
		}
		result.Results = append(result.Results, item)
	}

	if result.Processed == 0 {
		result.Message = "No classified articles ready for Instagram content"
		return result, nil
	}

	result.Success = true
	return result, nil
}

func (s *GenerateService) generateOne(ctx context.Context, article *domain.Article, result *GenerateResult) (*domain.InstagramPost, error) {
	exists, existsErr := s.posts.ExistsForArticle(ctx, article.ID)
	if existsErr != nil {
		return nil, existsErr
	}
	if exists {
		result.Skipped++
		return nil, nil
	}

	content, genErr := s.generator.Generate(ctx, article)
	if genErr != nil {
		return nil, genErr
	}

	post := &domain.InstagramPost{
		ArticleID:   article.ID,
		Title:       content.Title,
		Caption:     content.Caption,
		FullCaption: content.FullCaption,
		Hashtags:    content.Hashtags,
		AltText:     content.AltText,
		ImageURL:    article.ThumbnailURL,
	}

	_, insertErr := s.posts.InsertIfAbsent(ctx, post)
	if errors.Is(insertErr, domain.ErrDuplicate) {
		result.Skipped++
		return nil, nil
	}
	if insertErr != nil {
		return nil, insertErr
	}

	if advanceErr := s.articles.AdvanceStatus(ctx, article.ID, domain.StatusClassified, domain.StatusGenerated); advanceErr != nil {
		// The post exists; a raced status update is logged, not fatal.
		s.logger.Warn("failed to advance article status",
			logger.String("article_id", article.ID),
			logger.Error(advanceErr))
	}

	result.Generated++
	s.metrics.PostsGenerated.Inc()
	return post, nil
}
