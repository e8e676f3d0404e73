package service

import (
	"context"
	"errors"
	"fmt"

	"newsgram/internal/classifier"
	"newsgram/internal/domain"
	"newsgram/internal/logger"
	"newsgram/internal/metrics"
)

// classifyBatchLimit is the maximum number of pending articles picked up
// per classification run.
const classifyBatchLimit = 50

// ArticleClassifier is the LLM classification surface used by this stage.
type ArticleClassifier interface {
	ClassifyBatch(ctx context.Context, inputs []classifier.BatchInput) []classifier.BatchResult
	EnhancedClassify(ctx context.Context, title, content string) (*domain.EnhancedClassificationResult, error)
	Summarize(ctx context.Context, title, content string) (*domain.ArticleSummary, error)
}

// ClassifyResult summarizes one classification run.
type ClassifyResult struct {
	Success    bool `json:"success"`
	Total      int  `json:"total"`
	Classified int  `json:"classified"`
	Failed     int  `json:"failed"`
}

// ClassifyService classifies pending articles and persists the results.
type ClassifyService struct {
	articles   ArticleStore
	classifier ArticleClassifier
	metrics    *metrics.Metrics
	logger     logger.Logger
}

// NewClassifyService wires a classification stage.
func NewClassifyService(articles ArticleStore, c ArticleClassifier, m *metrics.Metrics, log logger.Logger) *ClassifyService {
	return &ClassifyService{
		articles:   articles,
		classifier: c,
		metrics:    m,
		logger:     log,
	}
}

// Classify picks up pending articles and classifies them in batches. One
// article failing never fails the run; it is counted and skipped.
func (s *ClassifyService) Classify(ctx context.Context) (*ClassifyResult, error) {
	articles, listErr := s.articles.ListByStatus(ctx, domain.StatusPending, 0, classifyBatchLimit)
	if listErr != nil {
		return nil, fmt.Errorf("list pending articles: %w", listErr)
	}

	result := &ClassifyResult{Success: true, Total: len(articles)}
	if len(articles) == 0 {
		s.logger.Info("no articles to classify")
		return result, nil
	}

	s.logger.Info("starting classification", logger.Int("articles", len(articles)))

	inputs := make([]classifier.BatchInput, len(articles))
	for i, article := range articles {
		content := article.Content
		if content == "" {
			content = article.Excerpt
		}
		inputs[i] = classifier.BatchInput{Title: article.Title, Content: content}
	}

	for _, batchResult := range s.classifier.ClassifyBatch(ctx, inputs) {
		article := articles[batchResult.Index]

		if batchResult.Err != nil {
			result.Failed++
			s.metrics.StageFailures.WithLabelValues("classify").Inc()
			continue
		}

		if applyErr := s.articles.ApplyClassification(ctx, article.ID, batchResult.Result); applyErr != nil {
			result.Failed++
			s.metrics.StageFailures.WithLabelValues("classify").Inc()
			s.logger.Warn("failed to persist classification",
				logger.String("article_id", article.ID),
				logger.Error(applyErr))
			continue
		}

		result.Classified++
		s.metrics.ArticlesClassified.Inc()
	}

	s.logger.Info("classification completed",
		logger.Int("classified", result.Classified),
		logger.Int("failed", result.Failed))

	return result, nil
}

// ClassifySingle runs enhanced classification on one article by ID and
// persists the flattened base fields. It returns the full enhanced result.
func (s *ClassifyService) ClassifySingle(ctx context.Context, id string) (*domain.EnhancedClassificationResult, error) {
	article, getErr := s.articles.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}

	content := article.Content
	if content == "" {
		content = article.Excerpt
	}

	enhanced, classifyErr := s.classifier.EnhancedClassify(ctx, article.Title, content)
	if classifyErr != nil {
		s.metrics.StageFailures.WithLabelValues("classify").Inc()
		return nil, classifyErr
	}

	applyErr := s.articles.ApplyClassification(ctx, id, &domain.ClassificationResult{
		Category:       enhanced.Category,
		Subcategory:    enhanced.Subcategory,
		Sentiment:      enhanced.Sentiment,
		Keywords:       enhanced.Keywords,
		RelevanceScore: enhanced.RelevanceScore,
	})
	// An article that already moved past pending keeps its stored fields;
	// the caller still gets the fresh enhanced result.
	if applyErr != nil && !errors.Is(applyErr, domain.ErrInvalidTransition) {
		return nil, applyErr
	}

	s.metrics.ArticlesClassified.Inc()
	return enhanced, nil
}

// Summarize produces an executive summary for one article by ID.
func (s *ClassifyService) Summarize(ctx context.Context, id string) (*domain.ArticleSummary, error) {
	article, getErr := s.articles.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}

	content := article.Content
	if content == "" {
		content = article.Excerpt
	}

	return s.classifier.Summarize(ctx, article.Title, content)
}
