//nolint:testpackage // testing internals directly
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsgram/internal/classifier"
	"newsgram/internal/domain"
	"newsgram/internal/logger"
)

type mockClassifier struct {
	batchFunc     func(ctx context.Context, inputs []classifier.BatchInput) []classifier.BatchResult
	enhancedFunc  func(ctx context.Context, title, content string) (*domain.EnhancedClassificationResult, error)
	summarizeFunc func(ctx context.Context, title, content string) (*domain.ArticleSummary, error)
}

func (m *mockClassifier) ClassifyBatch(ctx context.Context, inputs []classifier.BatchInput) []classifier.BatchResult {
	return m.batchFunc(ctx, inputs)
}

func (m *mockClassifier) EnhancedClassify(ctx context.Context, title, content string) (*domain.EnhancedClassificationResult, error) {
	return m.enhancedFunc(ctx, title, content)
}

func (m *mockClassifier) Summarize(ctx context.Context, title, content string) (*domain.ArticleSummary, error) {
	return m.summarizeFunc(ctx, title, content)
}

func TestClassify(t *testing.T) {
	pending := []domain.Article{
		{ID: "a1", Title: "One", Content: "content one"},
		{ID: "a2", Title: "Two", Content: "content two"},
		{ID: "a3", Title: "Three", Content: "content three"},
	}

	var applied []string
	store := &mockArticleStore{
		listFunc: func(_ context.Context, status domain.ArticleStatus, minRelevance, limit int) ([]domain.Article, error) {
			assert.Equal(t, domain.StatusPending, status)
			assert.Zero(t, minRelevance)
			assert.Equal(t, classifyBatchLimit, limit)
			return pending, nil
		},
		applyFunc: func(_ context.Context, id string, result *domain.ClassificationResult) error {
			applied = append(applied, id)
			return nil
		},
	}

	c := &mockClassifier{
		batchFunc: func(_ context.Context, inputs []classifier.BatchInput) []classifier.BatchResult {
			results := make([]classifier.BatchResult, len(inputs))
			for i := range inputs {
				if i == 1 {
					results[i] = classifier.BatchResult{Index: i, Err: errors.New("llm error")}
					continue
				}
				results[i] = classifier.BatchResult{
					Index:  i,
					Result: &domain.ClassificationResult{Category: "TECHNOLOGY", RelevanceScore: 7},
				}
			}
			return results
		},
	}

	svc := NewClassifyService(store, c, testMetrics(), logger.NewNop())
	result, err := svc.Classify(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Classified)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"a1", "a3"}, applied)
}

func TestClassify_NothingPending(t *testing.T) {
	store := &mockArticleStore{
		listFunc: func(context.Context, domain.ArticleStatus, int, int) ([]domain.Article, error) {
			return nil, nil
		},
	}

	svc := NewClassifyService(store, &mockClassifier{}, testMetrics(), logger.NewNop())
	result, err := svc.Classify(context.Background())
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Zero(t, result.Total)
}

func TestClassify_PersistFailureCountsAsFailed(t *testing.T) {
	store := &mockArticleStore{
		listFunc: func(context.Context, domain.ArticleStatus, int, int) ([]domain.Article, error) {
			return []domain.Article{{ID: "a1", Title: "One", Content: "c"}}, nil
		},
		applyFunc: func(context.Context, string, *domain.ClassificationResult) error {
			return errors.New("db down")
		},
	}
	c := &mockClassifier{
		batchFunc: func(_ context.Context, inputs []classifier.BatchInput) []classifier.BatchResult {
			return []classifier.BatchResult{{Index: 0, Result: &domain.ClassificationResult{Category: "SCIENCE"}}}
		},
	}

	svc := NewClassifyService(store, c, testMetrics(), logger.NewNop())
	result, err := svc.Classify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Zero(t, result.Classified)
}

func TestClassifySingle(t *testing.T) {
	var appliedResult *domain.ClassificationResult
	store := &mockArticleStore{
		getFunc: func(_ context.Context, id string) (*domain.Article, error) {
			assert.Equal(t, "a1", id)
			return &domain.Article{ID: "a1", Title: "One", Content: "content"}, nil
		},
		applyFunc: func(_ context.Context, _ string, result *domain.ClassificationResult) error {
			appliedResult = result
			return nil
		},
	}
	c := &mockClassifier{
		enhancedFunc: func(_ context.Context, title, content string) (*domain.EnhancedClassificationResult, error) {
			return &domain.EnhancedClassificationResult{
				Category:        "TECHNOLOGY",
				Subcategory:     "AI",
				Sentiment:       "positive",
				Keywords:        []string{"ai"},
				RelevanceScore:  9,
				InstagramWorthy: true,
			}, nil
		},
	}

	svc := NewClassifyService(store, c, testMetrics(), logger.NewNop())
	enhanced, err := svc.ClassifySingle(context.Background(), "a1")
	require.NoError(t, err)

	assert.True(t, enhanced.InstagramWorthy)
	require.NotNil(t, appliedResult)
	assert.Equal(t, "TECHNOLOGY", appliedResult.Category)
	assert.Equal(t, 9, appliedResult.RelevanceScore)
}

func TestClassifySingle_AlreadyClassified(t *testing.T) {
	store := &mockArticleStore{
		getFunc: func(context.Context, string) (*domain.Article, error) {
			return &domain.Article{ID: "a1", Title: "One", Content: "c", Status: domain.StatusClassified}, nil
		},
		applyFunc: func(context.Context, string, *domain.ClassificationResult) error {
			return domain.ErrInvalidTransition
		},
	}
	c := &mockClassifier{
		enhancedFunc: func(context.Context, string, string) (*domain.EnhancedClassificationResult, error) {
			return &domain.EnhancedClassificationResult{Category: "SCIENCE"}, nil
		},
	}

	svc := NewClassifyService(store, c, testMetrics(), logger.NewNop())
	enhanced, err := svc.ClassifySingle(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "SCIENCE", enhanced.Category)
}

func TestClassifySingle_NotFound(t *testing.T) {
	store := &mockArticleStore{
		getFunc: func(context.Context, string) (*domain.Article, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := NewClassifyService(store, &mockClassifier{}, testMetrics(), logger.NewNop())
	_, err := svc.ClassifySingle(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSummarize(t *testing.T) {
	store := &mockArticleStore{
		getFunc: func(context.Context, string) (*domain.Article, error) {
			return &domain.Article{ID: "a1", Title: "One", Content: "content"}, nil
		},
	}
	c := &mockClassifier{
		summarizeFunc: func(context.Context, string, string) (*domain.ArticleSummary, error) {
			return &domain.ArticleSummary{TLDR: "Short version."}, nil
		},
	}

	svc := NewClassifyService(store, c, testMetrics(), logger.NewNop())
	summary, err := svc.Summarize(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, "Short version.", summary.TLDR)
}
