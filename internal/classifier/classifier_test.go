//nolint:testpackage // testing internals directly
package classifier

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsgram/internal/llm"
	"newsgram/internal/logger"
)

type mockClient struct {
	completeFunc func(ctx context.Context, req llm.CompletionRequest) (string, error)
}

func (m *mockClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return m.completeFunc(ctx, req)
}

func TestClassify(t *testing.T) {
	var captured llm.CompletionRequest
	client := &mockClient{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (string, error) {
			captured = req
			return `{"category":"TECHNOLOGY","subcategory":"AI","sentiment":"positive","keywords":["ai","ml"],"relevance_score":8}`, nil
		},
	}

	c := New(client, logger.NewNop())
	result, err := c.Classify(context.Background(), "AI News", strings.Repeat("x", 1500))
	require.NoError(t, err)

	assert.Equal(t, "TECHNOLOGY", result.Category)
	assert.Equal(t, "AI", result.Subcategory)
	assert.Equal(t, 8, result.RelevanceScore)

	assert.Zero(t, captured.Temperature)
	assert.True(t, captured.JSONResponse)
	assert.Contains(t, captured.UserPrompt, "AI News")
	assert.Contains(t, captured.UserPrompt,
		"one of: TECHNOLOGY, BUSINESS, SPORTS, POLITICS, ENTERTAINMENT, HEALTH, SCIENCE")
	// content beyond the budget is cut before prompting
	assert.NotContains(t, captured.UserPrompt, strings.Repeat("x", 1001))
}

func TestClassify_InvalidJSON(t *testing.T) {
	client := &mockClient{
		completeFunc: func(context.Context, llm.CompletionRequest) (string, error) {
			return "not json", nil
		},
	}

	c := New(client, logger.NewNop())
	_, err := c.Classify(context.Background(), "t", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid classification response")
}

func TestClassify_MissingCategory(t *testing.T) {
	client := &mockClient{
		completeFunc: func(context.Context, llm.CompletionRequest) (string, error) {
			return `{"subcategory":"AI"}`, nil
		},
	}

	c := New(client, logger.NewNop())
	_, err := c.Classify(context.Background(), "t", "c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing category")
}

func TestEnhancedClassify(t *testing.T) {
	var captured llm.CompletionRequest
	client := &mockClient{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (string, error) {
			captured = req
			return `{
				"category": "SCIENCE",
				"subcategory": "Space",
				"sentiment": "positive",
				"sentiment_score": 0.7,
				"keywords": ["mars", "rover"],
				"entities": {"people": ["Jane Doe"], "companies": ["NASA"], "locations": ["Mars"], "technologies": ["rover"]},
				"one_line_summary": "Rover finds evidence of ancient water.",
				"key_points": ["a", "b", "c"],
				"instagram_worthy": true,
				"visual_suggestion": "Red planet surface photo",
				"target_audience": "Science enthusiasts",
				"relevance_score": 9,
				"trending_potential": 7,
				"language": "en"
			}`, nil
		},
	}

	c := New(client, logger.NewNop())
	result, err := c.EnhancedClassify(context.Background(), "Mars", "content")
	require.NoError(t, err)

	assert.Equal(t, "SCIENCE", result.Category)
	assert.True(t, result.InstagramWorthy)
	assert.Equal(t, []string{"NASA"}, result.Entities.Companies)
	assert.Equal(t, 7, result.TrendingPotential)

	assert.InDelta(t, 0.3, captured.Temperature, 0.001)
	assert.Equal(t, 1000, captured.MaxTokens)
}

func TestSummarize(t *testing.T) {
	var captured llm.CompletionRequest
	client := &mockClient{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (string, error) {
			captured = req
			return `{"executive_summary":"Long summary.","tldr":"Short.","main_takeaway":"Key point.","call_to_action":"Read more."}`, nil
		},
	}

	c := New(client, logger.NewNop())
	summary, err := c.Summarize(context.Background(), "Title", "content")
	require.NoError(t, err)

	assert.Equal(t, "Short.", summary.TLDR)
	assert.Equal(t, "Key point.", summary.MainTakeaway)
	assert.InDelta(t, 0.2, captured.Temperature, 0.001)
	assert.Equal(t, 500, captured.MaxTokens)
}

func TestClassifyBatch(t *testing.T) {
	var calls atomic.Int32
	client := &mockClient{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (string, error) {
			calls.Add(1)
			if strings.Contains(req.UserPrompt, "article-3") {
				return "", errors.New("upstream failure")
			}
			return `{"category":"BUSINESS","subcategory":"Markets","sentiment":"neutral","keywords":["k"],"relevance_score":5}`, nil
		},
	}

	inputs := make([]BatchInput, 12)
	for i := range inputs {
		inputs[i] = BatchInput{Title: "article-" + string(rune('0'+i%10)), Content: "body"}
	}

	c := New(client, logger.NewNop())
	results := c.ClassifyBatch(context.Background(), inputs)

	require.Len(t, results, 12)
	assert.Equal(t, int32(12), calls.Load())

	var failed, classified int
	for _, r := range results {
		if r.Err != nil {
			failed++
			continue
		}
		classified++
		assert.Equal(t, "BUSINESS", r.Result.Category)
	}
	// the article titled article-3 fails, the rest still classify
	assert.Equal(t, 1, failed)
	assert.Equal(t, 11, classified)
}

func TestClassifyBatch_Empty(t *testing.T) {
	c := New(&mockClient{}, logger.NewNop())
	assert.Empty(t, c.ClassifyBatch(context.Background(), nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Len(t, truncate(strings.Repeat("a", 50), 20), 20)
}

func TestTruncate_MultiByte(t *testing.T) {
	out := truncate(strings.Repeat("한", 1500), classifyContentBudget)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, classifyContentBudget, utf8.RuneCountInString(out))
}
