//nolint:testpackage // testing internals directly
package instagram

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"newsgram/internal/domain"
	"newsgram/internal/llm"
	"newsgram/internal/logger"
)

type mockClient struct {
	completeFunc func(ctx context.Context, req llm.CompletionRequest) (string, error)
}

func (m *mockClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	return m.completeFunc(ctx, req)
}

func TestGenerate(t *testing.T) {
	var captured llm.CompletionRequest
	client := &mockClient{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (string, error) {
			captured = req
			return `{
				"title": "AI Changes Everything",
				"caption": "The future arrived early this week 🚀",
				"fullCaption": "A longer caption with context and a call to action.",
				"hashtags": ["#TechNews", "#AI", "#Innovation"],
				"altText": "Abstract circuit board glowing blue",
				"emoji": "🚀"
			}`, nil
		},
	}

	article := &domain.Article{
		ID:       "a1",
		Title:    "AI Breakthrough Announced",
		Category: "TECHNOLOGY",
		Excerpt:  "Researchers unveiled a new model architecture.",
	}

	g := NewGenerator(client, logger.NewNop())
	content, err := g.Generate(context.Background(), article)
	require.NoError(t, err)

	assert.Equal(t, "AI Changes Everything", content.Title)
	assert.Len(t, content.Hashtags, 3)
	assert.Equal(t, "🚀", content.Emoji)

	assert.InDelta(t, 0.7, captured.Temperature, 0.001)
	assert.True(t, captured.JSONResponse)
	assert.Contains(t, captured.UserPrompt, "AI Breakthrough Announced")
	assert.Contains(t, captured.UserPrompt, "informative, exciting")
	assert.Contains(t, captured.UserPrompt, "#TechNews")
}

func TestGenerate_FallsBackToContent(t *testing.T) {
	var captured llm.CompletionRequest
	client := &mockClient{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (string, error) {
			captured = req
			return `{"title":"t","caption":"c","fullCaption":"f","hashtags":["#x"],"altText":"a","emoji":"✨"}`, nil
		},
	}

	article := &domain.Article{
		Title:    "No Excerpt Here",
		Category: "SCIENCE",
		Content:  strings.Repeat("body ", 200),
	}

	g := NewGenerator(client, logger.NewNop())
	_, err := g.Generate(context.Background(), article)
	require.NoError(t, err)

	assert.Contains(t, captured.UserPrompt, "body")
	assert.NotContains(t, captured.UserPrompt, strings.Repeat("body ", 150))
}

func TestGenerate_UnknownCategoryUsesTechnologyStyle(t *testing.T) {
	var captured llm.CompletionRequest
	client := &mockClient{
		completeFunc: func(_ context.Context, req llm.CompletionRequest) (string, error) {
			captured = req
			return `{"title":"t","caption":"c","fullCaption":"f","hashtags":["#x"],"altText":"a","emoji":"✨"}`, nil
		},
	}

	article := &domain.Article{Title: "Mystery", Category: "WEIRD", Excerpt: "e"}

	g := NewGenerator(client, logger.NewNop())
	_, err := g.Generate(context.Background(), article)
	require.NoError(t, err)
	assert.Contains(t, captured.UserPrompt, "#TechNews")
}

func TestGenerate_ClientError(t *testing.T) {
	client := &mockClient{
		completeFunc: func(context.Context, llm.CompletionRequest) (string, error) {
			return "", errors.New("upstream down")
		},
	}

	g := NewGenerator(client, logger.NewNop())
	_, err := g.Generate(context.Background(), &domain.Article{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generation failed")
}

func TestGenerate_MissingCaption(t *testing.T) {
	client := &mockClient{
		completeFunc: func(context.Context, llm.CompletionRequest) (string, error) {
			return `{"title":"only a title"}`, nil
		},
	}

	g := NewGenerator(client, logger.NewNop())
	_, err := g.Generate(context.Background(), &domain.Article{Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing caption")
}

func TestTruncate_MultiByte(t *testing.T) {
	out := truncate(strings.Repeat("뉴스", 400), keyPointsBudget)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, keyPointsBudget, utf8.RuneCountInString(out))
}

func TestStyleFor(t *testing.T) {
	assert.Equal(t, "energetic, passionate", StyleFor("SPORTS").Tone)
	assert.Equal(t, StyleFor("TECHNOLOGY"), StyleFor("LIFESTYLE"))
	assert.Equal(t, StyleFor("TECHNOLOGY"), StyleFor(""))
}
