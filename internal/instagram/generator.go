// Package instagram turns classified articles into Instagram-ready captions.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"newsgram/internal/domain"
	"newsgram/internal/llm"
	"newsgram/internal/logger"
)

// keyPointsBudget caps article content used when no excerpt is available.
const keyPointsBudget = 500

const generatorSystemPrompt = "You are an Instagram content creator specialized in news curation. Return only valid JSON."

// Generator produces Instagram captions through an LLM client.
type Generator struct {
	client llm.Client
	logger logger.Logger
}

// NewGenerator creates a Generator backed by the given chat client.
func NewGenerator(client llm.Client, log logger.Logger) *Generator {
	return &Generator{client: client, logger: log}
}

// Generate creates Instagram post content for one classified article.
// The article's category picks the tone, emoji palette, and base hashtags.
func (g *Generator) Generate(ctx context.Context, article *domain.Article) (*domain.InstagramContent, error) {
	category := article.Category
	if category == "" {
		category = string(domain.CategoryTechnology)
	}
	style := StyleFor(category)

	keyPoints := article.Excerpt
	if keyPoints == "" {
		keyPoints = truncate(article.Content, keyPointsBudget)
	}

	prompt := fmt.Sprintf(`Create Instagram post content for this news article.

Article Title: %s
Category: %s
Key Points: %s

Style Guide:
- Tone: %s
- Suggested emojis: %s
- Base hashtags: %s

Generate:
1. TITLE: Catchy, engaging title (max 80 characters, front-load key info)
2. CAPTION: Engaging caption for Instagram (125-150 characters ideal)
3. FULL_CAPTION: Extended caption with context (up to 2200 characters)
4. HASHTAGS: 10-15 relevant hashtags (mix of popular and niche)
5. ALT_TEXT: Descriptive alt text for accessibility (max 100 characters)
6. EMOJI: One primary emoji for visual appeal

Rules:
- Be conversational and engaging
- Use emojis strategically (1-3)
- Front-load the most important information
- Make it shareable and comment-worthy
- Avoid clickbait

Return ONLY valid JSON in this format:
{
  "title": "engaging title",
  "caption": "short engaging caption",
  "fullCaption": "longer caption with details and call-to-action",
  "hashtags": ["hashtag1", "hashtag2"],
  "altText": "image description",
  "emoji": "suggested emoji"
}`,
		article.Title,
		category,
		keyPoints,
		style.Tone,
		strings.Join(style.Emojis, ", "),
		strings.Join(style.Hashtags, ", "))

	raw, completeErr := g.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: generatorSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  0.7,
		JSONResponse: true,
	})
	if completeErr != nil {
		return nil, fmt.Errorf("instagram content generation failed: %w", completeErr)
	}

	var content domain.InstagramContent
	if unmarshalErr := json.Unmarshal([]byte(raw), &content); unmarshalErr != nil {
		return nil, fmt.Errorf("invalid instagram content response: %w", unmarshalErr)
	}
	if content.Caption == "" {
		return nil, fmt.Errorf("instagram content response missing caption")
	}

	g.logger.Debug("generated instagram content",
		logger.String("article_id", article.ID),
		logger.Int("hashtags", len(content.Hashtags)))

	return &content, nil
}

// truncate caps s at limit characters without splitting multi-byte runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
