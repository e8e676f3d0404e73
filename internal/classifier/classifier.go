// Package classifier runs LLM-based article classification, enrichment,
// and summarization.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"newsgram/internal/domain"
	"newsgram/internal/llm"
	"newsgram/internal/logger"
)

const (
	// classifyContentBudget caps how much article text the standard
	// classifier sees.
	classifyContentBudget = 1000

	// enhancedContentBudget caps input for enhanced analysis and summaries.
	enhancedContentBudget = 2000

	// batchSize is the number of articles classified concurrently.
	batchSize = 5

	// batchPause is the wait between classification batches.
	batchPause = time.Second
)

const classifySystemPrompt = "You are a news classification assistant. Return only valid JSON."

const enhancedSystemPrompt = `You are an expert news analyst and social media content strategist.
Analyze articles for both informational value and social media potential.
Always return valid JSON.`

const summarySystemPrompt = "You are an expert at creating concise, impactful summaries."

// Classifier classifies and summarizes articles through an LLM client.
type Classifier struct {
	client llm.Client
	logger logger.Logger
}

// New creates a Classifier backed by the given chat client.
func New(client llm.Client, log logger.Logger) *Classifier {
	return &Classifier{client: client, logger: log}
}

// Classify runs deterministic category classification on one article.
func (c *Classifier) Classify(ctx context.Context, title, content string) (*domain.ClassificationResult, error) {
	prompt := fmt.Sprintf(`Classify this news article and extract key information. Return ONLY valid JSON.

Article:
Title: %s
Content: %s

Respond with JSON in this exact format:
{
  "category": "one of: %s",
  "subcategory": "more specific topic",
  "sentiment": "positive, negative, or neutral",
  "keywords": ["keyword1", "keyword2", "keyword3"],
  "relevance_score": 1-10
}`, title, truncate(content, classifyContentBudget), categoryList())

	raw, completeErr := c.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: classifySystemPrompt,
		UserPrompt:   prompt,
		Temperature:  0,
		JSONResponse: true,
	})
	if completeErr != nil {
		return nil, fmt.Errorf("classification failed: %w", completeErr)
	}

	var result domain.ClassificationResult
	if unmarshalErr := json.Unmarshal([]byte(raw), &result); unmarshalErr != nil {
		return nil, fmt.Errorf("invalid classification response: %w", unmarshalErr)
	}
	if result.Category == "" {
		return nil, fmt.Errorf("classification response missing category")
	}

	return &result, nil
}

// EnhancedClassify runs detailed analysis including entities, summary
// points, and social media signals.
func (c *Classifier) EnhancedClassify(ctx context.Context, title, content string) (*domain.EnhancedClassificationResult, error) {
	prompt := fmt.Sprintf(`Analyze this news article in detail and provide comprehensive classification and insights.

Article:
Title: %s
Content: %s

Provide a detailed JSON response with the following structure:
{
  "category": "Choose from: TECHNOLOGY, BUSINESS, SPORTS, POLITICS, ENTERTAINMENT, HEALTH, SCIENCE, LIFESTYLE",
  "subcategory": "Specific subtopic within the category",
  "sentiment": "positive, negative, or neutral",
  "sentiment_score": -1.0 to 1.0 (numeric score),
  "keywords": ["5-8 most relevant keywords"],
  "entities": {
    "people": ["mentioned people"],
    "companies": ["mentioned companies/organizations"],
    "locations": ["mentioned places"],
    "technologies": ["mentioned tech/products"]
  },
  "one_line_summary": "Concise one-line summary (max 100 chars)",
  "key_points": [
    "First key point",
    "Second key point",
    "Third key point"
  ],
  "instagram_worthy": true/false (is this suitable for Instagram?),
  "visual_suggestion": "Suggestion for visual content/imagery",
  "target_audience": "Primary audience for this content",
  "relevance_score": 1-10 (general importance),
  "trending_potential": 1-10 (viral potential),
  "language": "en, ko, or other"
}

Focus on extracting actionable insights that would help create engaging social media content.`, title, truncate(content, enhancedContentBudget))

	raw, completeErr := c.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: enhancedSystemPrompt,
		UserPrompt:   prompt,
		Temperature:  0.3,
		MaxTokens:    1000,
		JSONResponse: true,
	})
	if completeErr != nil {
		return nil, fmt.Errorf("enhanced classification failed: %w", completeErr)
	}

	var result domain.EnhancedClassificationResult
	if unmarshalErr := json.Unmarshal([]byte(raw), &result); unmarshalErr != nil {
		return nil, fmt.Errorf("invalid enhanced classification response: %w", unmarshalErr)
	}
	if result.Category == "" {
		return nil, fmt.Errorf("enhanced classification response missing category")
	}

	return &result, nil
}

// Summarize produces an executive summary for one article.
func (c *Classifier) Summarize(ctx context.Context, title, content string) (*domain.ArticleSummary, error) {
	prompt := fmt.Sprintf(`Create an executive summary for this article.

Title: %s
Content: %s

Return JSON with:
{
  "executive_summary": "2-3 paragraph professional summary",
  "tldr": "One sentence TL;DR (max 150 chars)",
  "main_takeaway": "The single most important point",
  "call_to_action": "Suggested action for readers"
}`, title, truncate(content, enhancedContentBudget))

	raw, completeErr := c.client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: summarySystemPrompt,
		UserPrompt:   prompt,
		Temperature:  0.2,
		MaxTokens:    500,
		JSONResponse: true,
	})
	if completeErr != nil {
		return nil, fmt.Errorf("summary generation failed: %w", completeErr)
	}

	var summary domain.ArticleSummary
	if unmarshalErr := json.Unmarshal([]byte(raw), &summary); unmarshalErr != nil {
		return nil, fmt.Errorf("invalid summary response: %w", unmarshalErr)
	}

	return &summary, nil
}

// BatchInput is one article handed to ClassifyBatch.
type BatchInput struct {
	Title   string
	Content string
}

// BatchResult pairs a classification with the input's position. Err is set
// when that article's classification failed; other articles are unaffected.
type BatchResult struct {
	Index  int
	Result *domain.ClassificationResult
	Err    error
}

// ClassifyBatch classifies articles in groups of five with a one second
// pause between groups. One article failing never fails the batch.
func (c *Classifier) ClassifyBatch(ctx context.Context, inputs []BatchInput) []BatchResult {
	results := make([]BatchResult, len(inputs))

	for start := 0; start < len(inputs); start += batchSize {
		end := start + batchSize
		if end > len(inputs) {
			end = len(inputs)
		}

		type indexed struct {
			idx    int
			result *domain.ClassificationResult
			err    error
		}
		done := make(chan indexed, end-start)

		for i := start; i < end; i++ {
			go func(i int) {
				result, classifyErr := c.Classify(ctx, inputs[i].Title, inputs[i].Content)
				done <- indexed{idx: i, result: result, err: classifyErr}
			}(i)
		}

		for i := start; i < end; i++ {
			r := <-done
			results[r.idx] = BatchResult{Index: r.idx, Result: r.result, Err: r.err}
			if r.err != nil {
				c.logger.Warn("article classification failed",
					logger.Int("index", r.idx),
					logger.Error(r.err))
			}
		}

		if end < len(inputs) {
			select {
			case <-ctx.Done():
				for i := end; i < len(inputs); i++ {
					results[i] = BatchResult{Index: i, Err: ctx.Err()}
				}
				return results
			case <-time.After(batchPause):
			}
		}
	}

	return results
}

// categoryList renders the closed category set for the classify prompt.
func categoryList() string {
	cats := domain.Categories()
	names := make([]string, len(cats))
	for i, cat := range cats {
		names[i] = string(cat)
	}
	return strings.Join(names, ", ")
}

// truncate caps s at limit characters without splitting multi-byte runes.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return strings.TrimSpace(string(runes[:limit]))
}
