// Package llm provides a chat-completions client for OpenAI-compatible APIs.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"newsgram/internal/config"
	"newsgram/internal/logger"
)

// Client calls an OpenAI-compatible chat completions endpoint.
type Client interface {
	// Complete runs a single chat completion and returns the assistant text.
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompletionRequest describes one chat completion call.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  float64
	MaxTokens    int
	JSONResponse bool
}

// HTTPClient is the default Client implementation over net/http.
type HTTPClient struct {
	endpoint   string
	model      string
	apiKey     string
	httpClient *http.Client
	logger     logger.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewClient builds a chat client from configuration.
func NewClient(cfg config.LLMConfig, log logger.Logger) *HTTPClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &HTTPClient{
		endpoint:   cfg.Endpoint,
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

const (
	maxAttempts      = 3
	baseRetryBackoff = 2 * time.Second
)

// Complete posts the request and returns the first choice's content.
// An empty completion is treated as an error. Rate-limited responses
// are retried up to maxAttempts, honoring the Retry-After header when
// the provider sends one.
func (c *HTTPClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return "", fmt.Errorf("llm client misconfigured")
	}

	payload := chatRequest{
		Model:       c.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: req.SystemPrompt},
			{Role: "user", Content: req.UserPrompt},
		},
	}
	if req.JSONResponse {
		payload.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	body, marshalErr := json.Marshal(payload)
	if marshalErr != nil {
		return "", fmt.Errorf("marshal chat payload: %w", marshalErr)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		content, retryAfter, err := c.doRequest(ctx, body)
		if err == nil {
			return content, nil
		}
		lastErr = err
		if retryAfter < 0 || attempt == maxAttempts {
			return "", err
		}

		c.logger.Warn("chat completion rate limited, backing off",
			logger.Int("attempt", attempt),
			logger.Duration("retry_after", retryAfter))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(retryAfter):
		}
	}
	return "", lastErr
}

// doRequest performs one completion attempt. A non-negative retryAfter
// on error marks the attempt as retryable after that delay.
func (c *HTTPClient) doRequest(ctx context.Context, body []byte) (string, time.Duration, error) {
	httpReq, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if reqErr != nil {
		return "", -1, fmt.Errorf("new chat request: %w", reqErr)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, doErr := c.httpClient.Do(httpReq)
	if doErr != nil {
		return "", -1, fmt.Errorf("chat completion request failed: %w", doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", retryDelay(resp.Header.Get("Retry-After")),
			fmt.Errorf("chat completion error %s: %s", resp.Status, strings.TrimSpace(string(errBody)))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", -1, fmt.Errorf("chat completion error %s: %s", resp.Status, strings.TrimSpace(string(errBody)))
	}

	var parsed chatResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&parsed); decodeErr != nil {
		return "", -1, fmt.Errorf("decode chat response: %w", decodeErr)
	}
	if parsed.Error != nil {
		return "", -1, fmt.Errorf("chat completion error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", -1, fmt.Errorf("chat completion returned no choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", -1, fmt.Errorf("chat completion returned empty content")
	}

	c.logger.Debug("chat completion succeeded",
		logger.Int("response_length", len(content)))

	return content, 0, nil
}

// retryDelay converts a Retry-After header into a wait duration,
// falling back to a fixed backoff when the header is absent or bad.
func retryDelay(header string) time.Duration {
	if seconds, err := strconv.Atoi(strings.TrimSpace(header)); err == nil && seconds >= 0 {
		return time.Duration(seconds) * time.Second
	}
	return baseRetryBackoff
}
