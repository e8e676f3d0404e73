// Package extractor fetches article pages and extracts readable content
// and thumbnails from them.
package extractor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"

	"newsgram/internal/logger"
	"newsgram/internal/ratelimit"
)

const (
	// maxBodySize caps how much of a page body is read during extraction.
	maxBodySize = 5 << 20

	// fallbackExcerptLength is used when readability yields no excerpt.
	fallbackExcerptLength = 300
)

// Content is the readable content extracted from an article page.
type Content struct {
	Title     string
	Content   string
	Excerpt   string
	HTML      string
	Length    int
	SiteName  string
	Thumbnail string
}

// Extractor downloads article pages and runs readability extraction on them.
type Extractor struct {
	client    *http.Client
	userAgent string
	sanitizer *bluemonday.Policy
	limiter   *ratelimit.HostLimiter
	logger    logger.Logger
}

// New creates an Extractor with the given fetch timeout and user agent.
func New(timeout time.Duration, userAgent string, log logger.Logger) *Extractor {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Extractor{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		sanitizer: bluemonday.UGCPolicy(),
		logger:    log,
	}
}

// WithHostLimiter makes fetches wait for per-host rate limiter clearance,
// keeping repeated fetches against one site at least minInterval apart.
func (e *Extractor) WithHostLimiter(minInterval time.Duration) *Extractor {
	if minInterval > 0 {
		e.limiter = ratelimit.NewHostLimiter(minInterval)
	}
	return e
}

// Extract fetches rawURL and returns its readable content. The returned
// HTML is sanitized; the thumbnail is resolved from page metadata when
// present.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (*Content, error) {
	pageURL, parseErr := url.Parse(rawURL)
	if parseErr != nil {
		return nil, fmt.Errorf("invalid article URL %q: %w", rawURL, parseErr)
	}

	body, fetchErr := e.fetch(ctx, rawURL)
	if fetchErr != nil {
		return nil, fetchErr
	}

	article, readErr := readability.FromReader(strings.NewReader(body), pageURL)
	if readErr != nil {
		return nil, fmt.Errorf("readability parse failed for %s: %w", rawURL, readErr)
	}

	content := strings.TrimSpace(article.TextContent)
	if content == "" {
		return nil, fmt.Errorf("no readable content at %s", rawURL)
	}

	excerpt := strings.TrimSpace(article.Excerpt)
	if excerpt == "" {
		excerpt = fallbackExcerpt(content)
	}

	thumbnail := article.Image
	if thumbnail == "" {
		thumbnail = FindThumbnail(body, pageURL)
	}

	e.logger.Debug("extracted article content",
		logger.String("url", rawURL),
		logger.Int("length", len(content)))

	return &Content{
		Title:     strings.TrimSpace(article.Title),
		Content:   content,
		Excerpt:   excerpt,
		HTML:      e.sanitizer.Sanitize(article.Content),
		Length:    len(content),
		SiteName:  article.SiteName,
		Thumbnail: thumbnail,
	}, nil
}

func (e *Extractor) fetch(ctx context.Context, rawURL string) (string, error) {
	if e.limiter != nil {
		if waitErr := e.limiter.Wait(ctx, rawURL); waitErr != nil {
			return "", fmt.Errorf("rate limit wait for %s: %w", rawURL, waitErr)
		}
	}

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if reqErr != nil {
		return "", fmt.Errorf("failed to build request for %s: %w", rawURL, reqErr)
	}
	if e.userAgent != "" {
		req.Header.Set("User-Agent", e.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, doErr := e.client.Do(req)
	if doErr != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", rawURL, doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("fetch %s returned status %d", rawURL, resp.StatusCode)
	}

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if readErr != nil {
		return "", fmt.Errorf("failed to read body of %s: %w", rawURL, readErr)
	}

	return string(body), nil
}

func fallbackExcerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= fallbackExcerptLength {
		return content
	}
	return strings.TrimSpace(string(runes[:fallbackExcerptLength])) + "..."
}
