package feeds

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"newsgram/internal/logger"
	"newsgram/internal/ratelimit"
)

// Article is one normalized feed item.
type Article struct {
	Title       string
	Link        string
	PublishedAt *time.Time
	Summary     string
	Content     string
	Thumbnail   string
	Author      string
	Categories  []string
}

// Fetcher parses RSS/Atom feeds into normalized articles.
type Fetcher struct {
	client   *http.Client
	logger   logger.Logger
	minDelay time.Duration
	maxDelay time.Duration
}

// NewFetcher creates a feed fetcher using the given HTTP client.
// A nil client falls back to a client with a sensible timeout.
func NewFetcher(client *http.Client, log logger.Logger) *Fetcher {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Fetcher{client: client, logger: log}
}

// WithDelayWindow sets the randomized delay applied before each feed
// fetch in FetchAll. A zero window disables the delay.
func (f *Fetcher) WithDelayWindow(min, max time.Duration) *Fetcher {
	f.minDelay = min
	f.maxDelay = max
	return f
}

// Fetch parses a single feed URL into normalized articles. Individual items
// with missing fields are tolerated; only a feed-level parse failure is an error.
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) ([]Article, error) {
	fp := gofeed.NewParser()
	fp.Client = f.client

	feed, parseErr := fp.ParseURLWithContext(feedURL, ctx)
	if parseErr != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feedURL, parseErr)
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil || item.Link == "" {
			continue
		}
		articles = append(articles, normalizeItem(item))
	}

	return articles, nil
}

// FetchResult is the outcome of fetching one feed in a multi-feed fetch.
type FetchResult struct {
	FeedURL  string
	Articles []Article
	Err      error
}

// fetchAllConcurrency bounds how many feeds are fetched at once.
const fetchAllConcurrency = 3

// FetchAll fetches all feed URLs with bounded concurrency, a randomized
// delay in the configured window before each fetch, and concatenates
// articles from the feeds that succeeded. Individual feed failures are
// logged and reported in the results, never raised; aggregation is
// best-effort.
func (f *Fetcher) FetchAll(ctx context.Context, feedURLs []string) ([]Article, []FetchResult) {
	tasks := make([]ratelimit.Task[[]Article], len(feedURLs))
	for i, feedURL := range feedURLs {
		tasks[i] = func(ctx context.Context) ([]Article, error) {
			return f.Fetch(ctx, feedURL)
		}
	}

	runResults := ratelimit.Run(ctx, tasks, fetchAllConcurrency, f.minDelay, f.maxDelay)

	var all []Article
	results := make([]FetchResult, len(feedURLs))
	for i, res := range runResults {
		results[i] = FetchResult{FeedURL: feedURLs[i], Articles: res.Value, Err: res.Err}
		if res.Err != nil {
			f.logger.Warn("Feed fetch failed",
				logger.String("feed_url", feedURLs[i]),
				logger.Error(res.Err),
			)
			continue
		}
		all = append(all, res.Value...)
	}

	return all, results
}

// normalizeItem maps a gofeed item onto the normalized Article record.
func normalizeItem(item *gofeed.Item) Article {
	a := Article{
		Title:      item.Title,
		Link:       item.Link,
		Summary:    strings.TrimSpace(item.Description),
		Content:    strings.TrimSpace(item.Content),
		Thumbnail:  itemThumbnail(item),
		Categories: item.Categories,
	}

	if a.Title == "" {
		a.Title = "Untitled"
	}

	if a.Content == "" {
		a.Content = a.Summary
	}

	if item.PublishedParsed != nil {
		a.PublishedAt = item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		a.PublishedAt = item.UpdatedParsed
	}

	if item.Author != nil {
		a.Author = item.Author.Name
	}

	return a
}

// itemThumbnail extracts the best image URL from a feed item.
// Priority: item image > media:thumbnail > media:content (medium=image) >
// enclosure with an image/* type. Only http/https URLs are accepted.
func itemThumbnail(item *gofeed.Item) string {
	if item.Image != nil && validImageURL(item.Image.URL) {
		return item.Image.URL
	}

	if mediaExt, ok := item.Extensions["media"]; ok {
		if thumbnails, ok := mediaExt["thumbnail"]; ok {
			for _, thumb := range thumbnails {
				if u := thumb.Attrs["url"]; validImageURL(u) {
					return u
				}
			}
		}

		if contents, ok := mediaExt["content"]; ok {
			for _, content := range contents {
				if content.Attrs["medium"] == "image" {
					if u := content.Attrs["url"]; validImageURL(u) {
						return u
					}
				}
			}
		}
	}

	for _, enc := range item.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") && validImageURL(enc.URL) {
			return enc.URL
		}
	}

	return ""
}

// validImageURL returns true for non-empty http/https URLs.
func validImageURL(rawURL string) bool {
	if rawURL == "" {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
