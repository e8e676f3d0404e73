// Package domain contains the core domain models for the newsgram pipeline.
package domain

import (
	"net/url"
	"strings"
	"time"
)

// ArticleStatus represents the processing state of an ingested article.
type ArticleStatus string

const (
	// StatusPending indicates an article was ingested but not yet classified.
	StatusPending ArticleStatus = "pending"
	// StatusClassified indicates classification fields have been written.
	StatusClassified ArticleStatus = "classified"
	// StatusGenerated indicates Instagram content has been generated.
	StatusGenerated ArticleStatus = "generated"
	// StatusPosted indicates the derived Instagram post went out.
	StatusPosted ArticleStatus = "posted"
)

// statusRank orders statuses along the pipeline. Transitions may only move
// to a strictly higher rank; no component ever regresses an article.
var statusRank = map[ArticleStatus]int{
	StatusPending:    0,
	StatusClassified: 1,
	StatusGenerated:  2,
	StatusPosted:     3,
}

// IsValid reports whether s is a recognised article status.
func (s ArticleStatus) IsValid() bool {
	_, ok := statusRank[s]
	return ok
}

// ArticleStatuses returns every article status in pipeline order.
func ArticleStatuses() []ArticleStatus {
	return []ArticleStatus{StatusPending, StatusClassified, StatusGenerated, StatusPosted}
}

// CanTransitionTo reports whether moving from s to next is a forward transition.
func (s ArticleStatus) CanTransitionTo(next ArticleStatus) bool {
	cur, okCur := statusRank[s]
	nxt, okNext := statusRank[next]
	return okCur && okNext && nxt > cur
}

// Article represents one ingested news item.
type Article struct {
	ID             string        `db:"id"              json:"id"`
	URL            string        `db:"url"             json:"url"`
	Title          string        `db:"title"           json:"title"`
	Content        string        `db:"content"         json:"content"`
	Excerpt        string        `db:"excerpt"         json:"excerpt"`
	ThumbnailURL   string        `db:"thumbnail_url"   json:"thumbnail_url,omitempty"`
	Author         string        `db:"author"          json:"author,omitempty"`
	Source         string        `db:"source"          json:"source"`
	PublishedAt    *time.Time    `db:"published_at"    json:"published_at,omitempty"`
	Status         ArticleStatus `db:"status"          json:"status"`
	Category       string        `db:"category"        json:"category,omitempty"`
	Subcategory    string        `db:"subcategory"     json:"subcategory,omitempty"`
	Sentiment      string        `db:"sentiment"       json:"sentiment,omitempty"`
	Keywords       []string      `db:"-"               json:"keywords,omitempty"`
	RelevanceScore int           `db:"relevance_score" json:"relevance_score,omitempty"`
	CreatedAt      time.Time     `db:"created_at"      json:"created_at"`
	UpdatedAt      time.Time     `db:"updated_at"      json:"updated_at"`
}

// excerptLength is the number of characters used when deriving an excerpt
// from article content.
const excerptLength = 300

// Excerpt derives a short excerpt from content when none is provided.
func Excerpt(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) <= excerptLength {
		return string(runes)
	}
	return string(runes[:excerptLength])
}

// unknownSource is the fallback value when a URL cannot be parsed.
const unknownSource = "unknown"

// SourceFromURL returns the hostname of rawURL with any "www." prefix removed.
// On parse failure it returns "unknown".
func SourceFromURL(rawURL string) string {
	parsed, parseErr := url.Parse(rawURL)
	if parseErr != nil || parsed.Host == "" {
		return unknownSource
	}
	return strings.TrimPrefix(parsed.Hostname(), "www.")
}
