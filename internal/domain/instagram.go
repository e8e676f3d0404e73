package domain

import "time"

// PostStatus represents the publication state of a generated Instagram post.
type PostStatus string

const (
	// PostStatusDraft is the initial state of every generated post.
	PostStatusDraft PostStatus = "draft"
	// PostStatusScheduled indicates the post has a planned publish time.
	PostStatusScheduled PostStatus = "scheduled"
	// PostStatusPosted indicates the post went out.
	PostStatusPosted PostStatus = "posted"
)

// IsValid reports whether s is a recognised post status.
func (s PostStatus) IsValid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusPosted:
		return true
	default:
		return false
	}
}

// InstagramPost represents generated social content derived from one Article.
// At most one post exists per article.
type InstagramPost struct {
	ID          string     `db:"id"           json:"id"`
	ArticleID   string     `db:"article_id"   json:"article_id"`
	Title       string     `db:"title"        json:"title"`
	Caption     string     `db:"caption"      json:"caption"`
	FullCaption string     `db:"full_caption" json:"full_caption"`
	Hashtags    []string   `db:"-"            json:"hashtags"`
	AltText     string     `db:"alt_text"     json:"alt_text"`
	ImageURL    string     `db:"image_url"    json:"image_url,omitempty"`
	Status      PostStatus `db:"status"       json:"status"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
}

// InstagramContent is the structured output of the content generator.
type InstagramContent struct {
	Title       string   `json:"title"`
	Caption     string   `json:"caption"`
	FullCaption string   `json:"fullCaption"`
	Hashtags    []string `json:"hashtags"`
	AltText     string   `json:"altText"`
	Emoji       string   `json:"emoji"`
}

// PromptTemplate is a stored per-category system prompt, scoped to a user.
type PromptTemplate struct {
	ID           string    `db:"id"            json:"id"`
	UserID       string    `db:"user_id"       json:"user_id"`
	Category     string    `db:"category"      json:"category"`
	SystemPrompt string    `db:"system_prompt" json:"system_prompt"`
	UpdatedAt    time.Time `db:"updated_at"    json:"updated_at"`
}
