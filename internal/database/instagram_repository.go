package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"newsgram/internal/domain"
)

// postSelectList is the column list for SELECT/RETURNING on instagram_posts.
const postSelectList = `id, article_id, title, caption, full_caption, hashtags,
			alt_text, image_url, status, created_at`

// InstagramRepository manages generated Instagram posts in PostgreSQL.
type InstagramRepository struct {
	db *sqlx.DB
}

// NewInstagramRepository creates a new repository.
func NewInstagramRepository(db *sqlx.DB) *InstagramRepository {
	return &InstagramRepository{db: db}
}

// InsertIfAbsent inserts a post for an article in one atomic statement.
// At most one post exists per article; a second insert for the same article
// returns domain.ErrDuplicate.
func (r *InstagramRepository) InsertIfAbsent(ctx context.Context, post *domain.InstagramPost) (string, error) {
	query := `
		INSERT INTO instagram_posts
			(id, article_id, title, caption, full_caption, hashtags, alt_text, image_url, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (article_id) DO NOTHING
		RETURNING id
	`

	status := post.Status
	if status == "" {
		status = domain.PostStatusDraft
	}

	var id string
	scanErr := r.db.QueryRowContext(ctx, query,
		uuid.New().String(),
		post.ArticleID,
		post.Title,
		post.Caption,
		post.FullCaption,
		pq.StringArray(post.Hashtags),
		post.AltText,
		post.ImageURL,
		status,
	).Scan(&id)

	if errors.Is(scanErr, sql.ErrNoRows) {
		return "", domain.ErrDuplicate
	}
	if scanErr != nil {
		return "", fmt.Errorf("insert instagram post: %w", scanErr)
	}

	post.ID = id
	post.Status = status
	return id, nil
}

// GetByArticleID retrieves the post generated for one article.
func (r *InstagramRepository) GetByArticleID(ctx context.Context, articleID string) (*domain.InstagramPost, error) {
	query := `SELECT ` + postSelectList + ` FROM instagram_posts WHERE article_id = $1`

	post, scanErr := scanPost(r.db.QueryRowContext(ctx, query, articleID))
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if scanErr != nil {
		return nil, fmt.Errorf("get instagram post: %w", scanErr)
	}
	return post, nil
}

// ExistsForArticle reports whether a post was already generated for an article.
func (r *InstagramRepository) ExistsForArticle(ctx context.Context, articleID string) (bool, error) {
	var exists bool
	scanErr := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM instagram_posts WHERE article_id = $1)`,
		articleID).Scan(&exists)
	if scanErr != nil {
		return false, fmt.Errorf("check instagram post exists: %w", scanErr)
	}
	return exists, nil
}

// ListByStatus returns posts in the given status, newest first.
func (r *InstagramRepository) ListByStatus(ctx context.Context, status domain.PostStatus, limit int) ([]domain.InstagramPost, error) {
	query := `SELECT ` + postSelectList + `
		FROM instagram_posts
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, queryErr := r.db.QueryContext(ctx, query, status, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list instagram posts: %w", queryErr)
	}
	defer rows.Close()

	posts := make([]domain.InstagramPost, 0, initialArticleCapacity)
	for rows.Next() {
		post, scanErr := scanPost(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan instagram post: %w", scanErr)
		}
		posts = append(posts, *post)
	}
	return posts, rows.Err()
}

func scanPost(row rowScanner) (*domain.InstagramPost, error) {
	var p domain.InstagramPost
	var hashtags pq.StringArray
	var imageURL sql.NullString

	scanErr := row.Scan(
		&p.ID, &p.ArticleID, &p.Title, &p.Caption, &p.FullCaption, &hashtags,
		&p.AltText, &imageURL, &p.Status, &p.CreatedAt,
	)
	if scanErr != nil {
		return nil, scanErr
	}

	p.Hashtags = hashtags
	p.ImageURL = imageURL.String
	return &p, nil
}
