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

// articleSelectList is the column list for SELECT/RETURNING on articles
// (single source for schema changes).
const articleSelectList = `id, url, title, content, excerpt, thumbnail_url, author,
			source, published_at, status, category, subcategory,
			sentiment, keywords, relevance_score, created_at, updated_at`

// ArticleRepository manages articles in PostgreSQL.
type ArticleRepository struct {
	db *sqlx.DB
}

// NewArticleRepository creates a new repository.
func NewArticleRepository(db *sqlx.DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

// Ping checks database connectivity.
func (r *ArticleRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// InsertIfAbsent inserts an article keyed by URL in one atomic statement.
// It returns the new ID, or domain.ErrDuplicate when the URL already exists.
func (r *ArticleRepository) InsertIfAbsent(ctx context.Context, article *domain.Article) (string, error) {
	query := `
		INSERT INTO articles
			(id, url, title, content, excerpt, thumbnail_url, author, source, published_at, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (url) DO NOTHING
		RETURNING id
	`

	var id string
	scanErr := r.db.QueryRowContext(ctx, query,
		uuid.New().String(),
		article.URL,
		article.Title,
		article.Content,
		article.Excerpt,
		article.ThumbnailURL,
		article.Author,
		article.Source,
		article.PublishedAt,
		domain.StatusPending,
	).Scan(&id)

	if errors.Is(scanErr, sql.ErrNoRows) {
		return "", domain.ErrDuplicate
	}
	if scanErr != nil {
		return "", fmt.Errorf("insert article: %w", scanErr)
	}

	article.ID = id
	article.Status = domain.StatusPending
	return id, nil
}

// GetByID retrieves a single article.
func (r *ArticleRepository) GetByID(ctx context.Context, id string) (*domain.Article, error) {
	query := `SELECT ` + articleSelectList + ` FROM articles WHERE id = $1`

	article, scanErr := scanArticle(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(scanErr, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if scanErr != nil {
		return nil, fmt.Errorf("get article by id: %w", scanErr)
	}
	return article, nil
}

// ListByStatus returns articles in the given status, newest first, with an
// optional minimum relevance score. minRelevance <= 0 disables the filter.
func (r *ArticleRepository) ListByStatus(ctx context.Context, status domain.ArticleStatus, minRelevance, limit int) ([]domain.Article, error) {
	query := `SELECT ` + articleSelectList + `
		FROM articles
		WHERE status = $1
		  AND ($2 <= 0 OR relevance_score >= $2)
		ORDER BY created_at DESC
		LIMIT $3`

	rows, queryErr := r.db.QueryContext(ctx, query, status, minRelevance, limit)
	if queryErr != nil {
		return nil, fmt.Errorf("list articles by status: %w", queryErr)
	}
	defer rows.Close()

	return scanArticles(rows)
}

// ApplyClassification writes classification fields and advances a pending
// article to classified. Articles already past pending are left untouched
// and reported as domain.ErrInvalidTransition.
func (r *ArticleRepository) ApplyClassification(ctx context.Context, id string, result *domain.ClassificationResult) error {
	query := `
		UPDATE articles
		SET category = $2,
		    subcategory = $3,
		    sentiment = $4,
		    keywords = $5,
		    relevance_score = $6,
		    status = $7,
		    updated_at = NOW()
		WHERE id = $1 AND status = $8`

	res, execErr := r.db.ExecContext(ctx, query,
		id,
		result.Category,
		result.Subcategory,
		result.Sentiment,
		pq.StringArray(result.Keywords),
		result.RelevanceScore,
		domain.StatusClassified,
		domain.StatusPending,
	)
	if execErr != nil {
		return fmt.Errorf("apply classification: %w", execErr)
	}

	affected, rowsErr := res.RowsAffected()
	if rowsErr != nil {
		return fmt.Errorf("get affected rows: %w", rowsErr)
	}
	if affected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// AdvanceStatus moves an article from one status to the next. The update is
// guarded so an article can never move backwards.
func (r *ArticleRepository) AdvanceStatus(ctx context.Context, id string, from, to domain.ArticleStatus) error {
	if !from.CanTransitionTo(to) {
		return domain.ErrInvalidTransition
	}

	query := `
		UPDATE articles
		SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3`

	res, execErr := r.db.ExecContext(ctx, query, id, to, from)
	if execErr != nil {
		return fmt.Errorf("advance article status: %w", execErr)
	}

	affected, rowsErr := res.RowsAffected()
	if rowsErr != nil {
		return fmt.Errorf("get affected rows: %w", rowsErr)
	}
	if affected == 0 {
		return domain.ErrInvalidTransition
	}
	return nil
}

// CountByStatus returns the number of articles in the given status.
func (r *ArticleRepository) CountByStatus(ctx context.Context, status domain.ArticleStatus) (int64, error) {
	var count int64
	scanErr := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM articles WHERE status = $1`, status).Scan(&count)
	if scanErr != nil {
		return 0, fmt.Errorf("count articles: %w", scanErr)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*domain.Article, error) {
	var a domain.Article
	var keywords pq.StringArray
	var thumbnail, author, category, subcategory, sentiment sql.NullString
	var published sql.NullTime
	var relevance sql.NullInt64

	scanErr := row.Scan(
		&a.ID, &a.URL, &a.Title, &a.Content, &a.Excerpt, &thumbnail, &author,
		&a.Source, &published, &a.Status, &category, &subcategory,
		&sentiment, &keywords, &relevance, &a.CreatedAt, &a.UpdatedAt,
	)
	if scanErr != nil {
		return nil, scanErr
	}

	a.ThumbnailURL = thumbnail.String
	a.Author = author.String
	a.Category = category.String
	a.Subcategory = subcategory.String
	a.Sentiment = sentiment.String
	a.Keywords = keywords
	a.RelevanceScore = int(relevance.Int64)
	if published.Valid {
		t := published.Time
		a.PublishedAt = &t
	}
	return &a, nil
}

// initialArticleCapacity is a reasonable default for list operations.
const initialArticleCapacity = 50

func scanArticles(rows *sql.Rows) ([]domain.Article, error) {
	articles := make([]domain.Article, 0, initialArticleCapacity)
	for rows.Next() {
		a, scanErr := scanArticle(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("scan article: %w", scanErr)
		}
		articles = append(articles, *a)
	}
	return articles, rows.Err()
}
