package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"newsgram/internal/domain"
)

// PromptRepository manages stored per-category system prompts.
type PromptRepository struct {
	db *sqlx.DB
}

// NewPromptRepository creates a new repository.
func NewPromptRepository(db *sqlx.DB) *PromptRepository {
	return &PromptRepository{db: db}
}

// ListByUser returns all prompt templates stored for one user.
func (r *PromptRepository) ListByUser(ctx context.Context, userID string) ([]domain.PromptTemplate, error) {
	query := `
		SELECT id, user_id, category, system_prompt, updated_at
		FROM prompt_templates
		WHERE user_id = $1
		ORDER BY category`

	var prompts []domain.PromptTemplate
	if selectErr := r.db.SelectContext(ctx, &prompts, query, userID); selectErr != nil {
		return nil, fmt.Errorf("list prompts: %w", selectErr)
	}
	return prompts, nil
}

// GetByCategory returns the prompt stored for one (user, category).
func (r *PromptRepository) GetByCategory(ctx context.Context, userID, category string) (*domain.PromptTemplate, error) {
	query := `
		SELECT id, user_id, category, system_prompt, updated_at
		FROM prompt_templates
		WHERE user_id = $1 AND category = $2`

	var prompt domain.PromptTemplate
	getErr := r.db.GetContext(ctx, &prompt, query, userID, category)
	if errors.Is(getErr, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if getErr != nil {
		return nil, fmt.Errorf("get prompt: %w", getErr)
	}
	return &prompt, nil
}

// Delete removes the stored prompt for one (user, category), resetting it
// to the built-in default. Deleting an absent prompt is not an error.
func (r *PromptRepository) Delete(ctx context.Context, userID, category string) error {
	_, execErr := r.db.ExecContext(ctx,
		`DELETE FROM prompt_templates WHERE user_id = $1 AND category = $2`,
		userID, category)
	if execErr != nil {
		return fmt.Errorf("delete prompt: %w", execErr)
	}
	return nil
}

// Upsert stores a prompt for (user, category), replacing any previous value.
func (r *PromptRepository) Upsert(ctx context.Context, prompt *domain.PromptTemplate) error {
	query := `
		INSERT INTO prompt_templates (id, user_id, category, system_prompt, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id, category)
		DO UPDATE SET system_prompt = EXCLUDED.system_prompt, updated_at = NOW()
		RETURNING id, updated_at`

	scanErr := r.db.QueryRowContext(ctx, query,
		uuid.New().String(),
		prompt.UserID,
		prompt.Category,
		prompt.SystemPrompt,
	).Scan(&prompt.ID, &prompt.UpdatedAt)
	if scanErr != nil {
		return fmt.Errorf("upsert prompt: %w", scanErr)
	}
	return nil
}
