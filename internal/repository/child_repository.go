package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

const childColumns = "id, user_id, nickname, gender, age, education_stage, created_at, ai_suggestion, pdf_report_path, pdf_generated_at"

// ChildRepository manages persistence for child profiles.
type ChildRepository struct {
	db *sqlx.DB
}

// NewChildRepository constructs a ChildRepository.
func NewChildRepository(db *sqlx.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// Create inserts a new child profile.
func (r *ChildRepository) Create(ctx context.Context, child *models.Child) error {
	if child.ID == "" {
		child.ID = uuid.NewString()
	}
	if child.CreatedAt.IsZero() {
		child.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO children (id, user_id, nickname, gender, age, education_stage, created_at)
        VALUES (:id, :user_id, :nickname, :gender, :age, :education_stage, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, child); err != nil {
		return fmt.Errorf("create child: %w", err)
	}
	return nil
}

// ListByUser returns all child profiles of an account, oldest first.
func (r *ChildRepository) ListByUser(ctx context.Context, userID string) ([]models.Child, error) {
	query := fmt.Sprintf("SELECT %s FROM children WHERE user_id = $1 ORDER BY created_at ASC", childColumns)
	children := []models.Child{}
	if err := r.db.SelectContext(ctx, &children, query, userID); err != nil {
		return nil, fmt.Errorf("list children: %w", err)
	}
	return children, nil
}

// CountByUser returns the number of profiles held by an account.
func (r *ChildRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM children WHERE user_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		return 0, fmt.Errorf("count children: %w", err)
	}
	return count, nil
}

// FindByID fetches a child profile by ID.
func (r *ChildRepository) FindByID(ctx context.Context, id string) (*models.Child, error) {
	query := fmt.Sprintf("SELECT %s FROM children WHERE id = $1", childColumns)
	var child models.Child
	if err := r.db.GetContext(ctx, &child, query, id); err != nil {
		return nil, err
	}
	return &child, nil
}

// Update modifies the editable profile fields.
func (r *ChildRepository) Update(ctx context.Context, child *models.Child) error {
	const query = `UPDATE children SET nickname = :nickname, gender = :gender, age = :age, education_stage = :education_stage WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, child); err != nil {
		return fmt.Errorf("update child: %w", err)
	}
	return nil
}

// Delete removes a child profile. Sessions and samples cascade in the schema.
func (r *ChildRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM children WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete child: %w", err)
	}
	return nil
}

// SaveAISuggestion stores the generated advice text for a child. The report
// timestamp is nulled in the same statement so the next download rebuilds
// the PDF with the new advice embedded.
func (r *ChildRepository) SaveAISuggestion(ctx context.Context, childID, text string) error {
	const query = `UPDATE children SET ai_suggestion = $2, pdf_generated_at = NULL WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, childID, text); err != nil {
		return fmt.Errorf("save ai suggestion: %w", err)
	}
	return nil
}

// ClearAISuggestion drops stored advice so it is regenerated from fresh data.
func (r *ChildRepository) ClearAISuggestion(ctx context.Context, childID string) error {
	const query = `UPDATE children SET ai_suggestion = NULL WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, childID); err != nil {
		return fmt.Errorf("clear ai suggestion: %w", err)
	}
	return nil
}

// SaveReport records the path and generation time of a rendered PDF report.
func (r *ChildRepository) SaveReport(ctx context.Context, childID, path string, generatedAt time.Time) error {
	const query = `UPDATE children SET pdf_report_path = $2, pdf_generated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, childID, path, generatedAt); err != nil {
		return fmt.Errorf("save report: %w", err)
	}
	return nil
}

// ClearReport drops the stored report reference so the next request rebuilds it.
func (r *ChildRepository) ClearReport(ctx context.Context, childID string) error {
	const query = `UPDATE children SET pdf_report_path = NULL, pdf_generated_at = NULL WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, childID); err != nil {
		return fmt.Errorf("clear report: %w", err)
	}
	return nil
}
