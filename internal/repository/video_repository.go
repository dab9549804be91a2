package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

// VideoRepository manages persistence for learning-video playback records.
type VideoRepository struct {
	db *sqlx.DB
}

// NewVideoRepository constructs a VideoRepository.
func NewVideoRepository(db *sqlx.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// CreateWatch records the start of a playback inside a session.
func (r *VideoRepository) CreateWatch(ctx context.Context, watch *models.VideoWatch) error {
	if watch.ID == "" {
		watch.ID = uuid.NewString()
	}
	if watch.StartedAt.IsZero() {
		watch.StartedAt = time.Now().UTC()
	}
	const query = `INSERT INTO video_watches (id, session_id, subject, video_filename, video_display_name, started_at, duration_seconds)
        VALUES (:id, :session_id, :subject, :video_filename, :video_display_name, :started_at, :duration_seconds)`
	if _, err := r.db.NamedExecContext(ctx, query, watch); err != nil {
		return fmt.Errorf("create video watch: %w", err)
	}
	return nil
}

// FindWatch fetches a playback record by ID.
func (r *VideoRepository) FindWatch(ctx context.Context, id string) (*models.VideoWatch, error) {
	const query = `SELECT id, session_id, subject, video_filename, video_display_name, started_at, ended_at, duration_seconds
        FROM video_watches WHERE id = $1`
	var watch models.VideoWatch
	if err := r.db.GetContext(ctx, &watch, query, id); err != nil {
		return nil, err
	}
	return &watch, nil
}

// FinishWatch closes a playback record with its end time and duration.
func (r *VideoRepository) FinishWatch(ctx context.Context, watchID string, endedAt time.Time, durationSeconds int) error {
	const query = `UPDATE video_watches SET ended_at = $2, duration_seconds = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, watchID, endedAt, durationSeconds); err != nil {
		return fmt.Errorf("finish video watch: %w", err)
	}
	return nil
}

// ListBySession returns playback records of a session in start order.
func (r *VideoRepository) ListBySession(ctx context.Context, sessionID string) ([]models.VideoWatch, error) {
	const query = `SELECT id, session_id, subject, video_filename, video_display_name, started_at, ended_at, duration_seconds
        FROM video_watches WHERE session_id = $1 ORDER BY started_at ASC`
	watches := []models.VideoWatch{}
	if err := r.db.SelectContext(ctx, &watches, query, sessionID); err != nil {
		return nil, fmt.Errorf("list video watches: %w", err)
	}
	return watches, nil
}
