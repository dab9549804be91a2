package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

// EmotionRepository manages persistence for detector samples.
type EmotionRepository struct {
	db *sqlx.DB
}

// NewEmotionRepository constructs an EmotionRepository.
func NewEmotionRepository(db *sqlx.DB) *EmotionRepository {
	return &EmotionRepository{db: db}
}

// Create inserts one detector sample.
func (r *EmotionRepository) Create(ctx context.Context, sample *models.EmotionSample) error {
	if sample.ID == "" {
		sample.ID = uuid.NewString()
	}
	if sample.Timestamp.IsZero() {
		sample.Timestamp = time.Now().UTC()
	}
	const query = `INSERT INTO emotion_samples (id, session_id, timestamp, emotion, attention_level, confidence)
        VALUES (:id, :session_id, :timestamp, :emotion, :attention_level, :confidence)`
	if _, err := r.db.NamedExecContext(ctx, query, sample); err != nil {
		return fmt.Errorf("create emotion sample: %w", err)
	}
	return nil
}

// ListBySession returns all samples of a session in capture order.
func (r *EmotionRepository) ListBySession(ctx context.Context, sessionID string) ([]models.EmotionSample, error) {
	const query = `SELECT id, session_id, timestamp, emotion, attention_level, confidence
        FROM emotion_samples WHERE session_id = $1 ORDER BY timestamp ASC`
	samples := []models.EmotionSample{}
	if err := r.db.SelectContext(ctx, &samples, query, sessionID); err != nil {
		return nil, fmt.Errorf("list emotion samples: %w", err)
	}
	return samples, nil
}

// CountBySession returns the number of samples captured in a session.
func (r *EmotionRepository) CountBySession(ctx context.Context, sessionID string) (int, error) {
	const query = `SELECT COUNT(*) FROM emotion_samples WHERE session_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, sessionID); err != nil {
		return 0, fmt.Errorf("count emotion samples: %w", err)
	}
	return count, nil
}
