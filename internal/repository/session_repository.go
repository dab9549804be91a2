package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/kidfocus/kidfocus-api/internal/models"
)

const sessionColumns = "id, child_id, subject, duration_minutes, start_time, end_time, avg_attention, avg_emotion_score"

// SessionRepository manages persistence for study sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs a SessionRepository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a freshly started session with no end time yet.
func (r *SessionRepository) Create(ctx context.Context, session *models.StudySession) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.StartTime.IsZero() {
		session.StartTime = time.Now().UTC()
	}
	const query = `INSERT INTO study_sessions (id, child_id, subject, duration_minutes, start_time)
        VALUES (:id, :child_id, :subject, :duration_minutes, :start_time)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// FindByID fetches a session by ID.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.StudySession, error) {
	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE id = $1", sessionColumns)
	var session models.StudySession
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActiveByChild returns the in-progress session of a child, or nil.
func (r *SessionRepository) FindActiveByChild(ctx context.Context, childID string) (*models.StudySession, error) {
	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE child_id = $1 AND end_time IS NULL ORDER BY start_time DESC LIMIT 1", sessionColumns)
	var session models.StudySession
	if err := r.db.GetContext(ctx, &session, query, childID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find active session: %w", err)
	}
	return &session, nil
}

// Finalize closes a session, setting end time, duration and sample averages.
func (r *SessionRepository) Finalize(ctx context.Context, session *models.StudySession) error {
	const query = `UPDATE study_sessions
        SET end_time = :end_time, duration_minutes = :duration_minutes,
            avg_attention = :avg_attention, avg_emotion_score = :avg_emotion_score
        WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("finalize session: %w", err)
	}
	return nil
}

// List returns sessions matching the filter. Completed and in-progress
// sessions are both returned; callers filter for eligibility themselves.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	conditions := []string{"child_id = $1"}
	args := []interface{}{filter.ChildID}

	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("start_time >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("start_time < $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	order := "DESC"
	if filter.Ascending {
		order = "ASC"
	}
	query := fmt.Sprintf("SELECT %s FROM study_sessions WHERE %s ORDER BY start_time %s",
		sessionColumns, strings.Join(conditions, " AND "), order)

	sessions := []models.StudySession{}
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// LatestStartTime returns the start time of the most recent session of a
// child, or nil when the child has no sessions at all.
func (r *SessionRepository) LatestStartTime(ctx context.Context, childID string) (*time.Time, error) {
	const query = `SELECT start_time FROM study_sessions WHERE child_id = $1 ORDER BY start_time DESC LIMIT 1`
	var latest time.Time
	if err := r.db.GetContext(ctx, &latest, query, childID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("latest session start: %w", err)
	}
	return &latest, nil
}

// Delete removes one session. Samples and video watches cascade.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM study_sessions WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByChild removes the full session history of a child.
func (r *SessionRepository) DeleteByChild(ctx context.Context, childID string) (int64, error) {
	const query = `DELETE FROM study_sessions WHERE child_id = $1`
	result, err := r.db.ExecContext(ctx, query, childID)
	if err != nil {
		return 0, fmt.Errorf("delete sessions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return affected, nil
}
