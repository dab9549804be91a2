package service

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	"github.com/kidfocus/kidfocus-api/internal/models"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

type sessionRepository interface {
	Create(ctx context.Context, session *models.StudySession) error
	FindByID(ctx context.Context, id string) (*models.StudySession, error)
	FindActiveByChild(ctx context.Context, childID string) (*models.StudySession, error)
	Finalize(ctx context.Context, session *models.StudySession) error
	List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
	Delete(ctx context.Context, id string) error
	DeleteByChild(ctx context.Context, childID string) (int64, error)
}

type emotionRepository interface {
	Create(ctx context.Context, sample *models.EmotionSample) error
	ListBySession(ctx context.Context, sessionID string) ([]models.EmotionSample, error)
}

type childAccessor interface {
	Get(ctx context.Context, userID, childID string) (*models.Child, error)
}

type derivedInvalidator interface {
	ClearAISuggestion(ctx context.Context, childID string) error
	ClearReport(ctx context.Context, childID string) error
}

type sessionExporter interface {
	Render(headers []string, records [][]string) ([]byte, error)
}

// SessionService owns the study session lifecycle. Any mutation of a
// child's history drops that child's derived artifacts so advice, report
// and dashboard are rebuilt from current data.
type SessionService struct {
	sessions  sessionRepository
	samples   emotionRepository
	children  childAccessor
	derived   derivedInvalidator
	cache     *CacheService
	exporter  sessionExporter
	validator *validator.Validate
	logger    *zap.Logger
	activeTTL time.Duration
	now       func() time.Time
}

// NewSessionService constructs a SessionService. activeTTL bounds how long
// the cached active-session pointer may outlive an abandoned session.
func NewSessionService(sessions sessionRepository, samples emotionRepository, children childAccessor, derived derivedInvalidator, cache *CacheService, exporter sessionExporter, activeTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if activeTTL <= 0 {
		activeTTL = 12 * time.Hour
	}
	return &SessionService{
		sessions:  sessions,
		samples:   samples,
		children:  children,
		derived:   derived,
		cache:     cache,
		exporter:  exporter,
		validator: validate,
		logger:    logger,
		activeTTL: activeTTL,
		now:       time.Now,
	}
}

// Start begins a session for a child. Only one session may be in progress
// per child at a time.
func (s *SessionService) Start(ctx context.Context, userID string, req dto.StartSessionRequest) (*models.StudySession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if !models.ValidSubject(req.Subject) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject")
	}
	if _, err := s.children.Get(ctx, userID, req.ChildID); err != nil {
		return nil, err
	}

	active, err := s.sessions.FindActiveByChild(ctx, req.ChildID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find active session")
	}
	if active != nil {
		return nil, appErrors.ErrSessionActive
	}

	session := &models.StudySession{
		ChildID:   req.ChildID,
		Subject:   req.Subject,
		StartTime: s.now().UTC(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create session")
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, ChildKey(req.ChildID, "active_session"), session.ID, s.activeTTL)
	}
	s.logger.Info("session started", zap.String("session_id", session.ID), zap.String("subject", session.Subject))
	return session, nil
}

// RecordEmotion stores one detector sample against an in-progress session.
func (s *SessionService) RecordEmotion(ctx context.Context, userID, sessionID string, req dto.EmotionSampleRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if session.EndTime != nil {
		return appErrors.ErrNoActiveSession
	}

	sample := &models.EmotionSample{
		SessionID:      sessionID,
		Timestamp:      s.now().UTC(),
		Emotion:        req.Emotion,
		AttentionLevel: req.AttentionLevel,
		Confidence:     req.Confidence,
	}
	if err := s.samples.Create(ctx, sample); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "record sample")
	}
	return nil
}

// End closes an in-progress session. Duration is whole elapsed minutes,
// floored at zero; averages come from the captured samples and stay unset
// when no sample exists.
func (s *SessionService) End(ctx context.Context, userID, sessionID string) (*models.StudySession, error) {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session.EndTime != nil {
		return nil, appErrors.ErrNoActiveSession
	}

	end := s.now().UTC()
	session.EndTime = &end
	minutes := int(end.Sub(session.StartTime).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	session.DurationMinutes = minutes

	samples, err := s.samples.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list samples")
	}
	if len(samples) > 0 {
		var attentionSum, confidenceSum float64
		for _, sample := range samples {
			attentionSum += float64(sample.AttentionLevel)
			confidenceSum += sample.Confidence
		}
		avgAttention := attentionSum / float64(len(samples))
		avgConfidence := confidenceSum / float64(len(samples))
		session.AvgAttention = &avgAttention
		session.AvgEmotionScore = &avgConfidence
	}

	if err := s.sessions.Finalize(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "finalize session")
	}

	s.invalidateDerived(ctx, session.ChildID)
	if s.cache != nil {
		_ = s.cache.Delete(ctx, ChildKey(session.ChildID, "active_session"))
	}
	s.logger.Info("session ended",
		zap.String("session_id", session.ID),
		zap.Int("duration_minutes", session.DurationMinutes),
		zap.Int("samples", len(samples)))
	return session, nil
}

// Active returns the in-progress session of a child, or nil.
func (s *SessionService) Active(ctx context.Context, userID, childID string) (*models.StudySession, error) {
	if _, err := s.children.Get(ctx, userID, childID); err != nil {
		return nil, err
	}
	session, err := s.sessions.FindActiveByChild(ctx, childID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find active session")
	}
	return session, nil
}

// List returns one page of a child's session history, newest first.
func (s *SessionService) List(ctx context.Context, userID string, req dto.SessionListRequest) (*dto.SessionListResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if _, err := s.children.Get(ctx, userID, req.ChildID); err != nil {
		return nil, err
	}

	sessions, err := s.sessions.List(ctx, models.SessionFilter{ChildID: req.ChildID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list sessions")
	}

	page := req.Page
	if page < 1 {
		page = 1
	}
	size := req.PageSize
	if size < 1 || size > 100 {
		size = 20
	}
	total := len(sessions)
	start := (page - 1) * size
	if start > total {
		start = total
	}
	stop := start + size
	if stop > total {
		stop = total
	}

	return &dto.SessionListResponse{
		Sessions:   sessions[start:stop],
		Pagination: models.NewPagination(page, size, total),
	}, nil
}

// Delete removes one session and the child's derived artifacts.
func (s *SessionService) Delete(ctx context.Context, userID, sessionID string) error {
	session, err := s.ownedSession(ctx, userID, sessionID)
	if err != nil {
		return err
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete session")
	}
	s.invalidateDerived(ctx, session.ChildID)
	return nil
}

// ResetHistory removes the whole session history of a child.
func (s *SessionService) ResetHistory(ctx context.Context, userID, childID string) (*dto.ResetHistoryResponse, error) {
	if _, err := s.children.Get(ctx, userID, childID); err != nil {
		return nil, err
	}
	deleted, err := s.sessions.DeleteByChild(ctx, childID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "reset history")
	}
	s.invalidateDerived(ctx, childID)
	s.logger.Info("history reset", zap.String("child_id", childID), zap.Int64("deleted", deleted))
	return &dto.ResetHistoryResponse{Deleted: deleted}, nil
}

// ExportCSV renders the child's full session history as CSV bytes.
func (s *SessionService) ExportCSV(ctx context.Context, userID, childID string) ([]byte, error) {
	if _, err := s.children.Get(ctx, userID, childID); err != nil {
		return nil, err
	}
	sessions, err := s.sessions.List(ctx, models.SessionFilter{ChildID: childID, Ascending: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list sessions")
	}

	headers := []string{"subject", "start_time", "end_time", "duration_minutes", "avg_attention", "avg_emotion_score"}
	records := make([][]string, 0, len(sessions))
	for _, session := range sessions {
		endTime := ""
		if session.EndTime != nil {
			endTime = session.EndTime.Format(time.RFC3339)
		}
		attention := ""
		if session.AvgAttention != nil {
			attention = strconv.FormatFloat(*session.AvgAttention, 'f', 2, 64)
		}
		emotion := ""
		if session.AvgEmotionScore != nil {
			emotion = strconv.FormatFloat(*session.AvgEmotionScore, 'f', 2, 64)
		}
		records = append(records, []string{
			session.Subject,
			session.StartTime.Format(time.RFC3339),
			endTime,
			strconv.Itoa(session.DurationMinutes),
			attention,
			emotion,
		})
	}

	data, err := s.exporter.Render(headers, records)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "export sessions")
	}
	return data, nil
}

func (s *SessionService) ownedSession(ctx context.Context, userID, sessionID string) (*models.StudySession, error) {
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find session")
	}
	if _, err := s.children.Get(ctx, userID, session.ChildID); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *SessionService) invalidateDerived(ctx context.Context, childID string) {
	if s.derived != nil {
		if err := s.derived.ClearAISuggestion(ctx, childID); err != nil {
			s.logger.Warn("clear ai suggestion failed", zap.String("child_id", childID), zap.Error(err))
		}
		if err := s.derived.ClearReport(ctx, childID); err != nil {
			s.logger.Warn("clear report failed", zap.String("child_id", childID), zap.Error(err))
		}
	}
	if s.cache != nil {
		_ = s.cache.InvalidateChild(ctx, childID)
	}
}
