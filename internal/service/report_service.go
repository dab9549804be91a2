package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/stats"
	"github.com/kidfocus/kidfocus-api/internal/suggest"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
	"github.com/kidfocus/kidfocus-api/pkg/export"
)

type reportSessionRepository interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
	LatestStartTime(ctx context.Context, childID string) (*time.Time, error)
}

type reportChildStore interface {
	SaveReport(ctx context.Context, childID, path string, generatedAt time.Time) error
}

type reportStorage interface {
	Save(filename string, data []byte) (string, error)
	Exists(filename string) bool
	Delete(filename string) error
	Path(filename string) string
}

type reportRenderer interface {
	Render(data export.ReportData) ([]byte, error)
}

// ReportService produces the PDF learning report for a child. The stored
// artifact is served as long as it is fresh; it is rebuilt when missing or
// when any session started after it was generated.
type ReportService struct {
	sessions reportSessionRepository
	children childAccessor
	store    reportChildStore
	storage  reportStorage
	renderer reportRenderer
	engine   *suggest.Engine
	logger   *zap.Logger
	now      func() time.Time
}

// NewReportService constructs a ReportService.
func NewReportService(sessions reportSessionRepository, children childAccessor, store reportChildStore, storage reportStorage, renderer reportRenderer, engine *suggest.Engine, logger *zap.Logger) *ReportService {
	if engine == nil {
		engine = suggest.NewEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		sessions: sessions,
		children: children,
		store:    store,
		storage:  storage,
		renderer: renderer,
		engine:   engine,
		logger:   logger,
		now:      time.Now,
	}
}

// Get returns the absolute path of a fresh report for the child,
// generating one first when needed.
func (s *ReportService) Get(ctx context.Context, userID, childID string) (string, error) {
	child, err := s.children.Get(ctx, userID, childID)
	if err != nil {
		return "", err
	}

	stale, err := s.isStale(ctx, child)
	if err != nil {
		return "", err
	}
	if !stale {
		return s.storage.Path(*child.ReportPath), nil
	}
	return s.regenerate(ctx, child)
}

// isStale decides whether the stored artifact can still be served.
func (s *ReportService) isStale(ctx context.Context, child *models.Child) (bool, error) {
	if child.ReportPath == nil || child.ReportAt == nil {
		return true, nil
	}
	if !s.storage.Exists(*child.ReportPath) {
		return true, nil
	}
	latest, err := s.sessions.LatestStartTime(ctx, child.ID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "check report freshness")
	}
	if latest != nil && latest.After(*child.ReportAt) {
		return true, nil
	}
	return false, nil
}

func (s *ReportService) regenerate(ctx context.Context, child *models.Child) (string, error) {
	sessions, err := s.sessions.List(ctx, models.SessionFilter{ChildID: child.ID, Ascending: true})
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list sessions")
	}

	generatedAt := s.now().UTC()
	data := s.buildReportData(child, sessions, generatedAt)

	payload, err := s.renderer.Render(data)
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrReportUnavailable.Code, appErrors.ErrReportUnavailable.Status, "render report")
	}

	filename := fmt.Sprintf("report_%s_%d.pdf", child.ID, generatedAt.Unix())
	if _, err := s.storage.Save(filename, payload); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrReportUnavailable.Code, appErrors.ErrReportUnavailable.Status, "store report")
	}

	if err := s.store.SaveReport(ctx, child.ID, filename, generatedAt); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "record report")
	}

	// best effort removal of the replaced artifact
	if child.ReportPath != nil && *child.ReportPath != filename {
		if err := s.storage.Delete(*child.ReportPath); err != nil {
			s.logger.Warn("delete stale report failed", zap.String("child_id", child.ID), zap.Error(err))
		}
	}

	child.ReportPath = &filename
	child.ReportAt = &generatedAt
	s.logger.Info("report generated", zap.String("child_id", child.ID), zap.String("file", filename))
	return s.storage.Path(filename), nil
}

func (s *ReportService) buildReportData(child *models.Child, sessions []models.StudySession, generatedAt time.Time) export.ReportData {
	summary := stats.Aggregate(sessions)
	suggestions := s.engine.Build(*child, summary)

	data := export.ReportData{
		ChildName:           child.Nickname,
		Age:                 child.Age,
		Stage:               models.StageName(child.EducationStage),
		Gender:              models.GenderName(child.Gender),
		GeneratedAt:         generatedAt,
		TotalSessions:       summary.TotalSessions,
		TotalMinutes:        summary.TotalMinutes,
		TotalHours:          summary.TotalHours,
		AttentionPercent:    summary.OverallAttentionPercent,
		HasAttention:        summary.AttentionSessions > 0,
		MostStudiedSubject:  models.SubjectName(summary.MostStudiedSubject),
		BestTimeOfDay:       string(summary.BestSlot),
		Subjects:            reportSubjects(summary),
	}
	if summary.ImprovementRate != 0 {
		rate := summary.ImprovementRate
		data.ImprovementRate = &rate
	}

	data.Sections = []export.AdviceSection{
		{Title: "Age-Appropriate Learning", Items: suggestions.AgeAppropriate},
		{Title: "Learning Style", Items: suggestions.LearningStyle},
		{Title: "Schedule & Timing", Items: suggestions.Schedule},
		{Title: "Attention Improvement", Items: suggestions.AttentionImprovement},
		{Title: "Subject-Specific", Items: suggestions.SubjectSpecific},
	}

	if child.AISuggestion != nil && *child.AISuggestion != "" && !CleanLegacyAdvice(*child.AISuggestion) {
		data.AIAdvice = *child.AISuggestion
	}
	return data
}

func reportSubjects(summary stats.Summary) []export.SubjectRow {
	rows := make([]export.SubjectRow, 0, len(summary.PerSubject))
	for _, breakdown := range subjectBreakdown(summary) {
		rows = append(rows, export.SubjectRow{
			Name:             breakdown.Name,
			Sessions:         breakdown.Sessions,
			Minutes:          breakdown.TotalMinutes,
			AttentionPercent: breakdown.AttentionPercent,
			HasAttention:     breakdown.HasAttention,
		})
	}
	return rows
}
