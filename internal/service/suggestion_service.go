package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/stats"
	"github.com/kidfocus/kidfocus-api/internal/suggest"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

type adviceGenerator interface {
	CanGenerate() bool
	Generate(ctx context.Context, child *models.Child, sessions []models.StudySession) string
}

type adviceCleaner interface {
	ClearAISuggestion(ctx context.Context, childID string) error
}

// SuggestionService composes the smart suggestions page: the deterministic
// rule suggestions, the performance block, and whatever AI advice is
// stored. It never triggers generation itself.
type SuggestionService struct {
	sessions sessionLister
	children childAccessor
	cleaner  adviceCleaner
	engine   *suggest.Engine
	advice   adviceGenerator
	logger   *zap.Logger
}

// NewSuggestionService constructs a SuggestionService.
func NewSuggestionService(sessions sessionLister, children childAccessor, cleaner adviceCleaner, engine *suggest.Engine, advice adviceGenerator, logger *zap.Logger) *SuggestionService {
	if engine == nil {
		engine = suggest.NewEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SuggestionService{sessions: sessions, children: children, cleaner: cleaner, engine: engine, advice: advice, logger: logger}
}

// Get returns the suggestions payload for one child.
func (s *SuggestionService) Get(ctx context.Context, userID, childID string) (*dto.SuggestionsResponse, error) {
	child, err := s.children.Get(ctx, userID, childID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.List(ctx, models.SessionFilter{ChildID: childID, Ascending: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list sessions")
	}

	summary := stats.Aggregate(sessions)
	suggestions := s.engine.Build(*child, summary)

	stored := s.storedAdvice(ctx, child)

	canGenerate := s.advice != nil && s.advice.CanGenerate()
	var display *string
	switch {
	case stored != "":
		display = &stored
	case !canGenerate:
		// Shown but never written back, so it cannot shadow real advice.
		fallback := FallbackAdvice
		display = &fallback
	}

	return &dto.SuggestionsResponse{
		Child:       dto.NewChildCard(*child),
		Suggestions: suggestions,
		Performance: stats.BuildPerformanceData(summary),
		AIAdvice:    display,
		CanGenerate: canGenerate,
	}, nil
}

// GenerateAdvice produces and persists fresh AI advice for the child.
func (s *SuggestionService) GenerateAdvice(ctx context.Context, userID, childID string) (*dto.AdviceResponse, error) {
	child, err := s.children.Get(ctx, userID, childID)
	if err != nil {
		return nil, err
	}
	if s.advice == nil {
		return &dto.AdviceResponse{Advice: FallbackAdvice}, nil
	}

	sessions, err := s.sessions.List(ctx, models.SessionFilter{ChildID: childID, Ascending: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list sessions")
	}

	return &dto.AdviceResponse{Advice: s.advice.Generate(ctx, child, sessions)}, nil
}

// storedAdvice reads the persisted advice, discarding text written by the
// retired offline generator.
func (s *SuggestionService) storedAdvice(ctx context.Context, child *models.Child) string {
	if child.AISuggestion == nil || *child.AISuggestion == "" {
		return ""
	}
	if CleanLegacyAdvice(*child.AISuggestion) {
		if s.cleaner != nil {
			if err := s.cleaner.ClearAISuggestion(ctx, child.ID); err != nil {
				s.logger.Warn("clear legacy advice failed", zap.String("child_id", child.ID), zap.Error(err))
			}
		}
		child.AISuggestion = nil
		return ""
	}
	return *child.AISuggestion
}
