package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/stats"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

// AnalysisService composes the detailed analysis page: chart series, the
// performance block and the qualifying session list.
type AnalysisService struct {
	sessions sessionLister
	children childAccessor
	logger   *zap.Logger
}

// NewAnalysisService constructs an AnalysisService.
func NewAnalysisService(sessions sessionLister, children childAccessor, logger *zap.Logger) *AnalysisService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{sessions: sessions, children: children, logger: logger}
}

// Detail returns the analysis payload for one child. The session list is
// newest first; chart series are derived from the full history.
func (s *AnalysisService) Detail(ctx context.Context, userID, childID string) (*dto.AnalysisResponse, error) {
	child, err := s.children.Get(ctx, userID, childID)
	if err != nil {
		return nil, err
	}

	sessions, err := s.sessions.List(ctx, models.SessionFilter{ChildID: childID, Ascending: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list sessions")
	}

	summary := stats.Aggregate(sessions)
	eligible := stats.FilterEligible(sessions)

	// newest first for display
	listed := make([]models.StudySession, len(eligible))
	for i, session := range eligible {
		listed[len(eligible)-1-i] = session
	}

	return &dto.AnalysisResponse{
		Child:               dto.NewChildCard(*child),
		Chart:               stats.BuildChartData(sessions),
		Performance:         stats.BuildPerformanceData(summary),
		AvgAttentionPercent: summary.OverallAttentionPercent,
		Sessions:            listed,
	}, nil
}
