package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/stats"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

type sessionLister interface {
	List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error)
}

// DashboardService composes the child home page payload from the session
// history. Payloads are cached per child and invalidated on any history
// mutation.
type DashboardService struct {
	sessions sessionLister
	children childAccessor
	cache    *CacheService
	ttl      time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(sessions sessionLister, children childAccessor, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{sessions: sessions, children: children, cache: cache, ttl: ttl, logger: logger}
}

// Overview returns the dashboard payload for one child.
func (s *DashboardService) Overview(ctx context.Context, userID, childID string) (*dto.DashboardResponse, error) {
	child, err := s.children.Get(ctx, userID, childID)
	if err != nil {
		return nil, err
	}

	key := ChildKey(childID, "dashboard")
	if s.cache != nil {
		var cached dto.DashboardResponse
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	sessions, err := s.sessions.List(ctx, models.SessionFilter{ChildID: childID, Ascending: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list sessions")
	}

	summary := stats.Aggregate(sessions)
	resp := &dto.DashboardResponse{
		Child:               dto.NewChildCard(*child),
		TotalSessions:       summary.TotalSessions,
		TotalMinutes:        summary.TotalMinutes,
		TotalHours:          summary.TotalHours,
		AvgAttentionPercent: summary.OverallAttentionPercent,
		HasAttention:        summary.AttentionSessions > 0,
		MostStudiedSubject:  models.SubjectName(summary.MostStudiedSubject),
		BestTimeOfDay:       string(summary.BestSlot),
		ImprovementRate:     summary.ImprovementRate,
		Subjects:            subjectBreakdown(summary),
	}

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, resp, s.ttl)
	}
	return resp, nil
}

// subjectBreakdown flattens the per-subject map into stable, sorted rows.
func subjectBreakdown(summary stats.Summary) []dto.SubjectBreakdown {
	keys := make([]string, 0, len(summary.PerSubject))
	for key := range summary.PerSubject {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]dto.SubjectBreakdown, 0, len(keys))
	for _, key := range keys {
		st := summary.PerSubject[key]
		color, ok := models.ChartSubjectColors[key]
		if !ok {
			color = models.DefaultSubjectColor
		}
		rows = append(rows, dto.SubjectBreakdown{
			Key:              key,
			Name:             models.SubjectName(key),
			Sessions:         st.Count,
			TotalMinutes:     st.TotalMinutes,
			AttentionPercent: st.AvgAttentionPercent,
			HasAttention:     st.AttentionCount > 0,
			Color:            color,
		})
	}
	return rows
}
