package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/internal/stats"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

// CalendarService builds the month view of a child's study activity.
type CalendarService struct {
	sessions sessionLister
	children childAccessor
	cache    *CacheService
	ttl      time.Duration
	logger   *zap.Logger
}

// NewCalendarService constructs a CalendarService.
func NewCalendarService(sessions sessionLister, children childAccessor, cache *CacheService, ttl time.Duration, logger *zap.Logger) *CalendarService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarService{sessions: sessions, children: children, cache: cache, ttl: ttl, logger: logger}
}

// Month returns the calendar payload for one child and month.
func (s *CalendarService) Month(ctx context.Context, userID, childID string, year, month int) (*dto.CalendarResponse, error) {
	if month < 1 || month > 12 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "month must be between 1 and 12")
	}
	if year < 2000 || year > 2100 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "year out of range")
	}
	if _, err := s.children.Get(ctx, userID, childID); err != nil {
		return nil, err
	}

	key := ChildKey(childID, fmt.Sprintf("calendar:%04d-%02d", year, month))
	if s.cache != nil {
		var cached dto.CalendarResponse
		if hit, _ := s.cache.Get(ctx, key, &cached); hit {
			return &cached, nil
		}
	}

	from, to := stats.MonthBounds(year, month)
	sessions, err := s.sessions.List(ctx, models.SessionFilter{ChildID: childID, From: &from, To: &to, Ascending: true})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list sessions")
	}

	resp := &dto.CalendarResponse{
		Year:  year,
		Month: month,
		Days:  stats.BuildCalendar(sessions),
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, resp, s.ttl)
	}
	return resp, nil
}
