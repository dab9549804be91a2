package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kidfocus/kidfocus-api/internal/models"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

type childRepository interface {
	Create(ctx context.Context, child *models.Child) error
	ListByUser(ctx context.Context, userID string) ([]models.Child, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	FindByID(ctx context.Context, id string) (*models.Child, error)
	Update(ctx context.Context, child *models.Child) error
	Delete(ctx context.Context, id string) error
	SaveAISuggestion(ctx context.Context, childID, text string) error
	ClearAISuggestion(ctx context.Context, childID string) error
	SaveReport(ctx context.Context, childID, path string, generatedAt time.Time) error
	ClearReport(ctx context.Context, childID string) error
}

type reportArtifactStore interface {
	Exists(filename string) bool
	Delete(filename string) error
}

// ChildService manages child profiles. Profile edits invalidate derived
// artifacts (AI advice, PDF report, cached dashboards) since advice and
// reports depend on age, gender and stage.
type ChildService struct {
	children  childRepository
	artifacts reportArtifactStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewChildService constructs a ChildService.
func NewChildService(children childRepository, artifacts reportArtifactStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ChildService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChildService{children: children, artifacts: artifacts, cache: cache, validator: validate, logger: logger}
}

// Create adds a child profile, enforcing the per-account limit.
func (s *ChildService) Create(ctx context.Context, userID string, req models.ChildRequest) (*models.Child, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	count, err := s.children.CountByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "count children")
	}
	if count >= models.MaxChildrenPerUser {
		return nil, appErrors.ErrChildLimit
	}

	child := &models.Child{
		UserID:         userID,
		Nickname:       req.Nickname,
		Gender:         req.Gender,
		Age:            req.Age,
		EducationStage: req.EducationStage,
	}
	if err := s.children.Create(ctx, child); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "create child")
	}

	s.logger.Info("child profile created", zap.String("child_id", child.ID), zap.String("user_id", userID))
	return child, nil
}

// List returns all profiles of an account.
func (s *ChildService) List(ctx context.Context, userID string) ([]models.Child, error) {
	children, err := s.children.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list children")
	}
	return children, nil
}

// Get fetches one profile, verifying it belongs to the account.
func (s *ChildService) Get(ctx context.Context, userID, childID string) (*models.Child, error) {
	child, err := s.children.FindByID(ctx, childID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find child")
	}
	if child.UserID != userID {
		return nil, appErrors.ErrForbidden
	}
	return child, nil
}

// Update edits the profile fields and invalidates derived artifacts.
func (s *ChildService) Update(ctx context.Context, userID, childID string, req models.ChildRequest) (*models.Child, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}

	child, err := s.Get(ctx, userID, childID)
	if err != nil {
		return nil, err
	}

	child.Nickname = req.Nickname
	child.Gender = req.Gender
	child.Age = req.Age
	child.EducationStage = req.EducationStage

	if err := s.children.Update(ctx, child); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "update child")
	}

	s.invalidateDerived(ctx, child)
	return child, nil
}

// Delete removes a profile and its report artifact.
func (s *ChildService) Delete(ctx context.Context, userID, childID string) error {
	child, err := s.Get(ctx, userID, childID)
	if err != nil {
		return err
	}

	if err := s.children.Delete(ctx, childID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "delete child")
	}

	if s.artifacts != nil && child.ReportPath != nil {
		if err := s.artifacts.Delete(*child.ReportPath); err != nil {
			s.logger.Warn("delete report artifact failed", zap.String("child_id", childID), zap.Error(err))
		}
	}
	if s.cache != nil {
		_ = s.cache.InvalidateChild(ctx, childID)
	}
	return nil
}

// invalidateDerived drops advice, report and cached payloads after a
// profile or history change.
func (s *ChildService) invalidateDerived(ctx context.Context, child *models.Child) {
	if err := s.children.ClearAISuggestion(ctx, child.ID); err != nil {
		s.logger.Warn("clear ai suggestion failed", zap.String("child_id", child.ID), zap.Error(err))
	}
	if err := s.children.ClearReport(ctx, child.ID); err != nil {
		s.logger.Warn("clear report failed", zap.String("child_id", child.ID), zap.Error(err))
	}
	if s.artifacts != nil && child.ReportPath != nil {
		if err := s.artifacts.Delete(*child.ReportPath); err != nil {
			s.logger.Warn("delete report artifact failed", zap.String("child_id", child.ID), zap.Error(err))
		}
	}
	if s.cache != nil {
		_ = s.cache.InvalidateChild(ctx, child.ID)
	}
}
