package service

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	"github.com/kidfocus/kidfocus-api/internal/models"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

// allowedVideoExts whitelists the playable container formats.
var allowedVideoExts = map[string]struct{}{
	".mp4":  {},
	".m4v":  {},
	".webm": {},
	".ogg":  {},
}

type videoRepository interface {
	CreateWatch(ctx context.Context, watch *models.VideoWatch) error
	FindWatch(ctx context.Context, id string) (*models.VideoWatch, error)
	FinishWatch(ctx context.Context, watchID string, endedAt time.Time, durationSeconds int) error
	ListBySession(ctx context.Context, sessionID string) ([]models.VideoWatch, error)
}

// VideoService serves the per-subject learning-video catalog from the
// filesystem and records playback.
type VideoService struct {
	watches   videoRepository
	rootDir   string
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewVideoService constructs a VideoService.
func NewVideoService(watches videoRepository, rootDir string, validate *validator.Validate, logger *zap.Logger) *VideoService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VideoService{watches: watches, rootDir: rootDir, validator: validate, logger: logger, now: time.Now}
}

// Catalog lists the playable videos of one subject. A missing subject
// directory yields an empty catalog, not an error.
func (s *VideoService) Catalog(ctx context.Context, subject string) (*dto.VideoCatalogResponse, error) {
	if !models.ValidSubject(subject) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject")
	}

	resp := &dto.VideoCatalogResponse{
		Subject:     subject,
		SubjectName: models.SubjectName(subject),
		Videos:      []dto.VideoItem{},
	}

	entries, err := os.ReadDir(filepath.Join(s.rootDir, subject))
	if err != nil {
		if os.IsNotExist(err) {
			return resp, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "read video directory")
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if _, ok := allowedVideoExts[ext]; !ok {
			continue
		}
		resp.Videos = append(resp.Videos, dto.VideoItem{
			Filename:    name,
			DisplayName: strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}
	sort.Slice(resp.Videos, func(i, j int) bool { return resp.Videos[i].Filename < resp.Videos[j].Filename })
	return resp, nil
}

// FilePath resolves the on-disk path of a catalog video, rejecting names
// that escape the subject directory.
func (s *VideoService) FilePath(subject, filename string) (string, error) {
	if !models.ValidSubject(subject) {
		return "", appErrors.Clone(appErrors.ErrValidation, "unknown subject")
	}
	if filename != filepath.Base(filename) {
		return "", appErrors.Clone(appErrors.ErrValidation, "invalid filename")
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedVideoExts[ext]; !ok {
		return "", appErrors.Clone(appErrors.ErrValidation, "unsupported video format")
	}

	path := filepath.Join(s.rootDir, subject, filename)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", appErrors.ErrNotFound
	}
	return path, nil
}

// StartWatch records the start of a playback inside a session.
func (s *VideoService) StartWatch(ctx context.Context, req dto.StartWatchRequest) (*models.VideoWatch, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	if !models.ValidSubject(req.Subject) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown subject")
	}

	display := req.DisplayName
	if display == "" {
		display = strings.TrimSuffix(req.Filename, filepath.Ext(req.Filename))
	}
	watch := &models.VideoWatch{
		SessionID:     req.SessionID,
		Subject:       req.Subject,
		VideoFilename: req.Filename,
		VideoDisplay:  display,
		StartedAt:     s.now().UTC(),
	}
	if err := s.watches.CreateWatch(ctx, watch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "record playback")
	}
	return watch, nil
}

// EndWatch closes a playback record, computing its duration from the
// stored start time.
func (s *VideoService) EndWatch(ctx context.Context, req dto.EndWatchRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	watch, err := s.watches.FindWatch(ctx, req.WatchID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "find playback")
	}
	endedAt := s.now().UTC()
	seconds := int(endedAt.Sub(watch.StartedAt).Seconds())
	if seconds < 0 {
		seconds = 0
	}
	if err := s.watches.FinishWatch(ctx, req.WatchID, endedAt, seconds); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "finish playback")
	}
	return nil
}

// SessionWatches lists the playback records of one session.
func (s *VideoService) SessionWatches(ctx context.Context, sessionID string) ([]models.VideoWatch, error) {
	watches, err := s.watches.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "list playbacks")
	}
	return watches, nil
}
