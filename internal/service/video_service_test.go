package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	"github.com/kidfocus/kidfocus-api/internal/models"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

type fakeWatchRepo struct {
	byID     map[string]*models.VideoWatch
	finished struct {
		id      string
		seconds int
	}
}

func (f *fakeWatchRepo) CreateWatch(ctx context.Context, watch *models.VideoWatch) error {
	watch.ID = "w1"
	if f.byID == nil {
		f.byID = make(map[string]*models.VideoWatch)
	}
	f.byID[watch.ID] = watch
	return nil
}

func (f *fakeWatchRepo) FindWatch(ctx context.Context, id string) (*models.VideoWatch, error) {
	watch, ok := f.byID[id]
	if !ok {
		return nil, os.ErrNotExist
	}
	return watch, nil
}

func (f *fakeWatchRepo) FinishWatch(ctx context.Context, watchID string, endedAt time.Time, durationSeconds int) error {
	f.finished.id = watchID
	f.finished.seconds = durationSeconds
	return nil
}

func (f *fakeWatchRepo) ListBySession(ctx context.Context, sessionID string) ([]models.VideoWatch, error) {
	return nil, nil
}

func videoRoot(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, models.SubjectMath)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for _, name := range []string{"fractions.mp4", "algebra.webm", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	return root
}

func TestCatalogListsOnlyPlayableFiles(t *testing.T) {
	svc := NewVideoService(&fakeWatchRepo{}, videoRoot(t), nil, nil)

	resp, err := svc.Catalog(context.Background(), models.SubjectMath)
	require.NoError(t, err)
	require.Len(t, resp.Videos, 2)
	assert.Equal(t, "algebra.webm", resp.Videos[0].Filename)
	assert.Equal(t, "algebra", resp.Videos[0].DisplayName)
	assert.Equal(t, "fractions.mp4", resp.Videos[1].Filename)
}

func TestCatalogMissingDirectoryIsEmpty(t *testing.T) {
	svc := NewVideoService(&fakeWatchRepo{}, videoRoot(t), nil, nil)

	resp, err := svc.Catalog(context.Background(), models.SubjectArt)
	require.NoError(t, err)
	assert.Empty(t, resp.Videos)
}

func TestFilePathRejectsEscapes(t *testing.T) {
	svc := NewVideoService(&fakeWatchRepo{}, videoRoot(t), nil, nil)

	_, err := svc.FilePath(models.SubjectMath, "../secrets.mp4")
	require.Error(t, err)

	_, err = svc.FilePath(models.SubjectMath, "notes.txt")
	require.Error(t, err)

	_, err = svc.FilePath(models.SubjectMath, "missing.mp4")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	path, err := svc.FilePath(models.SubjectMath, "fractions.mp4")
	require.NoError(t, err)
	assert.Equal(t, "fractions.mp4", filepath.Base(path))
}

func TestEndWatchComputesDuration(t *testing.T) {
	repo := &fakeWatchRepo{}
	svc := NewVideoService(repo, t.TempDir(), nil, nil)
	start := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return start }

	watch, err := svc.StartWatch(context.Background(), dto.StartWatchRequest{
		SessionID: "s1", Subject: models.SubjectMath, Filename: "fractions.mp4",
	})
	require.NoError(t, err)
	assert.Equal(t, "fractions", watch.VideoDisplay)

	svc.now = func() time.Time { return start.Add(95 * time.Second) }
	require.NoError(t, svc.EndWatch(context.Background(), dto.EndWatchRequest{WatchID: "w1"}))
	assert.Equal(t, "w1", repo.finished.id)
	assert.Equal(t, 95, repo.finished.seconds)
}
