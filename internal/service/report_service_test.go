package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidfocus/kidfocus-api/internal/models"
	"github.com/kidfocus/kidfocus-api/pkg/export"
)

type fakeReportSessions struct {
	sessions []models.StudySession
	latest   *time.Time
}

func (f *fakeReportSessions) List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	return f.sessions, nil
}

func (f *fakeReportSessions) LatestStartTime(ctx context.Context, childID string) (*time.Time, error) {
	return f.latest, nil
}

type fakeReportStore struct {
	childID string
	path    string
	at      time.Time
}

func (f *fakeReportStore) SaveReport(ctx context.Context, childID, path string, generatedAt time.Time) error {
	f.childID, f.path, f.at = childID, path, generatedAt
	return nil
}

type fakeReportStorage struct {
	files   map[string][]byte
	deleted []string
}

func (f *fakeReportStorage) Save(filename string, data []byte) (string, error) {
	if f.files == nil {
		f.files = make(map[string][]byte)
	}
	f.files[filename] = data
	return f.Path(filename), nil
}

func (f *fakeReportStorage) Exists(filename string) bool {
	_, ok := f.files[filename]
	return ok
}

func (f *fakeReportStorage) Delete(filename string) error {
	f.deleted = append(f.deleted, filename)
	delete(f.files, filename)
	return nil
}

func (f *fakeReportStorage) Path(filename string) string {
	return filepath.Join("/reports", filename)
}

type fakeRenderer struct {
	last  export.ReportData
	calls int
}

func (f *fakeRenderer) Render(data export.ReportData) ([]byte, error) {
	f.last = data
	f.calls++
	return []byte("%PDF"), nil
}

func reportChild(path *string, at *time.Time) *models.Child {
	return &models.Child{
		ID: "c1", UserID: "u1", Nickname: "Mia", Age: 8,
		Gender: models.GenderFemale, EducationStage: models.StageElementary,
		ReportPath: path, ReportAt: at,
	}
}

func newReportService(child *models.Child, sessions *fakeReportSessions, storage *fakeReportStorage, renderer *fakeRenderer) (*ReportService, *fakeReportStore) {
	store := &fakeReportStore{}
	children := &fakeChildAccessor{child: child}
	svc := NewReportService(sessions, children, store, storage, renderer, nil, nil)
	return svc, store
}

func TestReportServedWhileFresh(t *testing.T) {
	generated := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	filename := "report_c1_1.pdf"
	storage := &fakeReportStorage{files: map[string][]byte{filename: []byte("%PDF")}}
	latest := generated.Add(-time.Hour)
	sessions := &fakeReportSessions{latest: &latest}
	renderer := &fakeRenderer{}
	svc, _ := newReportService(reportChild(&filename, &generated), sessions, storage, renderer)

	path, err := svc.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/reports", filename), path)
	assert.Zero(t, renderer.calls)
}

func TestReportRegeneratedWhenNeverGenerated(t *testing.T) {
	storage := &fakeReportStorage{}
	renderer := &fakeRenderer{}
	svc, store := newReportService(reportChild(nil, nil), &fakeReportSessions{}, storage, renderer)

	path, err := svc.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, "c1", store.childID)
	assert.Contains(t, path, store.path)
	assert.True(t, storage.Exists(store.path))
}

func TestReportRegeneratedAfterAdviceReset(t *testing.T) {
	// Storing fresh advice nulls the generation timestamp but keeps the
	// artifact path; the next download must rebuild instead of serving it.
	filename := "report_c1_1.pdf"
	storage := &fakeReportStorage{files: map[string][]byte{filename: []byte("old")}}
	renderer := &fakeRenderer{}
	svc, store := newReportService(reportChild(&filename, nil), &fakeReportSessions{}, storage, renderer)

	_, err := svc.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.Equal(t, "c1", store.childID)
}

func TestReportRegeneratedWhenFileMissing(t *testing.T) {
	generated := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	filename := "report_c1_1.pdf"
	storage := &fakeReportStorage{}
	renderer := &fakeRenderer{}
	svc, _ := newReportService(reportChild(&filename, &generated), &fakeReportSessions{}, storage, renderer)

	_, err := svc.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
}

func TestReportRegeneratedAfterNewerSession(t *testing.T) {
	generated := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	filename := "report_c1_1.pdf"
	storage := &fakeReportStorage{files: map[string][]byte{filename: []byte("old")}}
	latest := generated.Add(time.Hour)
	renderer := &fakeRenderer{}
	svc, store := newReportService(reportChild(&filename, &generated), &fakeReportSessions{latest: &latest}, storage, renderer)

	_, err := svc.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 1, renderer.calls)
	assert.NotEqual(t, filename, store.path)
	assert.Contains(t, storage.deleted, filename, "replaced artifact is removed")
}

func TestReportDataCarriesSuggestionsAndAdvice(t *testing.T) {
	advice := "Keep sessions short and playful."
	child := reportChild(nil, nil)
	child.AISuggestion = &advice
	start := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	attention := 2.0
	sessions := &fakeReportSessions{sessions: []models.StudySession{
		{ChildID: "c1", Subject: models.SubjectMath, DurationMinutes: 30, StartTime: start, EndTime: &end, AvgAttention: &attention},
	}}
	renderer := &fakeRenderer{}
	svc, _ := newReportService(child, sessions, &fakeReportStorage{}, renderer)

	_, err := svc.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)

	data := renderer.last
	assert.Equal(t, "Mia", data.ChildName)
	assert.Equal(t, 1, data.TotalSessions)
	assert.Equal(t, advice, data.AIAdvice)
	require.Len(t, data.Sections, 5)
	assert.NotEmpty(t, data.Sections[0].Items)
	require.Len(t, data.Subjects, 1)
	assert.Equal(t, "Mathematics", data.Subjects[0].Name)
}

func TestReportDataOmitsLegacyAdvice(t *testing.T) {
	legacy := legacyOfflinePrefix + " old text"
	child := reportChild(nil, nil)
	child.AISuggestion = &legacy
	renderer := &fakeRenderer{}
	svc, _ := newReportService(child, &fakeReportSessions{}, &fakeReportStorage{}, renderer)

	_, err := svc.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Empty(t, renderer.last.AIAdvice)
}
