package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidfocus/kidfocus-api/internal/dto"
	"github.com/kidfocus/kidfocus-api/internal/models"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

type fakeSessionRepo struct {
	byID    map[string]*models.StudySession
	active  *models.StudySession
	listed  []models.StudySession
	deleted []string
	cleared string
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.StudySession) error {
	session.ID = "s-new"
	if f.byID == nil {
		f.byID = make(map[string]*models.StudySession)
	}
	f.byID[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) FindByID(ctx context.Context, id string) (*models.StudySession, error) {
	session, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *session
	return &copied, nil
}

func (f *fakeSessionRepo) FindActiveByChild(ctx context.Context, childID string) (*models.StudySession, error) {
	return f.active, nil
}

func (f *fakeSessionRepo) Finalize(ctx context.Context, session *models.StudySession) error {
	f.byID[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) List(ctx context.Context, filter models.SessionFilter) ([]models.StudySession, error) {
	return f.listed, nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSessionRepo) DeleteByChild(ctx context.Context, childID string) (int64, error) {
	f.cleared = childID
	return int64(len(f.listed)), nil
}

type fakeEmotionRepo struct {
	samples []models.EmotionSample
	created []models.EmotionSample
}

func (f *fakeEmotionRepo) Create(ctx context.Context, sample *models.EmotionSample) error {
	f.created = append(f.created, *sample)
	return nil
}

func (f *fakeEmotionRepo) ListBySession(ctx context.Context, sessionID string) ([]models.EmotionSample, error) {
	return f.samples, nil
}

type fakeChildAccessor struct {
	child *models.Child
	err   error
}

func (f *fakeChildAccessor) Get(ctx context.Context, userID, childID string) (*models.Child, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.child, nil
}

type fakeDerived struct {
	adviceCleared []string
	reportCleared []string
}

func (f *fakeDerived) ClearAISuggestion(ctx context.Context, childID string) error {
	f.adviceCleared = append(f.adviceCleared, childID)
	return nil
}

func (f *fakeDerived) ClearReport(ctx context.Context, childID string) error {
	f.reportCleared = append(f.reportCleared, childID)
	return nil
}

func newSessionService(sessions *fakeSessionRepo, samples *fakeEmotionRepo, derived *fakeDerived) *SessionService {
	children := &fakeChildAccessor{child: &models.Child{ID: "c1", UserID: "u1"}}
	return NewSessionService(sessions, samples, children, derived, nil, nil, 0, nil, nil)
}

func TestStartRejectsSecondActiveSession(t *testing.T) {
	sessions := &fakeSessionRepo{active: &models.StudySession{ID: "s1", ChildID: "c1"}}
	svc := newSessionService(sessions, &fakeEmotionRepo{}, &fakeDerived{})

	_, err := svc.Start(context.Background(), "u1", dto.StartSessionRequest{ChildID: "c1", Subject: models.SubjectMath})
	assert.ErrorIs(t, err, appErrors.ErrSessionActive)
}

func TestStartRejectsUnknownSubject(t *testing.T) {
	svc := newSessionService(&fakeSessionRepo{}, &fakeEmotionRepo{}, &fakeDerived{})

	_, err := svc.Start(context.Background(), "u1", dto.StartSessionRequest{ChildID: "c1", Subject: "chemistry"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStartCreatesSession(t *testing.T) {
	sessions := &fakeSessionRepo{}
	svc := newSessionService(sessions, &fakeEmotionRepo{}, &fakeDerived{})

	session, err := svc.Start(context.Background(), "u1", dto.StartSessionRequest{ChildID: "c1", Subject: models.SubjectScience})
	require.NoError(t, err)
	assert.Equal(t, "s-new", session.ID)
	assert.Nil(t, session.EndTime)
	assert.Zero(t, session.DurationMinutes)
}

func TestEndComputesDurationAndAverages(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sessions := &fakeSessionRepo{byID: map[string]*models.StudySession{
		"s1": {ID: "s1", ChildID: "c1", Subject: models.SubjectMath, StartTime: start},
	}}
	samples := &fakeEmotionRepo{samples: []models.EmotionSample{
		{AttentionLevel: 3, Confidence: 0.9},
		{AttentionLevel: 2, Confidence: 0.7},
		{AttentionLevel: 1, Confidence: 0.5},
	}}
	derived := &fakeDerived{}
	svc := newSessionService(sessions, samples, derived)
	svc.now = func() time.Time { return start.Add(25*time.Minute + 40*time.Second) }

	session, err := svc.End(context.Background(), "u1", "s1")
	require.NoError(t, err)
	assert.Equal(t, 25, session.DurationMinutes, "partial minutes truncate")
	require.NotNil(t, session.AvgAttention)
	assert.InDelta(t, 2.0, *session.AvgAttention, 1e-9)
	require.NotNil(t, session.AvgEmotionScore)
	assert.InDelta(t, 0.7, *session.AvgEmotionScore, 1e-9)
	assert.Equal(t, []string{"c1"}, derived.adviceCleared)
	assert.Equal(t, []string{"c1"}, derived.reportCleared)
}

func TestEndWithoutSamplesLeavesAveragesUnset(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	sessions := &fakeSessionRepo{byID: map[string]*models.StudySession{
		"s1": {ID: "s1", ChildID: "c1", Subject: models.SubjectMath, StartTime: start},
	}}
	svc := newSessionService(sessions, &fakeEmotionRepo{}, &fakeDerived{})
	svc.now = func() time.Time { return start.Add(30 * time.Second) }

	session, err := svc.End(context.Background(), "u1", "s1")
	require.NoError(t, err)
	assert.Zero(t, session.DurationMinutes)
	assert.Nil(t, session.AvgAttention)
	assert.Nil(t, session.AvgEmotionScore)
}

func TestEndRejectsFinishedSession(t *testing.T) {
	end := time.Now().UTC()
	sessions := &fakeSessionRepo{byID: map[string]*models.StudySession{
		"s1": {ID: "s1", ChildID: "c1", EndTime: &end},
	}}
	svc := newSessionService(sessions, &fakeEmotionRepo{}, &fakeDerived{})

	_, err := svc.End(context.Background(), "u1", "s1")
	assert.ErrorIs(t, err, appErrors.ErrNoActiveSession)
}

func TestRecordEmotionRejectsFinishedSession(t *testing.T) {
	end := time.Now().UTC()
	sessions := &fakeSessionRepo{byID: map[string]*models.StudySession{
		"s1": {ID: "s1", ChildID: "c1", EndTime: &end},
	}}
	svc := newSessionService(sessions, &fakeEmotionRepo{}, &fakeDerived{})

	err := svc.RecordEmotion(context.Background(), "u1", "s1", dto.EmotionSampleRequest{
		Emotion: "happy", AttentionLevel: 2, Confidence: 0.8,
	})
	assert.ErrorIs(t, err, appErrors.ErrNoActiveSession)
}

func TestListPaginates(t *testing.T) {
	listed := make([]models.StudySession, 45)
	for i := range listed {
		listed[i] = models.StudySession{ID: "s", ChildID: "c1"}
	}
	svc := newSessionService(&fakeSessionRepo{listed: listed}, &fakeEmotionRepo{}, &fakeDerived{})

	resp, err := svc.List(context.Background(), "u1", dto.SessionListRequest{ChildID: "c1", Page: 3, PageSize: 20})
	require.NoError(t, err)
	assert.Len(t, resp.Sessions, 5)
	assert.Equal(t, 45, resp.Pagination.TotalCount)
}

func TestResetHistoryInvalidatesDerived(t *testing.T) {
	sessions := &fakeSessionRepo{listed: []models.StudySession{{ID: "s1"}, {ID: "s2"}}}
	derived := &fakeDerived{}
	svc := newSessionService(sessions, &fakeEmotionRepo{}, derived)

	resp, err := svc.ResetHistory(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Deleted)
	assert.Equal(t, "c1", sessions.cleared)
	assert.Equal(t, []string{"c1"}, derived.adviceCleared)
}
