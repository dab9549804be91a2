package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidfocus/kidfocus-api/internal/models"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

type fakeChildRepo struct {
	byID          map[string]*models.Child
	count         int
	created       []models.Child
	updated       []models.Child
	deleted       []string
	adviceCleared []string
	reportCleared []string
}

func (f *fakeChildRepo) Create(ctx context.Context, child *models.Child) error {
	child.ID = "c-new"
	f.created = append(f.created, *child)
	return nil
}

func (f *fakeChildRepo) ListByUser(ctx context.Context, userID string) ([]models.Child, error) {
	out := make([]models.Child, 0, len(f.byID))
	for _, child := range f.byID {
		if child.UserID == userID {
			out = append(out, *child)
		}
	}
	return out, nil
}

func (f *fakeChildRepo) CountByUser(ctx context.Context, userID string) (int, error) {
	return f.count, nil
}

func (f *fakeChildRepo) FindByID(ctx context.Context, id string) (*models.Child, error) {
	child, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *child
	return &copied, nil
}

func (f *fakeChildRepo) Update(ctx context.Context, child *models.Child) error {
	f.updated = append(f.updated, *child)
	return nil
}

func (f *fakeChildRepo) Delete(ctx context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeChildRepo) SaveAISuggestion(ctx context.Context, childID, text string) error {
	return nil
}

func (f *fakeChildRepo) ClearAISuggestion(ctx context.Context, childID string) error {
	f.adviceCleared = append(f.adviceCleared, childID)
	return nil
}

func (f *fakeChildRepo) SaveReport(ctx context.Context, childID, path string, generatedAt time.Time) error {
	return nil
}

func (f *fakeChildRepo) ClearReport(ctx context.Context, childID string) error {
	f.reportCleared = append(f.reportCleared, childID)
	return nil
}

func validChildRequest() models.ChildRequest {
	return models.ChildRequest{Nickname: "Mia", Gender: models.GenderFemale, Age: 8, EducationStage: models.StageElementary}
}

func TestCreateChildEnforcesLimit(t *testing.T) {
	repo := &fakeChildRepo{count: models.MaxChildrenPerUser}
	svc := NewChildService(repo, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "u1", validChildRequest())
	assert.ErrorIs(t, err, appErrors.ErrChildLimit)
	assert.Empty(t, repo.created)
}

func TestCreateChildBelowLimit(t *testing.T) {
	repo := &fakeChildRepo{count: models.MaxChildrenPerUser - 1}
	svc := NewChildService(repo, nil, nil, nil, nil)

	child, err := svc.Create(context.Background(), "u1", validChildRequest())
	require.NoError(t, err)
	assert.Equal(t, "c-new", child.ID)
	assert.Equal(t, "u1", child.UserID)
}

func TestCreateChildRejectsAgeOutOfRange(t *testing.T) {
	svc := NewChildService(&fakeChildRepo{}, nil, nil, nil, nil)

	req := validChildRequest()
	req.Age = 5
	_, err := svc.Create(context.Background(), "u1", req)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestGetChildOwnership(t *testing.T) {
	repo := &fakeChildRepo{byID: map[string]*models.Child{
		"c1": {ID: "c1", UserID: "u1"},
	}}
	svc := NewChildService(repo, nil, nil, nil, nil)

	_, err := svc.Get(context.Background(), "u2", "c1")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Get(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	child, err := svc.Get(context.Background(), "u1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", child.ID)
}

func TestUpdateChildInvalidatesDerived(t *testing.T) {
	stored := "old advice"
	repo := &fakeChildRepo{byID: map[string]*models.Child{
		"c1": {ID: "c1", UserID: "u1", Nickname: "old", AISuggestion: &stored},
	}}
	svc := NewChildService(repo, nil, nil, nil, nil)

	req := validChildRequest()
	req.Nickname = "Mia2"
	child, err := svc.Update(context.Background(), "u1", "c1", req)
	require.NoError(t, err)
	assert.Equal(t, "Mia2", child.Nickname)
	assert.Equal(t, []string{"c1"}, repo.adviceCleared)
	assert.Equal(t, []string{"c1"}, repo.reportCleared)
}

func TestDeleteChildRemovesArtifact(t *testing.T) {
	filename := "report_c1_1.pdf"
	repo := &fakeChildRepo{byID: map[string]*models.Child{
		"c1": {ID: "c1", UserID: "u1", ReportPath: &filename},
	}}
	artifacts := &fakeReportStorage{files: map[string][]byte{filename: []byte("%PDF")}}
	svc := NewChildService(repo, artifacts, nil, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "u1", "c1"))
	assert.Equal(t, []string{"c1"}, repo.deleted)
	assert.Contains(t, artifacts.deleted, filename)
}
