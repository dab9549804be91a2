package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kidfocus/kidfocus-api/internal/models"
	appErrors "github.com/kidfocus/kidfocus-api/pkg/errors"
)

type fakeUserRepo struct {
	users   map[string]*models.User
	deleted []string
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: map[string]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = "u-new"
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) ExistsByUsername(_ context.Context, username, excludeID string) (bool, error) {
	for _, u := range f.users {
		if u.Username == username && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email, excludeID string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.users[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.users, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func hashedUser(t *testing.T, id, username, password string) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{ID: id, Username: username, Email: username + "@example.com", PasswordHash: string(hash)}
}

func TestRegisterCreatesAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, nil, "secret", time.Hour, nil)

	user, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "parent1",
		Email:    "parent1@example.com",
		Password: "longenough",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("longenough")))
}

func TestRegisterRejectsTakenUsername(t *testing.T) {
	repo := newFakeUserRepo(hashedUser(t, "u1", "parent1", "longenough"))
	svc := NewAuthService(repo, nil, "secret", time.Hour, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "parent1",
		Email:    "other@example.com",
		Password: "longenough",
	})

	assert.ErrorIs(t, err, appErrors.ErrUsernameTaken)
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, "secret", time.Hour, nil)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "parent1",
		Email:    "parent1@example.com",
		Password: "short",
	})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestLoginIssuesParsableToken(t *testing.T) {
	repo := newFakeUserRepo(hashedUser(t, "u1", "parent1", "longenough"))
	svc := NewAuthService(repo, nil, "secret", time.Hour, nil)

	res, err := svc.Login(context.Background(), models.LoginRequest{Username: "parent1", Password: "longenough"})

	require.NoError(t, err)
	require.NotEmpty(t, res.AccessToken)
	claims, err := svc.ParseToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "parent1", claims.Username)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeUserRepo(hashedUser(t, "u1", "parent1", "longenough"))
	svc := NewAuthService(repo, nil, "secret", time.Hour, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "parent1", Password: "wrongwrong"})

	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginRejectsUnknownUsername(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, "secret", time.Hour, nil)

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "nobody", Password: "whatever1"})

	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestParseTokenRejectsForeignSignature(t *testing.T) {
	repo := newFakeUserRepo(hashedUser(t, "u1", "parent1", "longenough"))
	issuer := NewAuthService(repo, nil, "secret-a", time.Hour, nil)
	verifier := NewAuthService(repo, nil, "secret-b", time.Hour, nil)

	res, err := issuer.Login(context.Background(), models.LoginRequest{Username: "parent1", Password: "longenough"})
	require.NoError(t, err)

	_, err = verifier.ParseToken(res.AccessToken)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestRefreshIssuesNewToken(t *testing.T) {
	repo := newFakeUserRepo(hashedUser(t, "u1", "parent1", "longenough"))
	svc := NewAuthService(repo, nil, "secret", time.Hour, nil)

	res, err := svc.Refresh(context.Background(), "u1")

	require.NoError(t, err)
	claims, err := svc.ParseToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestRefreshUnknownAccount(t *testing.T) {
	svc := NewAuthService(newFakeUserRepo(), nil, "secret", time.Hour, nil)

	_, err := svc.Refresh(context.Background(), "missing")

	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}

func TestUpdateProfileChangesPassword(t *testing.T) {
	repo := newFakeUserRepo(hashedUser(t, "u1", "parent1", "longenough"))
	svc := NewAuthService(repo, nil, "secret", time.Hour, nil)

	user, err := svc.UpdateProfile(context.Background(), "u1", models.UpdateProfileRequest{
		Username: "parent1",
		Email:    "parent1@example.com",
		Password: "evenlonger",
	})

	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("evenlonger")))
}

func TestDeleteAccountRemovesUser(t *testing.T) {
	repo := newFakeUserRepo(hashedUser(t, "u1", "parent1", "longenough"))
	svc := NewAuthService(repo, nil, "secret", time.Hour, nil)

	require.NoError(t, svc.DeleteAccount(context.Background(), "u1"))
	assert.Equal(t, []string{"u1"}, repo.deleted)

	err := svc.DeleteAccount(context.Background(), "u1")
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
