package users

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/db/models"
	pkgerrors "github.com/learnloop/community-backend/pkg/errors"
)

type fakeProfileRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeProfileRepo(users ...*models.User) *fakeProfileRepo {
	repo := &fakeProfileRepo{users: map[uuid.UUID]*models.User{}}
	for _, u := range users {
		repo.users[u.ID] = u
	}
	return repo
}

func (f *fakeProfileRepo) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeProfileRepo) UpdateProfile(_ context.Context, id uuid.UUID, input UpdateProfileInput) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if input.DisplayName != nil {
		user.DisplayName = *input.DisplayName
	}
	if input.AvatarURL != nil {
		user.AvatarURL = input.AvatarURL
	}
	return user, nil
}

func TestProfileReturnsCallerRow(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "learner@example.com", DisplayName: "Learner", IsActive: true}
	svc, err := NewService(newFakeProfileRepo(user))
	require.NoError(t, err)

	profile, err := svc.Profile(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "learner@example.com", profile.Email)
}

func TestProfileUnknownUser(t *testing.T) {
	svc, err := NewService(newFakeProfileRepo())
	require.NoError(t, err)

	_, err = svc.Profile(context.Background(), uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestUpdateProfileTrimsDisplayName(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "learner@example.com", DisplayName: "Old Name", IsActive: true}
	svc, err := NewService(newFakeProfileRepo(user))
	require.NoError(t, err)

	name := "  New Name  "
	profile, err := svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "New Name", profile.DisplayName)
}

func TestUpdateProfileRejectsBlankAndOversizedNames(t *testing.T) {
	user := &models.User{ID: uuid.New(), Email: "learner@example.com", DisplayName: "Learner", IsActive: true}
	svc, err := NewService(newFakeProfileRepo(user))
	require.NoError(t, err)

	blank := "   "
	_, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{DisplayName: &blank})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	long := strings.Repeat("x", maxDisplayNameLength+1)
	_, err = svc.UpdateProfile(context.Background(), user.ID, UpdateProfileInput{DisplayName: &long})
	require.Error(t, err)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
