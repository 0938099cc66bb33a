package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dailyDoodleAPI/internal/apperr"
	"dailyDoodleAPI/internal/user"
)

type fakeUserRemote struct {
	users   map[string]*user.User
	updated *user.UpdateProfileRequest
}

func (f *fakeUserRemote) SelectUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	u, ok := f.users[clerkID]
	if !ok {
		return nil, assert.AnError
	}
	return u, nil
}

func (f *fakeUserRemote) UpdateUserProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.User, error) {
	f.updated = req
	return &user.User{ID: userID, Username: req.Username, DisplayName: req.DisplayName}, nil
}

func TestGetByClerkID(t *testing.T) {
	remote := &fakeUserRemote{users: map[string]*user.User{
		"clerk_1": {ID: "u1", ClerkID: "clerk_1", Username: "inky"},
	}}
	svc := NewUserService(remote)

	u, err := svc.GetByClerkID(context.Background(), "clerk_1")
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)

	_, err = svc.GetByClerkID(context.Background(), "clerk_unknown")
	assert.Error(t, err)
}

func TestUpdateProfileFiltersText(t *testing.T) {
	remote := &fakeUserRemote{users: map[string]*user.User{}}
	svc := NewUserService(remote)

	_, err := svc.UpdateProfile(context.Background(), "u1", &user.UpdateProfileRequest{Username: "sp4m_machine"})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Nil(t, remote.updated, "rejected update must not reach the remote store")

	_, err = svc.UpdateProfile(context.Background(), "u1", &user.UpdateProfileRequest{Username: "inky", Title: "Daily Sketcher"})
	require.NoError(t, err)
	require.NotNil(t, remote.updated)
	assert.Equal(t, "inky", remote.updated.Username)
}
