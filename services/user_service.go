package services

import (
	"context"
	"fmt"

	"dailyDoodleAPI/internal/apperr"
	"dailyDoodleAPI/internal/user"
	"dailyDoodleAPI/utils"
)

type UserRemote interface {
	SelectUserByClerkID(ctx context.Context, clerkID string) (*user.User, error)
	UpdateUserProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.User, error)
}

// UserService fronts the authoritative user records. Profiles are the one
// thing always read from the remote store directly, never the cache, so a
// rename on another device shows up immediately.
type UserService struct {
	remote UserRemote
}

func NewUserService(remote UserRemote) *UserService {
	return &UserService{remote: remote}
}

func (s *UserService) GetByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	u, err := s.remote.SelectUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// UpdateProfile validates the free-text fields through the content filter
// before handing them to the remote store. Empty fields are left unchanged.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, req *user.UpdateProfileRequest) (*user.User, error) {
	for _, field := range []string{req.Username, req.DisplayName, req.Title} {
		if field != "" && !utils.IsTextClean(field) {
			return nil, apperr.Validation("profile contains blocked words")
		}
	}

	u, err := s.remote.UpdateUserProfile(ctx, userID, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return u, nil
}
