package service

import (
	"context"
	"strings"

	"github.com/seorap-app/seorap-backend/internal/repository"
)

// UserService handles profile reads and updates.
type UserService struct {
	users repository.UserRepository
}

func NewUserService(deps ServiceDeps) *UserService {
	return &UserService{users: deps.Repos.UserRepo}
}

func (s *UserService) Get(ctx context.Context, userID string) (*repository.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Update applies a partial profile update; nil fields keep current values.
func (s *UserService) Update(ctx context.Context, userID string, displayName, imageURL *string) (*repository.User, error) {
	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if displayName != nil {
		trimmed := strings.TrimSpace(*displayName)
		if trimmed == "" {
			return nil, ErrInvalidInput
		}
		user.DisplayName = trimmed
	}
	if imageURL != nil {
		user.ImageURL = imageURL
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
