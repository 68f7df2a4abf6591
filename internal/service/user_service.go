package service

import (
	"context"
	"fmt"

	"eunoia/internal/model"
	"eunoia/internal/repository"
)

// UserService reads user profiles
type UserService struct {
	users repository.UserRepo
}

// NewUserService creates a new user service
func NewUserService(users repository.UserRepo) *UserService {
	return &UserService{users: users}
}

// Profile returns the public profile of a user
func (s *UserService) Profile(ctx context.Context, userID string) (*model.UserProfile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user.Profile(), nil
}
