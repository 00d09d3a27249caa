package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	apperr "carmarket/internal/errors"
	"carmarket/internal/model"
	"carmarket/internal/repository"
)

// UserService exposes profile reads and updates.
type UserService interface {
	GetProfile(ctx context.Context, userID uint) (*model.User, error)
	UpdateLocation(ctx context.Context, userID uint, location string) error
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *userService) UpdateLocation(ctx context.Context, userID uint, location string) error {
	if _, err := s.GetProfile(ctx, userID); err != nil {
		return err
	}
	if err := s.userRepo.UpdateProfileLocation(ctx, userID, location); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
