package service

import (
	"context"
	"strings"

	"github.com/Dan9191/debtwatch-service/internal/apperror"
	"github.com/Dan9191/debtwatch-service/internal/models"
)

// Register creates the profile for an already-authenticated identity
func (s *Service) Register(ctx context.Context, userID string, input models.UserInput) (*models.User, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperror.Validation("user id is required")
	}
	if input.Age < 0 {
		return nil, apperror.Validation("age must not be negative")
	}
	if input.MonthlyIncome.IsNegative() {
		return nil, apperror.Validation("monthly_income must not be negative")
	}

	user := &models.User{
		ID:            userID,
		FullName:      strings.TrimSpace(input.FullName),
		Email:         strings.TrimSpace(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		Gender:        input.Gender,
		Age:           input.Age,
		Occupation:    input.Occupation,
		MaritalStatus: input.MaritalStatus,
		Location:      input.Location,
		MonthlyIncome: input.MonthlyIncome,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.WithField("user_id", userID).Info("User registered")
	return user, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (*models.User, error) {
	return s.store.GetUser(ctx, userID)
}

// UpdateUser applies a partial update; the identifier itself cannot change
func (s *Service) UpdateUser(ctx context.Context, userID string, patch models.UserPatch) (*models.User, error) {
	if patch.Age != nil && *patch.Age < 0 {
		return nil, apperror.Validation("age must not be negative")
	}
	if patch.MonthlyIncome != nil && patch.MonthlyIncome.IsNegative() {
		return nil, apperror.Validation("monthly_income must not be negative")
	}
	return s.store.UpdateUser(ctx, userID, patch)
}

// DeleteUser removes the profile and every record it owns
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		return err
	}
	s.log.WithField("user_id", userID).Info("User deleted")
	return nil
}

func (s *Service) requireUser(ctx context.Context, userID string) error {
	exists, err := s.store.UserExists(ctx, userID)
	if err != nil {
		return err
	}
	if !exists {
		return apperror.NotFound("user not found")
	}
	return nil
}
