package services

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"github.com/campus-suite/admissions-service/internal/models"
	"github.com/campus-suite/admissions-service/internal/repositories"
	"github.com/campus-suite/admissions-service/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	db        *gorm.DB
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, db *gorm.DB, logger *slog.Logger, v *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		db:        db,
		logger:    logger,
		validator: v,
	}
}

func (s *userService) GetMe(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, userID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id, requesterID string) (*models.User, error) {
	if err := s.requireOfficer(ctx, requesterID, "view"); err != nil {
		return nil, err
	}
	user, err := s.repo.User().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context, filters repositories.UserFilters, requesterID string) (*UserListResponse, error) {
	if err := s.requireOfficer(ctx, requesterID, "list"); err != nil {
		return nil, err
	}
	users, total, err := s.repo.User().List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return &UserListResponse{Users: users, Total: total}, nil
}

func (s *userService) Search(ctx context.Context, query string, filters repositories.UserFilters, requesterID string) (*UserListResponse, error) {
	if err := s.requireOfficer(ctx, requesterID, "search"); err != nil {
		return nil, err
	}
	users, total, err := s.repo.User().Search(ctx, query, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return &UserListResponse{Users: users, Total: total}, nil
}

func (s *userService) UpdateRole(ctx context.Context, id string, req *UpdateUserRoleRequest, requesterID string) error {
	if errs := s.validator.GetBusinessValidator().Validate(req); len(errs) > 0 {
		return errs
	}

	requester, err := s.repo.User().GetByID(ctx, requesterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !IsAdminUser(requester.Role) {
		return NewPermissionError(requesterID, 0, "user", "update_role", "admin role required")
	}
	// Admins cannot lock themselves out by dropping their own role.
	if id == requesterID {
		return NewBusinessRuleError("self_role_change", "cannot change your own role", map[string]interface{}{
			"user_id": id,
		})
	}

	role := models.UserRole(req.Role)
	if !role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrValidationFailed, req.Role)
	}

	if err := s.repo.User().UpdateRole(ctx, id, role); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update user role: %w", err)
	}

	s.logger.Info("User role updated", "user_id", id, "role", role, "updated_by", requesterID)
	return nil
}

func (s *userService) requireOfficer(ctx context.Context, requesterID, action string) error {
	requester, err := s.repo.User().GetByID(ctx, requesterID)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to load user: %w", err)
	}
	if !IsAdmissionOfficer(requester.Role) {
		return NewPermissionError(requesterID, 0, "user", action, "admission officer role required")
	}
	return nil
}
