package services

import (
	"context"
	"log/slog"

	"github.com/campus-hub/learning-platform/internal/hydration"
	"github.com/campus-hub/learning-platform/internal/models"
	"github.com/campus-hub/learning-platform/internal/repositories"
	"github.com/campus-hub/learning-platform/internal/validator"
)

type userService struct {
	repo      repositories.Repository
	executor  *hydration.Executor
	logger    *slog.Logger
	validator *validator.Validator
}

func NewUserService(repo repositories.Repository, executor *hydration.Executor, logger *slog.Logger, validator *validator.Validator) UserService {
	return &userService{
		repo:      repo,
		executor:  executor,
		logger:    logger,
		validator: validator,
	}
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid user payload")
	}

	// Existence check gives the friendly error; the unique index on email is
	// what actually holds under concurrent registration.
	exists, err := s.repo.Users().ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to check email")
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	user := &models.User{
		Name:  req.Name,
		Email: req.Email,
		Role:  req.Role,
	}
	if err := s.repo.Users().Create(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, wrapError(KindStore, err, "failed to create user")
	}

	s.logger.InfoContext(ctx, "User created",
		"user_id", user.ID,
		"role", string(user.Role))
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.Users().GetByID(ctx, id)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get user %d", id)
	}
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.Users().GetByEmail(ctx, email)
	if err != nil {
		if repositories.IsNotFoundError(err) {
			return nil, ErrUserNotFound
		}
		return nil, wrapError(KindStore, err, "failed to get user by email")
	}
	return user, nil
}

// GetWithProfile hydrates the user through the "user-profile" fetch shape, so
// the profile comes back resolved and everything else stays unresolved.
func (s *userService) GetWithProfile(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.executor.FetchUser(ctx, id, hydration.ShapeUserProfile)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to fetch user %d", id)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) ListByRole(ctx context.Context, role models.UserRole) ([]*models.User, error) {
	switch role {
	case models.RoleStudent, models.RoleTeacher, models.RoleAdmin:
	default:
		return nil, newError(KindInvalidInput, "unknown role %q", string(role))
	}

	users, err := s.repo.Users().GetByRole(ctx, role)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to list users by role")
	}
	return users, nil
}

func (s *userService) Update(ctx context.Context, id uint, req *UpdateUserRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid user payload")
	}

	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Email != nil {
		user.Email = *req.Email
	}

	if err := s.repo.Users().Update(ctx, user); err != nil {
		if repositories.IsDuplicateError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, wrapError(KindStore, err, "failed to update user %d", id)
	}
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Users().Delete(ctx, id); err != nil {
		if repositories.IsNotFoundError(err) {
			return ErrUserNotFound
		}
		return wrapError(KindStore, err, "failed to delete user %d", id)
	}
	s.logger.InfoContext(ctx, "User deleted", "user_id", id)
	return nil
}

func (s *userService) SaveProfile(ctx context.Context, userID uint, req *ProfileRequest) (*models.Profile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, wrapError(KindInvalidInput, err, "invalid profile payload")
	}

	if _, err := s.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	profile := &models.Profile{
		UserID:      userID,
		Bio:         req.Bio,
		AvatarURL:   req.AvatarURL,
		PhoneNumber: req.PhoneNumber,
	}
	if err := s.repo.Users().SaveProfile(ctx, profile); err != nil {
		return nil, wrapError(KindStore, err, "failed to save profile for user %d", userID)
	}

	saved, err := s.repo.Users().GetProfileByUser(ctx, userID)
	if err != nil {
		return nil, wrapError(KindStore, err, "failed to reload profile for user %d", userID)
	}
	return saved, nil
}
