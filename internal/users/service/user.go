package service

import (
	"context"
	"errors"
	"time"

	userserrors "tenniscourts/internal/users/errors"
	"tenniscourts/internal/users/repository"
	"tenniscourts/pkg/config"
	apperrors "tenniscourts/pkg/errors"
	"tenniscourts/pkg/model"
	"tenniscourts/pkg/sanitizer"
	"tenniscourts/pkg/validation"

	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid credentials"

type UserService interface {
	Register(ctx context.Context, reg *model.UserRegistration) (*model.PublicUser, error)
	Login(ctx context.Context, creds *model.Credentials) (*model.PublicUser, error)
}

type userService struct {
	repo      repository.UserRepository
	validator *validation.Validator
	cfg       *config.Config
	hashCost  int
	now       func() time.Time
}

func NewUserService(repo repository.UserRepository, validator *validation.Validator, cfg *config.Config) UserService {
	return &userService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		hashCost:  bcrypt.DefaultCost,
		now:       time.Now,
	}
}

func (s *userService) Register(ctx context.Context, reg *model.UserRegistration) (*model.PublicUser, error) {
	reg.CustomerName = sanitizer.NormalizeName(reg.CustomerName)
	reg.Email = sanitizer.NormalizeEmail(reg.Email)
	reg.Phone = sanitizer.NormalizePhone(reg.Phone)

	if err := s.validator.Struct(reg); err != nil {
		s.cfg.Log.Warn("User validation failed", "error", err)
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("User validation failed", verrs.Details())
		}
		return nil, apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	if s.cfg.IsAdminEmail(reg.Email) {
		return nil, apperrors.InvalidInput("This email belongs to an administrator account")
	}

	exists, err := s.repo.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		s.cfg.Log.Error("Failed to check email", "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}
	if exists {
		return nil, apperrors.Conflict("Email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.hashCost)
	if err != nil {
		return nil, apperrors.Internal("Failed to register user", err)
	}

	user := &model.User{
		CustomerName: reg.CustomerName,
		Email:        reg.Email,
		Phone:        reg.Phone,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC().Truncate(time.Millisecond),
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("Email already registered")
		}
		s.cfg.Log.Error("Failed to create user", "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered", "id", user.ID)
	return user.Public(), nil
}

func (s *userService) Login(ctx context.Context, creds *model.Credentials) (*model.PublicUser, error) {
	email := sanitizer.NormalizeEmail(creds.Email)
	if email == "" || creds.Password == "" {
		return nil, apperrors.Unauthorized(invalidCredentials)
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(invalidCredentials)
		}
		s.cfg.Log.Error("Failed to load user", "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		return nil, apperrors.Unauthorized(invalidCredentials)
	}
	return user.Public(), nil
}
