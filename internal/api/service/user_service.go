package service

import (
	"context"
	"ctchen222/Todo-List/internal/api/models"
	"ctchen222/Todo-List/internal/api/repository"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/crypto/bcrypt"
)

var meter = otel.Meter("service")

// UserService defines the interface for registration and credential checks.
type UserService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	registered metric.Int64Counter
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) UserService {
	registered, err := meter.Int64Counter("users.registered",
		metric.WithDescription("Number of accounts created"))
	if err != nil {
		slog.Error("Could not create users.registered counter", "error", err)
	}
	return &userService{userRepo: userRepo, registered: registered}
}

// Register hashes the password and stores a new user. It returns
// ErrDuplicateUsername when the username is taken.
func (s *userService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	existingUser, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if existingUser != nil {
		return nil, ErrDuplicateUsername
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, repository.ErrUsernameTaken) {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	if s.registered != nil {
		s.registered.Add(ctx, 1)
	}
	slog.InfoContext(ctx, "User registered", "user.id", user.ID)
	return user, nil
}

// Login verifies the credentials. Unknown users and wrong passwords both
// yield ErrInvalidCredentials.
func (s *userService) Login(ctx context.Context, req *models.LoginRequest) (*models.User, error) {
	user, err := s.userRepo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

// GetUser returns the user with id, or nil when it no longer exists.
func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	return s.userRepo.GetUserByID(ctx, id)
}
