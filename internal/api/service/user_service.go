package service

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"ctchen222/todo-api/internal/api/repository"
	"fmt"
	"log/slog"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID int64, username string) (string, error)
}

// UserService defines the interface for user-related business logic.
type UserService interface {
	Register(ctx context.Context, req *models.CredentialsRequest) (string, error)
	Login(ctx context.Context, req *models.CredentialsRequest) (string, error)
}

type userService struct {
	userRepo repository.UserRepository
	tokens   TokenIssuer
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository, tokens TokenIssuer) UserService {
	return &userService{userRepo: userRepo, tokens: tokens}
}

// Register creates the user and returns a token for it. Passwords are
// stored as submitted.
func (s *userService) Register(ctx context.Context, req *models.CredentialsRequest) (string, error) {
	// Check if user already exists
	existingUser, err := s.userRepo.GetUserByUsername(ctx, req.UserName)
	if err != nil {
		return "", err
	}
	if existingUser != nil {
		return "", ErrUsernameTaken
	}

	user := &models.User{
		Username: req.UserName,
		Password: req.Password,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return "", err
	}
	slog.InfoContext(ctx, "user registered", "user_id", user.ID)

	return s.issue(user)
}

// Login returns a token for the account whose username and password both
// match exactly.
func (s *userService) Login(ctx context.Context, req *models.CredentialsRequest) (string, error) {
	user, err := s.userRepo.GetUserByCredentials(ctx, req.UserName, req.Password)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrInvalidCredentials
	}

	return s.issue(user)
}

func (s *userService) issue(user *models.User) (string, error) {
	token, err := s.tokens.Issue(user.ID, user.Username)
	if err != nil {
		return "", fmt.Errorf("issue token for user %d: %w", user.ID, err)
	}
	return token, nil
}
