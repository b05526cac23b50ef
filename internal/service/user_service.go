package service

import (
	"context"
	"errors"
	"strings"

	dom "Dashboard/internal/domain"
	"Dashboard/internal/repo"
	"Dashboard/internal/utils"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles registration and credential checks.
type UserService struct {
	repo repo.UserRepo
}

// NewUserService returns a new UserService.
func NewUserService(repo repo.UserRepo) *UserService {
	return &UserService{repo: repo}
}

// Register creates a new user with a hashed password.
func (s *UserService) Register(ctx context.Context, username, email, password string, isAdmin bool) (dom.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	if username == "" || email == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	// Two lookups before the insert give precise 400s; the unique
	// constraints stay authoritative under concurrent registration.
	if _, err := s.repo.GetByUsername(ctx, username); err == nil {
		return dom.User{}, ErrUsernameTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, err
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return dom.User{}, ErrEmailTaken
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return dom.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return dom.User{}, err
	}
	u, err := s.repo.Create(ctx, username, email, string(hash), isAdmin)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.User{}, ErrUsernameTaken
		}
		return dom.User{}, err
	}
	return u, nil
}

// ValidateCredentials checks username and password; returns the user if valid.
func (s *UserService) ValidateCredentials(ctx context.Context, username, password string) (dom.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return dom.User{}, ErrInvalidCredentials
	}
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrInvalidCredentials
		}
		return dom.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return dom.User{}, ErrInvalidCredentials
	}
	return u, nil
}

// GetByUsername returns the account behind a token subject.
func (s *UserService) GetByUsername(ctx context.Context, username string) (dom.User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.User{}, ErrNotFound
		}
		return dom.User{}, err
	}
	return u, nil
}
