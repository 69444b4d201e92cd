package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/grupoevolution/tiktokconteudos/internal/apperr"
	"github.com/grupoevolution/tiktokconteudos/internal/model"
	"github.com/grupoevolution/tiktokconteudos/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned for an unknown email or a wrong password.
var ErrBadCredentials = errors.New("invalid credentials")

type AuthService struct {
	users  store.UserStore
	logger *slog.Logger
}

func NewAuthService(users store.UserStore, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{users: users, logger: logger}
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, error) {
	u, err := s.users.FindUser(ctx, email)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return &u, nil
}

// EnsureAdmin creates the admin user when it does not exist yet. An empty
// password skips the bootstrap.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		s.logger.Warn("auth.bootstrap.skipped", "reason", "admin email or password not configured")
		return nil
	}
	_, err := s.users.FindUser(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, apperr.ErrNotFound) {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := s.users.CreateUser(ctx, &model.User{Email: email, Password: string(hash)}); err != nil {
		return err
	}
	s.logger.Info("auth.bootstrap.created", "email", email)
	return nil
}
