package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/client/query"
	"github.com/frahmantamala/hr-portal/internal/core/common/validation"
)

type AuthService struct {
	api     AuthAPI
	session Session
	cache   *query.Cache
	logger  *slog.Logger
}

func NewAuthService(api AuthAPI, session Session, cache *query.Cache, logger *slog.Logger) *AuthService {
	return &AuthService{
		api:     api,
		session: session,
		cache:   cache,
		logger:  logger,
	}
}

// Login checks the credentials locally, signs in and starts a fresh cache
// for the new user.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, error) {
	if appErr := validation.ValidateCredentials(email, password); appErr != nil {
		return models.User{}, appErr
	}

	token, user, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("login failed", "email", email, "error", err)
		return models.User{}, err
	}
	if err := s.session.Login(ctx, token, user); err != nil {
		return models.User{}, fmt.Errorf("save session: %w", err)
	}
	s.cache.Clear()

	s.logger.Info("signed in", "user_id", user.ID)
	return user, nil
}

// Logout always empties the cache, even if the session could not be
// cleared from disk.
func (s *AuthService) Logout(ctx context.Context) error {
	err := s.session.Logout(ctx)
	s.cache.Clear()
	if err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info("signed out")
	return nil
}
