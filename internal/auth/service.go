package auth

import (
	"errors"
	"log/slog"
	"strings"

	apperrors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/user"
	"golang.org/x/crypto/bcrypt"
)

type UserLookup interface {
	GetByEmail(email string) (*user.User, error)
	GetByID(id int64) (*user.User, error)
}

type Options struct {
	// DemoLogin signs every caller with non-empty credentials in as the
	// user registered under DemoUserEmail.
	DemoLogin     bool
	DemoUserEmail string
}

type Service struct {
	users  UserLookup
	tokens TokenGenerator
	opts   Options
	logger *slog.Logger
}

func NewService(users UserLookup, tokens TokenGenerator, opts Options, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		opts:   opts,
		logger: logger,
	}
}

func (s *Service) Authenticate(dto LoginDTO) (*LoginResponse, error) {
	email := strings.TrimSpace(dto.Email)
	if email == "" || dto.Password == "" {
		return nil, apperrors.ErrMissingCredentials
	}

	lookup := email
	if s.opts.DemoLogin {
		lookup = s.opts.DemoUserEmail
	}

	u, err := s.users.GetByEmail(lookup)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			s.logger.Warn("login for unknown user", "email", lookup, "demo", s.opts.DemoLogin)
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.NewInternalError("failed to load user", err)
	}

	if !s.opts.DemoLogin {
		if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
			s.logger.Warn("login with wrong password", "user_id", u.ID)
			return nil, apperrors.ErrInvalidCredentials
		}
	}

	token, err := s.tokens.GenerateAccessToken(u.ID, u.Email)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user logged in", "user_id", u.ID, "demo", s.opts.DemoLogin)
	return &LoginResponse{Token: token, User: u}, nil
}

// IdentifyUser resolves a bearer token to the id of an existing user.
func (s *Service) IdentifyUser(token string) (int64, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return 0, err
	}
	id, err := claims.ID()
	if err != nil {
		return 0, apperrors.ErrInvalidToken.WithCause(err)
	}
	if _, err := s.users.GetByID(id); err != nil {
		return 0, err
	}
	return id, nil
}
