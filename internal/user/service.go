package user

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	errors "github.com/frahmantamala/hr-portal/internal"
	userDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-portal/internal/filestore"
)

// RepositoryAPI returns nil, nil when a user does not exist.
type RepositoryAPI interface {
	GetByID(id int64) (*userDatamodel.User, error)
	GetByEmail(email string) (*userDatamodel.User, error)
	Create(u *userDatamodel.User) error
	Update(u *userDatamodel.User) error
}

type AvatarPolicy struct {
	MaxFileSize  int64
	AllowedTypes []string
}

type Service struct {
	repo    RepositoryAPI
	avatars filestore.Store
	policy  AvatarPolicy
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, avatars filestore.Store, policy AvatarPolicy, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		avatars: avatars,
		policy:  policy,
		logger:  logger,
	}
}

func (s *Service) GetByID(id int64) (*User, error) {
	u, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	if u == nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(u), nil
}

func (s *Service) GetByEmail(email string) (*User, error) {
	u, err := s.repo.GetByEmail(strings.TrimSpace(email))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	if u == nil {
		return nil, errors.ErrUserNotFound
	}
	return FromDataModel(u), nil
}

func (s *Service) Update(id int64, dto UpdateUserDTO) (*User, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	current, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	dto.ApplyTo(current)

	if err := s.repo.Update(ToDataModel(current)); err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update user", err)
	}

	s.logger.Info("user updated", "user_id", id)
	return current, nil
}

// UploadAvatar stores the image and returns its URL. The user record is not
// touched; callers follow up with Update.
func (s *Service) UploadAvatar(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	if s.policy.MaxFileSize > 0 && size > s.policy.MaxFileSize {
		return "", errors.NewValidationFieldError("file", "file is too large", errors.ErrCodeInvalidFile)
	}
	if len(s.policy.AllowedTypes) > 0 && !slices.Contains(s.policy.AllowedTypes, contentType) {
		return "", errors.NewValidationFieldError("file", fmt.Sprintf("file type %s is not allowed", contentType), errors.ErrCodeInvalidFile)
	}

	key := filestore.NewKey("avatars", filename, contentType)
	url, err := s.avatars.Put(ctx, key, contentType, r)
	if err != nil {
		s.logger.Error("failed to store avatar", "key", key, "error", err)
		return "", errors.NewInternalError("failed to store avatar", err)
	}

	s.logger.Info("avatar stored", "key", key, "content_type", contentType, "size", size)
	return url, nil
}
