package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	apperrors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/client/query"
	"github.com/frahmantamala/hr-portal/internal/client/ui"
	"github.com/frahmantamala/hr-portal/internal/core/common/validation"
)

type ProfileService struct {
	api     UserAPI
	session Session
	ui      *ui.ProfileUIStore
	cache   *query.Cache
	logger  *slog.Logger
}

func NewProfileService(api UserAPI, session Session, store *ui.ProfileUIStore, cache *query.Cache, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		api:     api,
		session: session,
		ui:      store,
		cache:   cache,
		logger:  logger,
	}
}

// Get loads the signed-in user's profile from the server.
func (s *ProfileService) Get(ctx context.Context) (models.User, error) {
	user, err := currentUser(s.session)
	if err != nil {
		return models.User{}, err
	}
	return query.Fetch(ctx, s.cache, query.K("user", user.ID), func(ctx context.Context) (models.User, error) {
		return s.api.GetUser(ctx, user.ID)
	})
}

// Update sends the changed fields. The session user is replaced only after
// the server confirms.
func (s *ProfileService) Update(ctx context.Context, payload models.UpdateProfilePayload) (models.User, error) {
	user, err := currentUser(s.session)
	if err != nil {
		return models.User{}, err
	}
	if appErr := validateProfile(payload); appErr != nil {
		return models.User{}, appErr
	}

	updated, err := query.Run(ctx, s.cache, func(ctx context.Context) (models.User, error) {
		return s.api.UpdateUser(ctx, user.ID, payload)
	}, query.K("user"))
	if err != nil {
		return models.User{}, err
	}

	if err := s.session.SetUser(ctx, updated); err != nil {
		return updated, fmt.Errorf("save session user: %w", err)
	}
	s.ui.SetEditMode(false)
	s.logger.Info("profile updated", "user_id", updated.ID)
	return updated, nil
}

// UploadAvatar stores the image, then points the profile at it.
func (s *ProfileService) UploadAvatar(ctx context.Context, filename string, r io.Reader) (models.User, error) {
	if _, err := currentUser(s.session); err != nil {
		return models.User{}, err
	}
	url, err := s.api.UploadAvatar(ctx, filename, r)
	if err != nil {
		return models.User{}, err
	}
	return s.Update(ctx, models.UpdateProfilePayload{AvatarURL: &url})
}

func validateProfile(p models.UpdateProfilePayload) *apperrors.AppError {
	v := validation.NewValidator()
	if p.FullName != nil {
		v.Field("fullName", p.FullName).Required().MaxLength(255)
	}
	if p.Position != nil {
		v.Field("position", p.Position).Required().MaxLength(255)
	}
	if p.Department != nil {
		v.Field("department", p.Department).Required().MaxLength(255)
	}
	if p.Email != nil {
		v.Field("email", p.Email).Required().Email()
	}
	if p.Phone != nil {
		v.Field("phone", p.Phone).MaxLength(32)
	}
	return v.Validate()
}
