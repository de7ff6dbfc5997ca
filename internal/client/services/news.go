package services

import (
	"context"
	"log/slog"

	apperrors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/client/query"
	"github.com/frahmantamala/hr-portal/internal/client/ui"
	"github.com/frahmantamala/hr-portal/internal/core/common/validation"
)

const defaultAuthor = "Admin"

type NewsForm struct {
	Title   string
	Content string
}

type NewsService struct {
	api     NewsAPI
	session Session
	ui      *ui.NewsUIStore
	cache   *query.Cache
	logger  *slog.Logger
}

func NewNewsService(api NewsAPI, session Session, store *ui.NewsUIStore, cache *query.Cache, logger *slog.Logger) *NewsService {
	return &NewsService{
		api:     api,
		session: session,
		ui:      store,
		cache:   cache,
		logger:  logger,
	}
}

// List returns the news in the selected date range, newest first.
func (s *NewsService) List(ctx context.Context) ([]models.NewsItem, error) {
	from, to := s.ui.Snapshot().DateRange.Bounds()
	if appErr := validation.ValidateDateRange(from, to); appErr != nil {
		return nil, appErr
	}
	return query.Fetch(ctx, s.cache, query.K("news", from, to), func(ctx context.Context) ([]models.NewsItem, error) {
		return s.api.ListNews(ctx, from, to)
	})
}

func (s *NewsService) Get(ctx context.Context, id int64) (models.NewsItem, error) {
	return query.Fetch(ctx, s.cache, query.K("news", id), func(ctx context.Context) (models.NewsItem, error) {
		return s.api.GetNews(ctx, id)
	})
}

// Save creates an item, or updates the one open in the form.
func (s *NewsService) Save(ctx context.Context, form NewsForm) (models.NewsItem, error) {
	user, err := s.requireAdmin()
	if err != nil {
		return models.NewsItem{}, err
	}
	if appErr := validateNewsForm(form); appErr != nil {
		return models.NewsItem{}, appErr
	}

	editing := s.ui.Snapshot().EditingNewsID
	saved, err := query.Run(ctx, s.cache, func(ctx context.Context) (models.NewsItem, error) {
		if editing != 0 {
			return s.api.UpdateNews(ctx, editing, models.NewsPatch{Title: &form.Title, Content: &form.Content})
		}
		author := user.FullName
		if author == "" {
			author = defaultAuthor
		}
		return s.api.CreateNews(ctx, models.NewsInput{Title: form.Title, Content: form.Content, Author: author})
	}, query.K("news"))
	if err != nil {
		return models.NewsItem{}, err
	}

	s.ui.SetFormOpen(false, 0)
	s.logger.Info("news saved", "news_id", saved.ID, "updated", editing != 0)
	return saved, nil
}

func (s *NewsService) Delete(ctx context.Context, id int64) error {
	if _, err := s.requireAdmin(); err != nil {
		return err
	}
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		return s.api.DeleteNews(ctx, id)
	}, query.K("news"))
	if err != nil {
		return err
	}
	if s.ui.Snapshot().SelectedNewsID == id {
		s.ui.CloseModal()
	}
	return nil
}

func (s *NewsService) requireAdmin() (models.User, error) {
	user, err := currentUser(s.session)
	if err != nil {
		return models.User{}, err
	}
	if !user.IsAdmin {
		return models.User{}, ErrForbidden
	}
	return user, nil
}

func validateNewsForm(f NewsForm) *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("title", f.Title).Required().MaxLength(255)
	v.Field("content", f.Content).Required()
	return v.Validate()
}
