package news

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	errors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/common/validation"
	newsDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/news"
)

const DefaultAuthor = "Admin"

// RepositoryAPI returns nil, nil for missing rows. List orders newest first.
type RepositoryAPI interface {
	List(from, to *time.Time) ([]*newsDatamodel.NewsItem, error)
	GetByID(id int64) (*newsDatamodel.NewsItem, error)
	Create(n *newsDatamodel.NewsItem) error
	Update(n *newsDatamodel.NewsItem) error
	Delete(id int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return NewServiceWithClock(repo, logger, time.Now)
}

func NewServiceWithClock(repo RepositoryAPI, logger *slog.Logger, now func() time.Time) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    now,
	}
}

func (s *Service) List(filter ListFilter) ([]*NewsItem, error) {
	if appErr := validation.ValidateDateRange(filter.From, filter.To); appErr != nil {
		return nil, appErr
	}

	rows, err := s.repo.List(utc(filter.From), utc(filter.To))
	if err != nil {
		s.logger.Error("failed to list news", "error", err)
		return nil, fmt.Errorf("failed to list news: %w", err)
	}

	items := make([]*NewsItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, FromDataModel(row))
	}
	return items, nil
}

func (s *Service) GetByID(id int64) (*NewsItem, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get news item: %w", err)
	}
	if row == nil {
		return nil, errors.ErrNewsNotFound
	}
	return FromDataModel(row), nil
}

func (s *Service) Create(dto CreateNewsDTO) (*NewsItem, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	author := strings.TrimSpace(dto.Author)
	if author == "" {
		author = DefaultAuthor
	}

	row := &newsDatamodel.NewsItem{
		Title:     strings.TrimSpace(dto.Title),
		Content:   dto.Content,
		Author:    author,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create news item", "error", err)
		return nil, errors.NewInternalError("failed to create news item", err)
	}

	s.logger.Info("news item created", "news_id", row.ID, "author", row.Author)
	return FromDataModel(row), nil
}

// Update merges the fields present and stamps updatedAt.
func (s *Service) Update(id int64, dto UpdateNewsDTO) (*NewsItem, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get news item: %w", err)
	}
	if row == nil {
		return nil, errors.ErrNewsNotFound
	}

	dto.Title.ApplyValue(&row.Title)
	dto.Content.ApplyValue(&row.Content)
	dto.Author.ApplyValue(&row.Author)
	now := s.now().UTC()
	row.UpdatedAt = &now

	if err := s.repo.Update(row); err != nil {
		s.logger.Error("failed to update news item", "news_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update news item", err)
	}

	s.logger.Info("news item updated", "news_id", id)
	return FromDataModel(row), nil
}

func (s *Service) Delete(id int64) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		s.logger.Error("failed to delete news item", "news_id", id, "error", err)
		return errors.NewInternalError("failed to delete news item", err)
	}
	if !deleted {
		return errors.ErrNewsNotFound
	}

	s.logger.Info("news item deleted", "news_id", id)
	return nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
