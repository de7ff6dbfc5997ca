package postgres

import (
	"errors"
	"time"

	newsDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/news"
	"github.com/frahmantamala/hr-portal/internal/news"
	"gorm.io/gorm"
)

type NewsRepository struct {
	db *gorm.DB
}

func NewNewsRepository(db *gorm.DB) news.RepositoryAPI {
	return &NewsRepository{db: db}
}

func (r *NewsRepository) List(from, to *time.Time) ([]*newsDatamodel.NewsItem, error) {
	q := r.db.Model(&newsDatamodel.NewsItem{})
	if from != nil {
		q = q.Where("created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("created_at <= ?", *to)
	}

	var rows []*newsDatamodel.NewsItem
	err := q.Order("created_at DESC").Order("id DESC").Find(&rows).Error
	return rows, err
}

func (r *NewsRepository) GetByID(id int64) (*newsDatamodel.NewsItem, error) {
	var n newsDatamodel.NewsItem
	err := r.db.Where("id = ?", id).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &n, nil
}

func (r *NewsRepository) Create(n *newsDatamodel.NewsItem) error {
	return r.db.Create(n).Error
}

func (r *NewsRepository) Update(n *newsDatamodel.NewsItem) error {
	return r.db.Model(&newsDatamodel.NewsItem{ID: n.ID}).
		Select("title", "content", "author", "updated_at").
		Updates(n).Error
}

func (r *NewsRepository) Delete(id int64) (bool, error) {
	res := r.db.Delete(&newsDatamodel.NewsItem{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
