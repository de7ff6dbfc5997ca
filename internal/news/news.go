package news

import (
	"time"

	newsDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/news"
)

type NewsItem struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Author    string     `json:"author"`
}

func ToDataModel(n *NewsItem) *newsDatamodel.NewsItem {
	return &newsDatamodel.NewsItem{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Author:    n.Author,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

func FromDataModel(n *newsDatamodel.NewsItem) *NewsItem {
	return &NewsItem{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		Author:    n.Author,
		CreatedAt: n.CreatedAt.UTC(),
		UpdatedAt: utcPtr(n.UpdatedAt),
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
