package news

import "time"

type NewsItem struct {
	ID        int64      `gorm:"primaryKey"`
	Title     string     `gorm:"column:title;not null"`
	Content   string     `gorm:"column:content;type:text;not null"`
	Author    string     `gorm:"column:author"`
	CreatedAt time.Time  `gorm:"column:created_at;index"`
	UpdatedAt *time.Time `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (NewsItem) TableName() string {
	return "news"
}
