package datamodel

import (
	"fmt"

	newsDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/news"
	userDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/user"
	worklogDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/worklog"
	"gorm.io/gorm"
)

func Models() []any {
	return []any{
		&userDatamodel.User{},
		&worklogDatamodel.Worklog{},
		&newsDatamodel.NewsItem{},
	}
}

// AutoMigrate creates or updates the service schema.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
