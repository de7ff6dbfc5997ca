package postgres

import (
	"errors"

	worklogDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/worklog"
	"github.com/frahmantamala/hr-portal/internal/worklog"
	"gorm.io/gorm"
)

type WorklogRepository struct {
	db *gorm.DB
}

func NewWorklogRepository(db *gorm.DB) worklog.RepositoryAPI {
	return &WorklogRepository{db: db}
}

func (r *WorklogRepository) List(userID int64, from, to string) ([]*worklogDatamodel.Worklog, error) {
	q := r.db.Model(&worklogDatamodel.Worklog{})
	if userID != 0 {
		q = q.Where("user_id = ?", userID)
	}
	if from != "" {
		q = q.Where("work_date >= ?", from)
	}
	if to != "" {
		q = q.Where("work_date <= ?", to)
	}

	var rows []*worklogDatamodel.Worklog
	err := q.Order("work_date ASC").Order("start_time ASC").Order("id ASC").Find(&rows).Error
	return rows, err
}

func (r *WorklogRepository) GetByID(id int64) (*worklogDatamodel.Worklog, error) {
	var w worklogDatamodel.Worklog
	err := r.db.Where("id = ?", id).First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *WorklogRepository) FindOpenShift(userID, excludeID int64) (*worklogDatamodel.Worklog, error) {
	q := r.db.Where("user_id = ? AND is_day_off = ? AND start_time IS NOT NULL AND end_time IS NULL", userID, false)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}

	var w worklogDatamodel.Worklog
	err := q.Order("id DESC").First(&w).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *WorklogRepository) Create(w *worklogDatamodel.Worklog) error {
	return r.db.Create(w).Error
}

// Update saves every column so that cleared times are written as NULL.
func (r *WorklogRepository) Update(w *worklogDatamodel.Worklog) error {
	return r.db.Model(&worklogDatamodel.Worklog{ID: w.ID}).
		Select("user_id", "work_date", "start_time", "end_time", "break_minutes", "is_day_off", "description").
		Updates(w).Error
}

func (r *WorklogRepository) Delete(id int64) (bool, error) {
	res := r.db.Delete(&worklogDatamodel.Worklog{}, id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
