package worklog

import "time"

// Worklog stores the calendar date as YYYY-MM-DD text so range filters
// compare the same way on sqlite and postgres.
type Worklog struct {
	ID           int64     `gorm:"primaryKey"`
	UserID       int64     `gorm:"column:user_id;not null;index"`
	WorkDate     string    `gorm:"column:work_date;size:10;not null;index"`
	StartTime    *string   `gorm:"column:start_time;size:5"`
	EndTime      *string   `gorm:"column:end_time;size:5"`
	BreakMinutes *int      `gorm:"column:break_minutes"`
	IsDayOff     bool      `gorm:"column:is_day_off;default:false"`
	Description  *string   `gorm:"column:description"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Worklog) TableName() string {
	return "worklogs"
}
