package user

import "time"

type User struct {
	ID            int64     `gorm:"primaryKey"`
	FullName      string    `gorm:"column:full_name;not null"`
	Position      string    `gorm:"column:position"`
	Department    string    `gorm:"column:department"`
	Email         string    `gorm:"column:email;uniqueIndex;not null"`
	PasswordHash  string    `gorm:"column:password_hash;not null"`
	WorkStartDate string    `gorm:"column:work_start_date;size:10"`
	Phone         *string   `gorm:"column:phone"`
	AvatarURL     *string   `gorm:"column:avatar_url"`
	IsAdmin       bool      `gorm:"column:is_admin;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
