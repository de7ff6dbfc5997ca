package user

import (
	"github.com/Azure/go-autorest/autorest/date"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	userDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/user"
)

type User struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"fullName"`
	Position      string    `json:"position"`
	Department    string    `json:"department"`
	Email         string    `json:"email"`
	WorkStartDate date.Date `json:"workStartDate"`
	Phone         *string   `json:"phone"`
	AvatarURL     *string   `json:"avatarUrl"`
	IsAdmin       bool      `json:"isAdmin"`
	PasswordHash  string    `json:"-"`
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:            u.ID,
		FullName:      u.FullName,
		Position:      u.Position,
		Department:    u.Department,
		Email:         u.Email,
		PasswordHash:  u.PasswordHash,
		WorkStartDate: calendar.Format(u.WorkStartDate),
		Phone:         u.Phone,
		AvatarURL:     u.AvatarURL,
		IsAdmin:       u.IsAdmin,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	// an unparsable stored date degrades to the zero date
	workStart, _ := calendar.ParseDate(u.WorkStartDate)
	return &User{
		ID:            u.ID,
		FullName:      u.FullName,
		Position:      u.Position,
		Department:    u.Department,
		Email:         u.Email,
		WorkStartDate: workStart,
		Phone:         u.Phone,
		AvatarURL:     u.AvatarURL,
		IsAdmin:       u.IsAdmin,
		PasswordHash:  u.PasswordHash,
	}
}
