// Package models holds the client-side shapes of users, worklogs and news.
package models

import (
	"encoding/json"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/frahmantamala/hr-portal/internal/core/common/patch"
)

type User struct {
	ID            int64     `json:"id"`
	FullName      string    `json:"fullName"`
	Position      string    `json:"position"`
	Department    string    `json:"department"`
	Email         string    `json:"email"`
	WorkStartDate date.Date `json:"workStartDate"`
	Phone         *string   `json:"phone,omitempty"`
	AvatarURL     *string   `json:"avatarUrl,omitempty"`
	IsAdmin       bool      `json:"isAdmin,omitempty"`
}

type Worklog struct {
	ID           int64      `json:"id"`
	Date         date.Date  `json:"date"`
	UserID       int64      `json:"userId"`
	StartTime    *ClockTime `json:"startTime"`
	EndTime      *ClockTime `json:"endTime"`
	BreakMinutes *int       `json:"breakMinutes,omitempty"`
	IsDayOff     bool       `json:"isDayOff"`
	Description  *string    `json:"description,omitempty"`
}

// IsOpen reports whether w is a started shift that has not ended.
func (w Worklog) IsOpen() bool {
	return !w.IsDayOff && w.StartTime != nil && w.EndTime == nil
}

// WorkedMinutes is end - start - break for a completed shift, or 0.
func (w Worklog) WorkedMinutes() int {
	if w.IsDayOff || w.StartTime == nil || w.EndTime == nil {
		return 0
	}
	minutes := w.EndTime.Minutes() - w.StartTime.Minutes()
	if w.BreakMinutes != nil {
		minutes -= *w.BreakMinutes
	}
	if minutes < 0 {
		return 0
	}
	return minutes
}

type NewsItem struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Author    string     `json:"author"`
}

// UpdateProfilePayload carries only the profile fields being changed.
type UpdateProfilePayload struct {
	FullName   *string `json:"fullName,omitempty"`
	Position   *string `json:"position,omitempty"`
	Department *string `json:"department,omitempty"`
	Email      *string `json:"email,omitempty"`
	Phone      *string `json:"phone,omitempty"`
	AvatarURL  *string `json:"avatarUrl,omitempty"`
}

// WorklogInput is a worklog without its id. Nil start or end times are
// sent as JSON null.
type WorklogInput struct {
	Date         date.Date  `json:"date"`
	UserID       int64      `json:"userId"`
	StartTime    *ClockTime `json:"startTime"`
	EndTime      *ClockTime `json:"endTime"`
	BreakMinutes *int       `json:"breakMinutes,omitempty"`
	IsDayOff     bool       `json:"isDayOff"`
	Description  *string    `json:"description,omitempty"`
}

// WorklogPatch sends only the fields that are set; patch.Null clears one.
type WorklogPatch struct {
	Date         patch.Field[date.Date]
	StartTime    patch.Field[ClockTime]
	EndTime      patch.Field[ClockTime]
	BreakMinutes patch.Field[int]
	IsDayOff     patch.Field[bool]
	Description  patch.Field[string]
}

func (p WorklogPatch) MarshalJSON() ([]byte, error) {
	return json.Marshal(patch.Object{}.
		Put("date", p.Date).
		Put("startTime", p.StartTime).
		Put("endTime", p.EndTime).
		Put("breakMinutes", p.BreakMinutes).
		Put("isDayOff", p.IsDayOff).
		Put("description", p.Description))
}

type NewsInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Author  string `json:"author,omitempty"`
}

type NewsPatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
	Author  *string `json:"author,omitempty"`
}
