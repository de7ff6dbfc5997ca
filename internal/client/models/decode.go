package models

import (
	"encoding/json"
	"fmt"

	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
)

// Wire shapes keep every date-bearing field as text so each entity has
// exactly one place where the text becomes a typed value.

type wireUser struct {
	ID            int64   `json:"id"`
	FullName      string  `json:"fullName"`
	Position      string  `json:"position"`
	Department    string  `json:"department"`
	Email         string  `json:"email"`
	WorkStartDate string  `json:"workStartDate"`
	Phone         *string `json:"phone"`
	AvatarURL     *string `json:"avatarUrl"`
	IsAdmin       bool    `json:"isAdmin"`
}

type wireWorklog struct {
	ID           int64   `json:"id"`
	Date         string  `json:"date"`
	UserID       int64   `json:"userId"`
	StartTime    *string `json:"startTime"`
	EndTime      *string `json:"endTime"`
	BreakMinutes *int    `json:"breakMinutes"`
	IsDayOff     bool    `json:"isDayOff"`
	Description  *string `json:"description"`
}

type wireNewsItem struct {
	ID        int64   `json:"id"`
	Title     string  `json:"title"`
	Content   string  `json:"content"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt *string `json:"updatedAt"`
	Author    string  `json:"author"`
}

func DecodeUser(data []byte) (User, error) {
	var w wireUser
	if err := json.Unmarshal(data, &w); err != nil {
		return User{}, fmt.Errorf("decode user: %w", err)
	}

	u := User{
		ID:         w.ID,
		FullName:   w.FullName,
		Position:   w.Position,
		Department: w.Department,
		Email:      w.Email,
		Phone:      w.Phone,
		AvatarURL:  w.AvatarURL,
		IsAdmin:    w.IsAdmin,
	}
	if w.WorkStartDate != "" {
		d, err := calendar.ParseDate(w.WorkStartDate)
		if err != nil {
			return User{}, fmt.Errorf("decode user %d workStartDate: %w", w.ID, err)
		}
		u.WorkStartDate = d
	}
	return u, nil
}

func DecodeWorklog(data []byte) (Worklog, error) {
	var w wireWorklog
	if err := json.Unmarshal(data, &w); err != nil {
		return Worklog{}, fmt.Errorf("decode worklog: %w", err)
	}

	d, err := calendar.ParseDate(w.Date)
	if err != nil {
		return Worklog{}, fmt.Errorf("decode worklog %d date: %w", w.ID, err)
	}
	start, err := optionalClock(w.StartTime)
	if err != nil {
		return Worklog{}, fmt.Errorf("decode worklog %d startTime: %w", w.ID, err)
	}
	end, err := optionalClock(w.EndTime)
	if err != nil {
		return Worklog{}, fmt.Errorf("decode worklog %d endTime: %w", w.ID, err)
	}

	return Worklog{
		ID:           w.ID,
		Date:         d,
		UserID:       w.UserID,
		StartTime:    start,
		EndTime:      end,
		BreakMinutes: w.BreakMinutes,
		IsDayOff:     w.IsDayOff,
		Description:  w.Description,
	}, nil
}

func DecodeNewsItem(data []byte) (NewsItem, error) {
	var w wireNewsItem
	if err := json.Unmarshal(data, &w); err != nil {
		return NewsItem{}, fmt.Errorf("decode news item: %w", err)
	}

	created, err := calendar.ParseTimestamp(w.CreatedAt)
	if err != nil {
		return NewsItem{}, fmt.Errorf("decode news item %d createdAt: %w", w.ID, err)
	}
	item := NewsItem{
		ID:        w.ID,
		Title:     w.Title,
		Content:   w.Content,
		CreatedAt: created,
		Author:    w.Author,
	}
	if w.UpdatedAt != nil && *w.UpdatedAt != "" {
		updated, err := calendar.ParseTimestamp(*w.UpdatedAt)
		if err != nil {
			return NewsItem{}, fmt.Errorf("decode news item %d updatedAt: %w", w.ID, err)
		}
		item.UpdatedAt = &updated
	}
	return item, nil
}

func DecodeWorklogs(data []byte) ([]Worklog, error) {
	return decodeList(data, DecodeWorklog)
}

func DecodeNewsItems(data []byte) ([]NewsItem, error) {
	return decodeList(data, DecodeNewsItem)
}

func decodeList[T any](data []byte, decode func([]byte) (T, error)) ([]T, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	out := make([]T, 0, len(raw))
	for _, item := range raw {
		v, err := decode(item)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func optionalClock(s *string) (*ClockTime, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	c, err := ParseClockTime(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
