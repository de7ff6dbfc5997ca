package worklog

import (
	"time"

	errors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	"github.com/frahmantamala/hr-portal/internal/core/common/patch"
	"github.com/frahmantamala/hr-portal/internal/core/common/validation"
)

// CreateWorklogDTO is a worklog without its id. An empty date means today.
type CreateWorklogDTO struct {
	Date         string  `json:"date"`
	UserID       int64   `json:"userId"`
	StartTime    *string `json:"startTime"`
	EndTime      *string `json:"endTime"`
	BreakMinutes *int    `json:"breakMinutes"`
	IsDayOff     bool    `json:"isDayOff"`
	Description  *string `json:"description"`
}

type UpdateWorklogDTO struct {
	Date         patch.Field[string] `json:"date"`
	UserID       patch.Field[int64]  `json:"userId"`
	StartTime    patch.Field[string] `json:"startTime"`
	EndTime      patch.Field[string] `json:"endTime"`
	BreakMinutes patch.Field[int]    `json:"breakMinutes"`
	IsDayOff     patch.Field[bool]   `json:"isDayOff"`
	Description  patch.Field[string] `json:"description"`
}

func (d CreateWorklogDTO) toWorklog(now time.Time) (*Worklog, *errors.AppError) {
	day := calendar.FromTime(now)
	if d.Date != "" {
		parsed, err := calendar.ParseDate(d.Date)
		if err != nil {
			return nil, errors.NewValidationFieldError("date", "date must be YYYY-MM-DD or an ISO date-time", errors.ErrCodeInvalidDate)
		}
		day = parsed
	}

	w := &Worklog{
		Date:         day,
		UserID:       d.UserID,
		StartTime:    d.StartTime,
		EndTime:      d.EndTime,
		BreakMinutes: d.BreakMinutes,
		IsDayOff:     d.IsDayOff,
		Description:  d.Description,
	}
	w.normalize()
	if appErr := validateWorklog(w); appErr != nil {
		return nil, appErr
	}
	return w, nil
}

// applyTo merges the fields present in d into w.
func (d UpdateWorklogDTO) applyTo(w *Worklog) *errors.AppError {
	if d.Date.Set {
		if d.Date.Value == nil {
			return errors.NewValidationFieldError("date", "date cannot be null", errors.ErrCodeInvalidDate)
		}
		parsed, err := calendar.ParseDate(*d.Date.Value)
		if err != nil {
			return errors.NewValidationFieldError("date", "date must be YYYY-MM-DD or an ISO date-time", errors.ErrCodeInvalidDate)
		}
		w.Date = parsed
	}
	d.UserID.ApplyValue(&w.UserID)
	d.StartTime.Apply(&w.StartTime)
	d.EndTime.Apply(&w.EndTime)
	d.BreakMinutes.Apply(&w.BreakMinutes)
	d.IsDayOff.ApplyValue(&w.IsDayOff)
	d.Description.Apply(&w.Description)

	w.normalize()
	return validateWorklog(w)
}

func validateWorklog(w *Worklog) *errors.AppError {
	v := validation.NewValidator()
	v.Field("userId", w.UserID).Required()
	v.Field("date", w.Date.Time).Required()
	v.Field("startTime", w.StartTime).ClockTime()
	v.Field("endTime", w.EndTime).ClockTime()
	v.Field("breakMinutes", w.BreakMinutes).NonNegative()
	v.Field("description", w.Description).MaxLength(1000)
	return v.Validate()
}
