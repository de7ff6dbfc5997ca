package worklog

import (
	"github.com/Azure/go-autorest/autorest/date"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	worklogDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/worklog"
)

type Worklog struct {
	ID           int64     `json:"id"`
	Date         date.Date `json:"date"`
	UserID       int64     `json:"userId"`
	StartTime    *string   `json:"startTime"`
	EndTime      *string   `json:"endTime"`
	BreakMinutes *int      `json:"breakMinutes,omitempty"`
	IsDayOff     bool      `json:"isDayOff"`
	Description  *string   `json:"description,omitempty"`
}

// IsOpen reports a started shift that has not been ended yet.
func (w *Worklog) IsOpen() bool {
	return !w.IsDayOff && w.StartTime != nil && w.EndTime == nil
}

// normalize enforces that a day off carries no clock times.
func (w *Worklog) normalize() {
	if w.IsDayOff {
		w.StartTime = nil
		w.EndTime = nil
	}
}

// ListFilter narrows a listing; zero values mean no constraint. From and To
// are inclusive calendar dates.
type ListFilter struct {
	UserID int64
	From   *date.Date
	To     *date.Date
}

func ToDataModel(w *Worklog) *worklogDatamodel.Worklog {
	return &worklogDatamodel.Worklog{
		ID:           w.ID,
		UserID:       w.UserID,
		WorkDate:     calendar.Format(w.Date),
		StartTime:    w.StartTime,
		EndTime:      w.EndTime,
		BreakMinutes: w.BreakMinutes,
		IsDayOff:     w.IsDayOff,
		Description:  w.Description,
	}
}

func FromDataModel(w *worklogDatamodel.Worklog) *Worklog {
	d, _ := calendar.ParseDate(w.WorkDate)
	return &Worklog{
		ID:           w.ID,
		Date:         d,
		UserID:       w.UserID,
		StartTime:    w.StartTime,
		EndTime:      w.EndTime,
		BreakMinutes: w.BreakMinutes,
		IsDayOff:     w.IsDayOff,
		Description:  w.Description,
	}
}
