package ui

import (
	"log/slog"

	"github.com/frahmantamala/hr-portal/internal/core/events"
)

const TopicTimeTracking = "ui.timetracking"

type TimeTrackingState struct {
	IsLogging bool
	// EditingWorklogID is 0 when the form creates a new record.
	EditingWorklogID int64
	// DateRange filters the worklog list; nil means the current week.
	DateRange *DateRange
	// AllDates lists every worklog and overrides DateRange.
	AllDates bool
}

type TimeTrackingUIStore struct {
	*store[TimeTrackingState]
}

func NewTimeTrackingUIStore(bus *events.EventBus, logger *slog.Logger) *TimeTrackingUIStore {
	return &TimeTrackingUIStore{store: newStore[TimeTrackingState](TopicTimeTracking, bus, logger)}
}

func (s *TimeTrackingUIStore) SetLogging(on bool) {
	s.update(func(st *TimeTrackingState) { st.IsLogging = on })
}

func (s *TimeTrackingUIStore) SetEditing(id int64) {
	s.update(func(st *TimeTrackingState) { st.EditingWorklogID = id })
}

// SetDateRange narrows the list to r; nil goes back to the current week.
func (s *TimeTrackingUIStore) SetDateRange(r *DateRange) {
	s.update(func(st *TimeTrackingState) {
		st.DateRange = copyRange(r)
		st.AllDates = false
	})
}

func (s *TimeTrackingUIStore) ShowAllDates() {
	s.update(func(st *TimeTrackingState) {
		st.DateRange = nil
		st.AllDates = true
	})
}
