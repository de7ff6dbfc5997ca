package ui

import (
	"log/slog"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/frahmantamala/hr-portal/internal/core/events"
)

const TopicWorklog = "ui.worklog"

type WorklogState struct {
	// SelectedUserID is 0 for all users.
	SelectedUserID int64
	DateRange      *DateRange
	// SelectedDate is the calendar day whose entries are shown, or nil.
	SelectedDate *date.Date
}

type WorklogUIStore struct {
	*store[WorklogState]
}

func NewWorklogUIStore(bus *events.EventBus, logger *slog.Logger) *WorklogUIStore {
	return &WorklogUIStore{store: newStore[WorklogState](TopicWorklog, bus, logger)}
}

func (s *WorklogUIStore) SetSelectedUser(id int64) {
	s.update(func(st *WorklogState) { st.SelectedUserID = id })
}

func (s *WorklogUIStore) SetDateRange(r *DateRange) {
	r = copyRange(r)
	s.update(func(st *WorklogState) { st.DateRange = r })
}

func (s *WorklogUIStore) SetSelectedDate(d date.Date) {
	s.update(func(st *WorklogState) { st.SelectedDate = &d })
}

func (s *WorklogUIStore) ClearSelectedDate() {
	s.update(func(st *WorklogState) { st.SelectedDate = nil })
}
