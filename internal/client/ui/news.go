package ui

import (
	"log/slog"

	"github.com/frahmantamala/hr-portal/internal/core/events"
)

const TopicNews = "ui.news"

type NewsState struct {
	DateRange      *DateRange
	SelectedNewsID int64
	IsModalOpen    bool
	IsFormOpen     bool
	// EditingNewsID is 0 when the form creates a new item.
	EditingNewsID int64
}

type NewsUIStore struct {
	*store[NewsState]
}

func NewNewsUIStore(bus *events.EventBus, logger *slog.Logger) *NewsUIStore {
	return &NewsUIStore{store: newStore[NewsState](TopicNews, bus, logger)}
}

func (s *NewsUIStore) SetDateRange(r *DateRange) {
	r = copyRange(r)
	s.update(func(st *NewsState) { st.DateRange = r })
}

// SelectNews opens the detail modal on id.
func (s *NewsUIStore) SelectNews(id int64) {
	s.update(func(st *NewsState) {
		st.SelectedNewsID = id
		st.IsModalOpen = true
	})
}

func (s *NewsUIStore) CloseModal() {
	s.update(func(st *NewsState) {
		st.SelectedNewsID = 0
		st.IsModalOpen = false
	})
}

// SetFormOpen opens the form for editingID (0 for a new item); closing it
// forgets the id.
func (s *NewsUIStore) SetFormOpen(open bool, editingID int64) {
	s.update(func(st *NewsState) {
		st.IsFormOpen = open
		if open {
			st.EditingNewsID = editingID
		} else {
			st.EditingNewsID = 0
		}
	})
}
