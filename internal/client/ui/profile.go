package ui

import (
	"log/slog"

	"github.com/frahmantamala/hr-portal/internal/core/events"
)

const TopicProfile = "ui.profile"

type ProfileState struct {
	IsEditMode bool
}

type ProfileUIStore struct {
	*store[ProfileState]
}

func NewProfileUIStore(bus *events.EventBus, logger *slog.Logger) *ProfileUIStore {
	return &ProfileUIStore{store: newStore[ProfileState](TopicProfile, bus, logger)}
}

func (s *ProfileUIStore) SetEditMode(on bool) {
	s.update(func(st *ProfileState) { st.IsEditMode = on })
}

func (s *ProfileUIStore) Reset() {
	s.update(func(st *ProfileState) { *st = ProfileState{} })
}
