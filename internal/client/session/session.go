// Package session keeps the signed-in user and token, persisted in the
// client key-value store under "authToken" and "user".
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/client/storage"
	"github.com/frahmantamala/hr-portal/internal/core/events"
)

const (
	KeyToken = "authToken"
	KeyUser  = "user"

	TopicChanged = "session.changed"
)

// Snapshot is the state delivered to subscribers.
type Snapshot struct {
	Token string
	User  *models.User
}

func (s Snapshot) IsAuthenticated() bool {
	return s.Token != ""
}

type Store struct {
	repo   storage.Repository
	bus    *events.EventBus
	logger *slog.Logger

	mu    sync.RWMutex
	token string
	user  *models.User
}

func NewStore(repo storage.Repository, bus *events.EventBus, logger *slog.Logger) *Store {
	return &Store{repo: repo, bus: bus, logger: logger}
}

// Restore loads the persisted session. A user record that does not decode
// is logged and dropped while the token is kept.
func (s *Store) Restore(ctx context.Context) error {
	token, err := s.repo.Get(ctx, KeyToken)
	if err != nil {
		return fmt.Errorf("restore session token: %w", err)
	}
	raw, err := s.repo.Get(ctx, KeyUser)
	if err != nil {
		return fmt.Errorf("restore session user: %w", err)
	}

	var user *models.User
	if len(raw) > 0 {
		u, err := models.DecodeUser(raw)
		if err != nil {
			s.logger.Warn("discarding corrupt stored user", "error", err)
			if err := s.repo.Delete(ctx, KeyUser); err != nil {
				s.logger.Warn("failed to remove corrupt stored user", "error", err)
			}
		} else {
			user = &u
		}
	}

	s.mu.Lock()
	s.token = string(token)
	s.user = user
	s.mu.Unlock()

	s.logger.Info("session restored", "authenticated", len(token) > 0, "has_user", user != nil)
	s.notify(ctx)
	return nil
}

// Login persists both keys in one write before switching the in-memory
// state, so a storage failure leaves the session unchanged in memory and on
// disk.
func (s *Store) Login(ctx context.Context, token string, user models.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := s.repo.SetMany(ctx, map[string][]byte{KeyToken: []byte(token), KeyUser: encoded}); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()

	s.logger.Info("session started", "user_id", user.ID)
	s.notify(ctx)
	return nil
}

// Logout always clears the in-memory state; the returned error only
// reports a failure to clear durable storage.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	var errs []error
	if err := s.repo.Delete(ctx, KeyToken); err != nil {
		errs = append(errs, err)
	}
	if err := s.repo.Delete(ctx, KeyUser); err != nil {
		errs = append(errs, err)
	}

	s.logger.Info("session ended")
	s.notify(ctx)
	if len(errs) > 0 {
		return fmt.Errorf("clear stored session: %v", errs)
	}
	return nil
}

// SetUser replaces the cached user after the server confirmed a change.
func (s *Store) SetUser(ctx context.Context, user models.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode session user: %w", err)
	}
	if err := s.repo.Set(ctx, KeyUser, encoded); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	s.notify(ctx)
	return nil
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the cached user, or nil.
func (s *Store) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Store) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{Token: s.Token(), User: s.User()}
}

// Subscribe calls fn synchronously after every transition.
func (s *Store) Subscribe(fn func(Snapshot)) events.Unsubscribe {
	return s.bus.Subscribe(TopicChanged, func(_ context.Context, e events.Event) error {
		if snap, ok := e.Payload().(Snapshot); ok {
			fn(snap)
		}
		return nil
	})
}

func (s *Store) notify(ctx context.Context) {
	if err := s.bus.PublishSync(ctx, events.NewEvent(TopicChanged, s.Snapshot())); err != nil {
		s.logger.Error("session subscriber failed", "error", err)
	}
}
