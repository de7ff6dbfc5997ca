// Package services holds the screen-level operations of the client: each
// one validates input, talks to the API through the query cache and moves
// the matching UI store.
package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/frahmantamala/hr-portal/internal/client/api"
	"github.com/frahmantamala/hr-portal/internal/client/models"
)

var (
	ErrNotAuthenticated = errors.New("not signed in")
	ErrForbidden        = errors.New("administrator rights required")
	ErrNoActiveShift    = errors.New("no active shift")
	ErrShiftAlreadyOpen = errors.New("a shift is already open")
)

// Session is the part of the session store the services rely on.
type Session interface {
	Login(ctx context.Context, token string, user models.User) error
	Logout(ctx context.Context) error
	SetUser(ctx context.Context, user models.User) error
	User() *models.User
}

type AuthAPI interface {
	Login(ctx context.Context, email, password string) (string, models.User, error)
}

type UserAPI interface {
	GetUser(ctx context.Context, id int64) (models.User, error)
	UpdateUser(ctx context.Context, id int64, payload models.UpdateProfilePayload) (models.User, error)
	UploadAvatar(ctx context.Context, filename string, r io.Reader) (string, error)
}

type WorklogAPI interface {
	ListWorklogs(ctx context.Context, filter api.WorklogFilter) ([]models.Worklog, error)
	CreateWorklog(ctx context.Context, in models.WorklogInput) (models.Worklog, error)
	UpdateWorklog(ctx context.Context, id int64, p models.WorklogPatch) (models.Worklog, error)
	DeleteWorklog(ctx context.Context, id int64) error
}

type NewsAPI interface {
	ListNews(ctx context.Context, from, to *time.Time) ([]models.NewsItem, error)
	GetNews(ctx context.Context, id int64) (models.NewsItem, error)
	CreateNews(ctx context.Context, in models.NewsInput) (models.NewsItem, error)
	UpdateNews(ctx context.Context, id int64, p models.NewsPatch) (models.NewsItem, error)
	DeleteNews(ctx context.Context, id int64) error
}

func currentUser(s Session) (models.User, error) {
	u := s.User()
	if u == nil {
		return models.User{}, ErrNotAuthenticated
	}
	return *u, nil
}
