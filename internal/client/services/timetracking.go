package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	apperrors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/client/api"
	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/client/query"
	"github.com/frahmantamala/hr-portal/internal/client/ui"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	"github.com/frahmantamala/hr-portal/internal/core/common/patch"
	"github.com/frahmantamala/hr-portal/internal/core/common/validation"
)

// weekMinutes is the 40 hour working week progress is measured against.
const weekMinutes = 40 * 60

// WorklogForm is the editable part of a worklog.
type WorklogForm struct {
	Date         date.Date
	StartTime    *models.ClockTime
	EndTime      *models.ClockTime
	BreakMinutes int
	IsDayOff     bool
	Description  string
}

type WeekStats struct {
	TotalMinutes int
	// TotalHours is rounded to one decimal.
	TotalHours float64
	// Percent of a 40 hour week, capped at 100.
	Percent int
}

type TimeTrackingService struct {
	api     WorklogAPI
	session Session
	ui      *ui.TimeTrackingUIStore
	cache   *query.Cache
	now     func() time.Time
	logger  *slog.Logger
}

func NewTimeTrackingService(api WorklogAPI, session Session, store *ui.TimeTrackingUIStore, cache *query.Cache, logger *slog.Logger) *TimeTrackingService {
	return &TimeTrackingService{
		api:     api,
		session: session,
		ui:      store,
		cache:   cache,
		now:     time.Now,
		logger:  logger,
	}
}

// WithClock replaces the time source used for shift start and end.
func (s *TimeTrackingService) WithClock(now func() time.Time) *TimeTrackingService {
	s.now = now
	return s
}

// Range resolves the list filter: the chosen range, every date (nil, nil)
// or the week containing now.
func (s *TimeTrackingService) Range() (*time.Time, *time.Time) {
	st := s.ui.Snapshot()
	switch {
	case st.AllDates:
		return nil, nil
	case st.DateRange != nil:
		return st.DateRange.Bounds()
	}
	from, next := calendar.WeekBounds(s.now())
	to := next.Add(-time.Nanosecond)
	return &from, &to
}

// Worklogs lists the signed-in user's worklogs within Range.
func (s *TimeTrackingService) Worklogs(ctx context.Context) ([]models.Worklog, error) {
	user, err := currentUser(s.session)
	if err != nil {
		return nil, err
	}
	from, to := s.Range()
	return query.Fetch(ctx, s.cache, query.K("worklogs", user.ID, from, to), func(ctx context.Context) ([]models.Worklog, error) {
		return s.api.ListWorklogs(ctx, api.WorklogFilter{UserID: user.ID, From: from, To: to})
	})
}

// OpenShift returns the user's started but unfinished shift, if any. It
// looks at every date, so a shift left open in an earlier week is found.
func (s *TimeTrackingService) OpenShift(ctx context.Context) (*models.Worklog, error) {
	user, err := currentUser(s.session)
	if err != nil {
		return nil, err
	}
	worklogs, err := query.Fetch(ctx, s.cache, query.K("worklogs", user.ID), func(ctx context.Context) ([]models.Worklog, error) {
		return s.api.ListWorklogs(ctx, api.WorklogFilter{UserID: user.ID})
	})
	if err != nil {
		return nil, err
	}
	for i := range worklogs {
		if worklogs[i].IsOpen() {
			return &worklogs[i], nil
		}
	}
	return nil, nil
}

func (s *TimeTrackingService) StartDay(ctx context.Context) (models.Worklog, error) {
	user, err := currentUser(s.session)
	if err != nil {
		return models.Worklog{}, err
	}
	open, err := s.OpenShift(ctx)
	if err != nil {
		return models.Worklog{}, err
	}
	if open != nil {
		return models.Worklog{}, ErrShiftAlreadyOpen
	}

	now := s.now()
	start := models.ClockOf(now)
	breakMinutes := 0
	description := ""
	in := models.WorklogInput{
		Date:         calendar.FromTime(now),
		UserID:       user.ID,
		StartTime:    &start,
		BreakMinutes: &breakMinutes,
		Description:  &description,
	}

	created, err := query.Run(ctx, s.cache, func(ctx context.Context) (models.Worklog, error) {
		return s.api.CreateWorklog(ctx, in)
	}, query.K("worklogs"))
	if err != nil {
		if api.StatusOf(err) == http.StatusConflict {
			return models.Worklog{}, fmt.Errorf("%w: %w", ErrShiftAlreadyOpen, err)
		}
		return models.Worklog{}, err
	}

	s.ui.SetLogging(true)
	s.logger.Info("shift started", "worklog_id", created.ID, "start", start.String())
	return created, nil
}

func (s *TimeTrackingService) EndDay(ctx context.Context) (models.Worklog, error) {
	open, err := s.OpenShift(ctx)
	if err != nil {
		return models.Worklog{}, err
	}
	if open == nil {
		s.ui.SetLogging(false)
		return models.Worklog{}, ErrNoActiveShift
	}

	end := models.ClockOf(s.now())
	updated, err := query.Run(ctx, s.cache, func(ctx context.Context) (models.Worklog, error) {
		return s.api.UpdateWorklog(ctx, open.ID, models.WorklogPatch{EndTime: patch.Of(end)})
	}, query.K("worklogs"))
	if err != nil {
		return models.Worklog{}, err
	}

	s.ui.SetLogging(false)
	s.logger.Info("shift ended", "worklog_id", updated.ID, "end", end.String())
	return updated, nil
}

// Save creates a worklog, or replaces the one being edited.
func (s *TimeTrackingService) Save(ctx context.Context, form WorklogForm) (models.Worklog, error) {
	user, err := currentUser(s.session)
	if err != nil {
		return models.Worklog{}, err
	}
	if form.IsDayOff {
		form.StartTime, form.EndTime = nil, nil
	}
	if appErr := validateWorklogForm(form); appErr != nil {
		return models.Worklog{}, appErr
	}

	editing := s.ui.Snapshot().EditingWorklogID
	saved, err := query.Run(ctx, s.cache, func(ctx context.Context) (models.Worklog, error) {
		if editing != 0 {
			return s.api.UpdateWorklog(ctx, editing, form.patch())
		}
		return s.api.CreateWorklog(ctx, form.input(user.ID))
	}, query.K("worklogs"))
	if err != nil {
		if api.StatusOf(err) == http.StatusConflict {
			return models.Worklog{}, fmt.Errorf("%w: %w", ErrShiftAlreadyOpen, err)
		}
		return models.Worklog{}, err
	}

	s.ui.SetEditing(0)
	return saved, nil
}

func (s *TimeTrackingService) Delete(ctx context.Context, id int64) error {
	err := s.cache.Mutate(ctx, func(ctx context.Context) error {
		return s.api.DeleteWorklog(ctx, id)
	}, query.K("worklogs"))
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			s.logger.Warn("worklog already gone", "worklog_id", id)
		}
		return err
	}
	if s.ui.Snapshot().EditingWorklogID == id {
		s.ui.SetEditing(0)
	}
	return nil
}

// Stats sums the worked minutes of completed shifts in worklogs; callers
// pass the list for the range being reported.
func Stats(worklogs []models.Worklog) WeekStats {
	total := 0
	for _, w := range worklogs {
		if m := w.WorkedMinutes(); m > 0 {
			total += m
		}
	}
	percent := int(math.Round(float64(total) / weekMinutes * 100))
	if percent > 100 {
		percent = 100
	}
	return WeekStats{
		TotalMinutes: total,
		TotalHours:   math.Round(float64(total)/60*10) / 10,
		Percent:      percent,
	}
}

func validateWorklogForm(f WorklogForm) *apperrors.AppError {
	v := validation.NewValidator()
	v.Field("breakMinutes", f.BreakMinutes).NonNegative()
	v.Field("description", f.Description).MaxLength(1000)
	v.Field("date", f.Date.Time).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	if f.StartTime != nil && f.EndTime != nil && f.EndTime.Minutes() < f.StartTime.Minutes() {
		return apperrors.NewValidationFieldError("endTime", "end time is before start time", apperrors.ErrCodeInvalidRange)
	}
	return nil
}

func (f WorklogForm) input(userID int64) models.WorklogInput {
	breakMinutes := f.BreakMinutes
	description := f.Description
	return models.WorklogInput{
		Date:         f.Date,
		UserID:       userID,
		StartTime:    f.StartTime,
		EndTime:      f.EndTime,
		BreakMinutes: &breakMinutes,
		IsDayOff:     f.IsDayOff,
		Description:  &description,
	}
}

// patch sets every field, so nil times are cleared on the server.
func (f WorklogForm) patch() models.WorklogPatch {
	p := models.WorklogPatch{
		Date:         patch.Of(f.Date),
		BreakMinutes: patch.Of(f.BreakMinutes),
		IsDayOff:     patch.Of(f.IsDayOff),
		Description:  patch.Of(f.Description),
		StartTime:    patch.Null[models.ClockTime](),
		EndTime:      patch.Null[models.ClockTime](),
	}
	if f.StartTime != nil {
		p.StartTime = patch.Of(*f.StartTime)
	}
	if f.EndTime != nil {
		p.EndTime = patch.Of(*f.EndTime)
	}
	return p
}
