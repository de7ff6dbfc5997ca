package worklog

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	errors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	worklogDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/worklog"
)

// RepositoryAPI returns nil, nil for missing rows. List takes inclusive
// YYYY-MM-DD bounds; an empty bound is open.
type RepositoryAPI interface {
	List(userID int64, from, to string) ([]*worklogDatamodel.Worklog, error)
	GetByID(id int64) (*worklogDatamodel.Worklog, error)
	FindOpenShift(userID, excludeID int64) (*worklogDatamodel.Worklog, error)
	Create(w *worklogDatamodel.Worklog) error
	Update(w *worklogDatamodel.Worklog) error
	Delete(id int64) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time

	// serializes the open-shift check with the write that follows it
	mu sync.Mutex
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *Service) List(filter ListFilter) ([]*Worklog, error) {
	var from, to string
	if filter.From != nil {
		from = calendar.Format(*filter.From)
	}
	if filter.To != nil {
		to = calendar.Format(*filter.To)
	}

	rows, err := s.repo.List(filter.UserID, from, to)
	if err != nil {
		s.logger.Error("failed to list worklogs", "user_id", filter.UserID, "error", err)
		return nil, fmt.Errorf("failed to list worklogs: %w", err)
	}

	worklogs := make([]*Worklog, 0, len(rows))
	for _, row := range rows {
		worklogs = append(worklogs, FromDataModel(row))
	}
	return worklogs, nil
}

func (s *Service) Create(dto CreateWorklogDTO) (*Worklog, error) {
	w, appErr := dto.toWorklog(s.now())
	if appErr != nil {
		return nil, appErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureSingleOpenShift(w, 0); err != nil {
		return nil, err
	}

	row := ToDataModel(w)
	if err := s.repo.Create(row); err != nil {
		s.logger.Error("failed to create worklog", "user_id", w.UserID, "error", err)
		return nil, errors.NewInternalError("failed to create worklog", err)
	}

	s.logger.Info("worklog created", "worklog_id", row.ID, "user_id", row.UserID, "date", row.WorkDate)
	return FromDataModel(row), nil
}

func (s *Service) Update(id int64, dto UpdateWorklogDTO) (*Worklog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get worklog: %w", err)
	}
	if row == nil {
		return nil, errors.ErrWorklogNotFound
	}

	w := FromDataModel(row)
	if appErr := dto.applyTo(w); appErr != nil {
		return nil, appErr
	}

	if err := s.ensureSingleOpenShift(w, id); err != nil {
		return nil, err
	}

	updated := ToDataModel(w)
	if err := s.repo.Update(updated); err != nil {
		s.logger.Error("failed to update worklog", "worklog_id", id, "error", err)
		return nil, errors.NewInternalError("failed to update worklog", err)
	}

	s.logger.Info("worklog updated", "worklog_id", id, "open", w.IsOpen())
	return w, nil
}

func (s *Service) Delete(id int64) error {
	deleted, err := s.repo.Delete(id)
	if err != nil {
		s.logger.Error("failed to delete worklog", "worklog_id", id, "error", err)
		return errors.NewInternalError("failed to delete worklog", err)
	}
	if !deleted {
		return errors.ErrWorklogNotFound
	}

	s.logger.Info("worklog deleted", "worklog_id", id)
	return nil
}

func (s *Service) ensureSingleOpenShift(w *Worklog, excludeID int64) error {
	if !w.IsOpen() {
		return nil
	}
	open, err := s.repo.FindOpenShift(w.UserID, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check open shift: %w", err)
	}
	if open != nil {
		s.logger.Warn("rejected second open shift", "user_id", w.UserID, "open_worklog_id", open.ID)
		return errors.ErrOpenShiftExists
	}
	return nil
}
