package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"

	"github.com/frahmantamala/hr-portal/internal/client/api"
	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/client/query"
	"github.com/frahmantamala/hr-portal/internal/client/ui"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	"github.com/xuri/excelize/v2"
)

const exportSheet = "Worklogs"

// WorklogCalendarService shows worklogs by day for the user and range
// picked in the WorklogUIStore.
type WorklogCalendarService struct {
	api    WorklogAPI
	ui     *ui.WorklogUIStore
	cache  *query.Cache
	logger *slog.Logger
}

func NewWorklogCalendarService(api WorklogAPI, store *ui.WorklogUIStore, cache *query.Cache, logger *slog.Logger) *WorklogCalendarService {
	return &WorklogCalendarService{
		api:    api,
		ui:     store,
		cache:  cache,
		logger: logger,
	}
}

// Load lists the worklogs matching the current selection. A selected user
// of 0 lists everyone's.
func (s *WorklogCalendarService) Load(ctx context.Context) ([]models.Worklog, error) {
	sel := s.ui.Snapshot()
	from, to := sel.DateRange.Bounds()
	key := query.K("worklogs", sel.SelectedUserID, from, to)
	return query.Fetch(ctx, s.cache, key, func(ctx context.Context) ([]models.Worklog, error) {
		return s.api.ListWorklogs(ctx, api.WorklogFilter{UserID: sel.SelectedUserID, From: from, To: to})
	})
}

// GroupByDate buckets worklogs by their YYYY-MM-DD date, keeping order.
func GroupByDate(worklogs []models.Worklog) map[string][]models.Worklog {
	out := make(map[string][]models.Worklog)
	for _, w := range worklogs {
		key := calendar.Format(w.Date)
		out[key] = append(out[key], w)
	}
	return out
}

// DayEntries returns the worklogs of the selected date, or nil when no
// date is selected.
func (s *WorklogCalendarService) DayEntries(ctx context.Context) ([]models.Worklog, error) {
	selected := s.ui.Snapshot().SelectedDate
	if selected == nil {
		return nil, nil
	}
	worklogs, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return GroupByDate(worklogs)[calendar.Format(*selected)], nil
}

// Export writes the current selection as an xlsx workbook, sorted by date.
func (s *WorklogCalendarService) Export(ctx context.Context, w io.Writer) error {
	worklogs, err := s.Load(ctx)
	if err != nil {
		return err
	}
	sorted := append([]models.Worklog(nil), worklogs...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.Warn("failed to close workbook", "error", err)
		}
	}()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	headers := []string{"Date", "User", "Start", "End", "Break (min)", "Day off", "Description", "Worked (h)"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for i, wl := range sorted {
		row := []any{
			calendar.Format(wl.Date),
			wl.UserID,
			clockText(wl.StartTime),
			clockText(wl.EndTime),
			valueOr(wl.BreakMinutes, 0),
			wl.IsDayOff,
			valueOr(wl.Description, ""),
			float64(wl.WorkedMinutes()) / 60,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(exportSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.logger.Info("worklogs exported", "rows", len(sorted))
	return nil
}

func clockText(c *models.ClockTime) string {
	if c == nil {
		return ""
	}
	return c.String()
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
