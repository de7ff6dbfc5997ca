package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/client/services"
	"github.com/frahmantamala/hr-portal/internal/client/ui"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
)

func (a *App) login(ctx context.Context, _ []string) error {
	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	password, err := a.promptPassword("Password")
	if err != nil {
		return err
	}
	user, err := a.Auth.Login(ctx, email, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", user.FullName)
	return nil
}

func (a *App) logout(ctx context.Context, _ []string) error {
	if err := a.Auth.Logout(ctx); err != nil {
		return err
	}
	a.ProfileUI.Reset()
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) profile(ctx context.Context, args []string) error {
	user, err := a.Profile.Get(ctx)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		printUser(a.out, user)
		return nil
	}
	if args[0] != "edit" {
		return fmt.Errorf("unknown profile action %q", args[0])
	}

	a.ProfileUI.SetEditMode(true)
	payload, err := a.readProfile(user)
	if err != nil {
		a.ProfileUI.Reset()
		return err
	}
	updated, err := a.Profile.Update(ctx, payload)
	if err != nil {
		a.ProfileUI.Reset()
		return err
	}
	fmt.Fprintln(a.out, "Profile updated.")
	printUser(a.out, updated)
	return nil
}

func (a *App) readProfile(user models.User) (models.UpdateProfilePayload, error) {
	var p models.UpdateProfilePayload
	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"Full name", user.FullName, &p.FullName},
		{"Position", user.Position, &p.Position},
		{"Department", user.Department, &p.Department},
		{"Email", user.Email, &p.Email},
		{"Phone", deref(user.Phone), &p.Phone},
	}
	for _, f := range fields {
		v, err := a.promptDefault(f.label, f.current)
		if err != nil {
			return p, err
		}
		if v != f.current {
			v := v
			*f.dst = &v
		}
	}
	return p, nil
}

func (a *App) avatar(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("file path is required")
	}
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	user, err := a.Profile.UploadAvatar(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Avatar set: %s\n", deref(user.AvatarURL))
	return nil
}

func (a *App) startDay(ctx context.Context, _ []string) error {
	w, err := a.Tracking.StartDay(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Day started at %s.\n", w.StartTime)
	return nil
}

func (a *App) endDay(ctx context.Context, _ []string) error {
	w, err := a.Tracking.EndDay(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Day ended at %s.\n", w.EndTime)
	return nil
}

func (a *App) worklogs(ctx context.Context, args []string) error {
	switch {
	case len(args) == 0:
	case args[0] == "all":
		a.TrackingUI.ShowAllDates()
	case args[0] == "week":
		a.TrackingUI.SetDateRange(nil)
	default:
		r, err := parseRange(args)
		if err != nil {
			return err
		}
		a.TrackingUI.SetDateRange(r)
	}

	list, err := a.Tracking.Worklogs(ctx)
	if err != nil {
		return err
	}
	from, to := a.Tracking.Range()
	if from == nil {
		fmt.Fprintln(a.out, "Range: all dates")
	} else {
		fmt.Fprintf(a.out, "Range: %s - %s\n", calendar.Key(*from), calendar.Key(*to))
	}
	printWorklogs(a.out, list)
	stats := services.Stats(list)
	fmt.Fprintf(a.out, "Total: %.1f h (%d%% of a 40 h week)\n", stats.TotalHours, stats.Percent)
	return nil
}

func (a *App) worklog(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: worklog add|edit <id>|delete <id>")
	}
	switch args[0] {
	case "add":
		a.TrackingUI.SetEditing(0)
		return a.saveWorklog(ctx, models.Worklog{Date: calendar.FromTime(time.Now())})
	case "edit":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		list, err := a.Tracking.Worklogs(ctx)
		if err != nil {
			return err
		}
		for _, w := range list {
			if w.ID == id {
				a.TrackingUI.SetEditing(id)
				return a.saveWorklog(ctx, w)
			}
		}
		return fmt.Errorf("worklog %d not found", id)
	case "delete":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if err := a.Tracking.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "Worklog deleted.")
		return nil
	}
	return fmt.Errorf("unknown worklog action %q", args[0])
}

func (a *App) saveWorklog(ctx context.Context, current models.Worklog) error {
	form, err := a.readWorklog(current)
	if err != nil {
		a.TrackingUI.SetEditing(0)
		return err
	}
	saved, err := a.Tracking.Save(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Worklog %d saved.\n", saved.ID)
	return nil
}

func (a *App) readWorklog(w models.Worklog) (services.WorklogForm, error) {
	var (
		form services.WorklogForm
		err  error
	)
	if form.Date, err = a.promptDate("Date", w.Date); err != nil {
		return form, err
	}
	if form.IsDayOff, err = a.promptBool("Day off", w.IsDayOff); err != nil {
		return form, err
	}
	if !form.IsDayOff {
		if form.StartTime, err = a.promptClock("Start", w.StartTime); err != nil {
			return form, err
		}
		if form.EndTime, err = a.promptClock("End", w.EndTime); err != nil {
			return form, err
		}
		breakMinutes := 0
		if w.BreakMinutes != nil {
			breakMinutes = *w.BreakMinutes
		}
		if form.BreakMinutes, err = a.promptInt("Break (min)", breakMinutes); err != nil {
			return form, err
		}
	}
	if form.Description, err = a.promptDefault("Description", deref(w.Description)); err != nil {
		return form, err
	}
	return form, nil
}

func (a *App) calendar(ctx context.Context, args []string) error {
	if len(args) > 0 {
		userID := int64(0)
		if args[0] != "all" {
			id, err := parseID(args[:1])
			if err != nil {
				return err
			}
			userID = id
		}
		a.WorklogUI.SetSelectedUser(userID)
		r, err := parseRange(args[1:])
		if err != nil {
			return err
		}
		a.WorklogUI.SetDateRange(r)
	}

	list, err := a.Calendar.Load(ctx)
	if err != nil {
		return err
	}
	printCalendar(a.out, services.GroupByDate(list))
	return nil
}

func (a *App) day(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("date is required")
	}
	if args[0] == "clear" {
		a.WorklogUI.ClearSelectedDate()
		return nil
	}
	d, err := calendar.ParseDate(args[0])
	if err != nil {
		return err
	}
	a.WorklogUI.SetSelectedDate(d)

	entries, err := a.Calendar.DayEntries(ctx)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No worklogs on this day.")
		return nil
	}
	printWorklogs(a.out, entries)
	return nil
}

func (a *App) export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("file path is required")
	}
	f, err := os.Create(args[0])
	if err != nil {
		return err
	}
	if err := a.Calendar.Export(ctx, f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Exported to %s.\n", args[0])
	return nil
}

func (a *App) news(ctx context.Context, args []string) error {
	if len(args) == 0 || isDate(args[0]) || args[0] == "all" {
		if len(args) > 0 {
			r, err := parseRange(args)
			if err != nil {
				return err
			}
			a.NewsUI.SetDateRange(r)
		}
		items, err := a.News.List(ctx)
		if err != nil {
			return err
		}
		printNews(a.out, items)
		return nil
	}

	switch args[0] {
	case "show":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		a.NewsUI.SelectNews(id)
		defer a.NewsUI.CloseModal()
		item, err := a.News.Get(ctx, id)
		if err != nil {
			return err
		}
		printNewsItem(a.out, item)
		return nil
	case "add":
		a.NewsUI.SetFormOpen(true, 0)
		return a.saveNews(ctx, models.NewsItem{})
	case "edit":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		item, err := a.News.Get(ctx, id)
		if err != nil {
			return err
		}
		a.NewsUI.SetFormOpen(true, id)
		return a.saveNews(ctx, item)
	case "delete":
		id, err := parseID(args[1:])
		if err != nil {
			return err
		}
		if err := a.News.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(a.out, "News deleted.")
		return nil
	}
	return fmt.Errorf("unknown news action %q", args[0])
}

func (a *App) saveNews(ctx context.Context, current models.NewsItem) error {
	title, err := a.promptDefault("Title", current.Title)
	if err != nil {
		a.NewsUI.SetFormOpen(false, 0)
		return err
	}
	content, err := a.promptMultiline("Content")
	if err != nil {
		a.NewsUI.SetFormOpen(false, 0)
		return err
	}
	if content == "" {
		content = current.Content
	}
	saved, err := a.News.Save(ctx, services.NewsForm{Title: title, Content: content})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "News %d saved.\n", saved.ID)
	return nil
}

// parseRange reads "from to" as two dates; "all" or nothing clears the
// range. The end date is inclusive.
func parseRange(args []string) (*ui.DateRange, error) {
	if len(args) == 0 || args[0] == "all" {
		return nil, nil
	}
	if len(args) < 2 {
		return nil, errors.New("both from and to dates are required")
	}
	from, err := calendar.ParseDate(args[0])
	if err != nil {
		return nil, err
	}
	to, err := calendar.ParseDate(args[1])
	if err != nil {
		return nil, err
	}
	return &ui.DateRange{
		From: from.Time,
		To:   to.Time.Add(24*time.Hour - time.Nanosecond),
	}, nil
}

func isDate(s string) bool {
	_, err := calendar.ParseDate(s)
	return err == nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
