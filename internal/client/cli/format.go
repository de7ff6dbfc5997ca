package cli

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
)

const displayTime = "02.01.2006 15:04"

func printUser(w io.Writer, u models.User) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", u.FullName)
	fmt.Fprintf(tw, "Position:\t%s\n", u.Position)
	fmt.Fprintf(tw, "Department:\t%s\n", u.Department)
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Phone:\t%s\n", orDash(deref(u.Phone)))
	fmt.Fprintf(tw, "Working since:\t%s\n", u.WorkStartDate.Format("02.01.2006"))
	if u.AvatarURL != nil {
		fmt.Fprintf(tw, "Avatar:\t%s\n", *u.AvatarURL)
	}
	if u.IsAdmin {
		fmt.Fprintf(tw, "Role:\tadministrator\n")
	}
	tw.Flush()
}

func printWorklogs(w io.Writer, list []models.Worklog) {
	if len(list) == 0 {
		fmt.Fprintln(w, "No worklogs.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDate\tUser\tStart\tEnd\tBreak\tDay off\tDescription")
	for _, wl := range list {
		dayOff := ""
		if wl.IsDayOff {
			dayOff = "yes"
		}
		breakMinutes := ""
		if wl.BreakMinutes != nil {
			breakMinutes = fmt.Sprint(*wl.BreakMinutes)
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			wl.ID, wl.Date.Format("02.01.2006"), wl.UserID,
			clockOrUnknown(wl.StartTime), clockOrUnknown(wl.EndTime),
			breakMinutes, dayOff, deref(wl.Description))
	}
	tw.Flush()
}

func printCalendar(w io.Writer, byDate map[string][]models.Worklog) {
	if len(byDate) == 0 {
		fmt.Fprintln(w, "No worklogs for the selected filters.")
		return
	}
	days := make([]string, 0, len(byDate))
	for d := range byDate {
		days = append(days, d)
	}
	sort.Strings(days)

	for _, day := range days {
		d, err := calendar.ParseDate(day)
		label := day
		if err == nil {
			label = d.Format("Mon 02.01.2006")
		}
		fmt.Fprintln(w, label)
		for _, wl := range byDate[day] {
			if wl.IsDayOff {
				fmt.Fprintf(w, "  #%d user %d: day off\n", wl.ID, wl.UserID)
				continue
			}
			fmt.Fprintf(w, "  #%d user %d: %s - %s %s\n", wl.ID, wl.UserID,
				clockOrUnknown(wl.StartTime), clockOrUnknown(wl.EndTime), deref(wl.Description))
		}
	}
}

func printNews(w io.Writer, items []models.NewsItem) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No news.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPublished\tAuthor\tTitle")
	for _, n := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", itoa(n.ID), n.CreatedAt.Local().Format(displayTime), n.Author, n.Title)
	}
	tw.Flush()
}

func printNewsItem(w io.Writer, n models.NewsItem) {
	fmt.Fprintf(w, "%s\n%s, %s\n\n%s\n", n.Title, n.Author, n.CreatedAt.Local().Format(displayTime), n.Content)
	if n.UpdatedAt != nil {
		fmt.Fprintf(w, "\n(edited %s)\n", n.UpdatedAt.Local().Format(displayTime))
	}
}

func clockOrUnknown(c *models.ClockTime) string {
	if c == nil {
		return "?"
	}
	return c.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
