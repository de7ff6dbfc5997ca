// Package cli is the terminal front end of the client: a line-oriented
// REPL over the screen services.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	apperrors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/client/api"
	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/client/services"
	"github.com/frahmantamala/hr-portal/internal/client/ui"
)

// SessionView is what the REPL reads from the session store.
type SessionView interface {
	IsAuthenticated() bool
	User() *models.User
}

type Deps struct {
	Session  SessionView
	Auth     *services.AuthService
	Tracking *services.TimeTrackingService
	Calendar *services.WorklogCalendarService
	News     *services.NewsService
	Profile  *services.ProfileService

	NewsUI     *ui.NewsUIStore
	ProfileUI  *ui.ProfileUIStore
	TrackingUI *ui.TimeTrackingUIStore
	WorklogUI  *ui.WorklogUIStore

	Logger *slog.Logger
}

type App struct {
	Deps

	in           *bufio.Reader
	out          io.Writer
	readPassword PasswordReader
}

// New builds the REPL. A nil password reader reads secrets from the
// terminal when stdin is one.
func New(deps Deps, in io.Reader, out io.Writer, password PasswordReader) *App {
	r := bufio.NewReader(in)
	if password == nil {
		password = TerminalPassword(r)
	}
	return &App{
		Deps:         deps,
		in:           r,
		out:          out,
		readPassword: password,
	}
}

type command struct {
	name    string
	usage   string
	private bool
	run     func(ctx context.Context, args []string) error
}

func (a *App) commands() []command {
	return []command{
		{name: "login", usage: "login", run: a.login},
		{name: "logout", usage: "logout", private: true, run: a.logout},
		{name: "profile", usage: "profile [edit]", private: true, run: a.profile},
		{name: "avatar", usage: "avatar <file>", private: true, run: a.avatar},
		{name: "start", usage: "start", private: true, run: a.startDay},
		{name: "end", usage: "end", private: true, run: a.endDay},
		{name: "worklogs", usage: "worklogs [from to|week|all]", private: true, run: a.worklogs},
		{name: "worklog", usage: "worklog add|edit <id>|delete <id>", private: true, run: a.worklog},
		{name: "calendar", usage: "calendar [userId|all] [from to]", private: true, run: a.calendar},
		{name: "day", usage: "day <YYYY-MM-DD>|clear", private: true, run: a.day},
		{name: "export", usage: "export <file.xlsx>", private: true, run: a.export},
		{name: "news", usage: "news [from to]|show <id>|add|edit <id>|delete <id>", private: true, run: a.news},
	}
}

// Run reads commands until EOF, "exit" or "quit". A failing command is
// reported and the loop continues.
func (a *App) Run(ctx context.Context) error {
	cmds := a.commands()
	for {
		fmt.Fprintf(a.out, "hr %s> ", a.status())
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(a.out)
				return nil
			}
			return err
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		name, args := parts[0], parts[1:]

		switch name {
		case "exit", "quit":
			fmt.Fprintln(a.out, "Bye!")
			return nil
		case "help":
			a.help(cmds)
			continue
		}

		cmd, ok := find(cmds, name)
		switch {
		case !ok:
			fmt.Fprintf(a.out, "Unknown command: %s\n", name)
		case cmd.private && !a.Session.IsAuthenticated():
			fmt.Fprintln(a.out, "Please log in first.")
		default:
			if err := cmd.run(ctx, args); err != nil {
				a.report(name, err)
			}
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func find(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func (a *App) status() string {
	if u := a.Session.User(); u != nil {
		return u.FullName
	}
	if a.Session.IsAuthenticated() {
		return "signed in"
	}
	return "guest"
}

func (a *App) help(cmds []command) {
	fmt.Fprintln(a.out, "Commands:")
	for _, c := range cmds {
		if c.private && !a.Session.IsAuthenticated() {
			continue
		}
		fmt.Fprintf(a.out, "  %s\n", c.usage)
	}
	fmt.Fprintln(a.out, "  help")
	fmt.Fprintln(a.out, "  exit")
}

// report prints err for the user; field errors are listed one per line.
func (a *App) report(cmd string, err error) {
	a.Logger.Warn("command failed", "command", cmd, "error", err)

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if fields := appErr.FieldErrors(); len(fields) > 0 {
			fmt.Fprintln(a.out, "Please fix:")
			for _, f := range fields {
				fmt.Fprintf(a.out, "  %s: %s\n", f.Field, f.Message)
			}
			return
		}
		fmt.Fprintf(a.out, "Error: %s\n", appErr.Message)
		return
	}

	var reqErr *api.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.ServerMessage != "" && reqErr.ServerMessage != reqErr.Message {
			fmt.Fprintf(a.out, "Error: %s (%s)\n", reqErr.Message, reqErr.ServerMessage)
		} else {
			fmt.Fprintf(a.out, "Error: %s\n", reqErr.Message)
		}
		return
	}
	fmt.Fprintf(a.out, "Error: %v\n", err)
}
