package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	"golang.org/x/term"
)

// PasswordReader reads a secret without echo.
type PasswordReader func() (string, error)

// TerminalPassword reads from the controlling terminal when stdin is one and
// falls back to a plain line from in otherwise.
func TerminalPassword(in *bufio.Reader) PasswordReader {
	return func() (string, error) {
		fd := int(os.Stdin.Fd())
		if !term.IsTerminal(fd) {
			return readLine(in)
		}
		pw, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}
}

func readLine(in *bufio.Reader) (string, error) {
	line, err := in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// prompt prints label and reads one trimmed line.
func (a *App) prompt(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	return readLine(a.in)
}

// promptDefault keeps current when the answer is empty.
func (a *App) promptDefault(label, current string) (string, error) {
	fmt.Fprintf(a.out, "%s [%s]: ", label, current)
	v, err := readLine(a.in)
	if err != nil {
		return "", err
	}
	if v == "" {
		return current, nil
	}
	return v, nil
}

func (a *App) promptPassword(label string) (string, error) {
	fmt.Fprintf(a.out, "%s: ", label)
	pw, err := a.readPassword()
	fmt.Fprintln(a.out)
	return pw, err
}

func (a *App) promptDate(label string, current date.Date) (date.Date, error) {
	v, err := a.promptDefault(label+" (YYYY-MM-DD)", calendar.Format(current))
	if err != nil {
		return date.Date{}, err
	}
	return calendar.ParseDate(v)
}

// promptClock returns nil for "-" or an empty answer without a default.
func (a *App) promptClock(label string, current *models.ClockTime) (*models.ClockTime, error) {
	def := "-"
	if current != nil {
		def = current.String()
	}
	v, err := a.promptDefault(label+" (HH:mm, - for none)", def)
	if err != nil {
		return nil, err
	}
	if v == "-" {
		return nil, nil
	}
	c, err := models.ParseClockTime(v)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (a *App) promptInt(label string, current int) (int, error) {
	v, err := a.promptDefault(label, strconv.Itoa(current))
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(v)
}

func (a *App) promptBool(label string, current bool) (bool, error) {
	def := "n"
	if current {
		def = "y"
	}
	v, err := a.promptDefault(label+" (y/n)", def)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	}
	return false, fmt.Errorf("answer y or n, not %q", v)
}

// promptMultiline reads lines until an empty one.
func (a *App) promptMultiline(label string) (string, error) {
	fmt.Fprintf(a.out, "%s (empty line to finish):\n", label)
	var lines []string
	for {
		line, err := a.in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		lines = append(lines, line)
		if err != nil {
			break
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

func parseID(args []string) (int64, error) {
	if len(args) == 0 {
		return 0, errors.New("id is required")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", args[0])
	}
	return id, nil
}
