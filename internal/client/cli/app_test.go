package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frahmantamala/hr-portal/internal/client/api"
	"github.com/frahmantamala/hr-portal/internal/client/cli"
	"github.com/frahmantamala/hr-portal/internal/client/clienttest"
	"github.com/frahmantamala/hr-portal/internal/client/query"
	"github.com/frahmantamala/hr-portal/internal/client/services"
	"github.com/frahmantamala/hr-portal/internal/client/session"
	"github.com/frahmantamala/hr-portal/internal/client/storage"
	"github.com/frahmantamala/hr-portal/internal/client/ui"
	newsDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/news"
	"github.com/frahmantamala/hr-portal/internal/core/events"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("REPL", func() {
	var (
		ctx  context.Context
		deps cli.Deps
		sess *session.Store
		srv  *clienttest.Server
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		srv, err = clienttest.Start(clienttest.Options{StrictLogin: true})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(srv.Close)

		db, err := storage.Open(ctx, ":memory:")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)

		lg := logger.Discard()
		bus := events.NewEventBus(lg)
		sess = session.NewStore(storage.NewSQLiteRepository(db), bus, lg)
		cache := query.NewCache(query.Options{}, bus, lg)
		client := api.NewClient(api.Config{BaseURL: srv.URL}, sess, lg)

		deps = cli.Deps{
			Session:    sess,
			NewsUI:     ui.NewNewsUIStore(bus, lg),
			ProfileUI:  ui.NewProfileUIStore(bus, lg),
			TrackingUI: ui.NewTimeTrackingUIStore(bus, lg),
			WorklogUI:  ui.NewWorklogUIStore(bus, lg),
			Logger:     lg,
		}
		deps.Auth = services.NewAuthService(client, sess, cache, lg)
		deps.Tracking = services.NewTimeTrackingService(client, sess, deps.TrackingUI, cache, lg)
		deps.Calendar = services.NewWorklogCalendarService(client, deps.WorklogUI, cache, lg)
		deps.News = services.NewNewsService(client, sess, deps.NewsUI, cache, lg)
		deps.Profile = services.NewProfileService(client, sess, deps.ProfileUI, cache, lg)
	})

	run := func(password string, lines ...string) string {
		var out bytes.Buffer
		app := cli.New(deps, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out, func() (string, error) {
			return password, nil
		})
		Expect(app.Run(ctx)).To(Succeed())
		return out.String()
	}

	It("should ask guests to log in", func() {
		out := run("", "worklogs", "help", "bogus", "exit")
		Expect(out).To(ContainSubstring("Please log in first."))
		Expect(out).To(ContainSubstring("Unknown command: bogus"))
		Expect(out).NotTo(ContainSubstring("worklog add"))
		Expect(out).To(ContainSubstring("Bye!"))
	})

	It("should log in and show the profile", func() {
		out := run(clienttest.AdminPassword, "login", clienttest.AdminEmail, "profile", "exit")
		Expect(out).To(ContainSubstring("Welcome, Иван Иванов!"))
		Expect(out).To(ContainSubstring("Team Lead"))
		Expect(out).To(ContainSubstring("administrator"))
		Expect(sess.IsAuthenticated()).To(BeTrue())
	})

	It("should list field errors for a malformed login", func() {
		out := run("short", "login", "nobody", "exit")
		Expect(out).To(ContainSubstring("Please fix:"))
		Expect(out).To(ContainSubstring("email:"))
		Expect(out).To(ContainSubstring("password:"))
		Expect(sess.IsAuthenticated()).To(BeFalse())
	})

	It("should track a day and report the total", func() {
		out := run(clienttest.UserPassword,
			"login", clienttest.UserEmail,
			"start",
			"start",
			"end",
			"worklogs",
			"exit",
		)
		Expect(out).To(ContainSubstring("Day started at"))
		Expect(out).To(ContainSubstring("Error: a shift is already open"))
		Expect(out).To(ContainSubstring("Day ended at"))
		Expect(out).To(ContainSubstring("Total:"))
	})

	It("should total only the chosen range", func() {
		out := run(clienttest.UserPassword,
			"login", clienttest.UserEmail,
			"worklog add", "2020-01-06", "n", "09:00", "18:00", "60", "",
			"worklog add", "2020-01-07", "n", "09:00", "18:00", "60", "",
			"worklogs",
			"worklogs 2020-01-06 2020-01-06",
			"worklogs all",
			"exit",
		)
		Expect(out).To(ContainSubstring("Total: 0.0 h (0% of a 40 h week)"))
		Expect(out).To(ContainSubstring("Range: 2020-01-06 - 2020-01-06"))
		Expect(out).To(ContainSubstring("Total: 8.0 h (20% of a 40 h week)"))
		Expect(out).To(ContainSubstring("Range: all dates"))
		Expect(out).To(ContainSubstring("Total: 16.0 h (40% of a 40 h week)"))
	})

	It("should include news published in the last second of the end date", func() {
		for _, n := range []newsDatamodel.NewsItem{
			{Title: "late edition", Content: "x", Author: "Admin", CreatedAt: time.Date(2024, 1, 10, 23, 59, 59, 400_000_000, time.UTC)},
			{Title: "next morning", Content: "x", Author: "Admin", CreatedAt: time.Date(2024, 1, 11, 0, 0, 0, 0, time.UTC)},
		} {
			Expect(srv.DB.Create(&n).Error).To(Succeed())
		}

		out := run(clienttest.UserPassword,
			"login", clienttest.UserEmail,
			"news 2024-01-10 2024-01-10",
			"exit",
		)
		Expect(out).To(ContainSubstring("late edition"))
		Expect(out).NotTo(ContainSubstring("next morning"))
	})

	It("should add a worklog through prompts and show it on its day", func() {
		out := run(clienttest.UserPassword,
			"login", clienttest.UserEmail,
			"worklog add", "2024-01-10", "n", "09:00", "18:00", "60", "planning",
			"calendar all 2024-01-01 2024-01-31",
			"day 2024-01-10",
			"exit",
		)
		Expect(out).To(ContainSubstring("saved."))
		Expect(out).To(ContainSubstring("Wed 10.01.2024"))
		Expect(out).To(ContainSubstring("planning"))
	})

	It("should export the calendar", func() {
		path := filepath.Join(GinkgoT().TempDir(), "worklogs.xlsx")
		out := run(clienttest.UserPassword,
			"login", clienttest.UserEmail,
			"worklog add", "2024-01-10", "y", "",
			"export "+path,
			"exit",
		)
		Expect(out).To(ContainSubstring("Exported to"))

		f, err := excelize.OpenFile(path)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		rows, err := f.GetRows("Worklogs")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(2))
	})

	It("should let an admin publish and read news", func() {
		out := run(clienttest.AdminPassword,
			"login", clienttest.AdminEmail,
			"news add", "Корпоратив", "В пятницу в 18:00", "",
			"news",
			"news show 1",
			"news delete 1",
			"news show 1",
			"exit",
		)
		Expect(out).To(ContainSubstring("News 1 saved."))
		Expect(out).To(ContainSubstring("Корпоратив"))
		Expect(out).To(ContainSubstring("В пятницу в 18:00"))
		Expect(out).To(ContainSubstring("News deleted."))
		Expect(out).To(ContainSubstring("Error: failed to load news item"))
		Expect(deps.NewsUI.Snapshot().IsModalOpen).To(BeFalse())
	})

	It("should refuse news changes to members", func() {
		out := run(clienttest.UserPassword,
			"login", clienttest.UserEmail,
			"news add", "t", "c", "",
			"exit",
		)
		Expect(out).To(ContainSubstring("administrator rights required"))
	})

	It("should edit the profile and upload an avatar", func() {
		avatar := filepath.Join(GinkgoT().TempDir(), "me.png")
		Expect(os.WriteFile(avatar, []byte("\x89PNG\r\n\x1a\n0000"), 0o600)).To(Succeed())

		out := run(clienttest.UserPassword,
			"login", clienttest.UserEmail,
			"profile edit", "", "QA Engineer", "", "", "",
			"avatar "+avatar,
			"logout",
			"exit",
		)
		Expect(out).To(ContainSubstring("Profile updated."))
		Expect(out).To(ContainSubstring("QA Engineer"))
		Expect(out).To(ContainSubstring("Avatar set: /uploads/avatars/"))
		Expect(out).To(ContainSubstring("Logged out."))
		Expect(sess.IsAuthenticated()).To(BeFalse())
	})

	It("should stop at end of input", func() {
		out := run("", "help")
		Expect(out).To(ContainSubstring("Commands:"))
	})
})
