package api_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/frahmantamala/hr-portal/internal/client/api"
	"github.com/frahmantamala/hr-portal/internal/client/clienttest"
	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	"github.com/frahmantamala/hr-portal/internal/core/common/patch"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type staticToken string

func (t staticToken) Token() string { return string(t) }

func mustDate(s string) date.Date {
	d, err := calendar.ParseDate(s)
	Expect(err).NotTo(HaveOccurred())
	return d
}

func clock(s string) *models.ClockTime {
	c, err := models.ParseClockTime(s)
	Expect(err).NotTo(HaveOccurred())
	return &c
}

var _ = Describe("Client against the REST service", func() {
	var (
		srv    *clienttest.Server
		client *api.Client
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		srv, err = clienttest.Start(clienttest.Options{})
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(srv.Close)

		client = api.NewClient(api.Config{BaseURL: srv.URL}, nil, logger.Discard())
		ctx = context.Background()
	})

	Describe("Login", func() {
		It("should return the token and decoded user", func() {
			token, user, err := client.Login(ctx, "anyone@example.com", "whatever1")
			Expect(err).NotTo(HaveOccurred())
			Expect(token).NotTo(BeEmpty())
			Expect(user.ID).To(Equal(srv.AdminID))
			Expect(calendar.Format(user.WorkStartDate)).To(Equal("2020-03-01"))
		})

		It("should surface the server's message", func() {
			_, _, err := client.Login(ctx, "anyone@example.com", "")
			var reqErr *api.RequestError
			Expect(errors.As(err, &reqErr)).To(BeTrue())
			Expect(reqErr.Status).To(Equal(http.StatusBadRequest))
			Expect(reqErr.Message).To(Equal("email and password are required"))
		})
	})

	Describe("worklogs", func() {
		It("should round trip an open shift", func() {
			created, err := client.CreateWorklog(ctx, models.WorklogInput{
				Date:      mustDate("2024-01-10"),
				UserID:    srv.UserID,
				StartTime: clock("09:00"),
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).NotTo(BeZero())

			list, err := client.ListWorklogs(ctx, api.WorklogFilter{UserID: srv.UserID})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(calendar.Format(list[0].Date)).To(Equal("2024-01-10"))
			Expect(list[0].StartTime.String()).To(Equal("09:00"))
			Expect(list[0].EndTime).To(BeNil())
		})

		It("should filter by calendar date range", func() {
			for _, day := range []string{"2024-01-08", "2024-01-10", "2024-01-12"} {
				_, err := client.CreateWorklog(ctx, models.WorklogInput{Date: mustDate(day), UserID: srv.UserID, IsDayOff: true})
				Expect(err).NotTo(HaveOccurred())
			}

			msk := time.FixedZone("MSK", 3*60*60)
			from := time.Date(2024, 1, 9, 0, 0, 0, 0, msk)
			to := time.Date(2024, 1, 10, 23, 59, 0, 0, msk)
			list, err := client.ListWorklogs(ctx, api.WorklogFilter{UserID: srv.UserID, From: &from, To: &to})
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(calendar.Format(list[0].Date)).To(Equal("2024-01-10"))
		})

		It("should close a shift with a patch", func() {
			created, err := client.CreateWorklog(ctx, models.WorklogInput{Date: mustDate("2024-01-10"), UserID: srv.UserID, StartTime: clock("09:00")})
			Expect(err).NotTo(HaveOccurred())

			updated, err := client.UpdateWorklog(ctx, created.ID, models.WorklogPatch{EndTime: patch.Of(*clock("18:30"))})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.EndTime.String()).To(Equal("18:30"))
			Expect(updated.StartTime.String()).To(Equal("09:00"))
		})

		It("should tell a missing delete apart from success", func() {
			created, err := client.CreateWorklog(ctx, models.WorklogInput{Date: mustDate("2024-01-10"), UserID: srv.UserID, IsDayOff: true})
			Expect(err).NotTo(HaveOccurred())

			Expect(client.DeleteWorklog(ctx, created.ID)).To(Succeed())

			err = client.DeleteWorklog(ctx, created.ID)
			Expect(errors.Is(err, api.ErrNotFound)).To(BeTrue())
			Expect(err).To(MatchError(ContainSubstring("failed to delete worklog")))
		})

		It("should report a second open shift as a conflict", func() {
			_, err := client.CreateWorklog(ctx, models.WorklogInput{Date: mustDate("2024-01-10"), UserID: srv.UserID, StartTime: clock("09:00")})
			Expect(err).NotTo(HaveOccurred())

			_, err = client.CreateWorklog(ctx, models.WorklogInput{Date: mustDate("2024-01-11"), UserID: srv.UserID, StartTime: clock("09:00")})
			Expect(api.StatusOf(err)).To(Equal(http.StatusConflict))
		})
	})

	Describe("news", func() {
		It("should create, update and fetch an item", func() {
			created, err := client.CreateNews(ctx, models.NewsInput{Title: "Hello", Content: "World", Author: "HR"})
			Expect(err).NotTo(HaveOccurred())
			Expect(created.UpdatedAt).To(BeNil())

			title := "Hello again"
			updated, err := client.UpdateNews(ctx, created.ID, models.NewsPatch{Title: &title})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.UpdatedAt).NotTo(BeNil())

			got, err := client.GetNews(ctx, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Title).To(Equal("Hello again"))
			Expect(got.Content).To(Equal("World"))
		})

		It("should map a missing item to ErrNotFound", func() {
			_, err := client.GetNews(ctx, 404)
			Expect(errors.Is(err, api.ErrNotFound)).To(BeTrue())
		})
	})

	Describe("profile", func() {
		It("should upload an avatar without changing the user", func() {
			url, err := client.UploadAvatar(ctx, "me.png", strings.NewReader("\x89PNG\r\n\x1a\n0000"))
			Expect(err).NotTo(HaveOccurred())
			Expect(url).To(HavePrefix("/uploads/avatars/"))

			user, err := client.GetUser(ctx, srv.AdminID)
			Expect(err).NotTo(HaveOccurred())
			Expect(user.AvatarURL).To(BeNil())

			user, err = client.UpdateUser(ctx, srv.AdminID, models.UpdateProfilePayload{AvatarURL: &url})
			Expect(err).NotTo(HaveOccurred())
			Expect(*user.AvatarURL).To(Equal(url))
		})
	})
})

var _ = Describe("Client plumbing", func() {
	It("should attach the bearer token", func() {
		var got string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Get("Authorization")
			w.Write([]byte(`[]`))
		}))
		defer server.Close()

		client := api.NewClient(api.Config{BaseURL: server.URL}, staticToken("abc"), logger.Discard())
		_, err := client.ListNews(context.Background(), nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal("Bearer abc"))
	})

	It("should wrap transport failures with the operation message", func() {
		client := api.NewClient(api.Config{BaseURL: "http://127.0.0.1:1"}, nil, logger.Discard())
		_, err := client.ListWorklogs(context.Background(), api.WorklogFilter{})

		var reqErr *api.RequestError
		Expect(errors.As(err, &reqErr)).To(BeTrue())
		Expect(reqErr.Message).To(Equal("failed to load worklogs"))
		Expect(reqErr.Status).To(BeZero())
	})

	It("should report an undecodable body", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id":1,"date":"not a date"}`))
		}))
		defer server.Close()

		client := api.NewClient(api.Config{BaseURL: server.URL}, nil, logger.Discard())
		_, err := client.CreateWorklog(context.Background(), models.WorklogInput{})
		Expect(err).To(MatchError(ContainSubstring("failed to create worklog")))
	})
})
