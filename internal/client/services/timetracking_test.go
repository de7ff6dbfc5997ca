package services_test

import (
	"context"
	"errors"
	"time"

	apperrors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/client/api"
	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/client/services"
	"github.com/frahmantamala/hr-portal/internal/client/ui"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	worklogDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/worklog"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func clock(s string) *models.ClockTime {
	c, err := models.ParseClockTime(s)
	Expect(err).NotTo(HaveOccurred())
	return &c
}

func intPtr(n int) *int { return &n }

var _ = Describe("TimeTrackingService", func() {
	var (
		ctx context.Context
		a   *app
		now time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		a = newApp(ctx)
		a.loginMember(ctx)
		now = time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
		a.tracking.WithClock(func() time.Time { return now })
	})

	It("should require a signed-in user", func() {
		Expect(a.auth.Logout(ctx)).To(Succeed())
		_, err := a.tracking.StartDay(ctx)
		Expect(err).To(MatchError(services.ErrNotAuthenticated))
	})

	It("should start and end a day", func() {
		started, err := a.tracking.StartDay(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(started.StartTime.String()).To(Equal("09:00"))
		Expect(started.EndTime).To(BeNil())
		Expect(calendar.Format(started.Date)).To(Equal("2024-01-10"))
		Expect(a.trackingUI.Snapshot().IsLogging).To(BeTrue())

		now = now.Add(8*time.Hour + 30*time.Minute)
		ended, err := a.tracking.EndDay(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(ended.ID).To(Equal(started.ID))
		Expect(ended.EndTime.String()).To(Equal("17:30"))
		Expect(a.trackingUI.Snapshot().IsLogging).To(BeFalse())
	})

	It("should keep at most one open shift through repeated starts and ends", func() {
		_, err := a.tracking.StartDay(ctx)
		Expect(err).NotTo(HaveOccurred())

		_, err = a.tracking.StartDay(ctx)
		Expect(err).To(MatchError(services.ErrShiftAlreadyOpen))

		_, err = a.tracking.EndDay(ctx)
		Expect(err).NotTo(HaveOccurred())
		_, err = a.tracking.EndDay(ctx)
		Expect(err).To(MatchError(services.ErrNoActiveShift))

		_, err = a.tracking.StartDay(ctx)
		Expect(err).NotTo(HaveOccurred())

		worklogs, err := a.tracking.Worklogs(ctx)
		Expect(err).NotTo(HaveOccurred())
		open := 0
		for _, w := range worklogs {
			if w.EndTime == nil {
				open++
			}
		}
		Expect(open).To(Equal(1))
	})

	It("should map a server conflict to ErrShiftAlreadyOpen", func() {
		// another device opened a shift after this list was cached
		open, err := a.tracking.OpenShift(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(open).To(BeNil())
		start := "08:00"
		Expect(a.srv.DB.Create(&worklogDatamodel.Worklog{
			UserID:    a.srv.UserID,
			WorkDate:  "2024-01-10",
			StartTime: &start,
		}).Error).To(Succeed())

		_, err = a.tracking.StartDay(ctx)
		Expect(err).To(MatchError(services.ErrShiftAlreadyOpen))
		Expect(api.StatusOf(err)).To(Equal(409))
	})

	It("should create, edit and delete through the form", func() {
		saved, err := a.tracking.Save(ctx, services.WorklogForm{
			Date:         calendar.FromTime(now),
			StartTime:    clock("10:00"),
			EndTime:      clock("18:00"),
			BreakMinutes: 60,
			Description:  "release",
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(saved.WorkedMinutes()).To(Equal(420))

		a.trackingUI.SetEditing(saved.ID)
		edited, err := a.tracking.Save(ctx, services.WorklogForm{
			Date:      calendar.FromTime(now),
			StartTime: clock("10:00"),
			EndTime:   clock("19:00"),
			IsDayOff:  true,
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(edited.ID).To(Equal(saved.ID))
		Expect(edited.IsDayOff).To(BeTrue())
		Expect(edited.StartTime).To(BeNil())
		Expect(edited.EndTime).To(BeNil())
		Expect(a.trackingUI.Snapshot().EditingWorklogID).To(BeZero())

		Expect(a.tracking.Delete(ctx, saved.ID)).To(Succeed())
		err = a.tracking.Delete(ctx, saved.ID)
		Expect(errors.Is(err, api.ErrNotFound)).To(BeTrue())
	})

	It("should reject an end before the start without calling the server", func() {
		_, err := a.tracking.Save(ctx, services.WorklogForm{
			Date:      calendar.FromTime(now),
			StartTime: clock("18:00"),
			EndTime:   clock("09:00"),
		})
		var appErr *apperrors.AppError
		Expect(errors.As(err, &appErr)).To(BeTrue())
		Expect(appErr.FieldErrors()[0].Field).To(Equal("endTime"))

		worklogs, err := a.tracking.Worklogs(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(worklogs).To(BeEmpty())
	})

	It("should refetch after a mutation", func() {
		worklogs, err := a.tracking.Worklogs(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(worklogs).To(BeEmpty())

		_, err = a.tracking.StartDay(ctx)
		Expect(err).NotTo(HaveOccurred())

		worklogs, err = a.tracking.Worklogs(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(worklogs).To(HaveLen(1))
	})

	Describe("date range", func() {
		closedShift := func(day string) {
			start, end, lunch := "09:00", "18:00", 60
			Expect(a.srv.DB.Create(&worklogDatamodel.Worklog{
				UserID:       a.srv.UserID,
				WorkDate:     day,
				StartTime:    &start,
				EndTime:      &end,
				BreakMinutes: &lunch,
			}).Error).To(Succeed())
		}

		BeforeEach(func() {
			closedShift("2024-01-02")
			closedShift("2024-01-03")
			closedShift("2024-01-08")
			closedShift("2024-01-14")
			closedShift("2024-01-15")
		})

		It("should default to the week containing now", func() {
			from, to := a.tracking.Range()
			Expect(calendar.Key(*from)).To(Equal("2024-01-08"))
			Expect(calendar.Key(*to)).To(Equal("2024-01-14"))

			worklogs, err := a.tracking.Worklogs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(worklogs).To(HaveLen(2))

			stats := services.Stats(worklogs)
			Expect(stats.TotalHours).To(Equal(16.0))
			Expect(stats.Percent).To(Equal(40))
		})

		It("should follow a chosen range and every date", func() {
			a.trackingUI.SetDateRange(&ui.DateRange{
				From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local),
				To:   time.Date(2024, 1, 7, 23, 59, 59, 999999999, time.Local),
			})
			worklogs, err := a.tracking.Worklogs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(worklogs).To(HaveLen(2))
			Expect(calendar.Format(worklogs[0].Date)).To(BeElementOf("2024-01-02", "2024-01-03"))

			a.trackingUI.ShowAllDates()
			worklogs, err = a.tracking.Worklogs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(worklogs).To(HaveLen(5))
			Expect(services.Stats(worklogs).Percent).To(Equal(100))

			a.trackingUI.SetDateRange(nil)
			worklogs, err = a.tracking.Worklogs(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(worklogs).To(HaveLen(2))
		})

		It("should find a shift left open in an earlier week", func() {
			start := "08:00"
			Expect(a.srv.DB.Create(&worklogDatamodel.Worklog{
				UserID:    a.srv.UserID,
				WorkDate:  "2024-01-05",
				StartTime: &start,
			}).Error).To(Succeed())

			_, err := a.tracking.StartDay(ctx)
			Expect(err).To(MatchError(services.ErrShiftAlreadyOpen))
			Expect(api.StatusOf(err)).To(BeZero())

			ended, err := a.tracking.EndDay(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(calendar.Format(ended.Date)).To(Equal("2024-01-05"))
		})
	})
})

var _ = Describe("Stats", func() {
	It("should sum completed shifts only", func() {
		stats := services.Stats([]models.Worklog{
			{StartTime: clock("09:00"), EndTime: clock("18:00"), BreakMinutes: intPtr(60)},
			{StartTime: clock("09:00"), EndTime: clock("13:30")},
			{StartTime: clock("09:00")},
			{IsDayOff: true},
			{StartTime: clock("09:00"), EndTime: clock("09:30"), BreakMinutes: intPtr(45)},
		})
		Expect(stats.TotalMinutes).To(Equal(750))
		Expect(stats.TotalHours).To(Equal(12.5))
		Expect(stats.Percent).To(Equal(31))
	})

	It("should cap the week at 100 percent", func() {
		var worklogs []models.Worklog
		for i := 0; i < 6; i++ {
			worklogs = append(worklogs, models.Worklog{StartTime: clock("08:00"), EndTime: clock("17:00")})
		}
		stats := services.Stats(worklogs)
		Expect(stats.TotalMinutes).To(Equal(3240))
		Expect(stats.Percent).To(Equal(100))
		Expect(stats.TotalHours).To(Equal(54.0))
	})
})
