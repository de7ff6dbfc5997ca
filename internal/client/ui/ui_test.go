package ui_test

import (
	"time"

	"github.com/frahmantamala/hr-portal/internal/client/ui"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	"github.com/frahmantamala/hr-portal/internal/core/events"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("UI stores", func() {
	var bus *events.EventBus

	BeforeEach(func() {
		bus = events.NewEventBus(logger.Discard())
	})

	Describe("NewsUIStore", func() {
		var store *ui.NewsUIStore

		BeforeEach(func() {
			store = ui.NewNewsUIStore(bus, logger.Discard())
		})

		It("should open the modal on selection and reset it on close", func() {
			store.SelectNews(7)
			Expect(store.Snapshot().IsModalOpen).To(BeTrue())
			Expect(store.Snapshot().SelectedNewsID).To(Equal(int64(7)))

			store.CloseModal()
			Expect(store.Snapshot().IsModalOpen).To(BeFalse())
			Expect(store.Snapshot().SelectedNewsID).To(BeZero())
		})

		It("should forget the edited id when the form closes", func() {
			store.SetFormOpen(true, 3)
			Expect(store.Snapshot().EditingNewsID).To(Equal(int64(3)))

			store.SetFormOpen(false, 3)
			Expect(store.Snapshot().IsFormOpen).To(BeFalse())
			Expect(store.Snapshot().EditingNewsID).To(BeZero())
		})

		It("should copy the date range it is given", func() {
			r := &ui.DateRange{From: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)}
			store.SetDateRange(r)
			r.From = time.Time{}

			Expect(store.Snapshot().DateRange.From.Year()).To(Equal(2024))
		})
	})

	Describe("ProfileUIStore", func() {
		It("should toggle and reset edit mode", func() {
			store := ui.NewProfileUIStore(bus, logger.Discard())
			store.SetEditMode(true)
			Expect(store.Snapshot().IsEditMode).To(BeTrue())
			store.Reset()
			Expect(store.Snapshot().IsEditMode).To(BeFalse())
		})
	})

	Describe("TimeTrackingUIStore", func() {
		It("should notify each change synchronously", func() {
			store := ui.NewTimeTrackingUIStore(bus, logger.Discard())

			var seen []ui.TimeTrackingState
			unsubscribe := store.Subscribe(func(s ui.TimeTrackingState) {
				seen = append(seen, s)
			})

			store.SetLogging(true)
			store.SetEditing(12)
			Expect(seen).To(HaveLen(2))
			Expect(seen[1]).To(Equal(ui.TimeTrackingState{IsLogging: true, EditingWorklogID: 12}))

			unsubscribe()
			store.SetLogging(false)
			Expect(seen).To(HaveLen(2))
		})

		It("should let a subscriber read the store it is notified by", func() {
			store := ui.NewTimeTrackingUIStore(bus, logger.Discard())
			var readBack bool
			store.Subscribe(func(ui.TimeTrackingState) {
				readBack = store.Snapshot().IsLogging
			})

			store.SetLogging(true)
			Expect(readBack).To(BeTrue())
		})

		It("should switch between a chosen range, every date and the current week", func() {
			store := ui.NewTimeTrackingUIStore(bus, logger.Discard())
			Expect(store.Snapshot().DateRange).To(BeNil())
			Expect(store.Snapshot().AllDates).To(BeFalse())

			r := &ui.DateRange{
				From: time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC),
				To:   time.Date(2020, 1, 12, 23, 59, 59, 0, time.UTC),
			}
			store.SetDateRange(r)
			r.From = time.Time{}
			Expect(store.Snapshot().DateRange.From.Day()).To(Equal(6))

			store.ShowAllDates()
			Expect(store.Snapshot().DateRange).To(BeNil())
			Expect(store.Snapshot().AllDates).To(BeTrue())

			store.SetDateRange(nil)
			Expect(store.Snapshot().AllDates).To(BeFalse())
			Expect(store.Snapshot().DateRange).To(BeNil())
		})
	})

	Describe("WorklogUIStore", func() {
		It("should select and clear a date", func() {
			store := ui.NewWorklogUIStore(bus, logger.Discard())
			d, err := calendar.ParseDate("2024-01-10")
			Expect(err).NotTo(HaveOccurred())

			store.SetSelectedUser(2)
			store.SetSelectedDate(d)
			Expect(calendar.Format(*store.Snapshot().SelectedDate)).To(Equal("2024-01-10"))
			Expect(store.Snapshot().SelectedUserID).To(Equal(int64(2)))

			store.ClearSelectedDate()
			Expect(store.Snapshot().SelectedDate).To(BeNil())
		})

		It("should not deliver other stores' changes", func() {
			worklogs := ui.NewWorklogUIStore(bus, logger.Discard())
			profile := ui.NewProfileUIStore(bus, logger.Discard())

			calls := 0
			worklogs.Subscribe(func(ui.WorklogState) { calls++ })
			profile.SetEditMode(true)
			Expect(calls).To(BeZero())
		})
	})
})
