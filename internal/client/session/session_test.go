package session_test

import (
	"context"
	"errors"

	"github.com/frahmantamala/hr-portal/internal/client/models"
	"github.com/frahmantamala/hr-portal/internal/client/session"
	"github.com/frahmantamala/hr-portal/internal/client/storage"
	"github.com/frahmantamala/hr-portal/internal/core/common/calendar"
	"github.com/frahmantamala/hr-portal/internal/core/events"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	"github.com/jmoiron/sqlx"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// failingRepo fails every write after failWrites is set.
type failingRepo struct {
	storage.Repository
	failWrites bool
}

func (r *failingRepo) Set(ctx context.Context, key string, value []byte) error {
	if r.failWrites {
		return errors.New("disk full")
	}
	return r.Repository.Set(ctx, key, value)
}

func (r *failingRepo) SetMany(ctx context.Context, values map[string][]byte) error {
	if r.failWrites {
		return errors.New("disk full")
	}
	return r.Repository.SetMany(ctx, values)
}

var _ = Describe("Store", func() {
	var (
		ctx   context.Context
		db    *sqlx.DB
		repo  *failingRepo
		bus   *events.EventBus
		store *session.Store
		user  models.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		var err error
		db, err = storage.Open(ctx, ":memory:")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(db.Close)

		repo = &failingRepo{Repository: storage.NewSQLiteRepository(db)}
		bus = events.NewEventBus(logger.Discard())
		store = session.NewStore(repo, bus, logger.Discard())

		start, err := calendar.ParseDate("2020-03-01")
		Expect(err).NotTo(HaveOccurred())
		user = models.User{ID: 1, FullName: "Иван Иванов", Email: "ivan.ivanov@example.com", WorkStartDate: start}
	})

	It("should persist both keys on login", func() {
		Expect(store.Login(ctx, "tok", user)).To(Succeed())
		Expect(store.IsAuthenticated()).To(BeTrue())
		Expect(store.User().ID).To(Equal(int64(1)))

		token, err := repo.Get(ctx, session.KeyToken)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(token)).To(Equal("tok"))

		raw, err := repo.Get(ctx, session.KeyUser)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(raw)).To(ContainSubstring(`"workStartDate":"2020-03-01"`))
	})

	It("should restore a persisted session in a new store", func() {
		Expect(store.Login(ctx, "tok", user)).To(Succeed())

		restored := session.NewStore(repo, bus, logger.Discard())
		Expect(restored.Restore(ctx)).To(Succeed())
		Expect(restored.Token()).To(Equal("tok"))
		Expect(restored.User().FullName).To(Equal("Иван Иванов"))
		Expect(calendar.Format(restored.User().WorkStartDate)).To(Equal("2020-03-01"))
	})

	It("should keep the token and drop a corrupt user on restore", func() {
		Expect(repo.Set(ctx, session.KeyToken, []byte("tok"))).To(Succeed())
		Expect(repo.Set(ctx, session.KeyUser, []byte("{not json"))).To(Succeed())

		Expect(store.Restore(ctx)).To(Succeed())
		Expect(store.IsAuthenticated()).To(BeTrue())
		Expect(store.User()).To(BeNil())

		raw, err := repo.Get(ctx, session.KeyUser)
		Expect(err).NotTo(HaveOccurred())
		Expect(raw).To(BeNil())
	})

	It("should start anonymous when nothing is stored", func() {
		Expect(store.Restore(ctx)).To(Succeed())
		Expect(store.IsAuthenticated()).To(BeFalse())
	})

	It("should clear memory and storage on logout", func() {
		Expect(store.Login(ctx, "tok", user)).To(Succeed())
		Expect(store.Logout(ctx)).To(Succeed())

		Expect(store.IsAuthenticated()).To(BeFalse())
		Expect(store.User()).To(BeNil())
		all, err := repo.List(ctx)
		Expect(err).NotTo(HaveOccurred())
		Expect(all).To(BeEmpty())
	})

	It("should leave the session unchanged when persisting fails", func() {
		repo.failWrites = true
		Expect(store.Login(ctx, "tok", user)).NotTo(Succeed())
		Expect(store.IsAuthenticated()).To(BeFalse())
	})

	It("should keep the previous session on disk when the user write fails", func() {
		Expect(store.Login(ctx, "old", user)).To(Succeed())

		// the user row is rejected inside the same write as the token
		_, err := db.ExecContext(ctx, `
			CREATE TRIGGER reject_user BEFORE INSERT ON kv WHEN NEW.key = 'user'
			BEGIN SELECT RAISE(ABORT, 'rejected'); END`)
		Expect(err).NotTo(HaveOccurred())
		other := user
		other.ID = 2
		Expect(store.Login(ctx, "new", other)).NotTo(Succeed())
		Expect(store.Token()).To(Equal("old"))

		restored := session.NewStore(repo, bus, logger.Discard())
		Expect(restored.Restore(ctx)).To(Succeed())
		Expect(restored.Token()).To(Equal("old"))
		Expect(restored.User().ID).To(Equal(int64(1)))
	})

	It("should notify subscribers synchronously until they unsubscribe", func() {
		var seen []session.Snapshot
		unsubscribe := store.Subscribe(func(s session.Snapshot) {
			seen = append(seen, s)
		})

		Expect(store.Login(ctx, "tok", user)).To(Succeed())
		Expect(seen).To(HaveLen(1))
		Expect(seen[0].IsAuthenticated()).To(BeTrue())

		unsubscribe()
		Expect(store.Logout(ctx)).To(Succeed())
		Expect(seen).To(HaveLen(1))
	})

	It("should replace the cached user", func() {
		Expect(store.Login(ctx, "tok", user)).To(Succeed())
		user.Position = "CTO"
		Expect(store.SetUser(ctx, user)).To(Succeed())

		restored := session.NewStore(repo, bus, logger.Discard())
		Expect(restored.Restore(ctx)).To(Succeed())
		Expect(restored.User().Position).To(Equal("CTO"))
	})
})
