package auth_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	apperrors "github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/auth"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/frahmantamala/hr-portal/internal/user"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

const secret = "test-secret-test-secret-test-secret"

// mockUsers implements auth.UserLookup for testing
type mockUsers struct {
	byEmail map[string]*user.User
	err     error
}

func newMockUsers() *mockUsers {
	hash, _ := bcrypt.GenerateFromPassword([]byte("Password1"), bcrypt.MinCost)
	return &mockUsers{byEmail: map[string]*user.User{
		"ivan.ivanov@example.com": {ID: 1, FullName: "Иван Иванов", Email: "ivan.ivanov@example.com", PasswordHash: string(hash), IsAdmin: true},
		"anna@example.com":        {ID: 2, FullName: "Anna", Email: "anna@example.com", PasswordHash: string(hash)},
	}}
}

func (m *mockUsers) GetByEmail(email string) (*user.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.ErrUserNotFound
}

func (m *mockUsers) GetByID(id int64) (*user.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

var _ = Describe("Auth Service", func() {
	var (
		users  *mockUsers
		tokens *auth.JWTTokenGenerator
	)

	BeforeEach(func() {
		users = newMockUsers()
		tokens = auth.NewJWTTokenGenerator(secret, time.Hour)
	})

	Context("in demo mode", func() {
		var service *auth.Service

		BeforeEach(func() {
			service = auth.NewService(users, tokens, auth.Options{
				DemoLogin:     true,
				DemoUserEmail: "ivan.ivanov@example.com",
			}, logger.Discard())
		})

		It("should sign any non-empty credentials in as the demo user", func() {
			resp, err := service.Authenticate(auth.LoginDTO{Email: "someone@else.com", Password: "whatever"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.Token).NotTo(BeEmpty())
			Expect(resp.User.ID).To(Equal(int64(1)))
			Expect(resp.User.IsAdmin).To(BeTrue())
		})

		It("should still require both fields", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "a@b.c"})
			Expect(errors.Is(err, apperrors.ErrMissingCredentials)).To(BeTrue())

			_, err = service.Authenticate(auth.LoginDTO{Password: "x"})
			Expect(errors.Is(err, apperrors.ErrMissingCredentials)).To(BeTrue())
		})
	})

	Context("in strict mode", func() {
		var service *auth.Service

		BeforeEach(func() {
			service = auth.NewService(users, tokens, auth.Options{}, logger.Discard())
		})

		It("should accept the right password", func() {
			resp, err := service.Authenticate(auth.LoginDTO{Email: "anna@example.com", Password: "Password1"})
			Expect(err).NotTo(HaveOccurred())
			Expect(resp.User.ID).To(Equal(int64(2)))

			claims, err := tokens.ValidateToken(resp.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("2"))
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "anna@example.com", Password: "nope"})
			Expect(errors.Is(err, apperrors.ErrInvalidCredentials)).To(BeTrue())
		})

		It("should reject an unknown email", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "ghost@example.com", Password: "Password1"})
			Expect(errors.Is(err, apperrors.ErrInvalidCredentials)).To(BeTrue())
		})

		It("should surface lookup failures as internal errors", func() {
			users.err = errors.New("db down")
			_, err := service.Authenticate(auth.LoginDTO{Email: "anna@example.com", Password: "Password1"})
			appErr, ok := apperrors.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusInternalServerError))
		})
	})

	Describe("IdentifyUser", func() {
		It("should resolve a valid token to its user id", func() {
			service := auth.NewService(users, tokens, auth.Options{}, logger.Discard())
			token, err := tokens.GenerateAccessToken(2, "anna@example.com")
			Expect(err).NotTo(HaveOccurred())

			id, err := service.IdentifyUser(token)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).To(Equal(int64(2)))
		})

		It("should reject a token for a user that no longer exists", func() {
			service := auth.NewService(users, tokens, auth.Options{}, logger.Discard())
			token, _ := tokens.GenerateAccessToken(99, "gone@example.com")

			_, err := service.IdentifyUser(token)
			Expect(errors.Is(err, apperrors.ErrUserNotFound)).To(BeTrue())
		})
	})
})

var _ = Describe("JWTTokenGenerator", func() {
	It("should reject tokens signed with another secret", func() {
		token, err := auth.NewJWTTokenGenerator("another-secret-another-secret-xx", time.Hour).GenerateAccessToken(1, "a@b.c")
		Expect(err).NotTo(HaveOccurred())

		_, err = auth.NewJWTTokenGenerator(secret, time.Hour).ValidateToken(token)
		Expect(errors.Is(err, apperrors.ErrInvalidToken)).To(BeTrue())
	})

	It("should report expired tokens", func() {
		gen := auth.NewJWTTokenGenerator(secret, time.Minute)
		gen.Now = func() time.Time { return time.Now().Add(-time.Hour) }
		token, err := gen.GenerateAccessToken(1, "a@b.c")
		Expect(err).NotTo(HaveOccurred())

		_, err = auth.NewJWTTokenGenerator(secret, time.Minute).ValidateToken(token)
		Expect(errors.Is(err, apperrors.ErrTokenExpired)).To(BeTrue())
	})
})

var _ = Describe("Login Handler", func() {
	var handler *auth.Handler

	BeforeEach(func() {
		service := auth.NewService(newMockUsers(), auth.NewJWTTokenGenerator(secret, time.Hour), auth.Options{
			DemoLogin:     true,
			DemoUserEmail: "ivan.ivanov@example.com",
		}, logger.Discard())
		handler = &auth.Handler{BaseHandler: transport.NewBaseHandler(logger.Discard()), Service: service}
	})

	It("should answer token and user", func() {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"test@example.com","password":"password123"}`))
		w := httptest.NewRecorder()
		handler.Login(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var body map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body["token"]).NotTo(BeEmpty())
		Expect(body["user"]).To(HaveKeyWithValue("fullName", "Иван Иванов"))
	})

	It("should answer 400 with a message when a field is empty", func() {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"","password":"x"}`))
		w := httptest.NewRecorder()
		handler.Login(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var body transport.ErrorResponse
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Message).To(Equal("email and password are required"))
	})
})
