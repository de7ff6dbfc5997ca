package rest_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"time"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/core/datamodel"
	userDatamodel "github.com/frahmantamala/hr-portal/internal/core/datamodel/user"
	"github.com/frahmantamala/hr-portal/internal/filestore"
	"github.com/frahmantamala/hr-portal/internal/transport/rest"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var _ = Describe("Server", func() {
	var (
		handler   http.Handler
		uploadDir string
	)

	BeforeEach(func() {
		db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(datamodel.AutoMigrate(db)).To(Succeed())

		Expect(db.Create(&userDatamodel.User{
			FullName:      "Ivan Ivanov",
			Position:      "Engineer",
			Department:    "R&D",
			Email:         "ivan.ivanov@example.com",
			PasswordHash:  "-",
			WorkStartDate: "2020-03-01",
		}).Error).To(Succeed())

		uploadDir, err = os.MkdirTemp("", "rest-uploads")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, uploadDir)

		store, err := filestore.NewLocalStore(uploadDir, "/uploads")
		Expect(err).NotTo(HaveOccurred())

		cfg := &internal.Config{
			Server:   internal.ServerConfig{AllowedOrigins: "http://localhost:3000"},
			Database: internal.DatabaseConfig{Driver: "sqlite"},
			Security: internal.SecurityConfig{
				JWTSecret:           "test-secret-test-secret-test-secret",
				AccessTokenDuration: time.Hour,
				DemoLogin:           true,
				DemoUserEmail:       "ivan.ivanov@example.com",
			},
			Storage: internal.StorageConfig{
				MaxFileSize:  1 << 20,
				AllowedTypes: []string{"image/png"},
			},
			API: internal.APIConfig{ValidateRequests: true, DocsEnabled: true},
		}

		handler, err = rest.NewServer(rest.Dependencies{
			Config:  cfg,
			DB:      db,
			Avatars: store,
			Logger:  logger.Discard(),
		})
		Expect(err).NotTo(HaveOccurred())
	})

	do := func(method, target, body string, headers ...string) *httptest.ResponseRecorder {
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
		}
		for i := 0; i+1 < len(headers); i += 2 {
			req.Header.Set(headers[i], headers[i+1])
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) map[string]interface{} {
		var body map[string]interface{}
		Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(Succeed())
		return body
	}

	Describe("health", func() {
		It("should answer ping", func() {
			w := do(http.MethodGet, "/api/ping", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(decode(w)).To(HaveKeyWithValue("status", "OK"))
		})

		It("should report the database component", func() {
			w := do(http.MethodGet, "/api/health", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			body := decode(w)
			Expect(body).To(HaveKeyWithValue("status", "healthy"))
			Expect(body["components"]).To(HaveKey("sqlite"))
		})
	})

	Describe("login", func() {
		It("should sign any credentials in as the demo user", func() {
			w := do(http.MethodPost, "/api/login", `{"email":"someone@example.com","password":"whatever1"}`)
			Expect(w.Code).To(Equal(http.StatusOK))

			body := decode(w)
			Expect(body["token"]).NotTo(BeEmpty())
			Expect(body["user"]).To(HaveKeyWithValue("email", "ivan.ivanov@example.com"))
			Expect(body["user"]).To(HaveKeyWithValue("workStartDate", "2020-03-01"))
		})

		It("should answer 400 with a message when the password is empty", func() {
			w := do(http.MethodPost, "/api/login", `{"email":"someone@example.com","password":""}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)).To(HaveKey("message"))
		})
	})

	Describe("request validation", func() {
		It("should reject a body that does not match the document", func() {
			w := do(http.MethodPost, "/api/worklogs", `{"date":"2024-01-10","userId":"one"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(decode(w)).To(HaveKeyWithValue("code", "VALIDATION_FAILED"))
		})

		It("should reject a non-numeric path id", func() {
			w := do(http.MethodGet, "/api/news/abc", "")
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("worklogs", func() {
		It("should attribute a worklog without userId to the bearer of the token", func() {
			login := decode(do(http.MethodPost, "/api/login", `{"email":"a@b.co","password":"secret123"}`))
			token := login["token"].(string)

			w := do(http.MethodPost, "/api/worklogs", `{"date":"2024-01-10","startTime":"09:00","endTime":null}`,
				"Authorization", "Bearer "+token)
			Expect(w.Code).To(Equal(http.StatusCreated))
			Expect(decode(w)).To(HaveKeyWithValue("userId", BeNumerically("==", 1)))
		})

		It("should answer 404 when deleting a missing id", func() {
			w := do(http.MethodDelete, "/api/worklogs/999", "")
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("news", func() {
		It("should create and list news newest first", func() {
			Expect(do(http.MethodPost, "/api/news", `{"title":"First","content":"a"}`).Code).To(Equal(http.StatusCreated))
			Expect(do(http.MethodPost, "/api/news", `{"title":"Second","content":"b","author":"HR"}`).Code).To(Equal(http.StatusCreated))

			w := do(http.MethodGet, "/api/news", "")
			Expect(w.Code).To(Equal(http.StatusOK))

			var items []map[string]interface{}
			Expect(json.Unmarshal(w.Body.Bytes(), &items)).To(Succeed())
			Expect(items).To(HaveLen(2))
			Expect(items[0]["title"]).To(Equal("Second"))
			Expect(items[1]["author"]).To(Equal("Admin"))
		})
	})

	Describe("avatars", func() {
		It("should store the upload and serve it back", func() {
			body := &bytes.Buffer{}
			mw := multipart.NewWriter(body)
			h := make(textproto.MIMEHeader)
			h.Set("Content-Disposition", `form-data; name="file"; filename="me.png"`)
			h.Set("Content-Type", "image/png")
			part, err := mw.CreatePart(h)
			Expect(err).NotTo(HaveOccurred())
			png := []byte("\x89PNG\r\n\x1a\n0000")
			_, err = part.Write(png)
			Expect(err).NotTo(HaveOccurred())
			Expect(mw.Close()).To(Succeed())

			req := httptest.NewRequest(http.MethodPost, "/api/upload-avatar", body)
			req.Header.Set("Content-Type", mw.FormDataContentType())
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			url, _ := decode(w)["avatarUrl"].(string)
			Expect(url).To(HavePrefix("/uploads/avatars/"))

			served := do(http.MethodGet, url, "")
			Expect(served.Code).To(Equal(http.StatusOK))
			Expect(served.Body.Bytes()).To(Equal(png))
		})
	})

	Describe("docs and cross-cutting headers", func() {
		It("should serve the OpenAPI document", func() {
			w := do(http.MethodGet, "/openapi.yml", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(ContainSubstring("openapi: 3.0.3"))
		})

		It("should echo a trace id", func() {
			w := do(http.MethodGet, "/api/ping", "", "X-Trace-ID", "trace-123")
			Expect(w.Header().Get("X-Trace-ID")).To(Equal("trace-123"))
		})

		It("should answer CORS preflight for an allowed origin", func() {
			w := do(http.MethodOptions, "/api/news", "",
				"Origin", "http://localhost:3000",
				"Access-Control-Request-Method", "POST")
			Expect(w.Code).To(Equal(http.StatusNoContent))
			Expect(w.Header().Get("Access-Control-Allow-Origin")).To(Equal("http://localhost:3000"))
		})
	})
})
