package news_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/hr-portal/internal/news"
	newsPostgres "github.com/frahmantamala/hr-portal/internal/news/postgres"
	"github.com/frahmantamala/hr-portal/internal/transport"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("News Handler Integration", func() {
	var router chi.Router

	BeforeEach(func() {
		handler := &news.Handler{
			BaseHandler: transport.NewBaseHandler(logger.Discard()),
			Service:     news.NewService(newsPostgres.NewNewsRepository(openDB()), logger.Discard()),
		}

		router = chi.NewRouter()
		router.Route("/news", func(r chi.Router) {
			r.Get("/", handler.ListNews)
			r.Post("/", handler.CreateNews)
			r.Get("/{id}", handler.GetNews)
			r.Put("/{id}", handler.UpdateNews)
			r.Delete("/{id}", handler.DeleteNews)
		})
	})

	do := func(method, target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, target, strings.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should create, fetch, update and delete a news item", func() {
		w := do(http.MethodPost, "/news", `{"title":"Holiday","content":"Office closed","author":"HR"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))
		var created map[string]interface{}
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created["createdAt"]).NotTo(BeEmpty())
		Expect(created).NotTo(HaveKey("updatedAt"))

		w = do(http.MethodGet, "/news/1", "")
		Expect(w.Code).To(Equal(http.StatusOK))

		w = do(http.MethodPut, "/news/1", `{"content":"Office closed on Friday"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		var updated news.NewsItem
		Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
		Expect(updated.Title).To(Equal("Holiday"))
		Expect(updated.Content).To(Equal("Office closed on Friday"))
		Expect(updated.UpdatedAt).NotTo(BeNil())

		Expect(do(http.MethodDelete, "/news/1", "").Code).To(Equal(http.StatusOK))
		Expect(do(http.MethodGet, "/news/1", "").Code).To(Equal(http.StatusNotFound))
		Expect(do(http.MethodDelete, "/news/1", "").Code).To(Equal(http.StatusNotFound))
	})

	It("should list with date bounds", func() {
		Expect(do(http.MethodPost, "/news", `{"title":"a","content":"b"}`).Code).To(Equal(http.StatusCreated))

		w := do(http.MethodGet, "/news?from=2000-01-01&to=2999-01-01T00:00:00Z", "")
		Expect(w.Code).To(Equal(http.StatusOK))
		var items []news.NewsItem
		Expect(json.NewDecoder(w.Body).Decode(&items)).To(Succeed())
		Expect(items).To(HaveLen(1))

		w = do(http.MethodGet, "/news?to=2000-01-01", "")
		Expect(json.NewDecoder(w.Body).Decode(&items)).To(Succeed())
		Expect(items).To(BeEmpty())
	})

	It("should answer 400 with a message when the title is missing", func() {
		w := do(http.MethodPost, "/news", `{"content":"b"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var body transport.ErrorResponse
		Expect(json.NewDecoder(w.Body).Decode(&body)).To(Succeed())
		Expect(body.Message).To(Equal("title is required"))
	})

	It("should reject a malformed bound", func() {
		Expect(do(http.MethodGet, "/news?from=tomorrow", "").Code).To(Equal(http.StatusBadRequest))
	})
})
