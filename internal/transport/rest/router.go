package rest

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/frahmantamala/hr-portal/api"
	"github.com/frahmantamala/hr-portal/internal/auth"
	"github.com/frahmantamala/hr-portal/internal/news"
	"github.com/frahmantamala/hr-portal/internal/transport/middleware"
	"github.com/frahmantamala/hr-portal/internal/transport/swagger"
	"github.com/frahmantamala/hr-portal/internal/user"
	"github.com/frahmantamala/hr-portal/internal/worklog"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	"github.com/go-chi/chi"
)

type Handlers struct {
	Auth    *auth.Handler
	User    *user.Handler
	Worklog *worklog.Handler
	News    *news.Handler
	Health  *HealthHandler
}

type Options struct {
	Logger           *slog.Logger
	AllowedOrigins   string
	ValidateRequests bool
	DocsEnabled      bool
	// Identify resolves bearer tokens; nil leaves every request anonymous.
	Identify middleware.IdentifyFunc
	// UploadDir is served under UploadPrefix when both are set.
	UploadDir    string
	UploadPrefix string
}

func RegisterAllRoutes(router *chi.Mux, h Handlers, opts Options) error {
	if opts.Logger == nil {
		opts.Logger = logger.LoggerWrapper()
	}

	router.Use(middleware.ContextLogger(opts.Logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recovery)
	router.Use(middleware.CORS(strings.Split(opts.AllowedOrigins, ",")))
	router.Use(middleware.Logging)

	if opts.DocsEnabled {
		router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/yaml")
			w.Write(api.OpenAPI)
		})
		router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))
	}

	if opts.UploadDir != "" && opts.UploadPrefix != "" {
		prefix := "/" + strings.Trim(opts.UploadPrefix, "/")
		files := http.StripPrefix(prefix, http.FileServer(http.Dir(opts.UploadDir)))
		router.Handle(prefix+"/*", files)
	}

	var validate func(http.Handler) http.Handler
	if opts.ValidateRequests {
		doc, err := middleware.LoadOpenAPI(api.OpenAPI)
		if err != nil {
			return err
		}
		validate, err = middleware.ValidateRequests(doc)
		if err != nil {
			return fmt.Errorf("request validator: %w", err)
		}
	}

	router.Route("/api", func(r chi.Router) {
		if validate != nil {
			r.Use(validate)
		}
		if opts.Identify != nil {
			r.Use(middleware.IdentifyUser(opts.Identify))
		}

		if h.Health != nil {
			r.Get("/health", h.Health.Health)
			r.Get("/ping", h.Health.Ping)
		}

		if h.Auth != nil {
			r.Post("/login", h.Auth.Login)
		}

		if h.User != nil {
			r.Get("/user/{id}", h.User.GetUser)
			r.Put("/user/{id}", h.User.UpdateUser)
			r.Post("/upload-avatar", h.User.UploadAvatar)
		}

		if h.Worklog != nil {
			r.Route("/worklogs", func(wr chi.Router) {
				wr.Get("/", h.Worklog.ListWorklogs)
				wr.Post("/", h.Worklog.CreateWorklog)
				wr.Put("/{id}", h.Worklog.UpdateWorklog)
				wr.Delete("/{id}", h.Worklog.DeleteWorklog)
			})
		}

		if h.News != nil {
			r.Route("/news", func(nr chi.Router) {
				nr.Get("/", h.News.ListNews)
				nr.Post("/", h.News.CreateNews)
				nr.Get("/{id}", h.News.GetNews)
				nr.Put("/{id}", h.News.UpdateNews)
				nr.Delete("/{id}", h.News.DeleteNews)
			})
		}
	})

	return nil
}
