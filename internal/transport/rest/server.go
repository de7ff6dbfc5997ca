package rest

import (
	"fmt"
	"log/slog"

	"github.com/frahmantamala/hr-portal/internal"
	"github.com/frahmantamala/hr-portal/internal/auth"
	"github.com/frahmantamala/hr-portal/internal/filestore"
	"github.com/frahmantamala/hr-portal/internal/news"
	newsPostgres "github.com/frahmantamala/hr-portal/internal/news/postgres"
	"github.com/frahmantamala/hr-portal/internal/user"
	userPostgres "github.com/frahmantamala/hr-portal/internal/user/postgres"
	"github.com/frahmantamala/hr-portal/internal/worklog"
	worklogPostgres "github.com/frahmantamala/hr-portal/internal/worklog/postgres"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	"github.com/go-chi/chi"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config  *internal.Config
	DB      *gorm.DB
	Avatars filestore.Store
	Logger  *slog.Logger
}

// NewServer builds every repository, service and handler on top of deps and
// returns the routed mux.
func NewServer(deps Dependencies) (*chi.Mux, error) {
	cfg := deps.Config
	lg := deps.Logger
	if lg == nil {
		lg = logger.LoggerWrapper()
	}

	sqlDB, err := deps.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap database handle: %w", err)
	}

	userService := user.NewService(
		userPostgres.NewUserRepository(deps.DB),
		deps.Avatars,
		user.AvatarPolicy{
			MaxFileSize:  cfg.Storage.MaxFileSize,
			AllowedTypes: cfg.Storage.AllowedTypes,
		},
		lg.With("component", "user"),
	)
	worklogService := worklog.NewService(worklogPostgres.NewWorklogRepository(deps.DB), lg.With("component", "worklog"))
	newsService := news.NewService(newsPostgres.NewNewsRepository(deps.DB), lg.With("component", "news"))
	authService := auth.NewService(
		userService,
		auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.AccessTokenDuration),
		auth.Options{
			DemoLogin:     cfg.Security.DemoLogin,
			DemoUserEmail: cfg.Security.DemoUserEmail,
		},
		lg.With("component", "auth"),
	)

	handlers := Handlers{
		Auth:    auth.NewHandler(authService),
		User:    user.NewHandler(userService, cfg.Storage.MaxFileSize),
		Worklog: worklog.NewHandler(worklogService),
		News:    news.NewHandler(newsService),
		Health:  NewHealthHandler(map[string]Pinger{cfg.Database.Driver: sqlDB}),
	}

	opts := Options{
		Logger:           lg,
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		ValidateRequests: cfg.API.ValidateRequests,
		DocsEnabled:      cfg.API.DocsEnabled,
		Identify:         authService.IdentifyUser,
	}
	if local, ok := deps.Avatars.(*filestore.LocalStore); ok {
		opts.UploadDir = local.Dir()
		opts.UploadPrefix = local.PublicPrefix()
	}

	router := chi.NewRouter()
	if err := RegisterAllRoutes(router, handlers, opts); err != nil {
		return nil, err
	}
	return router, nil
}
