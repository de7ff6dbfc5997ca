package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/frahmantamala/hr-portal/internal/client/api"
	"github.com/frahmantamala/hr-portal/internal/client/cli"
	"github.com/frahmantamala/hr-portal/internal/client/query"
	"github.com/frahmantamala/hr-portal/internal/client/services"
	"github.com/frahmantamala/hr-portal/internal/client/session"
	"github.com/frahmantamala/hr-portal/internal/client/storage"
	"github.com/frahmantamala/hr-portal/internal/client/ui"
	"github.com/frahmantamala/hr-portal/internal/core/events"
	"github.com/frahmantamala/hr-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var serverURL string

var clientCmd = &cobra.Command{
	Use:   "client",
	Short: "Start the interactive terminal client",
	Long:  `Start the interactive terminal client. The session is kept in a local SQLite file between runs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if serverURL != "" {
			cfg.Client.BaseURL = serverURL
		}

		// stdout belongs to the REPL, logs go to a file
		logFile, err := os.OpenFile(cfg.Client.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer logFile.Close()
		lg := logger.Configure(logFile, cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		db, err := storage.Open(ctx, cfg.Client.SessionDB)
		if err != nil {
			return fmt.Errorf("failed to open session store: %w", err)
		}
		defer db.Close()

		bus := events.NewEventBus(lg)
		sess := session.NewStore(storage.NewSQLiteRepository(db), bus, lg)
		if err := sess.Restore(ctx); err != nil {
			return fmt.Errorf("failed to restore session: %w", err)
		}

		client := api.NewClient(api.Config{BaseURL: cfg.Client.BaseURL, Timeout: cfg.Client.Timeout}, sess, lg)
		cache := query.NewCache(query.Options{StaleTime: cfg.Cache.StaleTime, MaxEntries: cfg.Cache.MaxEntries}, bus, lg)

		newsUI := ui.NewNewsUIStore(bus, lg)
		profileUI := ui.NewProfileUIStore(bus, lg)
		trackingUI := ui.NewTimeTrackingUIStore(bus, lg)
		worklogUI := ui.NewWorklogUIStore(bus, lg)

		app := cli.New(cli.Deps{
			Session:    sess,
			Auth:       services.NewAuthService(client, sess, cache, lg),
			Tracking:   services.NewTimeTrackingService(client, sess, trackingUI, cache, lg),
			Calendar:   services.NewWorklogCalendarService(client, worklogUI, cache, lg),
			News:       services.NewNewsService(client, sess, newsUI, cache, lg),
			Profile:    services.NewProfileService(client, sess, profileUI, cache, lg),
			NewsUI:     newsUI,
			ProfileUI:  profileUI,
			TrackingUI: trackingUI,
			WorklogUI:  worklogUI,
			Logger:     lg,
		}, os.Stdin, os.Stdout, nil)

		lg.Info("client started", "server", cfg.Client.BaseURL)
		return app.Run(ctx)
	},
}

func init() {
	clientCmd.Flags().StringVar(&serverURL, "server", "", "server base URL, overrides client.base_url")
}
