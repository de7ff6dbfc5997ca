package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/hr-portal/internal/core/datamodel"
	"github.com/frahmantamala/hr-portal/internal/transport/rest"
	"github.com/spf13/cobra"
)

var autoMigrate bool

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server that serves the HR portal REST API`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return startHTTPServer()
	},
}

func init() {
	serverCmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "create or update the schema before serving")
}

func startHTTPServer() error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg := setupLogger(cfg)

	db, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDB(db); err != nil {
			lg.Error("Database close error", "error", err)
		}
	}()

	if autoMigrate {
		if err := datamodel.AutoMigrate(db); err != nil {
			return err
		}
	}

	avatars, err := initAvatarStore(context.Background(), cfg.Storage)
	if err != nil {
		return err
	}

	router, err := rest.NewServer(rest.Dependencies{
		Config:  cfg,
		DB:      db,
		Avatars: avatars,
		Logger:  lg,
	})
	if err != nil {
		return fmt.Errorf("failed to build router: %w", err)
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}
	return serve(server, lg)
}

// serve runs server until SIGINT or SIGTERM and then drains it.
func serve(server *http.Server, lg *slog.Logger) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	serverErrChan := make(chan error, 1)
	go func() {
		lg.Info("Starting HTTP server", "address", server.Addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		lg.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			lg.Error("Server shutdown error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	lg.Info("Server stopped")
	return nil
}
