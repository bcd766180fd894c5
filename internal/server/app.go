// Package server wires the chat backend together: configuration, storage,
// image hosting, the connection registry and the HTTP API, and runs it until
// the process is asked to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/gopherchat/internal/logging"
	"github.com/dmitrijs2005/gopherchat/internal/server/api"
	"github.com/dmitrijs2005/gopherchat/internal/server/auth"
	"github.com/dmitrijs2005/gopherchat/internal/server/config"
	"github.com/dmitrijs2005/gopherchat/internal/server/images"
	"github.com/dmitrijs2005/gopherchat/internal/server/realtime"
	"github.com/dmitrijs2005/gopherchat/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gopherchat/internal/server/services"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	registry *realtime.Registry
	server   *api.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	rm, err := repomanager.New(c.StorageDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, err
	}

	host, err := images.NewS3Host(ctx, c)
	if err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("image host init error: %w", err)
	}

	registry := realtime.NewRegistry(logger)
	authority := auth.NewAuthority(c.SecretKey, c.SessionTokenValidityDuration, c.CookieSecure)

	us := services.NewUserService(rm.Users(), host, c.DefaultProfilePic, logger)
	ms := services.NewMessageService(rm.Messages(), host, registry, logger)

	srv := api.NewHTTPServer(c.EndpointAddrHTTP, logger, us, ms, authority,
		realtime.NewHandler(registry, c.AllowedOrigins, logger),
		api.WithMaxBodyBytes(c.MaxRequestBodyBytes),
	)

	return &App{config: c, logger: logger, repos: rm, registry: registry, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageDriver)

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)
	if err != nil {
		app.logger.Error(ctx, err.Error())
	}

	// net/http does not track hijacked connections.
	app.registry.Shutdown()

	if cerr := app.repos.Close(); cerr != nil {
		app.logger.Error(ctx, "db close error", "error", cerr)
	}

	app.logger.Info(ctx, "App stopped")
	return err
}
