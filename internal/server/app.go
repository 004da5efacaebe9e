// Package server wires configuration, storage and services together and
// runs the HTTP API until the process is asked to stop.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/cryptox"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
	"github.com/dmitrijs2005/smartnotes/internal/server/config"
	"github.com/dmitrijs2005/smartnotes/internal/server/httpapi"
	"github.com/dmitrijs2005/smartnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/smartnotes/internal/server/services"
)

const secretKeySize = 32

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    *repomanager.RepositoryManager
	sessions *services.SessionService
	docs     *services.DocumentService
}

// NewApp opens the configured storage backend and builds the services on
// top of it. The caller owns the returned App and must Close it.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	secret := []byte(cfg.SecretKey)
	if len(secret) == 0 {
		logger.Warn(ctx, "no secret key configured, using a random one; tokens will not survive a restart")
		secret = common.GenerateRandByteArray(secretKeySize)
	}

	rm, err := repomanager.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	logger.Info(ctx, "storage ready", "backend", rm.Backend())

	dir := services.NewUserDirectory(rm.Users(), cryptox.Hasher{Iterations: cfg.PasswordIterations}, logger)
	tokens := services.NewTokenIssuer(rm.RefreshTokens(), dir, secret,
		cfg.AccessTokenValidityDuration, cfg.RefreshTokenValidityDuration, logger)

	return &App{
		config:   cfg,
		logger:   logger,
		repos:    rm,
		sessions: services.NewSessionService(dir, tokens, logger),
		docs:     services.NewDocumentService(rm.Documents(), logger),
	}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) error {
	s := httpapi.NewHTTPServer(httpapi.Options{
		Address:    app.config.EndpointAddrHTTP,
		CORSOrigin: app.config.CORSOrigin,
		RateLimit:  app.config.RateLimit,
	}, app.logger, app.sessions, app.docs)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return err
	}
	return nil
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
	return runErr
}

// Close releases the storage backend.
func (app *App) Close() error {
	return app.repos.Close()
}
