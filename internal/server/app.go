// Package server wires the flatcms backend together: it selects the file
// store backend, builds the record stores and services on top of it, runs the
// HTTP API and shuts it down on SIGINT, SIGTERM or SIGQUIT.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/flatcms/internal/filestore"
	"github.com/dmitrijs2005/flatcms/internal/logging"
	"github.com/dmitrijs2005/flatcms/internal/server/auth"
	"github.com/dmitrijs2005/flatcms/internal/server/config"
	"github.com/dmitrijs2005/flatcms/internal/server/httpapi"
	"github.com/dmitrijs2005/flatcms/internal/server/posts"
	"github.com/dmitrijs2005/flatcms/internal/server/records"
	"github.com/dmitrijs2005/flatcms/internal/server/users"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	postService *posts.Service
}

// Services builds the account and post services over files.
func Services(cfg *config.Config, files filestore.Store, logger logging.Logger) (*users.Service, *posts.Service) {
	concurrency := records.WithConcurrency(cfg.ListConcurrency)

	userStore := records.NewStore(files, users.Kind, logger, concurrency)
	postStore := records.NewStore(files, posts.Kind, logger, concurrency)

	us := users.NewService(userStore, auth.NewBcryptHasher(cfg.BcryptCost), cfg, logger)
	ps := posts.NewService(postStore, logger)
	return us, ps
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(cfg.LogLevel))
	warnInsecureDefaults(ctx, cfg, logger)

	files, err := filestore.New(ctx, cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("file store init error: %w", err)
	}
	logger.Info(ctx, "file store ready", "backend", cfg.Backend)

	us, ps := Services(cfg, files, logger)

	return &App{config: cfg, logger: logger, userService: us, postService: ps}, nil
}

func warnInsecureDefaults(ctx context.Context, cfg *config.Config, logger logging.Logger) {
	if cfg.UsesDefaultSecret() {
		logger.Warn(ctx, "using the built-in JWT secret, session tokens can be forged; set JWT_SECRET or -s")
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(httpapi.Options{
		Address:       app.config.HTTPAddr,
		SecretKey:     app.config.SecretKey,
		CORSOrigin:    app.config.CORSOrigin,
		AuthRateLimit: app.config.AuthRateLimit,
	}, app.logger, app.userService, app.postService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until the HTTP server stops, either on a signal, on parent
// cancellation or on a listen failure.
func (app *App) Run(parent context.Context) {
	ctx, cancelFunc := context.WithCancel(parent)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
	app.logger.Info(ctx, "App stopped")
}
