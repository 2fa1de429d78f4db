// Package server assembles and runs the application: it wires the
// configuration, storage, services and the HTTP layer together and handles
// graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/anikulin/linkstash/internal/logging"
	"github.com/anikulin/linkstash/internal/server/config"
	"github.com/anikulin/linkstash/internal/server/groups"
	"github.com/anikulin/linkstash/internal/server/httpapi"
	"github.com/anikulin/linkstash/internal/server/images"
	"github.com/anikulin/linkstash/internal/server/shared/db"
	"github.com/anikulin/linkstash/internal/server/tree"
	"github.com/anikulin/linkstash/internal/server/users"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	treeService  *tree.Service
	groupService *groups.Service
	userService  *users.Service
	imageService *images.Service
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := db.NewPostgresRepositoryManager(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	gs := groups.NewService(rm.Groups())
	ts := tree.NewService(rm.Tree(), rm.Groups(), logger)
	us := users.NewService(rm.Users(), users.NewGoogleVerifier(), cfg)
	is := images.NewService(cfg)

	return &App{
		config:       cfg,
		logger:       logger,
		treeService:  ts,
		groupService: gs,
		userService:  us,
		imageService: is,
	}, nil
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

	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger,
		app.treeService, app.groupService, app.userService, app.imageService,
		app.config.SecretKey, app.config.AdminEmails)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
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

}
