// Package app provides application initialization and dependency injection.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cart-service/config"
	"github.com/rs/zerolog/log"
)

// App is the wired service: the router plus everything that must be
// released on shutdown.
type App struct {
	Router *gin.Engine

	cfg     config.Config
	router  *RouterComponents
	closers closerList
}

// InitializeApp creates and wires all application dependencies.
// On error, whatever was already opened is closed again.
func InitializeApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Logger first; everything below logs.
	InitializeLogger(cfg.Log)

	app := &App{cfg: cfg}

	db, err := InitializeDatabase(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initialize database: %w", err)
	}
	app.closers = append(app.closers, db.closers...)

	services, err := InitializeServices(ctx, cfg, db)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("initialize services: %w", err)
	}
	app.closers = append(app.closers, services.closers...)

	router, err := InitializeRouter(cfg, db, services)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("initialize router: %w", err)
	}
	app.closers = append(app.closers, router.closers...)
	app.router = router
	app.Router = router.Engine

	log.Info().
		Str("catalog_backend", cfg.Catalog.Backend).
		Bool("mongo", db.Mongo != nil).
		Bool("auth", services.Auth != nil).
		Msg("Application initialized")
	return app, nil
}

// Run serves until SIGINT or SIGTERM, then shuts the server down and
// releases every dependency.
func (a *App) Run() error {
	server := NewServer(a.Router, a.cfg.Server)
	server.OnShutdown(a.router.Cart.CloseStreams)

	runErr := server.Run()

	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	a.Close(ctx)
	return runErr
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close(ctx context.Context) {
	a.closers.closeAll(ctx)
	a.closers = nil
}

type namedCloser struct {
	name  string
	close func(ctx context.Context) error
}

type closerList []namedCloser

func (l *closerList) add(name string, fn func(ctx context.Context) error) {
	*l = append(*l, namedCloser{name: name, close: fn})
}

func (l closerList) closeAll(ctx context.Context) {
	for i := len(l) - 1; i >= 0; i-- {
		start := time.Now()
		if err := l[i].close(ctx); err != nil {
			log.Warn().Err(err).Str("component", l[i].name).Msg("Failed to close component")
			continue
		}
		log.Debug().Str("component", l[i].name).Dur("took", time.Since(start)).Msg("Component closed")
	}
}
