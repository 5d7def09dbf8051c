package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/fleetsight/gasdash-backend/internal/db"
	"github.com/fleetsight/gasdash-backend/internal/middleware"
	"github.com/fleetsight/gasdash-backend/internal/observability"
	"github.com/fleetsight/gasdash-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Services Services

	scheduler    *Scheduler
	otelShutdown func(context.Context) error
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	cfg := LoadConfig()

	otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: "gasdash-backend",
		Environment: cfg.Environment,
	})

	pg, err := db.NewPostgresService(log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init postgres: %w", err)
	}
	if err := pg.AutoMigrateAll(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}
	theDB := pg.DB()

	reposet := wireRepos(theDB, log)
	serviceset := wireServices(cfg, reposet, log)
	handlerset := wireHandlers(log, reposet, serviceset)
	router := wireRouter(cfg, handlerset, middleware.NewRequestLogger(log))

	scheduler, err := newScheduler(cfg, serviceset, log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		scheduler:    scheduler,
		otelShutdown: otelShutdown,
	}, nil
}

func (a *App) Start() {
	if a == nil || a.scheduler == nil {
		return
	}
	a.scheduler.Start()
}

func (a *App) Run() error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(a.Cfg.HTTPAddr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	if a.otelShutdown != nil {
		_ = a.otelShutdown(context.Background())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
