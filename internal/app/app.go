package app

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/greenloop/greenloop-backend/internal/db"
	"github.com/greenloop/greenloop-backend/internal/logger"
	"github.com/greenloop/greenloop-backend/internal/scheduler"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    Repos
	Clients  Clients
	Services Services

	sched *scheduler.Scheduler
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

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

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

	clientset, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	reposet := wireRepos(theDB, log)

	serviceset, err := wireServices(theDB, log, cfg, reposet, clientset)
	if err != nil {
		log.Sync()
		return nil, err
	}

	handlerset := wireHandlers(log, serviceset)
	middlewareset := wireMiddleware(log, serviceset)
	router := wireRouter(cfg, handlerset, middlewareset)

	sched := scheduler.New(log)
	reconciler := scheduler.NewMediaReconciler(
		log,
		clientset.Bucket,
		reposet.RecycleHistory,
		serviceset.Media,
		cfg.ReconcileGraceWindow,
	)
	if err := sched.AddJob(cfg.ReconcileSchedule, reconciler); err != nil {
		log.Sync()
		return nil, fmt.Errorf("schedule media reconciler: %w", err)
	}

	return &App{
		Log:      log,
		DB:       theDB,
		Router:   router,
		Cfg:      cfg,
		Repos:    reposet,
		Clients:  clientset,
		Services: serviceset,
		sched:    sched,
	}, nil
}

// Start launches background jobs.
func (a *App) Start() {
	if a == nil || a.sched == nil {
		return
	}
	a.sched.Start()
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.sched != nil {
		a.sched.Stop()
		a.sched = nil
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
