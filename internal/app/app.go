package app

import (
	"context"

	"recondo/config"
	"recondo/internal/controllers"
	"recondo/internal/database"
	"recondo/internal/events"
	"recondo/internal/handlers/middleware"
	"recondo/internal/jobs"
	"recondo/internal/logger"
	"recondo/internal/repositories"
	"recondo/internal/services"
	"recondo/internal/websockets"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	EventBus   *events.EventBus
	Config     config.Config

	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)

	svc, err := services.New(db, config)
	if err != nil {
		return &App{}, log.Err("failed to create services", err)
	}

	repos := repositories.New(db)
	ctrl := controllers.New(svc, repos, eventBus, db)
	middleware := middleware.New(db, eventBus, config, repos)

	websocket, err := websockets.New(db, eventBus, config, svc.OIDC, repos.User)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	if config.SchedulerEnabled {
		checklistJob := jobs.NewChecklistRebuildJob(repos.Dealership, ctrl.InspectionData)
		if err := svc.Scheduler.AddJob(checklistJob); err != nil {
			return &App{}, log.Err("failed to register checklist rebuild job", err)
		}

		todoJob := jobs.NewTodoCleanupJob(repos.Todo)
		if err := svc.Scheduler.AddJob(todoJob); err != nil {
			return &App{}, log.Err("failed to register todo cleanup job", err)
		}

		if err := svc.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
		log.Info("Scheduler started", "jobs", svc.Scheduler.GetJobCount())
	}

	app := &App{
		Database:    db,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Config:      config,
		Services:    svc,
		Repos:       repos,
		Controllers: ctrl,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")

	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := []any{
		a.Websocket,
		a.EventBus,
		a.Services.OIDC,
		a.Services.Scheduler,
		a.Controllers.Auth,
		a.Controllers.Vehicle,
		a.Controllers.InspectionSettings,
		a.Controllers.InspectionData,
		a.Repos.User,
		a.Repos.Dealership,
		a.Repos.Vehicle,
		a.Repos.Location,
		a.Repos.Contact,
		a.Repos.Todo,
		a.Repos.InspectionSettings,
		a.Repos.Inspection,
	}

	for _, check := range nilChecks {
		if check == nil {
			return log.ErrMsg("nil check failed")
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.OIDC != nil {
		if closeErr := a.Services.OIDC.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
