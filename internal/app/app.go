package app

import (
	"fmt"
	"net/http"

	"family-tasks-go/internal/auth"
	"family-tasks-go/internal/config"
	"family-tasks-go/internal/db"
	familydomain "family-tasks-go/internal/domain/family"
	listsdomain "family-tasks-go/internal/domain/lists"
	tasksdomain "family-tasks-go/internal/domain/tasks"
	userdomain "family-tasks-go/internal/domain/user"
	familyrepo "family-tasks-go/internal/repository/postgres/family"
	listsrepo "family-tasks-go/internal/repository/postgres/lists"
	tasksrepo "family-tasks-go/internal/repository/postgres/tasks"
	userrepo "family-tasks-go/internal/repository/postgres/user"
	"family-tasks-go/internal/transport/httpserver"
	"family-tasks-go/internal/transport/httpserver/handler"
	"family-tasks-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing router")
	router, err := NewHandler(cfg, dbConn, log)
	if err != nil {
		closeDB(dbConn)
		return nil, err
	}

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

// NewHandler wires repositories, services and the router on top of an
// open database connection.
func NewHandler(cfg config.Config, dbConn *gorm.DB, log logger.Logger) (http.Handler, error) {
	tokens, err := auth.NewTokenIssuer(cfg.Auth.SecretKey, cfg.Auth.Issuer, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("token issuer: %w", err)
	}
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)

	users := userrepo.NewPostgres(dbConn)
	userService := userdomain.NewService(users, hasher, tokens)
	familyService := familydomain.NewService(familyrepo.NewPostgres(dbConn), familydomain.DefaultLists{
		FamilyListName:   cfg.Lists.FamilyListName,
		PersonalListName: cfg.Lists.PersonalListName,
		Color:            cfg.Lists.Color,
	})
	listsService := listsdomain.NewService(listsrepo.NewPostgres(dbConn), cfg.Lists.Color)
	tasksService := tasksdomain.NewService(tasksrepo.NewPostgres(dbConn))

	handlers := handler.New(userService, familyService, listsService, tasksService, log)
	resolver := auth.NewResolver(tokens, users)
	return httpserver.NewRouter(cfg, handlers, resolver, log), nil
}

// Migrate applies pending SQL migrations and returns how many ran.
func Migrate(log logger.Logger) (int, error) {
	cfg, err := config.Load(log)
	if err != nil {
		return 0, err
	}
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return 0, err
	}
	defer closeDB(dbConn)
	return db.Migrate(dbConn, log)
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(dbConn *gorm.DB) {
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
