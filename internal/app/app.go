package app

import (
	"fmt"

	"github.com/campusfind/campusfind/internal/config"
	"github.com/campusfind/campusfind/internal/db"
	"github.com/campusfind/campusfind/internal/repository"
	"github.com/campusfind/campusfind/internal/service"
	"github.com/campusfind/campusfind/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg         *config.Config
	DB          *sqlx.DB
	AuthService *service.AuthService
	ItemService *service.ItemService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	itemRepository := repository.NewItemRepository(database)

	// Storage
	mediaStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		mediaStorage,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.UniversityDomains,
	)
	itemService := service.NewItemService(itemRepository, userRepository, mediaStorage)

	return &App{
		Cfg:         cfg,
		DB:          database,
		AuthService: authService,
		ItemService: itemService,
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
