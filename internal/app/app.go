package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/BenjaminKobjolke/beaverprime/internal/config"
	"github.com/BenjaminKobjolke/beaverprime/internal/db"
	"github.com/BenjaminKobjolke/beaverprime/internal/i18n"
	"github.com/BenjaminKobjolke/beaverprime/internal/repository"
	"github.com/BenjaminKobjolke/beaverprime/internal/service"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Translator        *i18n.Translator
	AuthService       *service.AuthService
	UserService       *service.UserService
	EmailService      *service.EmailService
	ListService       *service.ListService
	HabitService      *service.HabitService
	CompletionService *service.CompletionService
	ExportService     *service.ExportService
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
	listRepository := repository.NewListRepository(database)
	habitRepository := repository.NewHabitRepository(database)
	recordRepository := repository.NewRecordRepository(database)

	// Translations
	translator, err := i18n.New(cfg.DefaultLanguage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize translations: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.TokenEmailVerifyExpiry,
		cfg.TokenPasswordResetExpiry,
		cfg.RequireEmailVerification,
		cfg.MaxUserCount,
	)
	userService := service.NewUserService(userRepository)
	listService := service.NewListService(listRepository)
	habitService := service.NewHabitService(habitRepository, listRepository, recordRepository, cfg.MaxStreakLookbackWeeks)
	completionService := service.NewCompletionService(habitRepository, recordRepository)
	exportService := service.NewExportService(database, habitRepository, listRepository, recordRepository)

	return &App{
		Cfg:               cfg,
		DB:                database,
		Translator:        translator,
		AuthService:       authService,
		UserService:       userService,
		EmailService:      emailService,
		ListService:       listService,
		HabitService:      habitService,
		CompletionService: completionService,
		ExportService:     exportService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
