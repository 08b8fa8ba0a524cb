package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/steadyapp/steady/internal/config"
	"github.com/steadyapp/steady/internal/db"
	"github.com/steadyapp/steady/internal/repository"
	"github.com/steadyapp/steady/internal/service"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	AuthService       *service.AuthService
	UserService       *service.UserService
	EmailService      *service.EmailService
	GoalService       *service.GoalService
	CompletionService *service.CompletionService
	StatsService      *service.StatsService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	completionRepository := repository.NewCompletionRepository(database)

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
		cfg.ResetTokenExpiry,
	)
	userService := service.NewUserService(userRepository)
	goalService := service.NewGoalService(goalRepository)
	completionService := service.NewCompletionService(goalRepository, completionRepository)
	statsService := service.NewStatsService(completionRepository)

	// Drop cached goal views whenever the bound identity changes
	authService.OnIdentityChange(func(userID string, signedIn bool) {
		goalService.Evict(userID)
	})

	return &App{
		Cfg:               cfg,
		DB:                database,
		AuthService:       authService,
		UserService:       userService,
		EmailService:      emailService,
		GoalService:       goalService,
		CompletionService: completionService,
		StatsService:      statsService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
