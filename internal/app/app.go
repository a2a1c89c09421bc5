package app

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/denbox/denbox/internal/config"
	"github.com/denbox/denbox/internal/db"
	"github.com/denbox/denbox/internal/hash"
	"github.com/denbox/denbox/internal/model"
	"github.com/denbox/denbox/internal/repository"
	"github.com/denbox/denbox/internal/service"
	"github.com/denbox/denbox/internal/storage"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Storage        storage.Storage
	UserRepository repository.UserRepository
	AuthService    *service.AuthService
	FileService    *service.FileService
	NoteService    *service.NoteService
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
	fileRepository := repository.NewFileRepository(database)
	noteRepository := repository.NewNoteRepository(database)

	// Initial admin (no self-service registration)
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		err = ensureAdmin(userRepository, cfg.AdminUsername, cfg.AdminPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure admin account: %v", err)
		}
	}

	// Storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	authService := service.NewAuthService(
		userRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.IsProduction(),
	)
	fileService := service.NewFileService(fileRepository, blobStorage)
	noteService := service.NewNoteService(noteRepository, userRepository)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Storage:        blobStorage,
		UserRepository: userRepository,
		AuthService:    authService,
		FileService:    fileService,
		NoteService:    noteService,
	}, nil
}

// ensureAdmin creates the admin account on first run. An existing user with
// the same username is left untouched, so the password cannot be rotated here.
func ensureAdmin(users repository.UserRepository, username, password string) error {
	_, err := users.ByUsername(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	digest, err := hash.Hash(password)
	if err != nil {
		return err
	}

	err = users.Create(&model.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: digest,
		Admin:        true,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		return err
	}

	slog.Info("created admin account", "username", username)
	return nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
