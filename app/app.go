// Package app builds every component from a config.Config.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lingoscene/lingoscene-api/api"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/config"
	"github.com/lingoscene/lingoscene-api/dictionary"
	"github.com/lingoscene/lingoscene-api/logging"
	"github.com/lingoscene/lingoscene-api/persistence"
	"github.com/lingoscene/lingoscene-api/repository"
	"github.com/lingoscene/lingoscene-api/service"
	"github.com/uptrace/bun"
)

type App struct {
	config *config.Config
	logger *logging.Logger
	db     *bun.DB
	repo   repository.Manager
	tokens *auth.TokenServiceImpl
	auther *auth.Auther

	Services api.Services
}

// New opens the database and wires the services. Close releases the
// database.
func New(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: config is required")
	}
	if logger == nil {
		logger = logging.Nop()
	}

	if cfg.IsProduction() && cfg.Auth.SigningKey == config.Default().Auth.SigningKey {
		logger.Warn("auth signing key is the default value, set JWT_SECRET")
	}

	db, err := persistence.Open(ctx, persistence.Config{
		DSN:   cfg.Database.DSN,
		Debug: cfg.Database.Debug,
	})
	if err != nil {
		return nil, err
	}

	a := &App{
		config: cfg,
		logger: logger,
		db:     db,
		repo:   repository.NewManager(db),
	}

	if err := a.repo.Validate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	a.tokens = auth.NewTokenService(
		[]byte(cfg.Auth.SigningKey),
		cfg.Auth.TokenExpiration,
		cfg.Auth.Issuer,
		jwt.ClaimStrings(cfg.Auth.Audience),
		logger.GetLogger("tokens"),
	)

	hasher := auth.NewPasswordHasher(cfg.Auth.PasswordCost)
	a.auther = auth.NewAuthenticator(service.NewUserProvider(a.repo.Users(), hasher), a.tokens).
		WithLogger(logger.GetLogger("auth"))

	audio := dictionary.New(dictionary.Config{
		Enabled: cfg.Dictionary.Enabled,
		BaseURL: cfg.Dictionary.BaseURL,
		Timeout: cfg.Dictionary.Timeout,
		Retries: cfg.Dictionary.Retries,
	}, logger.GetLogger("dictionary"))

	svcLogger := logger.GetLogger("service")
	a.Services = api.Services{
		Sessions:   service.NewSessions(a.auther, a.repo.Users(), svcLogger),
		Users:      service.NewUsers(a.repo, hasher, svcLogger),
		Themes:     service.NewThemes(a.repo),
		Objects:    service.NewObjects(a.repo),
		Vocabulary: service.NewVocabulary(a.repo, audio, svcLogger),
		Progress:   service.NewProgress(a.repo),
	}

	return a, nil
}

func (a *App) Config() *config.Config {
	return a.config
}

func (a *App) Logger() *logging.Logger {
	return a.logger
}

func (a *App) DB() *bun.DB {
	return a.db
}

func (a *App) Repository() repository.Manager {
	return a.repo
}

func (a *App) Tokens() auth.TokenService {
	return a.tokens
}

// Migrate applies pending migrations
func (a *App) Migrate(ctx context.Context) error {
	if err := persistence.Migrate(ctx, a.db); err != nil {
		return err
	}
	version, err := persistence.Version(ctx, a.db)
	if err != nil {
		return err
	}
	a.logger.Info("database migrated", "version", version)
	return nil
}

// Rollback reverts the latest migration
func (a *App) Rollback(ctx context.Context) error {
	if err := persistence.Rollback(ctx, a.db); err != nil {
		return err
	}
	version, err := persistence.Version(ctx, a.db)
	if err != nil {
		return err
	}
	a.logger.Info("database rolled back", "version", version)
	return nil
}

// Server builds the HTTP server. The schema is migrated first when
// database.auto_migrate is set.
func (a *App) Server(ctx context.Context) (*api.Server, error) {
	if a.config.Database.AutoMigrate {
		if err := a.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}
	return api.NewServer(a.config, a.tokens, a.Services, a.logger.GetLogger("http")), nil
}

func (a *App) Close() error {
	return a.db.Close()
}
