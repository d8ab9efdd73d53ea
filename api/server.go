package api

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/config"
	"github.com/lingoscene/lingoscene-api/service"
)

// Services are the operations the routes dispatch to
type Services struct {
	Sessions   *service.Sessions
	Users      *service.Users
	Themes     *service.Themes
	Objects    *service.Objects
	Vocabulary *service.Vocabulary
	Progress   *service.Progress
}

type Server struct {
	app      *fiber.App
	cfg      *config.Config
	logger   Logger
	pipeline *Pipeline
}

// NewServer builds the fiber app with every route mounted under the
// configured prefix.
func NewServer(cfg *config.Config, tokens auth.TokenValidator, services Services, logger Logger) *Server {
	errorHandler := NewErrorHandler(logger, !cfg.IsProduction())

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ReadTimeout:           cfg.Server.ReadTimeout,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	app.Use(RequestLogger(logger, cfg.Auth.ContextKey, errorHandler))
	app.Use(recover.New(recover.Config{EnableStackTrace: !cfg.IsProduction()}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.FrontendURL,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	authenticate := NewAuthenticate(AuthConfig{
		Validator:   tokens,
		ContextKey:  cfg.Auth.ContextKey,
		TokenLookup: cfg.Auth.TokenLookup,
		AuthScheme:  cfg.Auth.AuthScheme,
	}, logger)

	s := &Server{
		app:      app,
		cfg:      cfg,
		logger:   logger,
		pipeline: NewPipeline(authenticate, cfg.Auth.ContextKey),
	}

	s.pipeline.Register(app.Group(cfg.Server.Prefix), Routes(services, cfg.Auth.ContextKey)...)
	app.Use(notFound)

	return s
}

// App exposes the fiber app, mostly for tests
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Routes() []Route {
	return s.pipeline.Routes()
}

// Listen blocks serving on the configured port.
func (s *Server) Listen() error {
	addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
	s.logger.Info("server listening", "addr", addr, "prefix", s.cfg.Server.Prefix, "env", s.cfg.App.Env)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in flight requests
// until ctx is done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.app.ShutdownWithContext(ctx)
}
