package api

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/middleware/jwtware"
)

// Logger is the structured logger the HTTP layer writes to
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// AuthConfig configures the authenticate stage
type AuthConfig struct {
	Validator   auth.TokenValidator
	ContextKey  string
	TokenLookup string
	AuthScheme  string
}

// NewAuthenticate returns the authenticate stage. Every failure becomes
// the same 401 error; the reason is only logged.
func NewAuthenticate(cfg AuthConfig, logger Logger) fiber.Handler {
	return jwtware.New(jwtware.Config{
		TokenValidator:  cfg.Validator,
		ContextKey:      cfg.ContextKey,
		TokenLookup:     cfg.TokenLookup,
		AuthScheme:      cfg.AuthScheme,
		ContextEnricher: auth.WithClaimsContext,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			logger.Debug("token rejected", "path", c.Path(), "expired", auth.IsTokenExpiredError(err),
				"malformed", auth.IsMalformedError(err), "error", err)
			return goerrors.Wrap(err, goerrors.CategoryAuth, UnauthorizedMessage).
				WithTextCode("UNAUTHENTICATED")
		},
	})
}

// RequestLogger logs one line per request. Errors are rendered here so
// the logged status is the one the client receives.
func RequestLogger(logger Logger, contextKey string, errorHandler fiber.ErrorHandler) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := errorHandler(c, err); herr != nil {
				_ = c.SendStatus(http.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		args := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start).String(),
		}

		if claims, ok := auth.GetFiberClaims(c, contextKey); ok {
			args = append(args, "user", claims.Email())
		}

		if status >= http.StatusInternalServerError {
			logger.Error("request", args...)
		} else {
			logger.Info("request", args...)
		}

		return nil
	}
}

// notFound answers any request no route matched.
func notFound(c *fiber.Ctx) error {
	return goerrors.New("Cannot "+c.Method()+" "+c.Path(), goerrors.CategoryNotFound).
		WithTextCode("ROUTE_NOT_FOUND")
}
