package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
	"github.com/lingoscene/lingoscene-api/apierr"
	"github.com/lingoscene/lingoscene-api/auth"
	"github.com/lingoscene/lingoscene-api/schema"
)

// UnauthorizedMessage is sent for every authentication failure, whatever
// was wrong with the token.
const UnauthorizedMessage = "Unauthorized"

const redacted = "[REDACTED]"

var sensitiveFields = map[string]bool{
	"password":      true,
	"password_hash": true,
	"passwordHash":  true,
	"access_token":  true,
}

// ToAPIError maps any error reaching the HTTP boundary onto the taxonomy.
// Errors that are not recognised become internal errors.
func ToAPIError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	if rich, ok := apierr.As(err); ok {
		return rich
	}

	if auth.IsTokenError(err) {
		return goerrors.Wrap(err, goerrors.CategoryAuth, UnauthorizedMessage).WithTextCode("UNAUTHENTICATED")
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return goerrors.Wrap(err, categoryForStatus(fe.Code), fe.Message).
			WithCode(fe.Code).
			WithTextCode(goerrors.HTTPStatusToTextCode(fe.Code))
	}

	switch {
	case errors.Is(err, auth.ErrForbidden):
		return goerrors.Wrap(err, goerrors.CategoryAuthz, apierr.ForbiddenMessage).WithTextCode("FORBIDDEN")
	case errors.Is(err, auth.ErrInvalidCredentials):
		return goerrors.Wrap(err, goerrors.CategoryAuth, "Invalid credentials").WithTextCode("INVALID_CREDENTIALS")
	case errors.Is(err, schema.ErrMalformedBody):
		return goerrors.Wrap(err, goerrors.CategoryBadInput, schema.ErrMalformedBody.Error()).WithTextCode("MALFORMED_BODY")
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, apierr.InternalMessage).
		WithTextCode("INTERNAL").
		WithStackTrace()
}

// categoryForStatus is go-errors' mapping plus the unprocessable category
// it has no name for.
func categoryForStatus(status int) goerrors.Category {
	if status == http.StatusUnprocessableEntity {
		return apierr.CategoryUnprocessable
	}
	return goerrors.HTTPStatusToCategory(status)
}

// NewErrorHandler renders errors as the envelope. Stacks are attached
// only when includeStack is set.
func NewErrorHandler(logger Logger, includeStack bool) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		rich := ToAPIError(err)
		env := apierr.NewEnvelope(rich, c.OriginalURL(), includeStack)

		args := []any{
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", env.StatusCode,
			"code", env.ErrorCode,
			"text_code", rich.TextCode,
			"params", c.AllParams(),
			"query", c.Queries(),
		}

		switch {
		case env.StatusCode >= http.StatusInternalServerError:
			args = append(args, "body", RedactBody(c.Body()), "error", err)
			if len(rich.Metadata) > 0 {
				args = append(args, "metadata", print.MaybePrettyJSON(rich.Metadata))
			}
			logger.Error("request failed", args...)
		case env.StatusCode == http.StatusUnauthorized:
			// The client never learns why a token was rejected.
			logger.Debug("request unauthenticated", append(args, "reason", err)...)
		default:
			logger.Warn("request rejected", append(args, "message", env.Message)...)
		}

		return c.Status(env.StatusCode).JSON(env)
	}
}

// RedactBody decodes a JSON body for logging with secrets masked. Bodies
// that are not JSON objects are summarised by size.
func RedactBody(body []byte) any {
	if len(body) == 0 {
		return nil
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return fmt.Sprintf("<%d bytes>", len(body))
	}

	redactMap(payload)
	return payload
}

func redactMap(m map[string]any) {
	for k, v := range m {
		if sensitiveFields[k] {
			m[k] = redacted
			continue
		}
		switch val := v.(type) {
		case map[string]any:
			redactMap(val)
		case []any:
			for _, item := range val {
				if nested, ok := item.(map[string]any); ok {
					redactMap(nested)
				}
			}
		}
	}
}
