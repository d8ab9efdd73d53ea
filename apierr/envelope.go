package apierr

import (
	"fmt"
	"net/http"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// ForbiddenMessage is the only message sent with a 403 response.
const ForbiddenMessage = "You do not have permission to access this resource"

// InternalMessage replaces the message of every 5xx response.
const InternalMessage = "Internal server error"

// ValidationMessage is used for any request that fails its rule set.
const ValidationMessage = "Validation failed"

// Envelope is the response body of every failed request.
type Envelope struct {
	StatusCode int            `json:"statusCode"`
	Timestamp  string         `json:"timestamp"`
	Path       string         `json:"path"`
	Message    string         `json:"message"`
	Error      string         `json:"error"`
	ErrorCode  string         `json:"errorCode"`
	Details    map[string]any `json:"details,omitempty"`
	Stack      string         `json:"stack,omitempty"`
}

// NewEnvelope renders err for the request path. The stack trace is only
// attached when includeStack is set.
func NewEnvelope(err *goerrors.Error, path string, includeStack bool) Envelope {
	status := StatusCode(err)

	env := Envelope{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
		Path:       path,
		Message:    err.Message,
		Error:      StatusLabel(status),
		ErrorCode:  ErrorCode(status),
	}

	switch {
	case status == http.StatusForbidden:
		env.Message = ForbiddenMessage
	case status >= http.StatusInternalServerError:
		env.Message = InternalMessage
	case env.Message == "":
		env.Message = http.StatusText(status)
	}

	env.Details = Details(err)

	if includeStack {
		env.Stack = Stack(err)
	}

	return env
}

// StatusLabel returns the error kind label for an HTTP status.
func StatusLabel(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BadRequest"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusMethodNotAllowed:
		return "MethodNotAllowed"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusUnprocessableEntity:
		return "UnprocessableEntity"
	case http.StatusInternalServerError:
		return "InternalServerError"
	case http.StatusServiceUnavailable:
		return "ServiceUnavailable"
	default:
		return "HttpError"
	}
}

// ErrorCode returns the machine readable code for an HTTP status.
func ErrorCode(status int) string {
	return fmt.Sprintf("E%d", status)
}
