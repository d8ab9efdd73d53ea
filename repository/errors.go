package repository

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	grepo "github.com/goliatone/go-repository-bun"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lingoscene/lingoscene-api/apierr"
)

// ErrRecordNotFound is matched by every not found error the stores return.
var ErrRecordNotFound = grepo.ErrRecordNotFound

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// NewRecordNotFound returns a not found error for the given model name.
func NewRecordNotFound(model string) *goerrors.Error {
	return goerrors.Wrap(ErrRecordNotFound, goerrors.CategoryNotFound, notFoundMessage(model)).
		WithCode(http.StatusNotFound).
		WithTextCode("RECORD_NOT_FOUND")
}

// IsRecordNotFound reports whether err signals a missing row.
func IsRecordNotFound(err error) bool {
	return grepo.IsRecordNotFound(err)
}

// IsDuplicate reports whether err is a unique constraint violation.
func IsDuplicate(err error) bool {
	return goerrors.HasCategory(err, goerrors.CategoryConflict) || grepo.IsDuplicatedKey(err)
}

// IsReferenceMissing reports whether err is a foreign key violation.
func IsReferenceMissing(err error) bool {
	rich, ok := apierr.As(err)
	return ok && rich.TextCode == "REFERENCE_MISSING"
}

// mapDBError converts store errors into the categories the API renders.
// Errors already carrying a non database category pass through.
func mapDBError(err error, model string) error {
	if err == nil {
		return nil
	}

	if rich, ok := apierr.As(err); ok && !isDatabaseCategory(rich.Category) {
		return err
	}

	meta := map[string]any{"model": model}

	switch {
	case grepo.IsRecordNotFound(err), grepo.IsSQLExpectedCountViolation(err):
		return NewRecordNotFound(model).WithMetadata(meta)
	case isUniqueViolation(err):
		return goerrors.Wrap(err, goerrors.CategoryConflict, fmt.Sprintf("%s already exists", model)).
			WithCode(http.StatusConflict).
			WithTextCode("DUPLICATE_RECORD").
			WithMetadata(meta)
	case isForeignKeyViolation(err):
		return goerrors.Wrap(err, apierr.CategoryUnprocessable, "Referenced record does not exist").
			WithCode(http.StatusUnprocessableEntity).
			WithTextCode("REFERENCE_MISSING").
			WithMetadata(meta)
	case isCheckViolation(err):
		return goerrors.Wrap(err, apierr.CategoryUnprocessable, fmt.Sprintf("%s violates a data constraint", model)).
			WithCode(http.StatusUnprocessableEntity).
			WithTextCode("CONSTRAINT_VIOLATION").
			WithMetadata(meta)
	}

	return goerrors.Wrap(err, goerrors.CategoryOperation, "database operation failed").
		WithMetadata(meta).
		WithStackTrace()
}

func isDatabaseCategory(category goerrors.Category) bool {
	return strings.HasPrefix(string(category), string(grepo.CategoryDatabase))
}

func notFoundMessage(model string) string {
	if model == "" {
		return "Record not found"
	}
	return fmt.Sprintf("%s not found", model)
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// driverMessage is the text of the innermost error. Wrapped errors render
// a sanitized summary, so driver details are only visible at the root.
func driverMessage(err error) string {
	return goerrors.RootCause(err).Error()
}

func isUniqueViolation(err error) bool {
	if grepo.IsDuplicatedKey(err) || pgCode(err) == pgUniqueViolation {
		return true
	}
	return strings.Contains(driverMessage(err), "UNIQUE constraint failed")
}

func isForeignKeyViolation(err error) bool {
	if rich, ok := apierr.As(err); ok && rich.TextCode == "FOREIGN_KEY_VIOLATION" {
		return true
	}
	if pgCode(err) == pgForeignKeyViolation {
		return true
	}
	return strings.Contains(driverMessage(err), "FOREIGN KEY constraint failed")
}

func isCheckViolation(err error) bool {
	if rich, ok := apierr.As(err); ok {
		switch rich.TextCode {
		case "CHECK_CONSTRAINT_VIOLATION", "NOT_NULL_VIOLATION", "CONSTRAINT_VIOLATION":
			return true
		}
	}
	if pgCode(err) == pgCheckViolation {
		return true
	}
	return strings.Contains(driverMessage(err), "CHECK constraint failed")
}
