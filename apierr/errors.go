package apierr

import (
	"net/http"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// CategoryUnprocessable marks requests that are well formed but refer to
// state that cannot accept them, such as a missing foreign row.
const CategoryUnprocessable goerrors.Category = "unprocessable"

// StatusFor returns the HTTP status used for a category.
func StatusFor(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case CategoryUnprocessable:
		return http.StatusUnprocessableEntity
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// StatusCode returns the explicit code of e, or the status of its category.
func StatusCode(e *goerrors.Error) int {
	if e == nil {
		return http.StatusInternalServerError
	}
	if e.Code != 0 {
		return e.Code
	}
	return StatusFor(e.Category)
}

// Unprocessable creates a 422 error.
func Unprocessable(message string) *goerrors.Error {
	return goerrors.New(message, CategoryUnprocessable).
		WithCode(http.StatusUnprocessableEntity)
}

// As returns the first *goerrors.Error in err's chain.
func As(err error) (*goerrors.Error, bool) {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) && rich != nil {
		return rich, true
	}
	return nil, false
}

func IsConflict(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryConflict)
}

func IsUnprocessable(err error) bool {
	return goerrors.IsCategory(err, CategoryUnprocessable)
}

// IsValidation reports validation and bad input errors alike.
func IsValidation(err error) bool {
	return goerrors.IsCategory(err, goerrors.CategoryValidation) ||
		goerrors.IsCategory(err, goerrors.CategoryBadInput)
}

// Details rebuilds the per field report of e. Dotted field paths become
// nested maps, so "params.id" is reported under details.params.id.
func Details(e *goerrors.Error) map[string]any {
	if e == nil || len(e.ValidationErrors) == 0 {
		return nil
	}

	fields := make([]goerrors.FieldError, len(e.ValidationErrors))
	copy(fields, e.ValidationErrors)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })

	out := map[string]any{}
	for _, fe := range fields {
		path := strings.Split(fe.Field, ".")
		node := out
		for _, key := range path[:len(path)-1] {
			next, ok := node[key].(map[string]any)
			if !ok {
				next = map[string]any{}
				node[key] = next
			}
			node = next
		}
		node[path[len(path)-1]] = fe.Message
	}
	return out
}

// Stack renders the stack captured on e, or its creation site when no
// stack was captured.
func Stack(e *goerrors.Error) string {
	if e == nil {
		return ""
	}
	if len(e.StackTrace) > 0 {
		return e.Message + "\n" + e.StackTrace.String()
	}
	if e.Location != nil {
		return e.Message + "\n\t" + e.Location.String()
	}
	return ""
}
