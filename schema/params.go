package schema

import (
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Kind is the declared type of a path or query parameter
type Kind int

const (
	PositiveInt Kind = iota
	UUID
	Text
)

// Param declares one path or query parameter.
type Param struct {
	Name     string
	Kind     Kind
	Optional bool
}

// Values holds coerced parameters keyed by name
type Values map[string]any

// Int returns the named integer parameter or zero.
func (v Values) Int(name string) int64 {
	n, _ := v[name].(int64)
	return n
}

// IntPtr returns the named integer parameter or nil when it was not sent.
func (v Values) IntPtr(name string) *int64 {
	n, ok := v[name].(int64)
	if !ok {
		return nil
	}
	return &n
}

func (v Values) UUID(name string) uuid.UUID {
	id, _ := v[name].(uuid.UUID)
	return id
}

func (v Values) String(name string) string {
	s, _ := v[name].(string)
	return s
}

// Has reports whether the named parameter was present and valid
func (v Values) Has(name string) bool {
	_, ok := v[name]
	return ok
}

// Coerce converts raw into the parameter's declared kind. Conversion is
// strict: "12abc", "0" and "-3" are not positive integers.
func (p Param) Coerce(raw string) (any, error) {
	raw = strings.TrimSpace(raw)

	switch p.Kind {
	case PositiveInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			return nil, errors.New("must be a positive integer")
		}
		return n, nil
	case UUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errors.New("must be a valid UUID")
		}
		return id, nil
	default:
		return raw, nil
	}
}
