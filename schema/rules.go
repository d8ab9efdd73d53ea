package schema

import (
	"errors"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

var noop = validation.By(func(any) error { return nil })

var (
	hasUpper    = regexp.MustCompile(`[A-Z]`)
	hasLower    = regexp.MustCompile(`[a-z]`)
	hasDigit    = regexp.MustCompile(`[0-9]`)
	hexColorRgx = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// presence is Required for full payloads. Partial payloads accept an
// absent field but still reject an empty one.
func presence(partial bool, message string) validation.Rule {
	if partial {
		return validation.NilOrNotEmpty.Error(message)
	}
	return validation.Required.Error(message)
}

// notNil is NotNil for full payloads and a no-op for partial ones.
func notNil(partial bool, message string) validation.Rule {
	if partial {
		return noop
	}
	return validation.NotNil.Error(message)
}

// between checks an integer range, zero included. ozzo Min/Max treat
// zero as empty and skip it.
func between(min, max int64, message string) validation.Rule {
	return validation.By(func(value any) error {
		v, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		n, err := validation.ToInt(v)
		if err != nil || n < min || n > max {
			return errors.New(message)
		}
		return nil
	})
}

func positive(message string) validation.Rule {
	return validation.By(func(value any) error {
		v, isNil := validation.Indirect(value)
		if isNil {
			return nil
		}
		n, err := validation.ToInt(v)
		if err != nil || n <= 0 {
			return errors.New(message)
		}
		return nil
	})
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}

func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }
