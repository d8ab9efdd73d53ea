package schema

import (
	"errors"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
	"github.com/lingoscene/lingoscene-api/apierr"
)

// Normalizer is implemented by payloads that trim strings or fill
// defaults before their rules run.
type Normalizer interface {
	Normalize()
}

// ParamBinder is implemented by payloads that take values from the path.
type ParamBinder interface {
	BindParams(params Values)
}

// RuleSet declares everything an operation validates before dispatch.
type RuleSet struct {
	Params []Param
	Query  []Param
	// Body returns a fresh payload pointer. Nil means the body is ignored.
	Body func() any
}

// Input is the untrusted request data
type Input struct {
	Param func(name string) string
	Query func(name string) string
	Body  []byte
}

// Result holds the typed, validated request data.
type Result struct {
	Params Values
	Query  Values
	Body   any
}

// IsZero reports whether the rule set validates nothing
func (rs RuleSet) IsZero() bool {
	return len(rs.Params) == 0 && len(rs.Query) == 0 && rs.Body == nil
}

// Validate runs the whole rule set and reports all violations at once.
// A body that is not a JSON object is a bad input error, every other
// failure is a validation error with nested details.
func (rs RuleSet) Validate(in Input) (*Result, error) {
	res := &Result{
		Params: Values{},
		Query:  Values{},
	}
	errs := validation.Errors{}

	if perrs := coerceAll(rs.Params, in.Param, res.Params); len(perrs) > 0 {
		errs["params"] = perrs
	}

	if qerrs := coerceAll(rs.Query, in.Query, res.Query); len(qerrs) > 0 {
		errs["query"] = qerrs
	}

	if rs.Body != nil {
		payload := rs.Body()

		typeErrs, err := Bind(in.Body, payload)
		if err != nil {
			if errors.Is(err, ErrMalformedBody) {
				return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, ErrMalformedBody.Error()).
					WithCode(http.StatusBadRequest).
					WithTextCode("MALFORMED_BODY")
			}
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "schema binding failed").
				WithStackTrace()
		}

		if pb, ok := payload.(ParamBinder); ok {
			pb.BindParams(res.Params)
		}

		if n, ok := payload.(Normalizer); ok {
			n.Normalize()
		}

		if err := validatePayload(payload); err != nil {
			var ruleErrs validation.Errors
			if !errors.As(err, &ruleErrs) {
				return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "schema validation failed").
					WithStackTrace()
			}
			mergeErrors(errs, ruleErrs, false)
		}

		// type errors win over rule errors for the same field
		mergeErrors(errs, typeErrs, true)

		res.Body = payload
	}

	if len(errs) > 0 {
		return nil, NewValidationError(errs)
	}

	return res, nil
}

// ValidateValue runs the payload rules on a value built outside of HTTP,
// such as seed records or CLI flags.
func ValidateValue(payload any) error {
	if n, ok := payload.(Normalizer); ok {
		n.Normalize()
	}

	err := validatePayload(payload)
	if err == nil {
		return nil
	}

	var ruleErrs validation.Errors
	if errors.As(err, &ruleErrs) {
		return NewValidationError(ruleErrs)
	}
	return err
}

func validatePayload(payload any) error {
	v, ok := payload.(validation.Validatable)
	if !ok {
		return nil
	}
	return v.Validate()
}

func coerceAll(params []Param, get func(string) string, out Values) validation.Errors {
	errs := validation.Errors{}
	for _, p := range params {
		raw := ""
		if get != nil {
			raw = get(p.Name)
		}

		if raw == "" {
			if !p.Optional {
				errs[p.Name] = errors.New("is required")
			}
			continue
		}

		v, err := p.Coerce(raw)
		if err != nil {
			errs[p.Name] = err
			continue
		}
		out[p.Name] = v
	}
	return errs
}

func mergeErrors(dst, src validation.Errors, overwrite bool) {
	for k, v := range src {
		if v == nil {
			continue
		}

		srcNested, srcOK := v.(validation.Errors)
		dstNested, dstOK := dst[k].(validation.Errors)
		if srcOK && dstOK {
			mergeErrors(dstNested, srcNested, overwrite)
			continue
		}

		if _, exists := dst[k]; exists && !overwrite {
			continue
		}
		dst[k] = v
	}
}

// NewValidationError wraps a per field report into a 400 error. Nested
// ozzo errors become dotted field paths.
func NewValidationError(errs validation.Errors) *goerrors.Error {
	return goerrors.NewValidation(apierr.ValidationMessage, FieldErrors(errs)...).
		WithCode(http.StatusBadRequest).
		WithTextCode("VALIDATION_ERROR")
}

// FieldErrors flattens ozzo errors into field errors sorted by path.
func FieldErrors(err error) []goerrors.FieldError {
	if err == nil {
		return nil
	}

	var errs validation.Errors
	if !errors.As(err, &errs) {
		return []goerrors.FieldError{{Field: "error", Message: err.Error()}}
	}

	var out []goerrors.FieldError
	collectFieldErrors("", errs, &out)
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func collectFieldErrors(prefix string, errs validation.Errors, out *[]goerrors.FieldError) {
	for field, fieldErr := range errs {
		if fieldErr == nil {
			continue
		}
		path := field
		if prefix != "" {
			path = prefix + "." + field
		}

		var nested validation.Errors
		if errors.As(fieldErr, &nested) {
			collectFieldErrors(path, nested, out)
			continue
		}
		*out = append(*out, goerrors.FieldError{Field: path, Message: fieldErr.Error()})
	}
}
