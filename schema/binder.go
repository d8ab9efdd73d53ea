package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
)

// ErrMalformedBody is returned when the body is not a JSON object
var ErrMalformedBody = errors.New("Malformed JSON body")

var (
	timeType        = reflect.TypeOf(time.Time{})
	unmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()
)

// Bind decodes a JSON object into dst, a pointer to a struct. Each field
// is decoded on its own and type mismatches are collected instead of
// aborting, so a numeric field given "abc" is reported next to every
// other bad field. An empty body binds as an empty object.
func Bind(raw []byte, dst any) (validation.Errors, error) {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: bind target must be a struct pointer, got %T", dst)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return nil, ErrMalformedBody
	}

	return bindObject(fields, rv.Elem()), nil
}

func bindObject(fields map[string]json.RawMessage, sv reflect.Value) validation.Errors {
	errs := validation.Errors{}
	st := sv.Type()

	for i := 0; i < st.NumField(); i++ {
		sf := st.Field(i)
		if !sf.IsExported() {
			continue
		}

		name := jsonName(sf)
		if name == "" {
			continue
		}

		raw, ok := fields[name]
		if !ok {
			continue
		}

		fv := sv.Field(i)

		if nested, ok := nestedStruct(sf.Type); ok && isJSONObject(raw) {
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(raw, &inner); err != nil {
				errs[name] = errors.New("must be an object")
				continue
			}

			target := fv
			if fv.Kind() == reflect.Ptr {
				if fv.IsNil() {
					fv.Set(reflect.New(nested))
				}
				target = fv.Elem()
			}

			if nestedErrs := bindObject(inner, target); len(nestedErrs) > 0 {
				errs[name] = nestedErrs
			}
			continue
		}

		ptr := reflect.New(sf.Type)
		if err := json.Unmarshal(raw, ptr.Interface()); err != nil {
			errs[name] = errors.New(typeMessage(sf.Type))
			continue
		}
		fv.Set(ptr.Elem())
	}

	return errs
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name
	}
	return name
}

// nestedStruct reports whether t (or *t) is a plain struct that should be
// bound field by field.
func nestedStruct(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return nil, false
	}
	if t.Implements(unmarshalerType) || reflect.PointerTo(t).Implements(unmarshalerType) {
		return nil, false
	}
	return t, true
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func typeMessage(t reflect.Type) string {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t == timeType {
		return "must be an RFC3339 timestamp"
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "must be an integer"
	case reflect.Float32, reflect.Float64:
		return "must be a number"
	case reflect.Bool:
		return "must be a boolean"
	case reflect.String:
		return "must be a string"
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.String {
			return "must be a list of strings"
		}
		return "must be a list"
	case reflect.Struct, reflect.Map:
		return "must be an object"
	}
	return "has an invalid type"
}
