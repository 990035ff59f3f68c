package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/zoobzio/dyncodec"
)

// Validator checks a decoded field value.
type Validator func(v any) error

func parseValidators(name string, rt reflect.Type, tags map[string]string) ([]Validator, error) {
	var out []Validator
	if s, ok := tags[tagMin]; ok {
		limit, err := parseLimit(rt, s)
		if err != nil {
			return nil, &dyncodec.ConfigError{Err: dyncodec.ErrInvalidField, Field: name, Reason: "min: " + err.Error()}
		}
		out = append(out, Min(limit))
	}
	if s, ok := tags[tagMax]; ok {
		limit, err := parseLimit(rt, s)
		if err != nil {
			return nil, &dyncodec.ConfigError{Err: dyncodec.ErrInvalidField, Field: name, Reason: "max: " + err.Error()}
		}
		out = append(out, Max(limit))
	}
	if s, ok := tags[tagOneOf]; ok {
		out = append(out, OneOf(strings.Fields(s)...))
	}
	return out, nil
}

// parseLimit reads a bound. Durations accept Go duration syntax.
func parseLimit(rt reflect.Type, s string) (float64, error) {
	if rt == durationType {
		d, err := time.ParseDuration(s)
		return float64(d), err
	}
	return strconv.ParseFloat(s, 64)
}

// measure returns the number a bound applies to: the value of numbers and the
// length of strings, slices and maps.
func measure(v any) (float64, bool) {
	rv := reflect.Indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return float64(rv.Len()), true
	}
	return 0, false
}

// Min rejects values measuring below limit.
func Min(limit float64) Validator {
	return func(v any) error {
		if n, ok := measure(v); ok && n < limit {
			return fmt.Errorf("%v is below the minimum %v", v, limit)
		}
		return nil
	}
}

// Max rejects values measuring above limit.
func Max(limit float64) Validator {
	return func(v any) error {
		if n, ok := measure(v); ok && n > limit {
			return fmt.Errorf("%v is above the maximum %v", v, limit)
		}
		return nil
	}
}

// OneOf rejects values whose text form is not one of allowed.
func OneOf(allowed ...string) Validator {
	return func(v any) error {
		s := fmt.Sprint(reflect.Indirect(reflect.ValueOf(v)).Interface())
		for _, a := range allowed {
			if s == a {
				return nil
			}
		}
		return fmt.Errorf("%q is not one of %s", s, strings.Join(allowed, ", "))
	}
}

// validate runs the validators of values against the struct rv, descending into
// nested sections. Failures are reported under their dotted key path.
func validate(rv reflect.Value, values []Value, prefix string, errs *[]error) {
	for _, v := range values {
		path := prefix + v.Name
		fv := rv.FieldByIndex(v.index)
		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			continue
		}
		if err := v.check(fv); err != nil {
			*errs = append(*errs, &dyncodec.FieldError{Field: path, Err: fmt.Errorf("%w: %w", dyncodec.ErrValidation, err)})
		}
		if len(v.Fields) > 0 {
			validate(reflect.Indirect(fv), v.Fields, path+".", errs)
		}
	}
}
