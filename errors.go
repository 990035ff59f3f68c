package dyncodec

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for programmatic error handling.
// Use errors.Is() to check for these error types.
var (
	// ErrMissingKey indicates a required key was absent and no default resolved.
	ErrMissingKey = errors.New("missing key")

	// ErrTypeMismatch indicates a dynamic value had the wrong shape for a codec.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrNoMatch indicates no alternative of an either/any codec could decode the input.
	ErrNoMatch = errors.New("no alternative matched")

	// ErrUnknownType indicates a dispatch codec met a discriminator it has no variant for.
	ErrUnknownType = errors.New("unknown type")

	// ErrInvalidField indicates a schema was assembled from an illegal field set.
	ErrInvalidField = errors.New("invalid field")

	// ErrValidation indicates a decoded value was rejected by a validator.
	ErrValidation = errors.New("validation failed")

	// ErrUnmarshal indicates a format failed to parse input bytes.
	ErrUnmarshal = errors.New("unmarshal failed")

	// ErrMarshal indicates a format failed to render output bytes.
	ErrMarshal = errors.New("marshal failed")
)

// KeyError reports a key that was absent from a map-shaped input.
type KeyError struct {
	Key string
}

func (e *KeyError) Error() string {
	return "No key " + e.Key
}

func (e *KeyError) Unwrap() error {
	return ErrMissingKey
}

// TypeError reports a dynamic value of the wrong kind.
type TypeError struct {
	Want Kind
	Got  Kind
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("not a %s: got %s", e.Want, e.Got)
}

func (e *TypeError) Unwrap() error {
	return ErrTypeMismatch
}

// FieldError attaches a field name to a decode or encode failure.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// IndexError attaches a list position to an element failure.
type IndexError struct {
	Index int
	Err   error
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("[%d]: %v", e.Index, e.Err)
}

func (e *IndexError) Unwrap() error {
	return e.Err
}

// DecodeError collects every problem found while decoding one composite value.
// Missing keys are listed first, followed by per-field failures in declaration order.
type DecodeError struct {
	Missing []string
	Fields  []*FieldError
}

func (e *DecodeError) Error() string {
	parts := make([]string, 0, len(e.Missing)+len(e.Fields))
	for _, key := range e.Missing {
		parts = append(parts, (&KeyError{Key: key}).Error())
	}
	for _, fe := range e.Fields {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the individual failures to errors.Is and errors.As.
func (e *DecodeError) Unwrap() []error {
	errs := make([]error, 0, len(e.Missing)+len(e.Fields))
	for _, key := range e.Missing {
		errs = append(errs, &KeyError{Key: key})
	}
	for _, fe := range e.Fields {
		errs = append(errs, fe)
	}
	return errs
}

func (e *DecodeError) missing(key string) {
	e.Missing = append(e.Missing, key)
}

// wrap records err as a failure of key. A missing-key error for key itself
// is recorded as a missing key so the composite message stays flat.
func (e *DecodeError) wrap(key string, err error) {
	if ke, ok := err.(*KeyError); ok && ke.Key == key {
		e.missing(key)
		return
	}
	if fe, ok := err.(*FieldError); ok && fe.Field == key {
		e.Fields = append(e.Fields, fe)
		return
	}
	e.Fields = append(e.Fields, &FieldError{Field: key, Err: err})
}

// merge folds err from a codec that shares the enclosing key space (implicit
// fields, record slots) into e. Errors of any other shape are recorded under key.
func (e *DecodeError) merge(key string, err error) {
	switch x := err.(type) {
	case *KeyError:
		e.missing(x.Key)
	case *FieldError:
		e.Fields = append(e.Fields, x)
	case *DecodeError:
		e.Missing = append(e.Missing, x.Missing...)
		e.Fields = append(e.Fields, x.Fields...)
	default:
		e.Fields = append(e.Fields, &FieldError{Field: key, Err: err})
	}
}

func (e *DecodeError) empty() bool {
	return len(e.Missing) == 0 && len(e.Fields) == 0
}

// err returns nil when nothing was recorded so callers can return it directly.
func (e *DecodeError) err() error {
	if e.empty() {
		return nil
	}
	return e
}

// AlternativesError reports that every branch of an alternation failed.
type AlternativesError struct {
	Errs []error
}

func (e *AlternativesError) Error() string {
	parts := make([]string, len(e.Errs))
	for i, err := range e.Errs {
		parts[i] = fmt.Sprintf("#%d: %v", i+1, err)
	}
	return fmt.Sprintf("%s: %s", ErrNoMatch.Error(), strings.Join(parts, "; "))
}

func (e *AlternativesError) Unwrap() []error {
	return append([]error{ErrNoMatch}, e.Errs...)
}

// UnknownTypeError reports a discriminator value with no registered variant.
type UnknownTypeError struct {
	Key string
	Tag string
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("%s %q for key %s", ErrUnknownType.Error(), e.Tag, e.Key)
}

func (e *UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}

// ConfigError represents a schema construction error.
// It wraps a sentinel error with the offending field and a reason.
type ConfigError struct {
	Err    error  // Underlying sentinel error (ErrInvalidField)
	Field  string // Field name that triggered the error
	Reason string // Human readable detail
}

func (e *ConfigError) Error() string {
	if e.Field != "" && e.Reason != "" {
		return fmt.Sprintf("%s %s: %s", e.Err.Error(), e.Field, e.Reason)
	}
	if e.Field != "" {
		return fmt.Sprintf("%s %s", e.Err.Error(), e.Field)
	}
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Reason)
	}
	return e.Err.Error()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// CodecError represents a marshal/unmarshal error.
type CodecError struct {
	Err   error // Underlying sentinel error (ErrMarshal, ErrUnmarshal)
	Cause error // Original error from the format
}

func (e *CodecError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Err.Error(), e.Cause)
	}
	return e.Err.Error()
}

func (e *CodecError) Unwrap() error {
	return e.Err
}

// newConfigError creates a ConfigError for schema construction failures.
func newConfigError(sentinel error, field, reason string) error {
	return &ConfigError{
		Err:    sentinel,
		Field:  field,
		Reason: reason,
	}
}

// newCodecError creates a CodecError for marshal/unmarshal failures.
func newCodecError(sentinel error, cause error) error {
	return &CodecError{
		Err:   sentinel,
		Cause: cause,
	}
}
