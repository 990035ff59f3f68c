package config

import (
	"context"
	"errors"
	"reflect"
	"sync"

	"github.com/zoobzio/dyncodec"
)

// Schema is the derived codec and value list for struct type T.
// Schemas are immutable and safe for concurrent use.
type Schema[T any] struct {
	values []Value
	codec  dyncodec.Codec[T]
}

// New derives the schema for struct type T.
func New[T any]() (*Schema[T], error) {
	values, err := Scan[T]()
	if err != nil {
		return nil, err
	}
	rt := reflect.TypeFor[T]()
	c, err := newBuilder().structCodec(rt, values)
	if err != nil {
		return nil, err
	}
	return &Schema[T]{
		values: values,
		codec: dyncodec.Transform(c,
			func(v reflect.Value) T { return v.Interface().(T) },
			func(t T) reflect.Value { return reflect.ValueOf(t) },
		),
	}, nil
}

// Values returns the top-level values of T.
func (s *Schema[T]) Values() []Value {
	return append([]Value(nil), s.values...)
}

// Codec returns the codec for T.
func (s *Schema[T]) Codec() dyncodec.Codec[T] {
	return s.codec
}

// Defaults decodes T from an empty input, so every field takes its default.
// It fails when T has fields without defaults.
func (s *Schema[T]) Defaults(ctx context.Context) (T, error) {
	return s.codec.Decode(ctx, dyncodec.Literal, map[string]any{})
}

// Validate runs every validator of T against instance.
func (s *Schema[T]) Validate(instance T) error {
	var errs []error
	validate(reflect.ValueOf(instance), s.values, "", &errs)
	return errors.Join(errs...)
}

var (
	registry   = make(map[reflect.Type]any)
	registryMu sync.RWMutex
)

// Use returns a cached schema or derives a new one.
func Use[T any]() (*Schema[T], error) {
	typ := reflect.TypeFor[T]()

	// Fast path: read-lock cache check
	registryMu.RLock()
	if cached, ok := registry[typ]; ok {
		registryMu.RUnlock()
		return cached.(*Schema[T]), nil
	}
	registryMu.RUnlock()

	// Slow path: build and cache with write-lock
	registryMu.Lock()
	defer registryMu.Unlock()

	// Double-check pattern
	if cached, ok := registry[typ]; ok {
		return cached.(*Schema[T]), nil
	}

	schema, err := New[T]()
	if err != nil {
		return nil, err
	}

	registry[typ] = schema
	return schema, nil
}

// Validate runs every validator of T against instance using the cached schema.
func Validate[T any](instance T) error {
	s, err := Use[T]()
	if err != nil {
		return err
	}
	return s.Validate(instance)
}

// Reset clears the schema registry.
// This is primarily useful for test isolation.
func Reset() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[reflect.Type]any)
}
