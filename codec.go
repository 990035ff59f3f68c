// Package dyncodec provides bidirectional, format-agnostic codecs with composable
// field schemas and ancestor-to-descendant value capture.
package dyncodec

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"
)

// Codec is a bidirectional transform between a typed value and a dynamic value
// owned by an Ops. decode(encode(v)) == v for every valid v, and neither
// direction mutates its input.
type Codec[A any] interface {
	// Decode reads a value from the dynamic input in.
	Decode(ctx context.Context, ops Ops, in any) (A, error)

	// Encode renders v as a dynamic value.
	Encode(ctx context.Context, ops Ops, v A) (any, error)
}

// MapCodec is a codec that reads from and writes into an enclosing map.
// Several MapCodecs can share one map, which is how composite schemas are built.
type MapCodec[A any] interface {
	// DecodeMap reads a value from the entries of m.
	DecodeMap(ctx context.Context, ops Ops, m *MapLike) (A, error)

	// EncodeMap writes the entries for v into rb.
	EncodeMap(ctx context.Context, ops Ops, v A, rb *RecordBuilder)

	// Keys lists the map keys this codec reads and writes.
	Keys() []string
}

// AsCodec lifts a MapCodec into a Codec over whole map values.
func AsCodec[A any](mc MapCodec[A]) Codec[A] {
	if c, ok := mc.(Codec[A]); ok {
		return c
	}
	return mapCodec[A]{mc}
}

type mapCodec[A any] struct {
	MapCodec[A]
}

func (c mapCodec[A]) Decode(ctx context.Context, ops Ops, in any) (A, error) {
	return decodeMap(ctx, ops, in, c.MapCodec)
}

func (c mapCodec[A]) Encode(ctx context.Context, ops Ops, v A) (any, error) {
	return encodeMap(ctx, ops, v, c.MapCodec)
}

func decodeMap[A any](ctx context.Context, ops Ops, in any, mc MapCodec[A]) (A, error) {
	m, err := ops.GetMap(in)
	if err != nil {
		var zero A
		return zero, err
	}
	return mc.DecodeMap(ctx, ops, m)
}

func encodeMap[A any](ctx context.Context, ops Ops, v A, mc MapCodec[A]) (any, error) {
	rb := NewRecordBuilder(ops)
	mc.EncodeMap(ctx, ops, v, rb)
	return rb.Build()
}

// primitive adapts a pair of functions into a Codec.
type primitive[A any] struct {
	decode func(ops Ops, in any) (A, error)
	encode func(ops Ops, v A) any
}

func (p primitive[A]) Decode(_ context.Context, ops Ops, in any) (A, error) {
	return p.decode(ops, in)
}

func (p primitive[A]) Encode(_ context.Context, ops Ops, v A) (any, error) {
	return p.encode(ops, v), nil
}

// Primitive codecs.
var (
	String Codec[string] = primitive[string]{
		decode: func(ops Ops, in any) (string, error) { return ops.GetString(in) },
		encode: func(ops Ops, v string) any { return ops.CreateString(v) },
	}

	Bool Codec[bool] = primitive[bool]{
		decode: func(ops Ops, in any) (bool, error) { return ops.GetBool(in) },
		encode: func(ops Ops, v bool) any { return ops.CreateBool(v) },
	}

	Int64 Codec[int64] = primitive[int64]{
		decode: func(ops Ops, in any) (int64, error) { return ops.GetInt(in) },
		encode: func(ops Ops, v int64) any { return ops.CreateInt(v) },
	}

	Int Codec[int] = primitive[int]{
		decode: func(ops Ops, in any) (int, error) {
			i, err := ops.GetInt(in)
			if err != nil {
				return 0, err
			}
			if i < math.MinInt || i > math.MaxInt {
				return 0, fmt.Errorf("%w: %d overflows int", ErrTypeMismatch, i)
			}
			return int(i), nil
		},
		encode: func(ops Ops, v int) any { return ops.CreateInt(int64(v)) },
	}

	Float64 Codec[float64] = primitive[float64]{
		decode: func(ops Ops, in any) (float64, error) { return ops.GetFloat(in) },
		encode: func(ops Ops, v float64) any { return ops.CreateFloat(v) },
	}

	// Duration reads either a Go duration string ("1m30s") or integer nanoseconds,
	// and always writes the string form.
	Duration Codec[time.Duration] = primitive[time.Duration]{
		decode: func(ops Ops, in any) (time.Duration, error) {
			if ops.Kind(in) == KindInt {
				n, err := ops.GetInt(in)
				return time.Duration(n), err
			}
			s, err := ops.GetString(in)
			if err != nil {
				return 0, err
			}
			return time.ParseDuration(s)
		},
		encode: func(ops Ops, v time.Duration) any { return ops.CreateString(v.String()) },
	}
)

// ListOf returns a codec for lists of elements handled by c.
// Decoding continues past failing elements; their errors are joined and the
// successfully decoded elements are returned alongside.
func ListOf[A any](c Codec[A]) Codec[[]A] {
	return listCodec[A]{elem: c}
}

type listCodec[A any] struct {
	elem Codec[A]
}

func (l listCodec[A]) Decode(ctx context.Context, ops Ops, in any) ([]A, error) {
	items, err := ops.GetList(in)
	if err != nil {
		return nil, err
	}
	out := make([]A, 0, len(items))
	var errs []error
	for i, item := range items {
		v, err := l.elem.Decode(ctx, ops, item)
		if err != nil {
			errs = append(errs, &IndexError{Index: i, Err: err})
			continue
		}
		out = append(out, v)
	}
	return out, errors.Join(errs...)
}

func (l listCodec[A]) Encode(ctx context.Context, ops Ops, v []A) (any, error) {
	items := make([]any, 0, len(v))
	var errs []error
	for i, e := range v {
		enc, err := l.elem.Encode(ctx, ops, e)
		if err != nil {
			errs = append(errs, &IndexError{Index: i, Err: err})
			continue
		}
		items = append(items, enc)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return ops.CreateList(items), nil
}

// MapOf returns a codec for string-keyed maps of values handled by c.
// Entries are written in sorted key order.
func MapOf[V any](c Codec[V]) Codec[map[string]V] {
	return mapOfCodec[V]{elem: c}
}

type mapOfCodec[V any] struct {
	elem Codec[V]
}

func (c mapOfCodec[V]) Decode(ctx context.Context, ops Ops, in any) (map[string]V, error) {
	m, err := ops.GetMap(in)
	if err != nil {
		return nil, err
	}
	out := make(map[string]V, m.Len())
	var errs []error
	for _, k := range m.keys {
		v, err := c.elem.Decode(ctx, ops, m.values[k])
		if err != nil {
			errs = append(errs, &FieldError{Field: k, Err: err})
			continue
		}
		out[k] = v
	}
	return out, errors.Join(errs...)
}

func (c mapOfCodec[V]) Encode(ctx context.Context, ops Ops, v map[string]V) (any, error) {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rb := NewRecordBuilder(ops)
	for _, k := range keys {
		enc, err := c.elem.Encode(ctx, ops, v[k])
		if err != nil {
			rb.AddError(k, err)
			continue
		}
		rb.Add(k, enc)
	}
	return rb.Build()
}

// Lazy defers codec construction until first use, allowing self-referential schemas
// such as a node whose children are nodes. fn runs once.
func Lazy[A any](fn func() Codec[A]) Codec[A] {
	return &lazyCodec[A]{fn: fn}
}

type lazyCodec[A any] struct {
	once  sync.Once
	fn    func() Codec[A]
	codec Codec[A]
}

func (l *lazyCodec[A]) resolve() Codec[A] {
	l.once.Do(func() { l.codec = l.fn() })
	return l.codec
}

func (l *lazyCodec[A]) Decode(ctx context.Context, ops Ops, in any) (A, error) {
	return l.resolve().Decode(ctx, ops, in)
}

func (l *lazyCodec[A]) Encode(ctx context.Context, ops Ops, v A) (any, error) {
	return l.resolve().Encode(ctx, ops, v)
}

// Transform maps a codec for A onto B with a lossless pair of functions.
func Transform[A, B any](c Codec[A], to func(A) B, from func(B) A) Codec[B] {
	return TryTransform(c,
		func(a A) (B, error) { return to(a), nil },
		func(b B) (A, error) { return from(b), nil },
	)
}

// TryTransform maps a codec for A onto B where either direction may fail.
func TryTransform[A, B any](c Codec[A], to func(A) (B, error), from func(B) (A, error)) Codec[B] {
	return transformCodec[A, B]{inner: c, to: to, from: from}
}

type transformCodec[A, B any] struct {
	inner Codec[A]
	to    func(A) (B, error)
	from  func(B) (A, error)
}

func (t transformCodec[A, B]) Decode(ctx context.Context, ops Ops, in any) (B, error) {
	a, err := t.inner.Decode(ctx, ops, in)
	if err != nil {
		var zero B
		return zero, err
	}
	return t.to(a)
}

func (t transformCodec[A, B]) Encode(ctx context.Context, ops Ops, v B) (any, error) {
	a, err := t.from(v)
	if err != nil {
		return nil, err
	}
	return t.inner.Encode(ctx, ops, a)
}

// Validated rejects decoded values for which check returns an error.
// The rejection wraps ErrValidation.
func Validated[A any](c Codec[A], check func(A) error) Codec[A] {
	return TryTransform(c,
		func(a A) (A, error) {
			if err := check(a); err != nil {
				return a, fmt.Errorf("%w: %w", ErrValidation, err)
			}
			return a, nil
		},
		func(a A) (A, error) { return a, nil },
	)
}

// Enum maps a fixed set of strings onto values of A.
func Enum[A comparable](values map[string]A) Codec[A] {
	names := make(map[A]string, len(values))
	for name, v := range values {
		names[v] = name
	}
	return TryTransform(String,
		func(s string) (A, error) {
			v, ok := values[s]
			if !ok {
				var zero A
				return zero, fmt.Errorf("%w: unknown value %q", ErrTypeMismatch, s)
			}
			return v, nil
		},
		func(v A) (string, error) {
			name, ok := names[v]
			if !ok {
				return "", fmt.Errorf("%w: %v has no name", ErrTypeMismatch, v)
			}
			return name, nil
		},
	)
}
