package dyncodec

import (
	"context"
	"reflect"
)

// keyedField reads and writes one key of an enclosing map.
type keyedField[T any] struct {
	key   string
	codec Codec[T]
	deflt Receiver[T]
	omit  func(T) bool
}

// decode reads the field from m. An empty value counts as absent. When the key is
// absent the default receiver, if any, is consulted. found is false when neither
// the input nor the default produced a value.
func (f *keyedField[T]) decode(ctx context.Context, ops Ops, m *MapLike, codec Codec[T]) (v T, found bool, err error) {
	if raw, ok := m.Get(f.key); ok && ops.Kind(raw) != KindEmpty {
		v, err = codec.Decode(ctx, ops, raw)
		return v, true, err
	}
	if f.deflt == nil {
		return v, false, nil
	}
	return f.deflt.Resolve(ctx, ops)
}

func (f *keyedField[T]) encode(ctx context.Context, ops Ops, v T, rb *RecordBuilder, codec Codec[T]) {
	if f.omit != nil && f.omit(v) {
		return
	}
	enc, err := codec.Encode(ctx, ops, v)
	if err != nil {
		rb.AddError(f.key, err)
		return
	}
	rb.Add(f.key, enc)
}

// fieldCodec is a MapCodec for one key, exposing the decoded T as V.
type fieldCodec[T, V any] struct {
	f       keyedField[T]
	present func(T) V
	absent  func() (V, bool)
	unwrap  func(V) (T, bool)
}

func (c *fieldCodec[T, V]) DecodeMap(ctx context.Context, ops Ops, m *MapLike) (V, error) {
	v, found, err := c.f.decode(ctx, ops, m, c.f.codec)
	if err != nil {
		var zero V
		return zero, &FieldError{Field: c.f.key, Err: err}
	}
	if found {
		return c.present(v), nil
	}
	if c.absent != nil {
		if out, ok := c.absent(); ok {
			return out, nil
		}
	}
	var zero V
	return zero, &KeyError{Key: c.f.key}
}

func (c *fieldCodec[T, V]) EncodeMap(ctx context.Context, ops Ops, v V, rb *RecordBuilder) {
	t, ok := c.unwrap(v)
	if !ok {
		return
	}
	c.f.encode(ctx, ops, t, rb, c.f.codec)
}

func (c *fieldCodec[T, V]) Keys() []string {
	return []string{c.f.key}
}

func identity[T any](v T) T { return v }

func notNil[T any](v T) (T, bool) { return v, !isNil(v) }

func deref[T any](p *T) (T, bool) {
	if p == nil {
		var zero T
		return zero, false
	}
	return *p, true
}

func ref[T any](v T) *T { return &v }

// isNil reports whether v is a nil pointer, map, slice, interface, or func.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// equalTo returns a predicate matching values deeply equal to def().
func equalTo[T any](def func() T) func(T) bool {
	return func(v T) bool { return reflect.DeepEqual(v, def()) }
}

// FieldOf reads key with c. A missing key fails with "No key <key>".
func FieldOf[T any](key string, c Codec[T]) MapCodec[T] {
	return &fieldCodec[T, T]{
		f:       keyedField[T]{key: key, codec: c},
		present: identity[T],
		unwrap:  notNil[T],
	}
}

// OptionalFieldOf reads key with c. A missing key decodes to None, and None is
// not written.
func OptionalFieldOf[T any](key string, c Codec[T]) MapCodec[Option[T]] {
	return &fieldCodec[T, Option[T]]{
		f:       keyedField[T]{key: key, codec: c},
		present: Some[T],
		absent:  func() (Option[T], bool) { return None[T](), true },
		unwrap:  Option[T].Get,
	}
}

// NullableFieldOf reads key with c. A missing key decodes to nil, and nil is not
// written.
func NullableFieldOf[T any](key string, c Codec[T]) MapCodec[*T] {
	return &fieldCodec[T, *T]{
		f:       keyedField[T]{key: key, codec: c},
		present: ref[T],
		absent:  func() (*T, bool) { return nil, true },
		unwrap:  deref[T],
	}
}

// DefaultedFieldOf reads key with c, falling back to def. Values equal to def are
// not written.
func DefaultedFieldOf[T any](key string, c Codec[T], def T) MapCodec[T] {
	return &fieldCodec[T, T]{
		f: keyedField[T]{
			key:   key,
			codec: c,
			deflt: staticDefault(def),
			omit:  equalTo(func() T { return def }),
		},
		present: identity[T],
		unwrap:  notNil[T],
	}
}

// DefaultGetFieldOf is DefaultedFieldOf with a default computed on demand.
func DefaultGetFieldOf[T any](key string, c Codec[T], def func() T) MapCodec[T] {
	return &fieldCodec[T, T]{
		f: keyedField[T]{
			key:   key,
			codec: c,
			deflt: suppliedDefault(def),
			omit:  equalTo(def),
		},
		present: identity[T],
		unwrap:  notNil[T],
	}
}

// DefaultTryFieldOf reads key with c, falling back to r. When r finds nothing the
// decode fails with "No key <key>".
func DefaultTryFieldOf[T any](key string, c Codec[T], r Receiver[T]) MapCodec[T] {
	return &fieldCodec[T, T]{
		f:       keyedField[T]{key: key, codec: c, deflt: r},
		present: identity[T],
		unwrap:  notNil[T],
	}
}

// NullableTryFieldOf reads key with c, falling back to r, then to nil.
func NullableTryFieldOf[T any](key string, c Codec[T], r Receiver[T]) MapCodec[*T] {
	return &fieldCodec[T, *T]{
		f:       keyedField[T]{key: key, codec: c, deflt: r},
		present: ref[T],
		absent:  func() (*T, bool) { return nil, true },
		unwrap:  deref[T],
	}
}

// FieldDescriptor pairs a MapCodec with the getter that extracts its value from
// the composite A. Record builders assemble composites from descriptors.
type FieldDescriptor[A, T any] struct {
	codec MapCodec[T]
	get   func(A) T
}

// ForGetter returns a descriptor reading values of mc out of A through get.
func ForGetter[A, T any](mc MapCodec[T], get func(A) T) FieldDescriptor[A, T] {
	return FieldDescriptor[A, T]{codec: mc, get: get}
}

func (d FieldDescriptor[A, T]) decodeSlot(ctx context.Context, ops Ops, m *MapLike) (any, error) {
	return d.codec.DecodeMap(ctx, ops, m)
}

func (d FieldDescriptor[A, T]) encodeSlot(ctx context.Context, ops Ops, a A, rb *RecordBuilder) {
	d.codec.EncodeMap(ctx, ops, d.get(a), rb)
}

func (d FieldDescriptor[A, T]) keys() []string {
	return d.codec.Keys()
}
