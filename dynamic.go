package dyncodec

import (
	"context"
	"fmt"
)

// Policy controls how a DynamicField treats an absent key.
type Policy uint8

const (
	// Required fields fail the decode with "No key <name>" when absent and no
	// default resolves.
	Required Policy = iota

	// Nullable fields are explicitly set to their null value when absent.
	Nullable

	// IgnoreIfNull fields leave the builder untouched when absent.
	IgnoreIfNull

	// Implicit fields read and write their sub-fields in the parent's key space.
	Implicit
)

func (p Policy) String() string {
	switch p {
	case Required:
		return "required"
	case Nullable:
		return "nullable"
	case IgnoreIfNull:
		return "ignore-if-null"
	case Implicit:
		return "implicit"
	}
	return fmt.Sprintf("policy(%d)", p)
}

// FieldSpec is one slot of a DynamicCodec schema with builder type B and read view R.
// Implementations are created by the field constructors in this package.
type FieldSpec[B, R any] interface {
	// Name returns the field key, or the group name for implicit fields.
	Name() string

	// Policy returns the absent-key policy.
	Policy() Policy

	keys() []string
	hasDefault() bool
	bind(self any) (FieldSpec[B, R], error)
	decodeInto(ctx context.Context, ops Ops, m *MapLike, b B, errs *DecodeError)
	encodeFrom(ctx context.Context, ops Ops, r R, rb *RecordBuilder)
}

// DynamicField is a named, typed slot read from R on encode and written into B
// on decode. A nil codec marks a recursive reference to the owning DynamicCodec,
// resolved when the schema is built.
type DynamicField[B, R, T any] struct {
	name     string
	policy   Policy
	kf       keyedField[T]
	implicit MapCodec[T]
	get      func(R) (T, bool)
	set      func(B, T)
	setNull  func(B)
}

func (f *DynamicField[B, R, T]) Name() string   { return f.name }
func (f *DynamicField[B, R, T]) Policy() Policy { return f.policy }

// WithFilter suppresses encoding of values keep rejects. Filters compose with
// default suppression.
func (f *DynamicField[B, R, T]) WithFilter(keep func(T) bool) *DynamicField[B, R, T] {
	prev := f.kf.omit
	f.kf.omit = func(v T) bool {
		return (prev != nil && prev(v)) || !keep(v)
	}
	return f
}

func (f *DynamicField[B, R, T]) keys() []string {
	if f.policy == Implicit {
		if f.implicit == nil {
			return nil
		}
		return f.implicit.Keys()
	}
	return []string{f.name}
}

func (f *DynamicField[B, R, T]) hasDefault() bool {
	return f.kf.deflt != nil
}

func (f *DynamicField[B, R, T]) bind(self any) (FieldSpec[B, R], error) {
	if f.policy == Implicit {
		if f.implicit == nil {
			return nil, newConfigError(ErrInvalidField, f.name, "implicit field requires a map codec")
		}
		return f, nil
	}
	if f.kf.codec != nil {
		return f, nil
	}
	c, ok := self.(Codec[T])
	if !ok {
		var zero T
		return nil, newConfigError(ErrInvalidField, f.name, fmt.Sprintf("recursive field of type %T does not match the owning codec", zero))
	}
	bound := *f
	bound.kf.codec = c
	return &bound, nil
}

func (f *DynamicField[B, R, T]) decodeInto(ctx context.Context, ops Ops, m *MapLike, b B, errs *DecodeError) {
	if f.policy == Implicit {
		v, err := f.implicit.DecodeMap(ctx, ops, m)
		if err != nil {
			errs.merge(f.name, err)
			return
		}
		f.set(b, v)
		return
	}
	v, found, err := f.kf.decode(ctx, ops, m, f.kf.codec)
	switch {
	case err != nil:
		errs.wrap(f.name, err)
	case found:
		f.set(b, v)
	case f.policy == Nullable:
		f.setNull(b)
	case f.policy == Required:
		errs.missing(f.name)
	}
}

func (f *DynamicField[B, R, T]) encodeFrom(ctx context.Context, ops Ops, r R, rb *RecordBuilder) {
	v, ok := f.get(r)
	if !ok {
		return
	}
	if f.policy == Implicit {
		if f.kf.omit != nil && f.kf.omit(v) {
			return
		}
		f.implicit.EncodeMap(ctx, ops, v, rb)
		return
	}
	f.kf.encode(ctx, ops, v, rb, f.kf.codec)
}

func required[B, R, T any](key string, c Codec[T], get func(R) T, set func(B, T)) *DynamicField[B, R, T] {
	return &DynamicField[B, R, T]{
		name:   key,
		policy: Required,
		kf:     keyedField[T]{key: key, codec: c},
		get:    func(r R) (T, bool) { return notNil(get(r)) },
		set:    set,
	}
}

// Field declares a required field. A nil c refers to the owning codec.
// Nil values returned by get are not written.
func Field[B, R, T any](key string, c Codec[T], get func(R) T, set func(B, T)) *DynamicField[B, R, T] {
	return required(key, c, get, set)
}

// OptionalField declares a field whose absence decodes to None. None is not written.
func OptionalField[B, R, T any](key string, c Codec[T], get func(R) Option[T], set func(B, Option[T])) *DynamicField[B, R, T] {
	return &DynamicField[B, R, T]{
		name:    key,
		policy:  Nullable,
		kf:      keyedField[T]{key: key, codec: c},
		get:     func(r R) (T, bool) { return get(r).Get() },
		set:     func(b B, v T) { set(b, Some(v)) },
		setNull: func(b B) { set(b, None[T]()) },
	}
}

// NullableField declares a field whose absence sets nil. nil is not written.
func NullableField[B, R, T any](key string, c Codec[T], get func(R) *T, set func(B, *T)) *DynamicField[B, R, T] {
	return &DynamicField[B, R, T]{
		name:    key,
		policy:  Nullable,
		kf:      keyedField[T]{key: key, codec: c},
		get:     func(r R) (T, bool) { return deref(get(r)) },
		set:     func(b B, v T) { set(b, &v) },
		setNull: func(b B) { set(b, nil) },
	}
}

// IgnoreIfNullField declares a field that leaves the builder untouched when absent,
// keeping whatever the builder was created with.
func IgnoreIfNullField[B, R, T any](key string, c Codec[T], get func(R) *T, set func(B, T)) *DynamicField[B, R, T] {
	return &DynamicField[B, R, T]{
		name:   key,
		policy: IgnoreIfNull,
		kf:     keyedField[T]{key: key, codec: c},
		get:    func(r R) (T, bool) { return deref(get(r)) },
		set:    set,
	}
}

// DefaultedField declares a field that decodes to a copy of def when absent.
// Values equal to def are not written.
func DefaultedField[B, R, T any](key string, c Codec[T], def T, get func(R) T, set func(B, T)) *DynamicField[B, R, T] {
	f := required(key, c, get, set)
	f.kf.deflt = staticDefault(def)
	f.kf.omit = equalTo(func() T { return def })
	return f
}

// DefaultGetField is DefaultedField with a default computed on every use.
func DefaultGetField[B, R, T any](key string, c Codec[T], def func() T, get func(R) T, set func(B, T)) *DynamicField[B, R, T] {
	f := required(key, c, get, set)
	f.kf.deflt = suppliedDefault(def)
	f.kf.omit = equalTo(def)
	return f
}

// DefaultTryField declares a field that falls back to r when absent. When r finds
// nothing the field is missing.
func DefaultTryField[B, R, T any](key string, c Codec[T], r Receiver[T], get func(R) T, set func(B, T)) *DynamicField[B, R, T] {
	f := required(key, c, get, set)
	f.kf.deflt = r
	return f
}

// NullableTryField is NullableField with r consulted before falling back to nil.
func NullableTryField[B, R, T any](key string, c Codec[T], r Receiver[T], get func(R) *T, set func(B, *T)) *DynamicField[B, R, T] {
	f := NullableField(key, c, get, set)
	f.kf.deflt = r
	return f
}

// ImplicitField declares a group whose keys live directly in the parent map.
// mc must not be nil; Build rejects a schema that violates this.
func ImplicitField[B, R, T any](name string, mc MapCodec[T], get func(R) T, set func(B, T)) *DynamicField[B, R, T] {
	return &DynamicField[B, R, T]{
		name:     name,
		policy:   Implicit,
		implicit: mc,
		get:      func(r R) (T, bool) { return notNil(get(r)) },
		set:      set,
	}
}

// DynamicCodec is a codec for an object shape assembled from fields at runtime.
// Decoding fills a fresh B and finalizes it into A; encoding reads fields from the
// view R of an A. Implicit fields decode first, then every other field in
// declaration order. Every failure is collected into one DecodeError.
type DynamicCodec[A, B, R any] struct {
	name     string
	newB     func() B
	finalize func(B) (A, error)
	view     func(A) R
	fields   []FieldSpec[B, R]
	implicit []FieldSpec[B, R]
	explicit []FieldSpec[B, R]
	keys     []string
}

// Name returns the schema name given to the builder.
func (c *DynamicCodec[A, B, R]) Name() string {
	return c.name
}

// DecodeMap decodes A from the entries of m.
func (c *DynamicCodec[A, B, R]) DecodeMap(ctx context.Context, ops Ops, m *MapLike) (A, error) {
	b := c.newB()
	errs := &DecodeError{}
	for _, f := range c.implicit {
		f.decodeInto(ctx, ops, m, b, errs)
	}
	for _, f := range c.explicit {
		f.decodeInto(ctx, ops, m, b, errs)
	}
	if err := errs.err(); err != nil {
		var zero A
		return zero, err
	}
	return c.finalize(b)
}

// EncodeMap writes every field of v into rb in declaration order.
func (c *DynamicCodec[A, B, R]) EncodeMap(ctx context.Context, ops Ops, v A, rb *RecordBuilder) {
	r := c.view(v)
	for _, f := range c.fields {
		f.encodeFrom(ctx, ops, r, rb)
	}
}

// Keys returns every key the schema reads, implicit sub-keys included.
func (c *DynamicCodec[A, B, R]) Keys() []string {
	return append([]string(nil), c.keys...)
}

// Decode decodes A from a map-shaped input.
func (c *DynamicCodec[A, B, R]) Decode(ctx context.Context, ops Ops, in any) (A, error) {
	return decodeMap(ctx, ops, in, c)
}

// Encode renders v as a map.
func (c *DynamicCodec[A, B, R]) Encode(ctx context.Context, ops Ops, v A) (any, error) {
	return encodeMap(ctx, ops, v, c)
}

// Required lists the fields that fail the decode when absent.
func (c *DynamicCodec[A, B, R]) Required() []string {
	var out []string
	for _, f := range c.explicit {
		if f.Policy() == Required && !f.hasDefault() {
			out = append(out, f.Name())
		}
	}
	return out
}

// Builder assembles a DynamicCodec from a runtime-collected field list.
type Builder[A, B, R any] struct {
	name     string
	newB     func() B
	finalize func(B) (A, error)
	view     func(A) R
	fields   []FieldSpec[B, R]
}

// NewBuilder starts a schema. newB supplies a fresh builder per decode, finalize
// freezes it into A and view extracts the read view used on encode.
func NewBuilder[A, B, R any](newB func() B, finalize func(B) (A, error), view func(A) R) *Builder[A, B, R] {
	return &Builder[A, B, R]{newB: newB, finalize: finalize, view: view}
}

// NewStructBuilder starts a schema for a struct T decoded through *T.
func NewStructBuilder[T any]() *Builder[T, *T, T] {
	return NewBuilder(
		func() *T { return new(T) },
		func(p *T) (T, error) { return *p, nil },
		identity[T],
	)
}

// Named sets the name reported in signals.
func (b *Builder[A, B, R]) Named(name string) *Builder[A, B, R] {
	b.name = name
	return b
}

// Field appends f.
func (b *Builder[A, B, R]) Field(f FieldSpec[B, R]) *Builder[A, B, R] {
	b.fields = append(b.fields, f)
	return b
}

// Fields appends fs in order.
func (b *Builder[A, B, R]) Fields(fs ...FieldSpec[B, R]) *Builder[A, B, R] {
	b.fields = append(b.fields, fs...)
	return b
}

// Build validates the schema and returns the codec. It fails with a ConfigError
// wrapping ErrInvalidField when a key is declared twice, an implicit field has no
// codec, or a recursive field does not have the codec's result type.
func (b *Builder[A, B, R]) Build() (*DynamicCodec[A, B, R], error) {
	if b.newB == nil || b.finalize == nil || b.view == nil {
		return nil, newConfigError(ErrInvalidField, b.name, "builder, finalize and view functions are required")
	}
	c := &DynamicCodec[A, B, R]{
		name:     b.name,
		newB:     b.newB,
		finalize: b.finalize,
		view:     b.view,
	}
	seen := make(map[string]string, len(b.fields))
	for _, f := range b.fields {
		if f == nil {
			return nil, newConfigError(ErrInvalidField, b.name, "nil field")
		}
		bound, err := f.bind(c)
		if err != nil {
			return nil, err
		}
		for _, k := range bound.keys() {
			if owner, dup := seen[k]; dup {
				return nil, newConfigError(ErrInvalidField, k, "declared by both "+owner+" and "+f.Name())
			}
			seen[k] = f.Name()
			c.keys = append(c.keys, k)
		}
		c.fields = append(c.fields, bound)
		if bound.Policy() == Implicit {
			c.implicit = append(c.implicit, bound)
		} else {
			c.explicit = append(c.explicit, bound)
		}
	}
	emitSchemaBuilt(b.name, len(c.fields), c.keys)
	return c, nil
}

// MustBuild is Build for schemas declared at package level. It panics on error.
func (b *Builder[A, B, R]) MustBuild() *DynamicCodec[A, B, R] {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
