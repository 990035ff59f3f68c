package dyncodec

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
	"golang.org/x/crypto/blake2b"
)

// Option holds a value that may be absent.
type Option[A any] struct {
	value A
	ok    bool
}

// Some returns a present Option.
func Some[A any](v A) Option[A] {
	return Option[A]{value: v, ok: true}
}

// None returns an absent Option.
func None[A any]() Option[A] {
	return Option[A]{}
}

// Get returns the value and whether it is present.
func (o Option[A]) Get() (A, bool) {
	return o.value, o.ok
}

// IsSome reports whether the value is present.
func (o Option[A]) IsSome() bool {
	return o.ok
}

// OrElse returns the value, or def when absent.
func (o Option[A]) OrElse(def A) A {
	if o.ok {
		return o.value
	}
	return def
}

func (o Option[A]) String() string {
	if !o.ok {
		return "None"
	}
	return fmt.Sprintf("Some(%v)", o.value)
}

// Optional wraps c so an empty input decodes to None instead of failing.
// A present but malformed input still reports c's error.
func Optional[A any](c Codec[A]) Codec[Option[A]] {
	return optionalCodec[A]{inner: c}
}

type optionalCodec[A any] struct {
	inner Codec[A]
}

func (c optionalCodec[A]) Decode(ctx context.Context, ops Ops, in any) (Option[A], error) {
	if ops.Kind(in) == KindEmpty {
		return None[A](), nil
	}
	v, err := c.inner.Decode(ctx, ops, in)
	if err != nil {
		return None[A](), err
	}
	return Some(v), nil
}

func (c optionalCodec[A]) Encode(ctx context.Context, ops Ops, v Option[A]) (any, error) {
	a, ok := v.Get()
	if !ok {
		return ops.Empty(), nil
	}
	return c.inner.Encode(ctx, ops, a)
}

// SetOf returns a codec for lists with set semantics. Two elements are the same
// when their canonical encodings share a blake2b-256 fingerprint. Duplicates
// collapse to their first occurrence, which is the only lossy part of a round trip.
func SetOf[A any](c Codec[A]) Codec[[]A] {
	return setCodec[A]{elem: c}
}

type setCodec[A any] struct {
	elem Codec[A]
}

func (s setCodec[A]) Decode(ctx context.Context, ops Ops, in any) ([]A, error) {
	items, err := ListOf(s.elem).Decode(ctx, ops, in)
	if err != nil {
		return items, err
	}
	return s.distinct(ctx, items)
}

func (s setCodec[A]) Encode(ctx context.Context, ops Ops, v []A) (any, error) {
	items, err := s.distinct(ctx, v)
	if err != nil {
		return nil, err
	}
	return ListOf(s.elem).Encode(ctx, ops, items)
}

func (s setCodec[A]) distinct(ctx context.Context, items []A) ([]A, error) {
	seen := make(map[[blake2b.Size256]byte]struct{}, len(items))
	out := make([]A, 0, len(items))
	for i, item := range items {
		sum, err := s.fingerprint(ctx, item)
		if err != nil {
			return nil, &IndexError{Index: i, Err: err}
		}
		if _, dup := seen[sum]; dup {
			continue
		}
		seen[sum] = struct{}{}
		out = append(out, item)
	}
	return out, nil
}

// fingerprint hashes the canonical encoding of v: its literal form written as
// MessagePack with sorted map keys.
func (s setCodec[A]) fingerprint(ctx context.Context, v A) ([blake2b.Size256]byte, error) {
	lit, err := s.elem.Encode(ctx, Literal, v)
	if err != nil {
		return [blake2b.Size256]byte{}, err
	}
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(lit); err != nil {
		return [blake2b.Size256]byte{}, err
	}
	return blake2b.Sum256(buf.Bytes()), nil
}

// AutoFlatList returns a list codec that writes a single element without a list
// wrapper and reads scalars, lists, and nested lists alike, flattening as it goes.
// Failing elements are reported together while the rest still decode.
// The element codec must not itself be list-shaped.
func AutoFlatList[A any](c Codec[A]) Codec[[]A] {
	return autoFlatCodec[A]{elem: c}
}

type autoFlatCodec[A any] struct {
	elem Codec[A]
}

func (c autoFlatCodec[A]) Decode(ctx context.Context, ops Ops, in any) ([]A, error) {
	if ops.Kind(in) == KindEmpty {
		return []A{}, nil
	}
	out := []A{}
	err := c.flatten(ctx, ops, in, &out)
	return out, err
}

func (c autoFlatCodec[A]) flatten(ctx context.Context, ops Ops, in any, out *[]A) error {
	if ops.Kind(in) != KindList {
		v, err := c.elem.Decode(ctx, ops, in)
		if err != nil {
			return err
		}
		*out = append(*out, v)
		return nil
	}
	items, err := ops.GetList(in)
	if err != nil {
		return err
	}
	var errs []error
	for i, item := range items {
		if err := c.flatten(ctx, ops, item, out); err != nil {
			errs = append(errs, &IndexError{Index: i, Err: err})
		}
	}
	return errors.Join(errs...)
}

func (c autoFlatCodec[A]) Encode(ctx context.Context, ops Ops, v []A) (any, error) {
	if len(v) == 1 {
		return c.elem.Encode(ctx, ops, v[0])
	}
	return ListOf(c.elem).Encode(ctx, ops, v)
}

// SimpleEither decodes with first, falling back to second. useSecond picks the
// codec that encodes a given value.
func SimpleEither[A any](first, second Codec[A], useSecond func(A) bool) Codec[A] {
	return SimpleAny(func(v A) int {
		if useSecond(v) {
			return 1
		}
		return 0
	}, first, second)
}

// SimpleAny decodes with the first codec that succeeds. When every codec fails the
// error lists each attempt. pick returns the index of the codec that encodes a value.
func SimpleAny[A any](pick func(A) int, codecs ...Codec[A]) Codec[A] {
	return anyCodec[A]{pick: pick, codecs: codecs}
}

type anyCodec[A any] struct {
	pick   func(A) int
	codecs []Codec[A]
}

func (c anyCodec[A]) Decode(ctx context.Context, ops Ops, in any) (A, error) {
	errs := make([]error, 0, len(c.codecs))
	for _, codec := range c.codecs {
		v, err := codec.Decode(ctx, ops, in)
		if err == nil {
			return v, nil
		}
		errs = append(errs, err)
	}
	var zero A
	return zero, &AlternativesError{Errs: errs}
}

func (c anyCodec[A]) Encode(ctx context.Context, ops Ops, v A) (any, error) {
	i := c.pick(v)
	if i < 0 || i >= len(c.codecs) {
		return nil, fmt.Errorf("%w: picker chose codec %d of %d", ErrNoMatch, i, len(c.codecs))
	}
	return c.codecs[i].Encode(ctx, ops, v)
}

// Typed short-circuits decoding when the input already is an A, which happens with
// ops that carry Go values such as Literal. On those ops encoding passes v through.
func Typed[A any](c Codec[A]) Codec[A] {
	return typedCodec[A]{inner: c}
}

type typedCodec[A any] struct {
	inner Codec[A]
}

func (c typedCodec[A]) Decode(ctx context.Context, ops Ops, in any) (A, error) {
	if a, ok := in.(A); ok {
		return a, nil
	}
	return c.inner.Decode(ctx, ops, in)
}

func (c typedCodec[A]) Encode(ctx context.Context, ops Ops, v A) (any, error) {
	if carriesValues(ops) {
		return v, nil
	}
	return c.inner.Encode(ctx, ops, v)
}

// ErrorReducer decides the outcome of a union decode when either half failed.
// Returning nil lets the union combine whatever the halves produced.
type ErrorReducer func(left, right error) error

// FirstError propagates the left failure, else the right one.
func FirstError(left, right error) error {
	if left != nil {
		return left
	}
	return right
}

// JoinErrors reports both failures.
func JoinErrors(left, right error) error {
	return errors.Join(left, right)
}

// Union combines two MapCodecs over disjoint keys into one value.
// A nil reduce means FirstError.
func Union[A, X, Y any](left MapCodec[X], right MapCodec[Y], combine func(X, Y) A, split func(A) (X, Y), reduce ErrorReducer) MapCodec[A] {
	if reduce == nil {
		reduce = FirstError
	}
	return unionCodec[A, X, Y]{left: left, right: right, combine: combine, split: split, reduce: reduce}
}

type unionCodec[A, X, Y any] struct {
	left    MapCodec[X]
	right   MapCodec[Y]
	combine func(X, Y) A
	split   func(A) (X, Y)
	reduce  ErrorReducer
}

func (u unionCodec[A, X, Y]) DecodeMap(ctx context.Context, ops Ops, m *MapLike) (A, error) {
	x, lerr := u.left.DecodeMap(ctx, ops, m)
	y, rerr := u.right.DecodeMap(ctx, ops, m)
	if lerr != nil || rerr != nil {
		if err := u.reduce(lerr, rerr); err != nil {
			var zero A
			return zero, err
		}
	}
	return u.combine(x, y), nil
}

func (u unionCodec[A, X, Y]) EncodeMap(ctx context.Context, ops Ops, v A, rb *RecordBuilder) {
	x, y := u.split(v)
	u.left.EncodeMap(ctx, ops, x, rb)
	u.right.EncodeMap(ctx, ops, y, rb)
}

func (u unionCodec[A, X, Y]) Keys() []string {
	return append(u.left.Keys(), u.right.Keys()...)
}

// IfMap writes values for which asMap holds through mc and the rest through scalar.
// Decoding follows the shape of the input.
func IfMap[A any](mc MapCodec[A], scalar Codec[A], asMap func(A) bool) Codec[A] {
	return ifMapCodec[A]{mc: mc, scalar: scalar, asMap: asMap}
}

type ifMapCodec[A any] struct {
	mc     MapCodec[A]
	scalar Codec[A]
	asMap  func(A) bool
}

func (c ifMapCodec[A]) Decode(ctx context.Context, ops Ops, in any) (A, error) {
	if ops.Kind(in) == KindMap {
		return decodeMap(ctx, ops, in, c.mc)
	}
	return c.scalar.Decode(ctx, ops, in)
}

func (c ifMapCodec[A]) Encode(ctx context.Context, ops Ops, v A) (any, error) {
	if c.asMap(v) {
		return encodeMap(ctx, ops, v, c.mc)
	}
	return c.scalar.Encode(ctx, ops, v)
}

// FilteredMap suppresses the entries of mc for values keep rejects.
func FilteredMap[A any](mc MapCodec[A], keep func(A) bool) MapCodec[A] {
	return filteredCodec[A]{MapCodec: mc, keep: keep}
}

type filteredCodec[A any] struct {
	MapCodec[A]
	keep func(A) bool
}

func (c filteredCodec[A]) EncodeMap(ctx context.Context, ops Ops, v A, rb *RecordBuilder) {
	if c.keep(v) {
		c.MapCodec.EncodeMap(ctx, ops, v, rb)
	}
}

// LenientMap replaces decode failures of mc with fallback.
// Each recovery emits SignalLenientRecovered.
func LenientMap[A any](mc MapCodec[A], fallback A) MapCodec[A] {
	return lenientCodec[A]{MapCodec: mc, fallback: fallback}
}

type lenientCodec[A any] struct {
	MapCodec[A]
	fallback A
}

func (c lenientCodec[A]) DecodeMap(ctx context.Context, ops Ops, m *MapLike) (A, error) {
	v, err := c.MapCodec.DecodeMap(ctx, ops, m)
	if err != nil {
		emitLenientRecovered(ctx, ops.Name(), c.Keys(), err)
		return copyDefault(c.fallback), nil
	}
	return v, nil
}
