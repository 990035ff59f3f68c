package dyncodec

import (
	"context"
	"errors"
	"reflect"
	"sort"
)

// typeTag is the supplied form of a suggested variant tag. Its type parameter
// keeps suggestions for unrelated dispatch codecs apart on the capture stack.
type typeTag[T any] string

// DispatchCodec decodes one of several variants of T chosen by a string
// discriminator stored under a type key.
//
// The discriminator is read from the local map first. When it is absent the
// nearest enclosing SuggestType supplies it. Without either the decode fails with
// "No key <typeKey>".
type DispatchCodec[T any] struct {
	typeKey  string
	tagOf    func(T) (string, error)
	variants map[string]MapCodec[T]
	names    []string
	suggest  Key
}

// Dispatch returns a codec choosing among variants by the string under typeKey.
// tagOf names the variant that encodes a given value.
func Dispatch[T any](typeKey string, tagOf func(T) (string, error), variants map[string]MapCodec[T]) *DispatchCodec[T] {
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return &DispatchCodec[T]{
		typeKey:  typeKey,
		tagOf:    tagOf,
		variants: variants,
		names:    names,
		suggest:  Key{Name: typeKey, Type: reflect.TypeFor[typeTag[T]]()},
	}
}

// TypeKey returns the discriminator key.
func (d *DispatchCodec[T]) TypeKey() string {
	return d.typeKey
}

// SuggestionKey returns the capture key SuggestType supplies tags under.
func (d *DispatchCodec[T]) SuggestionKey() Key {
	return d.suggest
}

func (d *DispatchCodec[T]) tag(ctx context.Context, ops Ops, m *MapLike) (string, error) {
	if raw, ok := m.Get(d.typeKey); ok && ops.Kind(raw) != KindEmpty {
		tag, err := ops.GetString(raw)
		if err != nil {
			return "", &FieldError{Field: d.typeKey, Err: err}
		}
		return tag, nil
	}
	if v, ok := lookupSupplied(ctx, d.suggest); ok {
		if tag, ok := v.(typeTag[T]); ok {
			return string(tag), nil
		}
	}
	return "", &KeyError{Key: d.typeKey}
}

// DecodeMap decodes the variant named by the discriminator.
func (d *DispatchCodec[T]) DecodeMap(ctx context.Context, ops Ops, m *MapLike) (T, error) {
	var zero T
	tag, err := d.tag(ctx, ops, m)
	if err != nil {
		return zero, err
	}
	variant, ok := d.variants[tag]
	if !ok {
		return zero, &UnknownTypeError{Key: d.typeKey, Tag: tag}
	}
	return variant.DecodeMap(ctx, ops, m)
}

// EncodeMap always writes the discriminator, even when an ancestor would suggest it.
func (d *DispatchCodec[T]) EncodeMap(ctx context.Context, ops Ops, v T, rb *RecordBuilder) {
	tag, err := d.tagOf(v)
	if err != nil {
		rb.AddError(d.typeKey, err)
		return
	}
	variant, ok := d.variants[tag]
	if !ok {
		rb.AddError(d.typeKey, &UnknownTypeError{Key: d.typeKey, Tag: tag})
		return
	}
	rb.Add(d.typeKey, ops.CreateString(tag))
	variant.EncodeMap(ctx, ops, v, rb)
}

// Keys returns the discriminator key followed by the keys of every variant.
func (d *DispatchCodec[T]) Keys() []string {
	seen := map[string]bool{d.typeKey: true}
	out := []string{d.typeKey}
	for _, name := range d.names {
		for _, k := range d.variants[name].Keys() {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// Decode decodes T from a map-shaped input.
func (d *DispatchCodec[T]) Decode(ctx context.Context, ops Ops, in any) (T, error) {
	return decodeMap(ctx, ops, in, d)
}

// Encode renders v as a map.
func (d *DispatchCodec[T]) Encode(ctx context.Context, ops Ops, v T) (any, error) {
	return encodeMap(ctx, ops, v, d)
}

// SuggestType makes tag the default variant of d for every decode nested in mc.
// An explicit discriminator in a nested map still wins.
func SuggestType[A, T any](mc MapCodec[A], d *DispatchCodec[T], tag string) MapCodec[A] {
	return Supply(mc, d.suggest, typeTag[T](tag))
}

// SuggestTypeFrom reads the suggested tag from field of the map decoded by mc.
// An absent field suggests nothing; a malformed one fails the decode.
func SuggestTypeFrom[A, T any](mc MapCodec[A], d *DispatchCodec[T], field MapCodec[string]) MapCodec[A] {
	return captorCodec[A]{
		inner: mc,
		build: func(ctx context.Context, ops Ops, m *MapLike) (*frame, error) {
			tag, err := field.DecodeMap(ctx, ops, m)
			var ke *KeyError
			switch {
			case errors.As(err, &ke):
				return &frame{ops: ops}, nil
			case err != nil:
				return nil, err
			}
			return &frame{ops: ops, supplies: []supply{{key: d.suggest, value: typeTag[T](tag)}}}, nil
		},
	}
}
