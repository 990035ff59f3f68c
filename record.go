package dyncodec

import "context"

//go:generate go run ./cmd/recordgen -output record_gen.go

// slot is a FieldDescriptor with its value type erased.
type slot[A any] interface {
	decodeSlot(ctx context.Context, ops Ops, m *MapLike) (any, error)
	encodeSlot(ctx context.Context, ops Ops, a A, rb *RecordBuilder)
	keys() []string
}

// RecordCodec composes a fixed list of field descriptors into a codec for A.
// Every field is decoded even after one fails, so a single decode reports all
// missing keys and malformed fields together.
type RecordCodec[A any] struct {
	slots []slot[A]
	build func(vals []any) A
}

func newRecord[A any](slots []slot[A], build func(vals []any) A) *RecordCodec[A] {
	return &RecordCodec[A]{slots: slots, build: build}
}

// DecodeMap decodes every field from m and reconstructs A.
func (c *RecordCodec[A]) DecodeMap(ctx context.Context, ops Ops, m *MapLike) (A, error) {
	vals := make([]any, len(c.slots))
	errs := &DecodeError{}
	for i, s := range c.slots {
		v, err := s.decodeSlot(ctx, ops, m)
		if err != nil {
			errs.merge(firstKey(s.keys()), err)
			continue
		}
		vals[i] = v
	}
	if err := errs.err(); err != nil {
		var zero A
		return zero, err
	}
	return c.build(vals), nil
}

// EncodeMap writes each field of v in declaration order.
func (c *RecordCodec[A]) EncodeMap(ctx context.Context, ops Ops, v A, rb *RecordBuilder) {
	for _, s := range c.slots {
		s.encodeSlot(ctx, ops, v, rb)
	}
}

// Keys returns the keys of every field.
func (c *RecordCodec[A]) Keys() []string {
	var out []string
	for _, s := range c.slots {
		out = append(out, s.keys()...)
	}
	return out
}

// Decode decodes A from a map-shaped input.
func (c *RecordCodec[A]) Decode(ctx context.Context, ops Ops, in any) (A, error) {
	return decodeMap(ctx, ops, in, c)
}

// Encode renders v as a map.
func (c *RecordCodec[A]) Encode(ctx context.Context, ops Ops, v A) (any, error) {
	return encodeMap(ctx, ops, v, c)
}

// arg recovers a typed slot value. Slots that decoded to a nil interface yield
// the zero value.
func arg[T any](v any) T {
	t, _ := v.(T)
	return t
}

func firstKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	return keys[0]
}
