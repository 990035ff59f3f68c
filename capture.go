package dyncodec

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// Key identifies a supplied value on the capture stack.
//
// A stored key satisfies a query when:
//   - the query type is assignable from the stored type (a stored Bunny answers a
//     query for Animal, never the reverse),
//   - the stored name is any-name, or both names are equal and the query is named,
//   - the stored key is unscoped, or both scopes are equal.
type Key struct {
	Scope   *Key
	Name    string
	AnyName bool
	Type    reflect.Type
}

// NewKey returns a key named name for values of type T.
func NewKey[T any](name string) Key {
	return Key{Name: name, Type: reflect.TypeFor[T]()}
}

// AnyKey returns a key for values of type T that answers every name.
func AnyKey[T any]() Key {
	return Key{AnyName: true, Type: reflect.TypeFor[T]()}
}

// Within returns a copy of k qualified by scope.
func (k Key) Within(scope Key) Key {
	k.Scope = &scope
	return k
}

// Matches reports whether k, stored on the stack, satisfies query.
func (k Key) Matches(query Key) bool {
	if k.Type == nil || query.Type == nil || !k.Type.AssignableTo(query.Type) {
		return false
	}
	if !k.AnyName && (query.AnyName || k.Name != query.Name) {
		return false
	}
	if k.Scope == nil {
		return true
	}
	return query.Scope != nil && k.Scope.equal(*query.Scope)
}

func (k Key) equal(o Key) bool {
	if k.Name != o.Name || k.AnyName != o.AnyName || k.Type != o.Type {
		return false
	}
	if k.Scope == nil || o.Scope == nil {
		return k.Scope == nil && o.Scope == nil
	}
	return k.Scope.equal(*o.Scope)
}

func (k Key) String() string {
	var b strings.Builder
	if k.Scope != nil {
		b.WriteString(k.Scope.String())
		b.WriteString("/")
	}
	if k.AnyName {
		b.WriteString("*")
	} else {
		b.WriteString(k.Name)
	}
	if k.Type != nil {
		b.WriteString(":")
		b.WriteString(k.Type.String())
	}
	return b.String()
}

// supply is one typed value pushed by a captor.
type supply struct {
	key   Key
	value any
}

// frame is one level of an in-progress decode made visible to descendants.
type frame struct {
	ops      Ops
	captured *MapLike
	supplies []supply
}

// stack is an immutable list of frames, innermost first. Each decode sees only the
// frames pushed by its ancestors, so a frame never outlives the call that pushed it.
type stack struct {
	parent *stack
	frame  *frame
	depth  int
}

type stackKey struct{}

func stackFrom(ctx context.Context) *stack {
	s, _ := ctx.Value(stackKey{}).(*stack)
	return s
}

// push returns a context whose capture stack has f as its innermost frame.
func push(ctx context.Context, f *frame) context.Context {
	parent := stackFrom(ctx)
	depth := 1
	if parent != nil {
		depth = parent.depth + 1
	}
	return context.WithValue(ctx, stackKey{}, &stack{parent: parent, frame: f, depth: depth})
}

// Depth returns the number of capture frames visible from ctx.
func Depth(ctx context.Context) int {
	if s := stackFrom(ctx); s != nil {
		return s.depth
	}
	return 0
}

// lookupCaptured finds the nearest captured dynamic value named key.
func lookupCaptured(ctx context.Context, key string) (Ops, any, bool) {
	for s := stackFrom(ctx); s != nil; s = s.parent {
		if v, ok := s.frame.captured.Get(key); ok && s.frame.ops.Kind(v) != KindEmpty {
			return s.frame.ops, v, true
		}
	}
	return nil, nil, false
}

// lookupSupplied finds the nearest supplied value whose key satisfies query.
// Within a frame later supplies shadow earlier ones.
func lookupSupplied(ctx context.Context, query Key) (any, bool) {
	for s := stackFrom(ctx); s != nil; s = s.parent {
		sup := s.frame.supplies
		for i := len(sup) - 1; i >= 0; i-- {
			if sup[i].key.Matches(query) {
				return sup[i].value, true
			}
		}
	}
	return nil, false
}

// captorCodec pushes a frame around the decode of its inner MapCodec.
type captorCodec[A any] struct {
	inner MapCodec[A]
	build func(ctx context.Context, ops Ops, m *MapLike) (*frame, error)
}

func (c captorCodec[A]) DecodeMap(ctx context.Context, ops Ops, m *MapLike) (A, error) {
	f, err := c.build(ctx, ops, m)
	if err != nil {
		var zero A
		return zero, err
	}
	return c.inner.DecodeMap(push(ctx, f), ops, m)
}

func (c captorCodec[A]) EncodeMap(ctx context.Context, ops Ops, v A, rb *RecordBuilder) {
	c.inner.EncodeMap(ctx, ops, v, rb)
}

func (c captorCodec[A]) Keys() []string {
	return c.inner.Keys()
}

// Capture exposes the map decoded by mc to every nested decode. With keys, only
// those entries are exposed.
func Capture[A any](mc MapCodec[A], keys ...string) MapCodec[A] {
	return captorCodec[A]{
		inner: mc,
		build: func(_ context.Context, ops Ops, m *MapLike) (*frame, error) {
			return &frame{ops: ops, captured: m.Filter(keys...)}, nil
		},
	}
}

// Supply makes value visible to nested decodes of mc under key. When key has no
// type the static type V is used.
func Supply[A, V any](mc MapCodec[A], key Key, value V) MapCodec[A] {
	if key.Type == nil {
		key.Type = reflect.TypeFor[V]()
	}
	return captorCodec[A]{
		inner: mc,
		build: func(_ context.Context, ops Ops, _ *MapLike) (*frame, error) {
			return &frame{ops: ops, supplies: []supply{{key: key, value: value}}}, nil
		},
	}
}

// SupplyFrom decodes field from the map read by mc and makes the result visible to
// nested decodes under key. A failing field fails the decode.
func SupplyFrom[A, V any](mc MapCodec[A], key Key, field MapCodec[V]) MapCodec[A] {
	if key.Type == nil {
		key.Type = reflect.TypeFor[V]()
	}
	return captorCodec[A]{
		inner: mc,
		build: func(ctx context.Context, ops Ops, m *MapLike) (*frame, error) {
			v, err := field.DecodeMap(ctx, ops, m)
			if err != nil {
				return nil, err
			}
			return &frame{ops: ops, supplies: []supply{{key: key, value: v}}}, nil
		},
	}
}

// Receiver resolves a field value that was not present in the local input.
// found is false when the receiver has nothing to offer; err reports a value that
// was found but could not be decoded.
type Receiver[T any] interface {
	Resolve(ctx context.Context, ops Ops) (v T, found bool, err error)
}

// ReceiverFunc adapts a function into a Receiver.
type ReceiverFunc[T any] func(ctx context.Context, ops Ops) (T, bool, error)

func (f ReceiverFunc[T]) Resolve(ctx context.Context, ops Ops) (T, bool, error) {
	return f(ctx, ops)
}

// Receive resolves the nearest captured value named key and decodes it with c.
// The value is converted from the ops that captured it when they differ from ops.
func Receive[T any](key string, c Codec[T]) Receiver[T] {
	return ReceiverFunc[T](func(ctx context.Context, ops Ops) (T, bool, error) {
		var zero T
		from, raw, ok := lookupCaptured(ctx, key)
		if !ok {
			return zero, false, nil
		}
		in, err := Convert(from, ops, raw)
		if err != nil {
			return zero, true, fmt.Errorf("captured %s: %w", key, err)
		}
		v, err := c.Decode(ctx, ops, in)
		if err != nil {
			return zero, true, fmt.Errorf("captured %s: %w", key, err)
		}
		return v, true, nil
	})
}

// ReceiveValue resolves the nearest supplied value matching key.
// key.Type defaults to T.
func ReceiveValue[T any](key Key) Receiver[T] {
	if key.Type == nil {
		key.Type = reflect.TypeFor[T]()
	}
	return ReceiverFunc[T](func(ctx context.Context, _ Ops) (T, bool, error) {
		var zero T
		raw, ok := lookupSupplied(ctx, key)
		if !ok {
			return zero, false, nil
		}
		v, ok := raw.(T)
		if !ok {
			return zero, true, fmt.Errorf("%w: supplied %s is %T", ErrTypeMismatch, key, raw)
		}
		return v, true, nil
	})
}

// OrElse falls back to def when r finds nothing.
func OrElse[T any](r Receiver[T], def T) Receiver[T] {
	return ReceiverFunc[T](func(ctx context.Context, ops Ops) (T, bool, error) {
		v, found, err := r.Resolve(ctx, ops)
		if found || err != nil {
			return v, found, err
		}
		return copyDefault(def), true, nil
	})
}

// FirstOf tries each receiver in turn and returns the first that finds a value.
func FirstOf[T any](rs ...Receiver[T]) Receiver[T] {
	return ReceiverFunc[T](func(ctx context.Context, ops Ops) (T, bool, error) {
		for _, r := range rs {
			v, found, err := r.Resolve(ctx, ops)
			if found || err != nil {
				return v, found, err
			}
		}
		var zero T
		return zero, false, nil
	})
}

// staticDefault always resolves to a copy of value.
func staticDefault[T any](value T) Receiver[T] {
	return ReceiverFunc[T](func(context.Context, Ops) (T, bool, error) {
		return copyDefault(value), true, nil
	})
}

// suppliedDefault resolves by calling fn on every decode.
func suppliedDefault[T any](fn func() T) Receiver[T] {
	return ReceiverFunc[T](func(context.Context, Ops) (T, bool, error) {
		return fn(), true, nil
	})
}
