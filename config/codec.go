package config

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/zoobzio/dyncodec"
)

var (
	durationType = reflect.TypeFor[time.Duration]()
	timeType     = reflect.TypeFor[time.Time]()
)

type (
	valueCodec = dyncodec.Codec[reflect.Value]
	valueField = dyncodec.FieldSpec[reflect.Value, reflect.Value]
)

// builder derives reflect-backed codecs, sharing one codec per struct type so
// self-referencing types resolve lazily.
type builder struct {
	structs map[reflect.Type]valueCodec
}

func newBuilder() *builder {
	return &builder{structs: make(map[reflect.Type]valueCodec)}
}

func unsupported(name string, rt reflect.Type) error {
	return &dyncodec.ConfigError{Err: dyncodec.ErrInvalidField, Field: name, Reason: "unsupported type " + rt.String()}
}

// structCodec builds the DynamicCodec for struct type rt from values.
func (b *builder) structCodec(rt reflect.Type, values []Value) (valueCodec, error) {
	if c, ok := b.structs[rt]; ok {
		if c == nil {
			return dyncodec.Lazy(func() valueCodec { return b.structs[rt] }), nil
		}
		return c, nil
	}
	b.structs[rt] = nil

	schema := dyncodec.NewBuilder(
		func() reflect.Value { return reflect.New(rt).Elem() },
		func(v reflect.Value) (reflect.Value, error) { return v, nil },
		func(v reflect.Value) reflect.Value { return v },
	).Named(rt.String())
	for _, v := range values {
		f, err := b.field(v)
		if err != nil {
			delete(b.structs, rt)
			return nil, err
		}
		schema.Field(f)
	}
	c, err := schema.Build()
	if err != nil {
		delete(b.structs, rt)
		return nil, err
	}
	b.structs[rt] = c
	return c, nil
}

func (b *builder) field(v Value) (valueField, error) {
	c, err := b.codec(v.Name, v.Type, v.Fields)
	if err != nil {
		return nil, err
	}
	if len(v.Validators) > 0 {
		c = dyncodec.Validated(c, v.check)
	}
	get := func(r reflect.Value) reflect.Value { return r.FieldByIndex(v.index) }
	set := func(s reflect.Value, x reflect.Value) { s.FieldByIndex(v.index).Set(x) }
	isPtr := v.Type.Kind() == reflect.Pointer
	getPtr := func(r reflect.Value) *reflect.Value {
		fv := get(r)
		if isPtr && fv.IsNil() {
			return nil
		}
		return &fv
	}

	switch {
	case v.HasDefault:
		def, err := c.Decode(context.Background(), dyncodec.Literal, v.Default)
		if err != nil {
			return nil, &dyncodec.ConfigError{Err: dyncodec.ErrInvalidField, Field: v.Name, Reason: "default: " + err.Error()}
		}
		var resolve dyncodec.Receiver[reflect.Value] = dyncodec.ReceiverFunc[reflect.Value](func(ctx context.Context, _ dyncodec.Ops) (reflect.Value, bool, error) {
			x, err := c.Decode(ctx, dyncodec.Literal, v.Default)
			return x, true, err
		})
		keep := func(x reflect.Value) bool {
			return !reflect.DeepEqual(x.Interface(), def.Interface())
		}
		if isPtr {
			// A nil pointer is not written and decodes as the default.
			return dyncodec.NullableTryField(v.Name, c, resolve, getPtr, func(s reflect.Value, x *reflect.Value) {
				if x == nil {
					set(s, reflect.Zero(v.Type))
					return
				}
				set(s, *x)
			}).WithFilter(keep), nil
		}
		return dyncodec.DefaultTryField(v.Name, c, resolve, get, set).WithFilter(keep), nil
	case v.Type.Kind() == reflect.Struct && v.Type != timeType:
		// An absent section decodes as an empty one so nested defaults apply.
		var empty dyncodec.Receiver[reflect.Value] = dyncodec.ReceiverFunc[reflect.Value](func(ctx context.Context, ops dyncodec.Ops) (reflect.Value, bool, error) {
			x, err := c.Decode(ctx, ops, ops.CreateMap(dyncodec.NewMapLike(0)))
			return x, true, err
		})
		return dyncodec.DefaultTryField(v.Name, c, empty, get, set), nil
	case isPtr:
		return dyncodec.IgnoreIfNullField(v.Name, c, getPtr, set), nil
	default:
		return dyncodec.Field(v.Name, c, get, set), nil
	}
}

// ptrCodec maps nil pointers to the empty value and everything else through elem.
type ptrCodec struct {
	rt   reflect.Type
	elem valueCodec
}

func (c ptrCodec) Decode(ctx context.Context, ops dyncodec.Ops, in any) (reflect.Value, error) {
	if ops.Kind(in) == dyncodec.KindEmpty {
		return reflect.Zero(c.rt), nil
	}
	e, err := c.elem.Decode(ctx, ops, in)
	if err != nil {
		return reflect.Zero(c.rt), err
	}
	p := reflect.New(c.rt.Elem())
	p.Elem().Set(e)
	return p, nil
}

func (c ptrCodec) Encode(ctx context.Context, ops dyncodec.Ops, v reflect.Value) (any, error) {
	if !v.IsValid() || v.IsNil() {
		return ops.Empty(), nil
	}
	return c.elem.Encode(ctx, ops, v.Elem())
}

// codec returns the codec for values of rt.
func (b *builder) codec(name string, rt reflect.Type, children []Value) (valueCodec, error) {
	switch rt {
	case durationType:
		return convert(dyncodec.Duration, rt), nil
	case timeType:
		return dyncodec.TryTransform(dyncodec.String,
			func(s string) (reflect.Value, error) {
				t, err := time.Parse(time.RFC3339Nano, s)
				return reflect.ValueOf(t), err
			},
			func(v reflect.Value) (string, error) {
				return v.Interface().(time.Time).Format(time.RFC3339Nano), nil
			},
		), nil
	}

	switch rt.Kind() {
	case reflect.String:
		return convert(dyncodec.String, rt), nil
	case reflect.Bool:
		return convert(dyncodec.Bool, rt), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return dyncodec.TryTransform(dyncodec.Int64,
			func(i int64) (reflect.Value, error) {
				v := reflect.New(rt).Elem()
				if v.OverflowInt(i) {
					return v, fmt.Errorf("%w: %d overflows %s", dyncodec.ErrTypeMismatch, i, rt)
				}
				v.SetInt(i)
				return v, nil
			},
			func(v reflect.Value) (int64, error) { return v.Int(), nil },
		), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return dyncodec.TryTransform(dyncodec.Int64,
			func(i int64) (reflect.Value, error) {
				v := reflect.New(rt).Elem()
				if i < 0 || v.OverflowUint(uint64(i)) {
					return v, fmt.Errorf("%w: %d overflows %s", dyncodec.ErrTypeMismatch, i, rt)
				}
				v.SetUint(uint64(i))
				return v, nil
			},
			func(v reflect.Value) (int64, error) { return int64(v.Uint()), nil },
		), nil
	case reflect.Float32, reflect.Float64:
		return dyncodec.TryTransform(dyncodec.Float64,
			func(f float64) (reflect.Value, error) {
				v := reflect.New(rt).Elem()
				if v.OverflowFloat(f) {
					return v, fmt.Errorf("%w: %g overflows %s", dyncodec.ErrTypeMismatch, f, rt)
				}
				v.SetFloat(f)
				return v, nil
			},
			func(v reflect.Value) (float64, error) { return v.Float(), nil },
		), nil
	case reflect.Pointer:
		elem, err := b.codec(name, rt.Elem(), children)
		if err != nil {
			return nil, err
		}
		return ptrCodec{rt: rt, elem: elem}, nil
	case reflect.Struct:
		if children == nil {
			values, err := valuesOf(nestedMetadata(rt), map[reflect.Type]bool{rt: true})
			if err != nil {
				return nil, err
			}
			children = values
		}
		return b.structCodec(rt, children)
	case reflect.Slice:
		elem, err := b.codec(name, rt.Elem(), nil)
		if err != nil {
			return nil, err
		}
		return dyncodec.Transform(dyncodec.ListOf(elem),
			func(xs []reflect.Value) reflect.Value {
				s := reflect.MakeSlice(rt, len(xs), len(xs))
				for i, x := range xs {
					s.Index(i).Set(x)
				}
				return s
			},
			func(s reflect.Value) []reflect.Value {
				xs := make([]reflect.Value, s.Len())
				for i := range xs {
					xs[i] = s.Index(i)
				}
				return xs
			},
		), nil
	case reflect.Map:
		if rt.Key().Kind() != reflect.String {
			return nil, unsupported(name, rt)
		}
		elem, err := b.codec(name, rt.Elem(), nil)
		if err != nil {
			return nil, err
		}
		return dyncodec.Transform(dyncodec.MapOf(elem),
			func(xs map[string]reflect.Value) reflect.Value {
				m := reflect.MakeMapWithSize(rt, len(xs))
				for k, x := range xs {
					m.SetMapIndex(reflect.ValueOf(k).Convert(rt.Key()), x)
				}
				return m
			},
			func(m reflect.Value) map[string]reflect.Value {
				xs := make(map[string]reflect.Value, m.Len())
				iter := m.MapRange()
				for iter.Next() {
					xs[iter.Key().String()] = iter.Value()
				}
				return xs
			},
		), nil
	}
	return nil, unsupported(name, rt)
}

// convert adapts a codec for X to values of rt, a type with underlying type X.
func convert[X any](c dyncodec.Codec[X], rt reflect.Type) valueCodec {
	xt := reflect.TypeFor[X]()
	return dyncodec.Transform(c,
		func(x X) reflect.Value { return reflect.ValueOf(x).Convert(rt) },
		func(v reflect.Value) X { return v.Convert(xt).Interface().(X) },
	)
}
