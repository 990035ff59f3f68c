package dyncodec

import (
	"math"
	"reflect"
	"sort"
)

// Literal is the in-memory ops: dynamic values are ordinary Go values
// (nil, bool, integers, floats, string, []any, map[string]any).
// Literal carries typed Go values unchanged, so Typed codecs short-circuit on it.
var Literal Ops = NewNativeOps("literal", true)

// NativeOps represents dynamic values as ordinary Go values.
// Format packages whose decoders produce native trees reuse it under their own name.
type NativeOps struct {
	name        string
	passthrough bool
}

// NewNativeOps returns native ops named name. When passthrough is set the ops
// carry typed Go values as KindOpaque instead of rejecting them.
func NewNativeOps(name string, passthrough bool) *NativeOps {
	return &NativeOps{name: name, passthrough: passthrough}
}

func (o *NativeOps) Name() string { return o.name }

func (o *NativeOps) CarriesValues() bool { return o.passthrough }

func (o *NativeOps) Empty() any { return nil }

func (o *NativeOps) Kind(v any) Kind {
	switch v.(type) {
	case nil:
		return KindEmpty
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt
	case float32, float64:
		return KindFloat
	case string, []byte:
		return KindString
	case []any:
		return KindList
	case map[string]any:
		return KindMap
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return KindList
	case reflect.Map:
		if rv.Type().Key().Kind() == reflect.String {
			return KindMap
		}
	case reflect.Pointer:
		if rv.IsNil() {
			return KindEmpty
		}
	}
	return KindOpaque
}

func (o *NativeOps) CreateBool(b bool) any { return b }
func (o *NativeOps) CreateInt(i int64) any { return i }
func (o *NativeOps) CreateFloat(f float64) any { return f }
func (o *NativeOps) CreateString(s string) any { return s }
func (o *NativeOps) CreateList(items []any) any { return items }

func (o *NativeOps) CreateMap(m *MapLike) any {
	out := make(map[string]any, m.Len())
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}

func (o *NativeOps) GetBool(v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, &TypeError{Want: KindBool, Got: o.Kind(v)}
	}
	return b, nil
}

func (o *NativeOps) GetInt(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return int64(n), nil
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		if n > math.MaxInt64 {
			return 0, &TypeError{Want: KindInt, Got: KindFloat}
		}
		return int64(n), nil
	case float32:
		return integral(float64(n))
	case float64:
		return integral(n)
	}
	return 0, &TypeError{Want: KindInt, Got: o.Kind(v)}
}

func integral(f float64) (int64, error) {
	if f != math.Trunc(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return 0, &TypeError{Want: KindInt, Got: KindFloat}
	}
	return int64(f), nil
}

func (o *NativeOps) GetFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float32:
		return float64(n), nil
	case float64:
		return n, nil
	}
	if o.Kind(v) == KindInt {
		i, err := o.GetInt(v)
		return float64(i), err
	}
	return 0, &TypeError{Want: KindFloat, Got: o.Kind(v)}
}

func (o *NativeOps) GetString(v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case []byte:
		return string(s), nil
	}
	return "", &TypeError{Want: KindString, Got: o.Kind(v)}
}

func (o *NativeOps) GetList(v any) ([]any, error) {
	if items, ok := v.([]any); ok {
		return items, nil
	}
	if o.Kind(v) != KindList {
		return nil, &TypeError{Want: KindList, Got: o.Kind(v)}
	}
	rv := reflect.ValueOf(v)
	items := make([]any, rv.Len())
	for i := range items {
		items[i] = rv.Index(i).Interface()
	}
	return items, nil
}

// GetMap returns a view with keys in sorted order; Go maps carry no order of their own.
func (o *NativeOps) GetMap(v any) (*MapLike, error) {
	if o.Kind(v) != KindMap {
		return nil, &TypeError{Want: KindMap, Got: o.Kind(v)}
	}
	if m, ok := v.(map[string]any); ok {
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := NewMapLike(len(keys))
		for _, k := range keys {
			out.Set(k, m[k])
		}
		return out, nil
	}
	rv := reflect.ValueOf(v)
	keys := make([]string, 0, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	out := NewMapLike(len(keys))
	for _, k := range keys {
		out.Set(k, rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key())).Interface())
	}
	return out, nil
}
