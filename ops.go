package dyncodec

import (
	"errors"
	"fmt"
)

// Kind classifies a dynamic value independent of its format.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindList
	KindMap
	// KindOpaque is a typed Go value carried as-is by ValueOps.
	KindOpaque
)

var kindNames = [...]string{
	KindEmpty:  "empty",
	KindBool:   "bool",
	KindInt:    "int",
	KindFloat:  "float",
	KindString: "string",
	KindList:   "list",
	KindMap:    "map",
	KindOpaque: "value",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Ops supplies construction and inspection of dynamic values for one format.
//
// Dynamic values are plain interface values whose concrete representation is
// owned by the Ops that produced them. Codecs never look inside a dynamic
// value except through its Ops.
type Ops interface {
	// Name identifies the representation. Two Ops with the same name must
	// accept each other's values unchanged.
	Name() string

	// Empty returns the sentinel for an absent value.
	Empty() any

	// Kind classifies v.
	Kind(v any) Kind

	CreateBool(b bool) any
	CreateInt(i int64) any
	CreateFloat(f float64) any
	CreateString(s string) any
	CreateList(items []any) any
	CreateMap(m *MapLike) any

	GetBool(v any) (bool, error)
	GetInt(v any) (int64, error)
	GetFloat(v any) (float64, error)
	GetString(v any) (string, error)
	GetList(v any) ([]any, error)
	GetMap(v any) (*MapLike, error)
}

// ValueOps is implemented by ops that carry typed Go values unchanged.
// Typed codecs pass values straight through such ops.
type ValueOps interface {
	Ops
	CarriesValues() bool
}

func carriesValues(ops Ops) bool {
	vo, ok := ops.(ValueOps)
	return ok && vo.CarriesValues()
}

// MapLike is an insertion-ordered, read-only view of a map-shaped dynamic value.
type MapLike struct {
	keys   []string
	values map[string]any
}

// NewMapLike returns an empty map view with room for n entries.
func NewMapLike(n int) *MapLike {
	return &MapLike{
		keys:   make([]string, 0, n),
		values: make(map[string]any, n),
	}
}

// Set appends or replaces key. Replacing keeps the original position.
// Set is for ops implementations assembling a view; codecs never call it on input.
func (m *MapLike) Set(key string, v any) *MapLike {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
	return m
}

// Get returns the value for key.
func (m *MapLike) Get(key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *MapLike) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries.
func (m *MapLike) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Filter returns a new view holding only the listed keys that are present.
// With no keys the receiver is returned unchanged.
func (m *MapLike) Filter(keys ...string) *MapLike {
	if len(keys) == 0 || m == nil {
		return m
	}
	out := NewMapLike(len(keys))
	for _, k := range m.keys {
		for _, want := range keys {
			if k == want {
				out.Set(k, m.values[k])
				break
			}
		}
	}
	return out
}

// RecordBuilder accumulates the entries of a map-shaped output.
// Errors are collected rather than short-circuiting so one encode reports every field.
type RecordBuilder struct {
	ops  Ops
	m    *MapLike
	errs []error
}

// NewRecordBuilder returns an empty builder for ops.
func NewRecordBuilder(ops Ops) *RecordBuilder {
	return &RecordBuilder{ops: ops, m: NewMapLike(8)}
}

// Ops returns the ops the record is being built for.
func (rb *RecordBuilder) Ops() Ops {
	return rb.ops
}

// Add sets key to v.
func (rb *RecordBuilder) Add(key string, v any) *RecordBuilder {
	rb.m.Set(key, v)
	return rb
}

// AddError records a failure for key.
func (rb *RecordBuilder) AddError(key string, err error) *RecordBuilder {
	rb.errs = append(rb.errs, &FieldError{Field: key, Err: err})
	return rb
}

// Build assembles the record. Any recorded errors are joined into the returned error.
func (rb *RecordBuilder) Build() (any, error) {
	if len(rb.errs) > 0 {
		return nil, errors.Join(rb.errs...)
	}
	return rb.ops.CreateMap(rb.m), nil
}

// Convert transcodes v from one ops representation to another.
// Values move unchanged between ops that share a name.
func Convert(from, to Ops, v any) (any, error) {
	if from.Name() == to.Name() {
		return v, nil
	}
	switch k := from.Kind(v); k {
	case KindEmpty:
		return to.Empty(), nil
	case KindBool:
		b, err := from.GetBool(v)
		if err != nil {
			return nil, err
		}
		return to.CreateBool(b), nil
	case KindInt:
		i, err := from.GetInt(v)
		if err != nil {
			return nil, err
		}
		return to.CreateInt(i), nil
	case KindFloat:
		f, err := from.GetFloat(v)
		if err != nil {
			return nil, err
		}
		return to.CreateFloat(f), nil
	case KindString:
		s, err := from.GetString(v)
		if err != nil {
			return nil, err
		}
		return to.CreateString(s), nil
	case KindList:
		items, err := from.GetList(v)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, item := range items {
			if out[i], err = Convert(from, to, item); err != nil {
				return nil, &IndexError{Index: i, Err: err}
			}
		}
		return to.CreateList(out), nil
	case KindMap:
		m, err := from.GetMap(v)
		if err != nil {
			return nil, err
		}
		out := NewMapLike(m.Len())
		for _, key := range m.keys {
			cv, err := Convert(from, to, m.values[key])
			if err != nil {
				return nil, &FieldError{Field: key, Err: err}
			}
			out.Set(key, cv)
		}
		return to.CreateMap(out), nil
	default:
		if carriesValues(to) {
			return v, nil
		}
		return nil, fmt.Errorf("%w: %s value cannot move from %s to %s", ErrTypeMismatch, k, from.Name(), to.Name())
	}
}

// MergeToMap returns a copy of the map m with key set to v.
// An empty m is treated as an empty map.
func MergeToMap(ops Ops, m any, key string, v any) (any, error) {
	out := NewMapLike(1)
	if ops.Kind(m) != KindEmpty {
		src, err := ops.GetMap(m)
		if err != nil {
			return nil, err
		}
		for _, k := range src.keys {
			out.Set(k, src.values[k])
		}
	}
	out.Set(key, v)
	return ops.CreateMap(out), nil
}
