package dyncodec

import (
	"reflect"

	"github.com/mitchellh/copystructure"
)

// Cloner allows types to provide deep copy logic.
//
// Default values are handed to every decode that falls back on them. Types with
// pointers, slices, or maps should implement Cloner so decoded results never share
// state with the default or with each other:
//
//	func (o Order) Clone() Order {
//	    items := make([]Item, len(o.Items))
//	    copy(items, o.Items)
//	    return Order{ID: o.ID, Items: items}
//	}
//
// Types that do not implement Cloner are deep copied with copystructure when
// they contain references.
type Cloner[T any] interface {
	Clone() T
}

// copyDefault returns a copy of v that shares no mutable state with it.
func copyDefault[T any](v T) T {
	if c, ok := any(v).(Cloner[T]); ok {
		return c.Clone()
	}
	if !hasReferences(reflect.TypeOf(v)) {
		return v
	}
	copied, err := copystructure.Copy(v)
	if err != nil {
		return v
	}
	out, ok := copied.(T)
	if !ok {
		return v
	}
	return out
}

func hasReferences(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Chan:
		return true
	case reflect.Array:
		return hasReferences(t.Elem())
	case reflect.Struct:
		for i := 0; i < t.NumField(); i++ {
			if hasReferences(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}
