// Package config derives dyncodec schemas from tagged Go structs.
//
// Each exported field becomes a Value named by its `config` tag (or its lowercased
// field name). A `default` tag holds a YAML scalar or flow collection used when the
// key is absent; `min`, `max` and `oneof` tags attach validators.
//
//	type Server struct {
//	    Host    string        `config:"host" default:"localhost"`
//	    Port    int           `config:"port" default:"8080" min:"1" max:"65535"`
//	    Mode    string        `config:"mode" default:"release" oneof:"debug release"`
//	    Timeout time.Duration `config:"timeout" default:"30s"`
//	    TLS     *TLS          `config:"tls"`
//	}
package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/zoobzio/dyncodec"
	"github.com/zoobzio/sentinel"
	"gopkg.in/yaml.v3"
)

const (
	tagConfig  = "config"
	tagDefault = "default"
	tagMin     = "min"
	tagMax     = "max"
	tagOneOf   = "oneof"
)

var configTags = []string{tagConfig, tagDefault, tagMin, tagMax, tagOneOf}

func init() {
	for _, t := range configTags {
		sentinel.Tag(t)
	}
}

// Value describes one configurable field of a struct.
type Value struct {
	Name       string       // Key in the dynamic representation
	Field      string       // Go field name
	Type       reflect.Type // Go field type
	Default    any          // Literal default parsed from the default tag
	HasDefault bool
	Validators []Validator
	Fields     []Value // Nested values when Type is a struct or pointer to struct

	index []int
}

// Get returns the field's value from instance, the struct (or pointer to the
// struct) that declares it.
func (v Value) Get(instance any) (any, error) {
	rv := reflect.Indirect(reflect.ValueOf(instance))
	if rv.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %T is not a struct", dyncodec.ErrTypeMismatch, instance)
	}
	return rv.FieldByIndex(v.index).Interface(), nil
}

// Set stores x into the field of instance, which must be a pointer to the
// declaring struct. A nil x stores the zero value.
func (v Value) Set(instance any, x any) error {
	rv := reflect.ValueOf(instance)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a pointer to a struct", dyncodec.ErrTypeMismatch, instance)
	}
	fv := rv.Elem().FieldByIndex(v.index)
	xv := reflect.ValueOf(x)
	switch {
	case !xv.IsValid():
		fv.Set(reflect.Zero(fv.Type()))
	case xv.Type().AssignableTo(fv.Type()):
		fv.Set(xv)
	case xv.Type().ConvertibleTo(fv.Type()):
		fv.Set(xv.Convert(fv.Type()))
	default:
		return fmt.Errorf("%w: cannot set %s (%s) from %T", dyncodec.ErrTypeMismatch, v.Name, fv.Type(), x)
	}
	return nil
}

func (v Value) check(x reflect.Value) error {
	for _, validate := range v.Validators {
		if err := validate(x.Interface()); err != nil {
			return err
		}
	}
	return nil
}

// Scan returns the values declared by struct type T.
func Scan[T any]() ([]Value, error) {
	rt := reflect.TypeFor[T]()
	if rt.Kind() != reflect.Struct {
		return nil, &dyncodec.ConfigError{Err: dyncodec.ErrInvalidField, Field: rt.String(), Reason: "not a struct"}
	}
	return valuesOf(sentinel.Scan[T](), map[reflect.Type]bool{rt: true})
}

// valuesOf converts scanned metadata into values. seen guards against
// self-referencing struct types.
func valuesOf(meta sentinel.Metadata, seen map[reflect.Type]bool) ([]Value, error) {
	values := make([]Value, 0, len(meta.Fields))
	for _, f := range meta.Fields {
		name := f.Tags[tagConfig]
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		v := Value{
			Name:  name,
			Field: f.Name,
			Type:  f.ReflectType,
			index: f.Index,
		}

		if st, ok := structOf(f.ReflectType); ok && !seen[st] {
			seen[st] = true
			children, err := valuesOf(nestedMetadata(st), seen)
			delete(seen, st)
			if err != nil {
				return nil, err
			}
			v.Fields = children
		}

		validators, err := parseValidators(name, f.ReflectType, f.Tags)
		if err != nil {
			return nil, err
		}
		v.Validators = validators

		if def, ok := f.Tags[tagDefault]; ok {
			var lit any = ""
			if err := yaml.Unmarshal([]byte(def), &lit); err != nil {
				return nil, &dyncodec.ConfigError{Err: dyncodec.ErrInvalidField, Field: name, Reason: "default: " + err.Error()}
			}
			v.Default = lit
			v.HasDefault = true
		}
		values = append(values, v)
	}
	return values, nil
}

// structOf returns the struct type behind t, looking through one pointer.
// Types with a dedicated codec are not treated as structs.
func structOf(t reflect.Type) (reflect.Type, bool) {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct || t == timeType {
		return nil, false
	}
	return t, true
}

// nestedMetadata returns the metadata of struct type rt: sentinel's when it has
// already scanned rt, otherwise the exported fields with their config tags.
func nestedMetadata(rt reflect.Type) sentinel.Metadata {
	if meta, ok := sentinel.Lookup(rt.String()); ok {
		return meta
	}
	var meta sentinel.Metadata
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		tags := make(map[string]string, len(configTags))
		for _, name := range configTags {
			if val, ok := sf.Tag.Lookup(name); ok {
				tags[name] = val
			}
		}
		meta.Fields = append(meta.Fields, sentinel.FieldMetadata{
			Name:        sf.Name,
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        tags,
		})
	}
	return meta
}
