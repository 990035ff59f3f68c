package json

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/zoobzio/dyncodec"
)

func TestNew(t *testing.T) {
	f := New()
	if f == nil {
		t.Error("New() should return non-nil format")
	}
	if f.Ops() != Ops {
		t.Error("Ops() should return the package ops")
	}
}

func TestContentType(t *testing.T) {
	f := New()
	if f.ContentType() != "application/json" {
		t.Errorf("ContentType() = %q, want %q", f.ContentType(), "application/json")
	}
}

func TestMarshalUnmarshal(t *testing.T) {
	f := New()
	ctx := context.Background()
	c := dyncodec.MapOf(dyncodec.ListOf(dyncodec.Int))

	original := map[string][]int{"a": {1, 2}, "b": {}}
	dyn, err := c.Encode(ctx, Ops, original)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	data, err := f.Marshal(dyn)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(data) != `{"a":[1,2],"b":[]}` {
		t.Errorf("Marshal() = %s", data)
	}

	parsed, err := f.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	restored, err := c.Decode(ctx, Ops, parsed)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(restored["a"]) != 2 || restored["a"][1] != 2 || len(restored["b"]) != 0 {
		t.Errorf("round-trip failed: got %v, want %v", restored, original)
	}
}

func TestMarshalNil(t *testing.T) {
	f := New()

	data, err := f.Marshal(Ops.Empty())
	if err != nil {
		t.Fatalf("Marshal(nil) error: %v", err)
	}

	if string(data) != "null" {
		t.Errorf("Marshal(nil) = %q, want %q", data, "null")
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	f := New()

	if _, err := f.Unmarshal([]byte("not valid json")); err == nil {
		t.Error("Unmarshal() should fail for invalid JSON")
	}
}

func TestUnmarshal_TrailingData(t *testing.T) {
	f := New()

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"trailing whitespace", "{\"a\":1}\n  ", false},
		{"trailing garbage", `{"a":1} garbage`, true},
		{"trailing brace", `{"a":1}}`, true},
		{"second value", `{"a":1}{"b":2}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Unmarshal([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrTrailingData) {
				t.Errorf("Unmarshal() error = %v, want ErrTrailingData", err)
			}
		})
	}
}

func TestUnmarshal_KeepsIntegerPrecision(t *testing.T) {
	f := New()

	v, err := f.Unmarshal([]byte(`{"id":9007199254740993}`))
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}
	m, err := Ops.GetMap(v)
	if err != nil {
		t.Fatalf("GetMap() error: %v", err)
	}
	raw, _ := m.Get("id")
	id, err := Ops.GetInt(raw)
	if err != nil {
		t.Fatalf("GetInt() error: %v", err)
	}
	if id != 9007199254740993 {
		t.Errorf("GetInt() = %d, want 9007199254740993", id)
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		in   any
		want dyncodec.Kind
	}{
		{json.Number("12"), dyncodec.KindInt},
		{json.Number("-3"), dyncodec.KindInt},
		{json.Number("1.5"), dyncodec.KindFloat},
		{json.Number("1e3"), dyncodec.KindFloat},
		{"12", dyncodec.KindString},
		{nil, dyncodec.KindEmpty},
		{map[string]any{}, dyncodec.KindMap},
	}
	for _, tt := range tests {
		if got := Ops.Kind(tt.in); got != tt.want {
			t.Errorf("Kind(%#v) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestCreateFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want json.Number
	}{
		{2, "2.0"},
		{0.5, "0.5"},
		{-1.25, "-1.25"},
		{1e21, "1e+21"},
	}
	for _, tt := range tests {
		if got := Ops.CreateFloat(tt.in); got != tt.want {
			t.Errorf("CreateFloat(%g) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGetInt_IntegralFloat(t *testing.T) {
	if i, err := Ops.GetInt(json.Number("4.0")); err != nil || i != 4 {
		t.Errorf("GetInt(4.0) = %d, %v", i, err)
	}
	if _, err := Ops.GetInt(json.Number("4.5")); !errors.Is(err, dyncodec.ErrTypeMismatch) {
		t.Errorf("GetInt(4.5) error = %v, want ErrTypeMismatch", err)
	}
}

func TestGetFloat(t *testing.T) {
	if f, err := Ops.GetFloat(json.Number("7")); err != nil || f != 7 {
		t.Errorf("GetFloat(7) = %g, %v", f, err)
	}
	if _, err := Ops.GetFloat("7"); !errors.Is(err, dyncodec.ErrTypeMismatch) {
		t.Errorf("GetFloat(\"7\") error = %v, want ErrTypeMismatch", err)
	}
}
