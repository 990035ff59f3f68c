package bson

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/dyncodec"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNew(t *testing.T) {
	f := New()
	if f == nil {
		t.Error("New() should return non-nil format")
	}
}

func TestContentType(t *testing.T) {
	f := New()
	if f.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", f.ContentType(), "application/bson")
	}
}

type doc struct {
	Name  string
	Count int64
	Tags  []string
}

var docCodec = dyncodec.NewStructBuilder[doc]().Fields(
	dyncodec.Field("name", dyncodec.String,
		func(d doc) string { return d.Name },
		func(d *doc, v string) { d.Name = v }),
	dyncodec.Field("count", dyncodec.Int64,
		func(d doc) int64 { return d.Count },
		func(d *doc, v int64) { d.Count = v }),
	dyncodec.Field("tags", dyncodec.ListOf(dyncodec.String),
		func(d doc) []string { return d.Tags },
		func(d *doc, v []string) { d.Tags = v }),
).MustBuild()

func TestMarshalUnmarshal(t *testing.T) {
	f := New()
	ctx := context.Background()

	original := doc{Name: "test", Count: 42, Tags: []string{"a", "b"}}
	dyn, err := docCodec.Encode(ctx, Ops, original)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	data, err := f.Marshal(dyn)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	parsed, err := f.Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal() error: %v", err)
	}

	m, err := Ops.GetMap(parsed)
	if err != nil {
		t.Fatalf("GetMap() error: %v", err)
	}
	if diff := cmp.Diff([]string{"name", "count", "tags"}, m.Keys()); diff != "" {
		t.Errorf("field order mismatch (-want +got):\n%s", diff)
	}

	restored, err := docCodec.Decode(ctx, Ops, parsed)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(original, restored); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestMarshal_RequiresDocument(t *testing.T) {
	f := New()

	if _, err := f.Marshal(Ops.CreateString("x")); !errors.Is(err, ErrNotDocument) {
		t.Errorf("Marshal(scalar) error = %v, want ErrNotDocument", err)
	}
}

func TestUnmarshalInvalid(t *testing.T) {
	f := New()

	if _, err := f.Unmarshal([]byte("not valid bson")); err == nil {
		t.Error("Unmarshal() should fail for invalid BSON")
	}
}

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want dyncodec.Kind
	}{
		{"null", primitive.Null{}, dyncodec.KindEmpty},
		{"document", bson.D{}, dyncodec.KindMap},
		{"map", bson.M{}, dyncodec.KindMap},
		{"array", bson.A{}, dyncodec.KindList},
		{"object id", primitive.NewObjectID(), dyncodec.KindOpaque},
		{"int32", int32(4), dyncodec.KindInt},
		{"string", "s", dyncodec.KindString},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Ops.Kind(tt.in); got != tt.want {
				t.Errorf("Kind() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestGetMap_AcceptsM(t *testing.T) {
	m, err := Ops.GetMap(bson.M{"b": 1, "a": 2})
	if err != nil {
		t.Fatalf("GetMap() error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, m.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestNullFieldIsAbsent(t *testing.T) {
	c := dyncodec.AsCodec(dyncodec.OptionalFieldOf("v", dyncodec.String))
	got, err := c.Decode(context.Background(), Ops, bson.D{{Key: "v", Value: primitive.Null{}}})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.IsSome() {
		t.Errorf("Decode() = %v, want None", got)
	}
}
