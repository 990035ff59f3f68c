package dyncodec_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/zoobzio/dyncodec"
	codectest "github.com/zoobzio/dyncodec/testing"
)

func obj(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i].(string)] = kv[i+1]
	}
	return m
}

func list(items ...any) []any {
	return items
}

func decodeCaptured(t *testing.T, in any) (codectest.Captured, error) {
	t.Helper()
	return codectest.CapturedCodec.Decode(context.Background(), dyncodec.Literal, in)
}

func TestCapture_LocalValueWins(t *testing.T) {
	got, err := decodeCaptured(t, obj(
		"captor", "a",
		"entries", list(obj("required", "b", "receiver", "c")),
	))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Entries[0].Receiver != "c" {
		t.Errorf("Receiver = %q, want %q", got.Entries[0].Receiver, "c")
	}
}

func TestCapture_CapturedValueUsedWhenAbsent(t *testing.T) {
	got, err := decodeCaptured(t, obj(
		"captor", "d",
		"entries", list(obj("required", "c")),
	))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Entries[0].Receiver != "d" {
		t.Errorf("Receiver = %q, want %q", got.Entries[0].Receiver, "d")
	}
}

func TestCapture_NothingToReceive(t *testing.T) {
	_, err := decodeCaptured(t, obj("entries", list(obj())))
	if err == nil {
		t.Fatal("Decode() should fail without a captor")
	}
	for _, want := range []string{"No key required", "No key receiver"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q should contain %q", err, want)
		}
	}
	if !errors.Is(err, dyncodec.ErrMissingKey) {
		t.Error("error should unwrap to ErrMissingKey")
	}
}

func TestCapture_SharedAcrossSiblings(t *testing.T) {
	got, err := decodeCaptured(t, obj(
		"captor", "d",
		"entries", list(obj("required", "c"), obj("required", "b")),
	))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	want := []codectest.Entry{
		{Required: "c", Receiver: "d"},
		{Required: "b", Receiver: "d"},
	}
	if diff := cmp.Diff(want, got.Entries); diff != "" {
		t.Errorf("Entries mismatch (-want +got):\n%s", diff)
	}
}

func TestCapture_NoLeakAfterDecode(t *testing.T) {
	ctx := context.Background()

	if _, err := codectest.CapturedCodec.Decode(ctx, dyncodec.Literal, obj(
		"captor", "d",
		"entries", list(obj("required", "c")),
	)); err != nil {
		t.Fatalf("first Decode() error: %v", err)
	}
	if _, err := codectest.CapturedCodec.Decode(ctx, dyncodec.Literal, obj(
		"captor", "e",
		"entries", list(obj()),
	)); err == nil {
		t.Fatal("second Decode() should fail")
	}

	// An entry decoded on its own must not see either captor.
	_, err := codectest.EntryCodec.Decode(ctx, dyncodec.Literal, obj("required", "x"))
	if err == nil || !strings.Contains(err.Error(), "No key receiver") {
		t.Errorf("Decode() error = %v, want No key receiver", err)
	}
	if dyncodec.Depth(ctx) != 0 {
		t.Errorf("Depth() = %d, want 0", dyncodec.Depth(ctx))
	}
}

func TestCapture_ConcurrentDecodesAreIsolated(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for i := 0; i < 64; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			captor := fmt.Sprintf("captor-%d", i)
			got, err := codectest.CapturedCodec.Decode(context.Background(), dyncodec.Literal, obj(
				"captor", captor,
				"entries", list(obj("required", "r"), obj("required", "r")),
			))
			if err != nil {
				errs <- err
				return
			}
			for _, e := range got.Entries {
				if e.Receiver != captor {
					errs <- fmt.Errorf("receiver %q, want %q", e.Receiver, captor)
				}
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestCapture_RoundTrip(t *testing.T) {
	original := codectest.Captured{
		Captor: codectest.Ptr("d"),
		Entries: []codectest.Entry{
			{Required: "c", Receiver: "x"},
		},
	}
	ctx := context.Background()
	enc, err := codectest.CapturedCodec.Encode(ctx, dyncodec.Literal, original)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := codectest.CapturedCodec.Decode(ctx, dyncodec.Literal, enc)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(original, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDynamicCodec_RoundTrip(t *testing.T) {
	ctx := context.Background()
	original := codectest.SampleProfile()

	enc, err := codectest.ProfileCodec.Encode(ctx, dyncodec.Literal, original)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	got, err := codectest.ProfileCodec.Decode(ctx, dyncodec.Literal, enc)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(original, got, cmp.AllowUnexported(dyncodec.Option[string]{})); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDynamicCodec_ImplicitFieldsShareParentKeys(t *testing.T) {
	enc, err := codectest.ProfileCodec.Encode(context.Background(), dyncodec.Literal, codectest.SampleProfile())
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	m := enc.(map[string]any)
	if _, ok := m["meta"]; ok {
		t.Error("implicit field should not nest under its own key")
	}
	if m["created"] != "2024-01-02" || m["version"] != int64(3) {
		t.Errorf("implicit keys = %v, %v", m["created"], m["version"])
	}
}

func TestDynamicCodec_DefaultSuppression(t *testing.T) {
	ctx := context.Background()
	p := codectest.Profile{
		Name:  "Ada",
		Age:   18,
		Tags:  []string{},
		Score: 0.5,
		Meta:  codectest.Meta{Created: "today", Version: 1},
	}

	enc, err := codectest.ProfileCodec.Encode(ctx, dyncodec.Literal, p)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	m := enc.(map[string]any)
	for _, key := range []string{"age", "tags", "score", "version", "nickname", "home"} {
		if _, ok := m[key]; ok {
			t.Errorf("key %q should be suppressed, got %v", key, m[key])
		}
	}

	got, err := codectest.ProfileCodec.Decode(ctx, dyncodec.Literal, enc)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(p, got, cmp.AllowUnexported(dyncodec.Option[string]{})); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestDynamicCodec_CollectsEveryError(t *testing.T) {
	_, err := codectest.ProfileCodec.Decode(context.Background(), dyncodec.Literal, obj(
		"age", "old",
		"score", "high",
	))
	var de *dyncodec.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error %v should be a DecodeError", err)
	}
	if diff := cmp.Diff([]string{"created", "name"}, de.Missing); diff != "" {
		t.Errorf("Missing mismatch (-want +got):\n%s", diff)
	}
	var fields []string
	for _, fe := range de.Fields {
		fields = append(fields, fe.Field)
	}
	if diff := cmp.Diff([]string{"age", "score"}, fields); diff != "" {
		t.Errorf("Fields mismatch (-want +got):\n%s", diff)
	}
}

func TestDynamicCodec_NullInputCountsAsAbsent(t *testing.T) {
	got, err := codectest.ProfileCodec.Decode(context.Background(), dyncodec.Literal, obj(
		"name", "Ada",
		"created", "today",
		"age", nil,
		"home", nil,
	))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.Age != 18 {
		t.Errorf("Age = %d, want default 18", got.Age)
	}
	if got.Home != nil {
		t.Errorf("Home = %v, want nil", *got.Home)
	}
	if got.Nickname.IsSome() {
		t.Error("Nickname should be None")
	}
}

func TestDynamicCodec_Required(t *testing.T) {
	if diff := cmp.Diff([]string{"name"}, codectest.ProfileCodec.Required()); diff != "" {
		t.Errorf("Required() mismatch (-want +got):\n%s", diff)
	}
	want := []string{"name", "nickname", "age", "tags", "score", "home", "created", "version"}
	if diff := cmp.Diff(want, codectest.ProfileCodec.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestDynamicCodec_Recursive(t *testing.T) {
	ctx := context.Background()

	tree := codectest.Node{Value: 1, Children: []codectest.Node{
		{Value: 2},
		{Value: 3, Children: []codectest.Node{{Value: 4}}},
	}}
	enc, err := codectest.TreeCodec.Encode(ctx, dyncodec.Literal, tree)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	gotTree, err := codectest.TreeCodec.Decode(ctx, dyncodec.Literal, enc)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(tree, gotTree); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}

	chain := codectest.Link{Value: "a", Next: &codectest.Link{Value: "b", Next: &codectest.Link{Value: "c"}}}
	enc, err = codectest.LinkCodec.Encode(ctx, dyncodec.Literal, chain)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	gotChain, err := codectest.LinkCodec.Decode(ctx, dyncodec.Literal, enc)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff(chain, gotChain); diff != "" {
		t.Errorf("chain mismatch (-want +got):\n%s", diff)
	}
}

type pair struct {
	A string
	B string
}

func TestBuilder_FailsFast(t *testing.T) {
	getA := func(p pair) string { return p.A }
	setA := func(p *pair, v string) { p.A = v }

	tests := []struct {
		name  string
		build func() error
	}{
		{
			name: "duplicate key",
			build: func() error {
				_, err := dyncodec.NewStructBuilder[pair]().Fields(
					dyncodec.Field("a", dyncodec.String, getA, setA),
					dyncodec.Field("a", dyncodec.String, getA, setA),
				).Build()
				return err
			},
		},
		{
			name: "implicit key collides with explicit key",
			build: func() error {
				_, err := dyncodec.NewStructBuilder[pair]().Fields(
					dyncodec.Field("a", dyncodec.String, getA, setA),
					dyncodec.ImplicitField("group", dyncodec.FieldOf("a", dyncodec.String), getA, setA),
				).Build()
				return err
			},
		},
		{
			name: "implicit field without codec",
			build: func() error {
				_, err := dyncodec.NewStructBuilder[pair]().Fields(
					dyncodec.ImplicitField[*pair, pair, string]("group", nil, getA, setA),
				).Build()
				return err
			},
		},
		{
			name: "recursive field of the wrong type",
			build: func() error {
				_, err := dyncodec.NewStructBuilder[pair]().Fields(
					dyncodec.Field[*pair, pair, string]("a", nil, getA, setA),
				).Build()
				return err
			},
		},
		{
			name: "missing builder functions",
			build: func() error {
				_, err := dyncodec.NewBuilder[pair, *pair, pair](nil, nil, nil).Build()
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build()
			if !errors.Is(err, dyncodec.ErrInvalidField) {
				t.Errorf("Build() error = %v, want ErrInvalidField", err)
			}
			var ce *dyncodec.ConfigError
			if !errors.As(err, &ce) {
				t.Errorf("Build() error = %T, want *ConfigError", err)
			}
		})
	}
}

func TestMustBuild_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustBuild() should panic on an invalid schema")
		}
	}()
	dyncodec.NewStructBuilder[pair]().Fields(
		dyncodec.Field("a", dyncodec.String, func(p pair) string { return p.A }, func(p *pair, v string) { p.A = v }),
		dyncodec.Field("a", dyncodec.String, func(p pair) string { return p.B }, func(p *pair, v string) { p.B = v }),
	).MustBuild()
}

func TestIgnoreIfNullField_KeepsBuilderValue(t *testing.T) {
	c := dyncodec.NewBuilder(
		func() *pair { return &pair{B: "preset"} },
		func(p *pair) (pair, error) { return *p, nil },
		func(p pair) pair { return p },
	).Fields(
		dyncodec.Field("a", dyncodec.String, func(p pair) string { return p.A }, func(p *pair, v string) { p.A = v }),
		dyncodec.IgnoreIfNullField("b", dyncodec.String,
			func(p pair) *string {
				if p.B == "" {
					return nil
				}
				return &p.B
			},
			func(p *pair, v string) { p.B = v }),
	).MustBuild()

	got, err := c.Decode(context.Background(), dyncodec.Literal, obj("a", "x"))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if got.B != "preset" {
		t.Errorf("B = %q, want %q", got.B, "preset")
	}

	enc, err := c.Encode(context.Background(), dyncodec.Literal, pair{A: "x"})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if _, ok := enc.(map[string]any)["b"]; ok {
		t.Error("nil value should not be written")
	}
}

func TestDynamicField_WithFilter(t *testing.T) {
	c := dyncodec.NewStructBuilder[pair]().Fields(
		dyncodec.Field("a", dyncodec.String, func(p pair) string { return p.A }, func(p *pair, v string) { p.A = v }).
			WithFilter(func(s string) bool { return s != "hidden" }),
	).MustBuild()

	enc, err := c.Encode(context.Background(), dyncodec.Literal, pair{A: "hidden"})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if len(enc.(map[string]any)) != 0 {
		t.Errorf("Encode() = %v, want empty map", enc)
	}
}

func TestFinalizeError(t *testing.T) {
	boom := errors.New("boom")
	c := dyncodec.NewBuilder(
		func() *pair { return &pair{} },
		func(*pair) (pair, error) { return pair{}, boom },
		func(p pair) pair { return p },
	).MustBuild()

	if _, err := c.Decode(context.Background(), dyncodec.Literal, obj()); !errors.Is(err, boom) {
		t.Errorf("Decode() error = %v, want %v", err, boom)
	}
}
