package dyncodec

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

var plain = NewNativeOps("plain", false)

func TestOption(t *testing.T) {
	if s := Some(3).String(); s != "Some(3)" {
		t.Errorf("String() = %q", s)
	}
	if s := None[int]().String(); s != "None" {
		t.Errorf("String() = %q", s)
	}
	if v := None[int]().OrElse(7); v != 7 {
		t.Errorf("OrElse() = %d, want 7", v)
	}
	if v, ok := Some("x").Get(); !ok || v != "x" {
		t.Errorf("Get() = %q, %v", v, ok)
	}
}

func TestOptional(t *testing.T) {
	ctx := context.Background()
	c := Optional(Int)

	got, err := c.Decode(ctx, Literal, nil)
	if err != nil || got.IsSome() {
		t.Errorf("Decode(nil) = %v, %v; want None", got, err)
	}
	got, err = c.Decode(ctx, Literal, int64(4))
	if err != nil || got.OrElse(0) != 4 {
		t.Errorf("Decode(4) = %v, %v; want Some(4)", got, err)
	}
	if _, err := c.Decode(ctx, Literal, "four"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Decode(\"four\") error = %v, want ErrTypeMismatch", err)
	}

	enc, err := c.Encode(ctx, Literal, None[int]())
	if err != nil || enc != nil {
		t.Errorf("Encode(None) = %v, %v; want nil", enc, err)
	}
}

func TestSetOf(t *testing.T) {
	ctx := context.Background()

	t.Run("drops duplicates keeping first", func(t *testing.T) {
		got, err := SetOf(String).Decode(ctx, Literal, []any{"b", "a", "b", "c", "a"})
		if err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		if diff := cmp.Diff([]string{"b", "a", "c"}, got); diff != "" {
			t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("maps compare by content", func(t *testing.T) {
		in := []any{
			map[string]any{"a": int64(1), "b": int64(2)},
			map[string]any{"b": int64(2), "a": int64(1)},
			map[string]any{"a": int64(1)},
		}
		got, err := SetOf(MapOf(Int)).Decode(ctx, Literal, in)
		if err != nil {
			t.Fatalf("Decode() error: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("len = %d, want 2: %v", len(got), got)
		}
	})

	t.Run("encode drops duplicates", func(t *testing.T) {
		enc, err := SetOf(Int).Encode(ctx, Literal, []int{1, 1, 2})
		if err != nil {
			t.Fatalf("Encode() error: %v", err)
		}
		if diff := cmp.Diff([]any{int64(1), int64(2)}, enc); diff != "" {
			t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestAutoFlatList(t *testing.T) {
	ctx := context.Background()
	c := AutoFlatList(String)

	tests := []struct {
		name    string
		in      any
		want    []string
		wantErr bool
	}{
		{"scalar", "x", []string{"x"}, false},
		{"list", []any{"a", "b"}, []string{"a", "b"}, false},
		{"nested", []any{[]any{"a"}, "b", []any{[]any{"c"}}}, []string{"a", "b", "c"}, false},
		{"empty", nil, []string{}, false},
		{"partial failure", []any{"a", int64(1), []any{"b", true}}, []string{"a", "b"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Decode(ctx, Literal, tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Decode() error = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	enc, err := c.Encode(ctx, Literal, []string{"x"})
	if err != nil || enc != "x" {
		t.Errorf("Encode([x]) = %v, %v; want bare x", enc, err)
	}
	enc, err = c.Encode(ctx, Literal, []string{"a", "b"})
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if diff := cmp.Diff([]any{"a", "b"}, enc); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestAutoFlatList_PartialFailureIndexes(t *testing.T) {
	_, err := AutoFlatList(Int).Decode(context.Background(), Literal, []any{int64(1), "x"})
	var ie *IndexError
	if !errors.As(err, &ie) || ie.Index != 1 {
		t.Errorf("Decode() error = %v, want IndexError at 1", err)
	}
}

var numeric = TryTransform(String,
	func(s string) (int, error) { return strconv.Atoi(s) },
	func(i int) (string, error) { return strconv.Itoa(i), nil },
)

func TestSimpleEither(t *testing.T) {
	ctx := context.Background()
	c := SimpleEither(Int, numeric, func(i int) bool { return i >= 100 })

	for _, in := range []any{int64(7), "7"} {
		got, err := c.Decode(ctx, Literal, in)
		if err != nil || got != 7 {
			t.Errorf("Decode(%v) = %d, %v; want 7", in, got, err)
		}
	}

	_, err := c.Decode(ctx, Literal, true)
	var ae *AlternativesError
	if !errors.As(err, &ae) || len(ae.Errs) != 2 {
		t.Fatalf("Decode(true) error = %v, want two alternatives", err)
	}
	if !errors.Is(err, ErrNoMatch) {
		t.Error("error should unwrap to ErrNoMatch")
	}

	enc, err := c.Encode(ctx, Literal, 150)
	if err != nil || enc != "150" {
		t.Errorf("Encode(150) = %v, %v; want \"150\"", enc, err)
	}
	enc, err = c.Encode(ctx, Literal, 5)
	if err != nil || enc != int64(5) {
		t.Errorf("Encode(5) = %v, %v; want 5", enc, err)
	}
}

func TestSimpleAny_BadPick(t *testing.T) {
	c := SimpleAny(func(int) int { return 3 }, Int)
	if _, err := c.Encode(context.Background(), Literal, 1); !errors.Is(err, ErrNoMatch) {
		t.Errorf("Encode() error = %v, want ErrNoMatch", err)
	}
}

func TestTyped(t *testing.T) {
	ctx := context.Background()
	c := Typed(Duration)

	got, err := c.Decode(ctx, Literal, 90*time.Second)
	if err != nil || got != 90*time.Second {
		t.Errorf("Decode(duration) = %v, %v", got, err)
	}
	got, err = c.Decode(ctx, Literal, "1m")
	if err != nil || got != time.Minute {
		t.Errorf("Decode(\"1m\") = %v, %v", got, err)
	}

	enc, err := c.Encode(ctx, Literal, time.Minute)
	if err != nil || enc != time.Minute {
		t.Errorf("Encode() on Literal = %v, %v; want passthrough", enc, err)
	}
	enc, err = c.Encode(ctx, plain, time.Minute)
	if err != nil || enc != "1m0s" {
		t.Errorf("Encode() on plain ops = %v, %v; want \"1m0s\"", enc, err)
	}
}

type named struct {
	Name  string
	Count int
}

func namedUnion(reduce ErrorReducer) MapCodec[named] {
	return Union(
		FieldOf("name", String),
		FieldOf("count", Int),
		func(name string, count int) named { return named{Name: name, Count: count} },
		func(n named) (string, int) { return n.Name, n.Count },
		reduce,
	)
}

func TestUnion(t *testing.T) {
	ctx := context.Background()

	got, err := AsCodec(namedUnion(nil)).Decode(ctx, Literal, map[string]any{"name": "x", "count": int64(2)})
	if err != nil || got != (named{Name: "x", Count: 2}) {
		t.Errorf("Decode() = %+v, %v", got, err)
	}

	_, err = AsCodec(namedUnion(nil)).Decode(ctx, Literal, map[string]any{})
	if err == nil || err.Error() != "No key name" {
		t.Errorf("FirstError decode error = %v, want No key name", err)
	}

	_, err = AsCodec(namedUnion(JoinErrors)).Decode(ctx, Literal, map[string]any{})
	if err == nil || err.Error() != "No key name\nNo key count" {
		t.Errorf("JoinErrors decode error = %v", err)
	}

	lenient := func(error, error) error { return nil }
	got, err = AsCodec(namedUnion(lenient)).Decode(ctx, Literal, map[string]any{"count": int64(3)})
	if err != nil || got != (named{Count: 3}) {
		t.Errorf("lenient decode = %+v, %v", got, err)
	}

	if diff := cmp.Diff([]string{"name", "count"}, namedUnion(nil).Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestIfMap(t *testing.T) {
	ctx := context.Background()
	c := IfMap(FieldOf("value", Int), Int, func(i int) bool { return i >= 100 })

	for _, in := range []any{int64(7), map[string]any{"value": int64(7)}} {
		got, err := c.Decode(ctx, Literal, in)
		if err != nil || got != 7 {
			t.Errorf("Decode(%v) = %d, %v", in, got, err)
		}
	}

	enc, err := c.Encode(ctx, Literal, 150)
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{"value": int64(150)}, enc); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
	enc, err = c.Encode(ctx, Literal, 3)
	if err != nil || enc != int64(3) {
		t.Errorf("Encode(3) = %v, %v", enc, err)
	}
}

func TestFilteredMap(t *testing.T) {
	c := AsCodec(FilteredMap(FieldOf("name", String), func(s string) bool { return s != "" }))
	enc, err := c.Encode(context.Background(), Literal, "")
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if diff := cmp.Diff(map[string]any{}, enc); diff != "" {
		t.Errorf("Encode() mismatch (-want +got):\n%s", diff)
	}
}

func TestLenientMap(t *testing.T) {
	ctx := context.Background()
	c := AsCodec(LenientMap(FieldOf("xs", ListOf(Int)), []int{1}))

	got, err := c.Decode(ctx, Literal, map[string]any{"xs": "bad"})
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if diff := cmp.Diff([]int{1}, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}

	// Fallbacks are copied per decode.
	got[0] = 99
	again, _ := c.Decode(ctx, Literal, map[string]any{})
	if again[0] != 1 {
		t.Errorf("fallback was shared: got %v", again)
	}

	got, err = c.Decode(ctx, Literal, map[string]any{"xs": []any{int64(4)}})
	if err != nil || len(got) != 1 || got[0] != 4 {
		t.Errorf("Decode() = %v, %v", got, err)
	}
}

func TestListOf_PartialFailure(t *testing.T) {
	got, err := ListOf(Int).Decode(context.Background(), Literal, []any{int64(1), "x", int64(3), true})
	if diff := cmp.Diff([]int{1, 3}, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
	if err == nil || err.Error() != "[1]: not a int: got string\n[3]: not a int: got bool" {
		t.Errorf("Decode() error = %v", err)
	}
}

func TestMapOf(t *testing.T) {
	ctx := context.Background()
	got, err := MapOf(Int).Decode(ctx, Literal, map[string]any{"a": int64(1), "b": "x"})
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "b" {
		t.Errorf("Decode() error = %v, want FieldError for b", err)
	}
	if diff := cmp.Diff(map[string]int{"a": 1}, got); diff != "" {
		t.Errorf("Decode() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidated(t *testing.T) {
	positive := Validated(Int, func(i int) error {
		if i <= 0 {
			return errors.New("must be positive")
		}
		return nil
	})
	if _, err := positive.Decode(context.Background(), Literal, int64(-1)); !errors.Is(err, ErrValidation) {
		t.Errorf("Decode(-1) error = %v, want ErrValidation", err)
	}
	if v, err := positive.Decode(context.Background(), Literal, int64(2)); err != nil || v != 2 {
		t.Errorf("Decode(2) = %d, %v", v, err)
	}
}

func TestEnum(t *testing.T) {
	ctx := context.Background()
	c := Enum(map[string]time.Weekday{"mon": time.Monday, "tue": time.Tuesday})

	if v, err := c.Decode(ctx, Literal, "tue"); err != nil || v != time.Tuesday {
		t.Errorf("Decode(tue) = %v, %v", v, err)
	}
	if _, err := c.Decode(ctx, Literal, "sun"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Decode(sun) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := c.Encode(ctx, Literal, time.Sunday); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Encode(Sunday) error = %v, want ErrTypeMismatch", err)
	}
}

func TestDuration(t *testing.T) {
	ctx := context.Background()
	if v, err := Duration.Decode(ctx, Literal, int64(time.Second)); err != nil || v != time.Second {
		t.Errorf("Decode(ns) = %v, %v", v, err)
	}
	if _, err := Duration.Decode(ctx, Literal, "soon"); err == nil {
		t.Error("Decode(\"soon\") should fail")
	}
}

func TestInt_Range(t *testing.T) {
	ctx := context.Background()

	big := int64(math.MaxInt32) + 1
	v, err := Int.Decode(ctx, Literal, big)
	if strconv.IntSize == 32 {
		if !errors.Is(err, ErrTypeMismatch) {
			t.Errorf("Decode(%d) error = %v, want ErrTypeMismatch", big, err)
		}
		return
	}
	if err != nil || int64(v) != big {
		t.Errorf("Decode(%d) = %d, %v", big, v, err)
	}
	if v, err := Int.Decode(ctx, Literal, int64(math.MinInt)); err != nil || v != math.MinInt {
		t.Errorf("Decode(MinInt) = %d, %v", v, err)
	}
}

func TestLazy(t *testing.T) {
	calls := 0
	c := Lazy(func() Codec[int] {
		calls++
		return Int
	})
	if calls != 0 {
		t.Fatal("Lazy() resolved eagerly")
	}
	if v, err := c.Decode(context.Background(), Literal, int64(1)); err != nil || v != 1 {
		t.Errorf("Decode() = %d, %v", v, err)
	}
	if _, err := c.Encode(context.Background(), Literal, 2); err != nil {
		t.Errorf("Encode() error: %v", err)
	}
	if _, err := c.Decode(context.Background(), Literal, int64(3)); err != nil {
		t.Errorf("Decode() error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Lazy() resolved %d times, want 1", calls)
	}
}

type cloned struct {
	Items []int
}

func (c cloned) Clone() cloned {
	return cloned{Items: append([]int{-1}, c.Items...)}
}

func TestCopyDefault(t *testing.T) {
	src := []int{1, 2}
	cp := copyDefault(src)
	cp[0] = 9
	if src[0] != 1 {
		t.Error("copyDefault() shared the backing array")
	}

	if got := copyDefault(cloned{Items: []int{1}}); len(got.Items) != 2 {
		t.Errorf("copyDefault() ignored Clone: %v", got)
	}

	if got := copyDefault(42); got != 42 {
		t.Errorf("copyDefault(42) = %d", got)
	}
}
