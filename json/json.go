// Package json provides the JSON format and ops for dyncodec.
//
// Documents are parsed with encoding/json using UseNumber, so numbers keep their
// textual form as json.Number and integers never lose precision to float64.
package json

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/zoobzio/dyncodec"
)

// ContentType is the MIME type of the JSON format.
const ContentType = "application/json"

// ErrTrailingData is returned when input holds more than one JSON value.
var ErrTrailingData = errors.New("json: trailing data after top-level value")

// Ops is the JSON ops. Dynamic values are nil, bool, json.Number, string,
// []any and map[string]any.
var Ops dyncodec.Ops = &jsonOps{NativeOps: dyncodec.NewNativeOps("json", false)}

type jsonOps struct {
	*dyncodec.NativeOps
}

func (o *jsonOps) Kind(v any) dyncodec.Kind {
	if n, ok := v.(json.Number); ok {
		if strings.ContainsAny(string(n), ".eE") {
			return dyncodec.KindFloat
		}
		return dyncodec.KindInt
	}
	return o.NativeOps.Kind(v)
}

func (o *jsonOps) CreateInt(i int64) any {
	return json.Number(strconv.FormatInt(i, 10))
}

func (o *jsonOps) CreateFloat(f float64) any {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	return json.Number(s)
}

func (o *jsonOps) GetInt(v any) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return o.NativeOps.GetInt(v)
	}
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, &dyncodec.TypeError{Want: dyncodec.KindInt, Got: o.Kind(v)}
	}
	return o.NativeOps.GetInt(f)
}

func (o *jsonOps) GetFloat(v any) (float64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return o.NativeOps.GetFloat(v)
	}
	f, err := n.Float64()
	if err != nil {
		return 0, &dyncodec.TypeError{Want: dyncodec.KindFloat, Got: o.Kind(v)}
	}
	return f, nil
}

// jsonFormat implements dyncodec.Format for JSON.
type jsonFormat struct{}

// New returns the JSON format.
func New() dyncodec.Format {
	return &jsonFormat{}
}

// ContentType returns the MIME type for JSON.
func (f *jsonFormat) ContentType() string {
	return ContentType
}

// Ops returns the JSON ops.
func (f *jsonFormat) Ops() dyncodec.Ops {
	return Ops
}

// Marshal encodes a JSON dynamic value.
func (f *jsonFormat) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

// Unmarshal parses data, which must hold exactly one value, into a JSON dynamic value.
func (f *jsonFormat) Unmarshal(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, ErrTrailingData
	}
	return v, nil
}
