// Package bson provides the BSON format and ops for dyncodec.
//
// Documents are bson.D so field order survives a round trip. BSON has no
// top-level scalars, so Marshal only accepts documents.
package bson

import (
	"errors"

	"github.com/zoobzio/dyncodec"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentType is the MIME type of the BSON format.
const ContentType = "application/bson"

// ErrNotDocument is returned when marshaling a value that is not a document.
var ErrNotDocument = errors.New("bson: top-level value must be a document")

// Ops is the BSON ops. Dynamic values are nil, bool, int32, int64, float64,
// string, bson.A and bson.D; bson.M is accepted on input.
var Ops dyncodec.Ops = &bsonOps{NativeOps: dyncodec.NewNativeOps("bson", false)}

type bsonOps struct {
	*dyncodec.NativeOps
}

func (o *bsonOps) Kind(v any) dyncodec.Kind {
	switch v.(type) {
	case nil, primitive.Null, primitive.Undefined:
		return dyncodec.KindEmpty
	case bson.D, bson.M:
		return dyncodec.KindMap
	case bson.A:
		return dyncodec.KindList
	case primitive.Binary, primitive.ObjectID, primitive.DateTime, primitive.Decimal128:
		return dyncodec.KindOpaque
	}
	return o.NativeOps.Kind(v)
}

func (o *bsonOps) CreateList(items []any) any {
	return bson.A(items)
}

func (o *bsonOps) CreateMap(m *dyncodec.MapLike) any {
	d := make(bson.D, 0, m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		d = append(d, bson.E{Key: k, Value: v})
	}
	return d
}

func (o *bsonOps) GetList(v any) ([]any, error) {
	if a, ok := v.(bson.A); ok {
		return []any(a), nil
	}
	return o.NativeOps.GetList(v)
}

// GetMap returns documents in field order; bson.M falls back to sorted keys.
func (o *bsonOps) GetMap(v any) (*dyncodec.MapLike, error) {
	d, ok := v.(bson.D)
	if !ok {
		if m, isM := v.(bson.M); isM {
			return o.NativeOps.GetMap(map[string]any(m))
		}
		return nil, &dyncodec.TypeError{Want: dyncodec.KindMap, Got: o.Kind(v)}
	}
	m := dyncodec.NewMapLike(len(d))
	for _, e := range d {
		m.Set(e.Key, e.Value)
	}
	return m, nil
}

// bsonFormat implements dyncodec.Format for BSON.
type bsonFormat struct{}

// New returns the BSON format.
func New() dyncodec.Format {
	return &bsonFormat{}
}

// ContentType returns the MIME type for BSON.
func (f *bsonFormat) ContentType() string {
	return ContentType
}

// Ops returns the BSON ops.
func (f *bsonFormat) Ops() dyncodec.Ops {
	return Ops
}

// Marshal encodes a BSON document.
func (f *bsonFormat) Marshal(v any) ([]byte, error) {
	d, ok := v.(bson.D)
	if !ok {
		return nil, ErrNotDocument
	}
	return bson.Marshal(d)
}

// Unmarshal decodes a BSON document. Embedded documents decode as bson.D and
// arrays as bson.A.
func (f *bsonFormat) Unmarshal(data []byte) (any, error) {
	var d bson.D
	if err := bson.Unmarshal(data, &d); err != nil {
		return nil, err
	}
	return d, nil
}
