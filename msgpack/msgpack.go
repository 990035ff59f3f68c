// Package msgpack provides the MessagePack format and ops for dyncodec.
package msgpack

import (
	"bytes"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/dyncodec"
)

// ContentType is the MIME type of the MessagePack format.
const ContentType = "application/msgpack"

// Ops is the MessagePack ops. Dynamic values are native Go values as produced by
// the msgpack decoder in loose mode: nil, bool, int64, uint64, float64, string, []byte,
// []any and map[string]any.
var Ops dyncodec.Ops = dyncodec.NewNativeOps("msgpack", false)

// msgpackFormat implements dyncodec.Format for MessagePack.
type msgpackFormat struct{}

// New returns the MessagePack format.
func New() dyncodec.Format {
	return &msgpackFormat{}
}

// ContentType returns the MIME type for MessagePack.
func (f *msgpackFormat) ContentType() string {
	return ContentType
}

// Ops returns the MessagePack ops.
func (f *msgpackFormat) Ops() dyncodec.Ops {
	return Ops
}

// Marshal encodes a MessagePack dynamic value. Map keys are written sorted so
// equal values always produce equal bytes.
func (f *msgpackFormat) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses data into a MessagePack dynamic value.
func (f *msgpackFormat) Unmarshal(data []byte) (any, error) {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	return dec.DecodeInterfaceLoose()
}
