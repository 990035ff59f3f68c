// Package yaml provides the YAML format and ops for dyncodec.
//
// Dynamic values are *yaml.Node trees, so mapping order from the source document
// survives a decode/encode round trip.
package yaml

import (
	"math"
	"strconv"

	"github.com/zoobzio/dyncodec"
	"gopkg.in/yaml.v3"
)

// ContentType is the MIME type of the YAML format.
const ContentType = "application/yaml"

// Short tags assigned by the yaml.v3 resolver.
const (
	tagNull  = "!!null"
	tagBool  = "!!bool"
	tagInt   = "!!int"
	tagFloat = "!!float"
	tagStr   = "!!str"
	tagSeq   = "!!seq"
	tagMap   = "!!map"
)

// Ops is the YAML ops.
var Ops dyncodec.Ops = yamlOps{}

type yamlOps struct{}

// resolve unwraps documents and aliases down to the node holding content.
func resolve(v any) (*yaml.Node, bool) {
	n, ok := v.(*yaml.Node)
	for ok && n != nil {
		switch {
		case n.Kind == yaml.DocumentNode && len(n.Content) == 1:
			n = n.Content[0]
		case n.Kind == yaml.AliasNode && n.Alias != nil:
			n = n.Alias
		default:
			return n, true
		}
	}
	return nil, false
}

// node converts a dynamic value into a node for embedding in a collection.
func node(v any) *yaml.Node {
	if n, ok := resolve(v); ok {
		return n
	}
	return scalar(tagNull, "null")
}

func scalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

func (yamlOps) Name() string { return "yaml" }

func (yamlOps) Empty() any { return nil }

func (yamlOps) Kind(v any) dyncodec.Kind {
	if v == nil {
		return dyncodec.KindEmpty
	}
	n, ok := resolve(v)
	if !ok {
		if _, isNode := v.(*yaml.Node); isNode {
			return dyncodec.KindEmpty
		}
		return dyncodec.KindOpaque
	}
	switch n.Kind {
	case yaml.MappingNode:
		return dyncodec.KindMap
	case yaml.SequenceNode:
		return dyncodec.KindList
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case tagNull:
			return dyncodec.KindEmpty
		case tagBool:
			return dyncodec.KindBool
		case tagInt:
			return dyncodec.KindInt
		case tagFloat:
			return dyncodec.KindFloat
		}
		return dyncodec.KindString
	}
	return dyncodec.KindEmpty
}

func (yamlOps) CreateBool(b bool) any {
	return scalar(tagBool, strconv.FormatBool(b))
}

func (yamlOps) CreateInt(i int64) any {
	return scalar(tagInt, strconv.FormatInt(i, 10))
}

func (yamlOps) CreateFloat(f float64) any {
	switch {
	case math.IsNaN(f):
		return scalar(tagFloat, ".nan")
	case math.IsInf(f, 1):
		return scalar(tagFloat, ".inf")
	case math.IsInf(f, -1):
		return scalar(tagFloat, "-.inf")
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if f == math.Trunc(f) && math.Abs(f) < 1e21 {
		s = strconv.FormatFloat(f, 'f', 1, 64)
	}
	return scalar(tagFloat, s)
}

func (yamlOps) CreateString(s string) any {
	return scalar(tagStr, s)
}

func (yamlOps) CreateList(items []any) any {
	content := make([]*yaml.Node, len(items))
	for i, item := range items {
		content[i] = node(item)
	}
	return &yaml.Node{Kind: yaml.SequenceNode, Tag: tagSeq, Content: content}
}

func (yamlOps) CreateMap(m *dyncodec.MapLike) any {
	content := make([]*yaml.Node, 0, 2*m.Len())
	for _, k := range m.Keys() {
		v, _ := m.Get(k)
		content = append(content, scalar(tagStr, k), node(v))
	}
	return &yaml.Node{Kind: yaml.MappingNode, Tag: tagMap, Content: content}
}

func (o yamlOps) scalarOf(v any, want dyncodec.Kind) (*yaml.Node, error) {
	n, ok := resolve(v)
	if !ok || n.Kind != yaml.ScalarNode {
		return nil, &dyncodec.TypeError{Want: want, Got: o.Kind(v)}
	}
	return n, nil
}

func (o yamlOps) GetBool(v any) (bool, error) {
	n, err := o.scalarOf(v, dyncodec.KindBool)
	if err != nil {
		return false, err
	}
	var b bool
	if n.ShortTag() != tagBool || n.Decode(&b) != nil {
		return false, &dyncodec.TypeError{Want: dyncodec.KindBool, Got: o.Kind(v)}
	}
	return b, nil
}

func (o yamlOps) GetInt(v any) (int64, error) {
	n, err := o.scalarOf(v, dyncodec.KindInt)
	if err != nil {
		return 0, err
	}
	switch n.ShortTag() {
	case tagInt:
		var i int64
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
	case tagFloat:
		var f float64
		if err := n.Decode(&f); err == nil {
			if i, err := dyncodec.Literal.GetInt(f); err == nil {
				return i, nil
			}
		}
	}
	return 0, &dyncodec.TypeError{Want: dyncodec.KindInt, Got: o.Kind(v)}
}

func (o yamlOps) GetFloat(v any) (float64, error) {
	n, err := o.scalarOf(v, dyncodec.KindFloat)
	if err != nil {
		return 0, err
	}
	if tag := n.ShortTag(); tag != tagFloat && tag != tagInt {
		return 0, &dyncodec.TypeError{Want: dyncodec.KindFloat, Got: o.Kind(v)}
	}
	var f float64
	if err := n.Decode(&f); err != nil {
		return 0, &dyncodec.TypeError{Want: dyncodec.KindFloat, Got: o.Kind(v)}
	}
	return f, nil
}

// GetString returns the source text of any non-null scalar.
func (o yamlOps) GetString(v any) (string, error) {
	n, err := o.scalarOf(v, dyncodec.KindString)
	if err != nil {
		return "", err
	}
	if n.ShortTag() == tagNull {
		return "", &dyncodec.TypeError{Want: dyncodec.KindString, Got: dyncodec.KindEmpty}
	}
	return n.Value, nil
}

func (o yamlOps) GetList(v any) ([]any, error) {
	n, ok := resolve(v)
	if !ok || n.Kind != yaml.SequenceNode {
		return nil, &dyncodec.TypeError{Want: dyncodec.KindList, Got: o.Kind(v)}
	}
	items := make([]any, len(n.Content))
	for i, c := range n.Content {
		items[i] = c
	}
	return items, nil
}

// GetMap returns the mapping in document order.
func (o yamlOps) GetMap(v any) (*dyncodec.MapLike, error) {
	n, ok := resolve(v)
	if !ok || n.Kind != yaml.MappingNode {
		return nil, &dyncodec.TypeError{Want: dyncodec.KindMap, Got: o.Kind(v)}
	}
	m := dyncodec.NewMapLike(len(n.Content) / 2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		m.Set(n.Content[i].Value, n.Content[i+1])
	}
	return m, nil
}

// yamlFormat implements dyncodec.Format for YAML.
type yamlFormat struct{}

// New returns the YAML format.
func New() dyncodec.Format {
	return &yamlFormat{}
}

// ContentType returns the MIME type for YAML.
func (f *yamlFormat) ContentType() string {
	return ContentType
}

// Ops returns the YAML ops.
func (f *yamlFormat) Ops() dyncodec.Ops {
	return Ops
}

// Marshal encodes a YAML dynamic value.
func (f *yamlFormat) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(node(v))
}

// Unmarshal parses the first document in data. An empty document decodes to the
// empty value.
func (f *yamlFormat) Unmarshal(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return &doc, nil
}
