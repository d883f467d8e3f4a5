package memory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Kind discriminates the variants a Value can hold.
type Kind uint8

const (
	KindNull Kind = iota
	KindText
	KindBool
	KindNumber
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindText:
		return "text"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Value is one node of the memory tree. Mapping nodes keep their keys in
// insertion order so the persisted document reads the same way it was built.
// A nil *Value behaves as null.
type Value struct {
	kind   Kind
	text   string
	flag   bool
	number json.Number
	items  []*Value
	fields *orderedmap.OrderedMap[string, *Value]
}

func Null() *Value { return &Value{kind: KindNull} }

func Text(s string) *Value { return &Value{kind: KindText, text: s} }

func Bool(b bool) *Value { return &Value{kind: KindBool, flag: b} }

func Int(n int64) *Value {
	return &Value{kind: KindNumber, number: json.Number(strconv.FormatInt(n, 10))}
}

func Number(n json.Number) *Value { return &Value{kind: KindNumber, number: n} }

func List(items ...*Value) *Value {
	return &Value{kind: KindList, items: append([]*Value{}, items...)}
}

// TextList builds a sequence of text values.
func TextList(items ...string) *Value {
	l := List()
	for _, s := range items {
		l.items = append(l.items, Text(s))
	}
	return l
}

func Map() *Value {
	return &Value{kind: KindMap, fields: orderedmap.New[string, *Value]()}
}

func (v *Value) Kind() Kind {
	if v == nil {
		return KindNull
	}
	return v.kind
}

func (v *Value) IsNull() bool { return v.Kind() == KindNull }

func (v *Value) Text() (string, bool) {
	if v.Kind() != KindText {
		return "", false
	}
	return v.text, true
}

func (v *Value) Bool() (bool, bool) {
	if v.Kind() != KindBool {
		return false, false
	}
	return v.flag, true
}

// Int reports the value as an integer. Numbers with a fractional part are
// rejected.
func (v *Value) Int() (int64, bool) {
	if v.Kind() != KindNumber {
		return 0, false
	}
	n, err := v.number.Int64()
	if err != nil {
		return 0, false
	}
	return n, true
}

func (v *Value) Items() []*Value {
	if v.Kind() != KindList {
		return nil
	}
	return v.items
}

// Len returns the number of elements of a list or entries of a mapping.
func (v *Value) Len() int {
	switch v.Kind() {
	case KindList:
		return len(v.items)
	case KindMap:
		return v.fields.Len()
	default:
		return 0
	}
}

func (v *Value) Get(key string) (*Value, bool) {
	if v.Kind() != KindMap {
		return nil, false
	}
	return v.fields.Get(key)
}

// Set stores val under key. v must be a mapping; existing keys keep their
// position.
func (v *Value) Set(key string, val *Value) {
	if v.Kind() != KindMap {
		panic(fmt.Sprintf("memory: Set on %s value", v.Kind()))
	}
	if val == nil {
		val = Null()
	}
	v.fields.Set(key, val)
}

// Keys returns mapping keys in insertion order.
func (v *Value) Keys() []string {
	if v.Kind() != KindMap {
		return nil
	}
	keys := make([]string, 0, v.fields.Len())
	for pair := v.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Append adds item to the end of a list. v must be a list.
func (v *Value) Append(item *Value) {
	if v.Kind() != KindList {
		panic(fmt.Sprintf("memory: Append on %s value", v.Kind()))
	}
	if item == nil {
		item = Null()
	}
	v.items = append(v.items, item)
}

func (v *Value) Clone() *Value {
	switch v.Kind() {
	case KindNull:
		return Null()
	case KindList:
		out := List()
		for _, it := range v.items {
			out.items = append(out.items, it.Clone())
		}
		return out
	case KindMap:
		out := Map()
		for pair := v.fields.Oldest(); pair != nil; pair = pair.Next() {
			out.fields.Set(pair.Key, pair.Value.Clone())
		}
		return out
	default:
		c := *v
		return &c
	}
}

// Equal compares two trees structurally. Mapping comparison ignores key order.
func (v *Value) Equal(o *Value) bool {
	if v.Kind() != o.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNull:
		return true
	case KindText:
		return v.text == o.text
	case KindBool:
		return v.flag == o.flag
	case KindNumber:
		return v.number == o.number
	case KindList:
		if len(v.items) != len(o.items) {
			return false
		}
		for i := range v.items {
			if !v.items[i].Equal(o.items[i]) {
				return false
			}
		}
		return true
	case KindMap:
		if v.fields.Len() != o.fields.Len() {
			return false
		}
		for pair := v.fields.Oldest(); pair != nil; pair = pair.Next() {
			other, ok := o.fields.Get(pair.Key)
			if !ok || !pair.Value.Equal(other) {
				return false
			}
		}
		return true
	}
	return false
}

// Interface converts the tree to plain Go values: nil, string, bool,
// json.Number, []any and map[string]any.
func (v *Value) Interface() any {
	switch v.Kind() {
	case KindText:
		return v.text
	case KindBool:
		return v.flag
	case KindNumber:
		return v.number
	case KindList:
		out := make([]any, 0, len(v.items))
		for _, it := range v.items {
			out = append(out, it.Interface())
		}
		return out
	case KindMap:
		out := make(map[string]any, v.fields.Len())
		for pair := v.fields.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = pair.Value.Interface()
		}
		return out
	default:
		return nil
	}
}

// String renders the value for prompts: text verbatim, lists joined by ", ".
func (v *Value) String() string {
	switch v.Kind() {
	case KindNull:
		return ""
	case KindText:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindNumber:
		return v.number.String()
	case KindList:
		parts := make([]string, 0, len(v.items))
		for _, it := range v.items {
			parts = append(parts, it.String())
		}
		return strings.Join(parts, ", ")
	default:
		b, _ := v.MarshalJSON()
		return string(b)
	}
}

func (v *Value) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := v.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (v *Value) writeJSON(buf *bytes.Buffer) error {
	switch v.Kind() {
	case KindNull:
		buf.WriteString("null")
	case KindText:
		b, err := json.Marshal(v.text)
		if err != nil {
			return err
		}
		buf.Write(b)
	case KindBool:
		buf.WriteString(strconv.FormatBool(v.flag))
	case KindNumber:
		if v.number == "" {
			buf.WriteString("0")
		} else {
			buf.WriteString(string(v.number))
		}
	case KindList:
		buf.WriteByte('[')
		for i, it := range v.items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := it.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case KindMap:
		buf.WriteByte('{')
		first := true
		for pair := v.fields.Oldest(); pair != nil; pair = pair.Next() {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			k, err := json.Marshal(pair.Key)
			if err != nil {
				return err
			}
			buf.Write(k)
			buf.WriteByte(':')
			if err := pair.Value.writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("memory: cannot encode %s value", v.Kind())
	}
	return nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	parsed, err := decodeValue(dec)
	if err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("memory: trailing data after value")
	}
	*v = *parsed
	return nil
}

func decodeValue(dec *json.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case nil:
		return Null(), nil
	case string:
		return Text(t), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		return Number(t), nil
	case json.Delim:
		switch t {
		case '{':
			m := Map()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("memory: unexpected object key %v", keyTok)
				}
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				m.fields.Set(key, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			l := List()
			for dec.More() {
				child, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				l.items = append(l.items, child)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return l, nil
		}
	}
	return nil, fmt.Errorf("memory: unexpected token %v", tok)
}

// MarshalYAML emits a node tree so mapping order survives YAML output.
func (v *Value) MarshalYAML() (any, error) {
	return v.yamlNode(), nil
}

func (v *Value) yamlNode() *yaml.Node {
	switch v.Kind() {
	case KindText:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.text}
	case KindBool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v.flag)}
	case KindNumber:
		tag := "!!float"
		if _, err := v.number.Int64(); err == nil {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.number.String()}
	case KindList:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, it := range v.items {
			n.Content = append(n.Content, it.yamlNode())
		}
		return n
	case KindMap:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for pair := v.fields.Oldest(); pair != nil; pair = pair.Next() {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: pair.Key},
				pair.Value.yamlNode(),
			)
		}
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}
