// Package jsondoc edits JSON configuration files (package.json, angular.json)
// without disturbing the order of keys the user wrote. Documents are read
// token by token into yaml.v3 nodes, which keep mapping order, and printed
// back as JSON with two-space indentation.
package jsondoc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Document is a parsed JSON file whose top level is an object.
type Document struct {
	root            *yaml.Node
	trailingNewline bool
}

// Object is a JSON object node. The zero value is not usable.
type Object struct {
	n *yaml.Node
}

// Parse reads a JSON object document. Duplicate keys keep the position of
// their first occurrence and the value of their last, as JSON.parse does.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	if !json.Valid(data) {
		var v any
		err := json.Unmarshal(data, &v)
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	root, err := decodeValue(dec)
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("top-level value is not an object")
	}
	return &Document{
		root:            root,
		trailingNewline: bytes.HasSuffix(data, []byte("\n")),
	}, nil
}

// decodeValue reads one JSON value from dec as a yaml node.
func decodeValue(dec *json.Decoder) (*yaml.Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			obj := Object{n: &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", keyTok)
				}
				val, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				obj.setNode(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj.n, nil
		case '[':
			seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
			for dec.More() {
				item, err := decodeValue(dec)
				if err != nil {
					return nil, err
				}
				seq.Content = append(seq.Content, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", v)
	case string:
		return stringNode(v), nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(string(v), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(v)}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// Root returns the top-level object.
func (d *Document) Root() Object {
	return Object{n: d.root}
}

// Marshal prints the document as two-space indented JSON. A trailing
// newline is written only if the parsed input had one.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, d.root, ""); err != nil {
		return nil, err
	}
	if d.trailingNewline {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

// Keys returns the object's keys in document order.
func (o Object) Keys() []string {
	keys := make([]string, 0, len(o.n.Content)/2)
	for i := 0; i+1 < len(o.n.Content); i += 2 {
		keys = append(keys, o.n.Content[i].Value)
	}
	return keys
}

// Has reports whether key is present.
func (o Object) Has(key string) bool {
	return o.value(key) != nil
}

// String returns the string value at key.
func (o Object) String(key string) (string, bool) {
	v := o.value(key)
	if v == nil || v.Kind != yaml.ScalarNode || v.ShortTag() != "!!str" {
		return "", false
	}
	return v.Value, true
}

// Object returns the object value at key.
func (o Object) Object(key string) (Object, bool) {
	v := o.value(key)
	if v == nil || v.Kind != yaml.MappingNode {
		return Object{}, false
	}
	return Object{n: v}, true
}

// Lookup walks nested objects along path.
func (o Object) Lookup(path ...string) (Object, bool) {
	cur := o
	for _, key := range path {
		next, ok := cur.Object(key)
		if !ok {
			return Object{}, false
		}
		cur = next
	}
	return cur, true
}

// EnsureObject returns the object at key, creating an empty one (or
// replacing a non-object value) when needed.
func (o Object) EnsureObject(key string) Object {
	if obj, ok := o.Object(key); ok {
		return obj
	}
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	o.setNode(key, n)
	return Object{n: n}
}

// Strings returns the value at key as a list of strings. Non-string
// elements are skipped.
func (o Object) Strings(key string) ([]string, bool) {
	v := o.value(key)
	if v == nil || v.Kind != yaml.SequenceNode {
		return nil, false
	}
	out := make([]string, 0, len(v.Content))
	for _, item := range v.Content {
		if item.Kind == yaml.ScalarNode && item.ShortTag() == "!!str" {
			out = append(out, item.Value)
		}
	}
	return out, true
}

// AppendString appends s to the list at key, creating the list (or
// replacing a non-list value) when needed.
func (o Object) AppendString(key, s string) {
	v := o.value(key)
	if v == nil || v.Kind != yaml.SequenceNode {
		v = &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		o.setNode(key, v)
	}
	v.Content = append(v.Content, stringNode(s))
}

// SetString sets key to the string s, keeping the key's position if present.
func (o Object) SetString(key, s string) {
	o.setNode(key, stringNode(s))
}

// Set encodes v and stores it at key. Maps are written with sorted keys.
func (o Object) Set(key string, v any) error {
	var n yaml.Node
	if err := n.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	o.setNode(key, &n)
	return nil
}

// Delete removes key and reports whether it was present.
func (o Object) Delete(key string) bool {
	for i := 0; i+1 < len(o.n.Content); i += 2 {
		if o.n.Content[i].Value == key {
			o.n.Content = append(o.n.Content[:i], o.n.Content[i+2:]...)
			return true
		}
	}
	return false
}

// SortKeys reorders the object's entries by ascending key.
func (o Object) SortKeys() {
	type pair struct{ k, v *yaml.Node }
	pairs := make([]pair, 0, len(o.n.Content)/2)
	for i := 0; i+1 < len(o.n.Content); i += 2 {
		pairs = append(pairs, pair{o.n.Content[i], o.n.Content[i+1]})
	}
	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].k.Value < pairs[j].k.Value
	})
	content := make([]*yaml.Node, 0, len(o.n.Content))
	for _, p := range pairs {
		content = append(content, p.k, p.v)
	}
	o.n.Content = content
}

// Decode decodes the object into v.
func (o Object) Decode(v any) error {
	return o.n.Decode(v)
}

func (o Object) value(key string) *yaml.Node {
	for i := 0; i+1 < len(o.n.Content); i += 2 {
		if o.n.Content[i].Value == key {
			return o.n.Content[i+1]
		}
	}
	return nil
}

func (o Object) setNode(key string, v *yaml.Node) {
	for i := 0; i+1 < len(o.n.Content); i += 2 {
		if o.n.Content[i].Value == key {
			o.n.Content[i+1] = v
			return
		}
	}
	o.n.Content = append(o.n.Content, stringNode(key), v)
}

func stringNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func encode(buf *bytes.Buffer, n *yaml.Node, indent string) error {
	inner := indent + "  "
	switch n.Kind {
	case yaml.MappingNode:
		if len(n.Content) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(inner)
			if err := writeString(buf, n.Content[i].Value); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := encode(buf, n.Content[i+1], inner); err != nil {
				return err
			}
		}
		buf.WriteString("\n" + indent + "}")
	case yaml.SequenceNode:
		if len(n.Content) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, item := range n.Content {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(inner)
			if err := encode(buf, item, inner); err != nil {
				return err
			}
		}
		buf.WriteString("\n" + indent + "]")
	case yaml.ScalarNode:
		switch n.ShortTag() {
		case "!!int", "!!float", "!!bool":
			buf.WriteString(n.Value)
		case "!!null":
			buf.WriteString("null")
		default:
			return writeString(buf, n.Value)
		}
	case yaml.AliasNode:
		return encode(buf, n.Alias, indent)
	case yaml.DocumentNode:
		if len(n.Content) > 0 {
			return encode(buf, n.Content[0], indent)
		}
	default:
		return fmt.Errorf("unsupported node kind %d", n.Kind)
	}
	return nil
}

// writeString writes s as a JSON string without HTML escaping, matching
// what Node's JSON.stringify produces.
func writeString(buf *bytes.Buffer, s string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return err
	}
	buf.WriteString(strings.TrimSuffix(tmp.String(), "\n"))
	return nil
}
