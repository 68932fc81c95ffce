package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrMalformed marks a document that could not be decoded into a tree.
var ErrMalformed = errors.New("malformed document")

// Extensions lists the file extensions ParseFile understands.
var Extensions = []string{".json", ".yaml", ".yml"}

// ParseFile reads a document, choosing the decoder from the file extension.
func ParseFile(path string) (*Tree, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var t *Tree
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		t, err = ParseYAML(data)
	default:
		t, err = ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

// ParseJSON decodes a JSON object into a tree, preserving key order.
func ParseJSON(data []byte) (*Tree, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed("parsing JSON: %v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, malformed("parsing JSON: root must be an object, got %v", tok)
	}

	t, err := decodeObject(dec)
	if err != nil {
		return nil, malformed("parsing JSON: %v", err)
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed("parsing JSON: trailing data after root object")
	}
	return t, nil
}

// decodeObject reads members until the closing brace. The opening brace
// has already been consumed.
func decodeObject(dec *json.Decoder) (*Tree, error) {
	t := New()
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := kt.(string)
		if !ok {
			return nil, fmt.Errorf("expected string key, got %T", kt)
		}

		v, err := decodeValue(dec)
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		t.Set(key, v)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return t, nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}
	switch delim {
	case '{':
		return decodeObject(dec)
	case '[':
		var arr []any
		for dec.More() {
			v, err := decodeValue(dec)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return arr, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %v", delim)
}

// MarshalJSON writes the tree as an indented JSON object in document order.
func (t *Tree) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := writeJSON(&buf, t, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(buf *bytes.Buffer, t *Tree, depth int) error {
	if t.Len() == 0 {
		buf.WriteString("{}")
		return nil
	}
	indent := strings.Repeat("  ", depth+1)
	buf.WriteString("{\n")
	for i, k := range t.Keys() {
		buf.WriteString(indent)
		if err := writeScalar(buf, k); err != nil {
			return err
		}
		buf.WriteString(": ")

		switch v := t.values[k].(type) {
		case *Tree:
			if err := writeJSON(buf, v, depth+1); err != nil {
				return err
			}
		default:
			if err := writeScalar(buf, v); err != nil {
				return err
			}
		}
		if i < t.Len()-1 {
			buf.WriteByte(',')
		}
		buf.WriteByte('\n')
	}
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteByte('}')
	return nil
}

func writeScalar(buf *bytes.Buffer, v any) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	// Encoder always appends a newline.
	buf.Truncate(buf.Len() - 1)
	return nil
}

// ---------------------------------------------------------------------------
// YAML
// ---------------------------------------------------------------------------

// ParseYAML decodes a YAML mapping into a tree, preserving key order.
// An empty document yields an empty tree.
func ParseYAML(data []byte) (*Tree, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, malformed("parsing YAML: %v", err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return New(), nil
	}

	root := resolveAlias(doc.Content[0])
	if root.Kind != yaml.MappingNode {
		return nil, malformed("parsing YAML: root must be a mapping, got kind %d", root.Kind)
	}
	t, err := decodeMapping(root)
	if err != nil {
		return nil, malformed("parsing YAML: %v", err)
	}
	return t, nil
}

func decodeMapping(node *yaml.Node) (*Tree, error) {
	t := New()
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode := node.Content[i]
		valNode := resolveAlias(node.Content[i+1])

		switch valNode.Kind {
		case yaml.MappingNode:
			sub, err := decodeMapping(valNode)
			if err != nil {
				return nil, err
			}
			t.Set(keyNode.Value, sub)
		case yaml.ScalarNode:
			if valNode.ShortTag() == "!!str" {
				t.Set(keyNode.Value, valNode.Value)
				continue
			}
			fallthrough
		default:
			var v any
			if err := valNode.Decode(&v); err != nil {
				return nil, fmt.Errorf("key %q: %w", keyNode.Value, err)
			}
			t.Set(keyNode.Value, v)
		}
	}
	return t, nil
}

func resolveAlias(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformed, fmt.Sprintf(format, args...))
}
