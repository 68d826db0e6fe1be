package doctree

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/bow/pkg/bow"
)

// Output formats accepted by Encode.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Codec errors.
var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrUnsupported   = errors.New("unsupported yaml node")
	ErrMultiDoc      = errors.New("multiple documents are not supported")
)

// Parse decodes a single YAML document. JSON input is accepted since it is
// valid YAML. Empty input yields a null node.
func Parse(data []byte) (Node, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return Node{}, nil
		}
		return Node{}, fmt.Errorf("parse: %w", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return Node{}, fmt.Errorf("parse: %w", err)
		}
		return Node{}, ErrMultiDoc
	}

	var n Node
	if err := n.UnmarshalYAML(&doc); err != nil {
		return Node{}, err
	}
	return n, nil
}

// UnmarshalYAML converts a yaml.Node tree into n. Aliases are expanded.
func (n *Node) UnmarshalYAML(y *yaml.Node) error {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			*n = Node{}
			return nil
		}
		return n.UnmarshalYAML(y.Content[0])
	case yaml.AliasNode:
		return n.UnmarshalYAML(y.Alias)
	case yaml.ScalarNode:
		*n = Node{Kind: KindScalar, Tag: y.ShortTag(), Scalar: y.Value}
		return nil
	case yaml.SequenceNode:
		out := Node{Kind: KindList, Children: make([]bow.Bow[Node], 0, len(y.Content))}
		for _, item := range y.Content {
			var child Node
			if err := child.UnmarshalYAML(item); err != nil {
				return err
			}
			out.Children = append(out.Children, bow.Owned(child))
		}
		*n = out
		return nil
	case yaml.MappingNode:
		out := Node{Kind: KindMap}
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i]
			if key.Kind == yaml.AliasNode {
				key = key.Alias
			}
			if key.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: non-scalar map key at line %d", ErrUnsupported, key.Line)
			}
			var child Node
			if err := child.UnmarshalYAML(y.Content[i+1]); err != nil {
				return err
			}
			out.put(key.Value, child)
		}
		*n = out
		return nil
	default:
		return fmt.Errorf("%w: kind %d", ErrUnsupported, y.Kind)
	}
}

// MarshalYAML converts n into a yaml.Node tree, keeping map key order.
func (n Node) MarshalYAML() (any, error) {
	return n.yamlNode(), nil
}

func (n Node) yamlNode() *yaml.Node {
	switch n.Kind {
	case KindList:
		y := &yaml.Node{Kind: yaml.SequenceNode}
		for _, c := range n.Children {
			y.Content = append(y.Content, c.Ref().yamlNode())
		}
		return y
	case KindMap:
		y := &yaml.Node{Kind: yaml.MappingNode}
		for i, c := range n.Children {
			y.Content = append(y.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: n.Keys[i]},
				c.Ref().yamlNode())
		}
		return y
	default:
		if n.IsNull() && n.Scalar == "" {
			return &yaml.Node{Kind: yaml.ScalarNode, Tag: TagNull, Value: "null"}
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: n.Tag, Value: n.Scalar}
	}
}

// UnmarshalJSON parses a JSON document into n.
func (n *Node) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// MarshalJSON writes n as JSON, keeping map key order. Numbers that are
// not valid JSON numbers, such as YAML's .inf or 0x1f, are written as
// strings.
func (n Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := n.writeJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n Node) writeJSON(buf *bytes.Buffer) error {
	switch n.Kind {
	case KindList:
		buf.WriteByte('[')
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := c.Ref().writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case KindMap:
		buf.WriteByte('{')
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Keys[i])
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := c.Ref().writeJSON(buf); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	}

	switch {
	case n.IsNull():
		buf.WriteString("null")
		return nil
	case n.Tag == TagBool && (n.Scalar == "true" || n.Scalar == "false"):
		buf.WriteString(n.Scalar)
		return nil
	case (n.Tag == TagInt || n.Tag == TagFloat) && json.Valid([]byte(n.Scalar)):
		buf.WriteString(n.Scalar)
		return nil
	}
	s, err := json.Marshal(n.Scalar)
	if err != nil {
		return err
	}
	buf.Write(s)
	return nil
}

// Encode renders n in the given format with two-space indentation and a
// trailing newline.
func Encode(n Node, format string) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(n); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSON:
		out, err := json.MarshalIndent(n, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
