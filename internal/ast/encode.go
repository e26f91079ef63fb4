package ast

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", s)
	}
}

// Encode writes the tree to w in the given format.
func Encode(w io.Writer, root *Root, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(root)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(root); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// encodedNode is the wire shape shared by JSON and YAML.
type encodedNode struct {
	Type     Type    `json:"type" yaml:"type"`
	Value    any     `json:"value" yaml:"value"`
	Children []*Node `json:"children" yaml:"children"`
}

type encodedRoot struct {
	Type     Type    `json:"type" yaml:"type"`
	Children []*Node `json:"children" yaml:"children"`
}

func (n *Node) encoded() encodedNode {
	children := n.Children
	if children == nil {
		children = []*Node{}
	}
	value := n.Value
	if t, ok := value.(time.Time); ok {
		value = t.UTC().Format(time.RFC3339)
	}
	return encodedNode{Type: n.Type, Value: value, Children: children}
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.encoded())
}

func (n *Node) MarshalYAML() (any, error) {
	return n.encoded(), nil
}

func (r *Root) encoded() encodedRoot {
	children := r.Children
	if children == nil {
		children = []*Node{}
	}
	return encodedRoot{Type: TypeRoot, Children: children}
}

func (r *Root) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.encoded())
}

func (r *Root) MarshalYAML() (any, error) {
	return r.encoded(), nil
}

func (l Literal) MarshalJSON() ([]byte, error) {
	if l.node != nil {
		return json.Marshal(l.node)
	}
	return json.Marshal(l.str)
}

func (l Literal) MarshalYAML() (any, error) {
	if l.node != nil {
		return l.node, nil
	}
	return l.str, nil
}
