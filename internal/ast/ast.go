// Package ast defines the tree produced by the resume language parser.
//
// Nodes own their children and hold no reference to their parent, so a tree
// can be encoded directly without cycles.
package ast

import "time"

// Type tags a node.
type Type string

const (
	TypeRoot     Type = "root"
	TypeSection  Type = "section"
	TypeLabel    Type = "label"
	TypeRichText Type = "rich-text"
	TypeDate     Type = "date"
	TypeURL      Type = "url"
	TypeText     Type = "text"
)

// Node is one element of the tree. Value depends on Type:
//
//	section    string
//	label      Label
//	rich-text  RichText
//	url        URL
//	date       time.Time
//	text       string
type Node struct {
	Type     Type
	Value    any
	Children []*Node
}

// Root is the top of a parsed document.
type Root struct {
	Children []*Node
}

// Label is the payload of a label node.
type Label struct {
	ID    Literal `json:"id" yaml:"id"`
	Value *Node   `json:"value" yaml:"value"`
}

// RichText is the payload of a rich-text node.
type RichText struct {
	ID          Literal `json:"id" yaml:"id"`
	Original    string  `json:"original" yaml:"original"`
	Transformed string  `json:"transformed" yaml:"transformed"`
}

// URL is the payload of a url node.
type URL struct {
	Alias string `json:"alias" yaml:"alias"`
	Link  string `json:"link" yaml:"link"`
}

func NewSection(id string) *Node {
	return &Node{Type: TypeSection, Value: id}
}

func NewLabel(id Literal, value *Node) *Node {
	return &Node{Type: TypeLabel, Value: Label{ID: id, Value: value}}
}

func NewRichText(id Literal, original, transformed string) *Node {
	return &Node{Type: TypeRichText, Value: RichText{ID: id, Original: original, Transformed: transformed}}
}

func NewURL(alias, link string) *Node {
	return &Node{Type: TypeURL, Value: URL{Alias: alias, Link: link}}
}

func NewDate(t time.Time) *Node {
	return &Node{Type: TypeDate, Value: t}
}

func NewText(s string) *Node {
	return &Node{Type: TypeText, Value: s}
}

// Append adds children in order.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Append adds top-level nodes in order.
func (r *Root) Append(children ...*Node) {
	r.Children = append(r.Children, children...)
}

// Walk visits every node depth-first in document order. Label and rich-text
// payload nodes are not visited; only Children edges are followed.
func (r *Root) Walk(fn func(n *Node, depth int)) {
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			fn(n, depth)
			walk(n.Children, depth+1)
		}
	}
	walk(r.Children, 0)
}

// Count returns the number of nodes of each type reachable through Children.
func (r *Root) Count() map[Type]int {
	counts := make(map[Type]int)
	r.Walk(func(n *Node, _ int) {
		counts[n.Type]++
	})
	return counts
}

// Literal is either a plain string or a typed node. The zero value is the
// empty string.
type Literal struct {
	str  string
	node *Node
}

// Str returns a string literal.
func Str(s string) Literal {
	return Literal{str: s}
}

// Typed returns a literal holding a typed node.
func Typed(n *Node) Literal {
	return Literal{node: n}
}

// IsNode reports whether the literal holds a typed node.
func (l Literal) IsNode() bool {
	return l.node != nil
}

// Node returns the typed node, or nil for a string literal.
func (l Literal) Node() *Node {
	return l.node
}

// String returns the string value. It is empty for typed literals.
func (l Literal) String() string {
	return l.str
}
