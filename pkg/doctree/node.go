// Package doctree holds YAML and JSON documents as trees of clone-on-write
// nodes. Editing a tree that borrows another copies only the nodes along
// the edited path and leaves every other subtree shared.
package doctree

import (
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/bow/pkg/bow"
)

// Kind is the shape of a node.
type Kind int

// Node kinds. The zero Kind is a scalar, so the zero Node is null.
const (
	KindScalar Kind = iota
	KindList
	KindMap
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	default:
		return "unknown"
	}
}

// Short YAML tags used for scalars.
const (
	TagNull  = "!!null"
	TagBool  = "!!bool"
	TagInt   = "!!int"
	TagFloat = "!!float"
	TagStr   = "!!str"
)

// Node is one node of a document.
type Node struct {
	Kind Kind

	// Tag is the resolved short tag of a scalar, e.g. "!!int".
	Tag string

	// Scalar is the text of a scalar node.
	Scalar string

	// Keys holds map keys in document order, parallel to Children.
	Keys []string

	// Children holds list items or map values.
	Children []bow.Bow[Node]
}

// Scalar returns a scalar node whose tag is resolved from value the way a
// plain YAML scalar would be.
func Scalar(value string) Node {
	y := yaml.Node{Kind: yaml.ScalarNode, Value: value}
	return Node{Kind: KindScalar, Tag: y.ShortTag(), Scalar: value}
}

// Map returns an empty map node.
func Map() Node {
	return Node{Kind: KindMap}
}

// List returns an empty list node.
func List() Node {
	return Node{Kind: KindList}
}

// Clone returns an independent deep copy of n.
func (n Node) Clone() Node {
	c := n.shallow()
	for i := range n.Children {
		c.Children[i] = n.Children[i].Clone()
	}
	return c
}

// shallow returns a copy of n whose children borrow those of n. It is the
// step that copies one node along an edited path, so n must not be modified
// while the copy is in use.
func (n Node) shallow() Node {
	c := Node{Kind: n.Kind, Tag: n.Tag, Scalar: n.Scalar}
	if n.Keys != nil {
		c.Keys = make([]string, len(n.Keys))
		copy(c.Keys, n.Keys)
	}
	if n.Children != nil {
		c.Children = make([]bow.Bow[Node], len(n.Children))
		for i := range n.Children {
			c.Children[i] = bow.Borrowed(n.Children[i].Ref())
		}
	}
	return c
}

// mutNode returns the node in b for writing. A borrowed node is replaced by
// a shallow copy, so its subtrees stay shared.
func mutNode(b *bow.Bow[Node]) *Node {
	if b.IsBorrowed() {
		*b = bow.Owned(b.Ref().shallow())
	}
	return b.Mut()
}

// IsNull reports whether n is a null scalar.
func (n Node) IsNull() bool {
	return n.Kind == KindScalar && (n.Tag == TagNull || n.Tag == "")
}

// Len returns the number of children.
func (n Node) Len() int {
	return len(n.Children)
}

// index returns the position of key in a map node, or -1.
func (n Node) index(key string) int {
	for i, k := range n.Keys {
		if k == key {
			return i
		}
	}
	return -1
}

// Lookup returns the value stored under key in a map node.
func (n Node) Lookup(key string) (Node, bool) {
	if n.Kind != KindMap {
		return Node{}, false
	}
	i := n.index(key)
	if i < 0 {
		return Node{}, false
	}
	return n.Children[i].Value(), true
}

// Index returns the i-th item of a list node.
func (n Node) Index(i int) (Node, bool) {
	if n.Kind != KindList || i < 0 || i >= len(n.Children) {
		return Node{}, false
	}
	return n.Children[i].Value(), true
}

// put stores child under key, appending the key when it is new, and
// returns the child's box.
func (n *Node) put(key string, child Node) *bow.Bow[Node] {
	i := n.index(key)
	if i < 0 {
		n.Keys = append(n.Keys, key)
		n.Children = append(n.Children, bow.Owned(child))
		return &n.Children[len(n.Children)-1]
	}
	n.Children[i] = bow.Owned(child)
	return &n.Children[i]
}
