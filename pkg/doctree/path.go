package doctree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/bow/pkg/bow"
)

// Path errors.
var (
	ErrEmptyPath    = errors.New("empty path")
	ErrBadSegment   = errors.New("empty path segment")
	ErrNotFound     = errors.New("path not found")
	ErrNotContainer = errors.New("not a list or map")
)

// Path addresses a node by map keys and list indexes, root first.
type Path []string

// ParsePath splits a dotted path such as "server.ports.0.name". The path "."
// addresses the root.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, ErrEmptyPath
	}
	if s == "." {
		return Path{}, nil
	}
	segs := strings.Split(s, ".")
	for i, seg := range segs {
		if seg == "" {
			return nil, fmt.Errorf("%w at position %d in %q", ErrBadSegment, i, s)
		}
	}
	return Path(segs), nil
}

func (p Path) String() string {
	if len(p) == 0 {
		return "."
	}
	return strings.Join(p, ".")
}

// listIndex parses seg as an index into a list of length n. Only plain
// decimal digits without a leading zero are accepted. When allowEnd is set,
// n itself is accepted and means append.
func listIndex(seg string, n int, allowEnd bool) (int, bool) {
	if seg == "" || (len(seg) > 1 && seg[0] == '0') {
		return 0, false
	}
	for i := 0; i < len(seg); i++ {
		if seg[i] < '0' || seg[i] > '9' {
			return 0, false
		}
	}
	i, err := strconv.Atoi(seg)
	if err != nil || i < 0 || i > n || (i == n && !allowEnd) {
		return 0, false
	}
	return i, true
}

// Get returns the node at p.
func Get(root Node, p Path) (Node, error) {
	cur := root
	for i, seg := range p {
		var (
			next Node
			ok   bool
		)
		switch cur.Kind {
		case KindMap:
			next, ok = cur.Lookup(seg)
		case KindList:
			var idx int
			if idx, ok = listIndex(seg, cur.Len(), false); ok {
				next, ok = cur.Index(idx)
			}
		default:
			return Node{}, fmt.Errorf("%w: %s", ErrNotContainer, p[:i])
		}
		if !ok {
			return Node{}, fmt.Errorf("%w: %s", ErrNotFound, p[:i+1])
		}
		cur = next
	}
	return cur, nil
}

// Set stores value at p under root. Nodes along p are copied on write;
// every other subtree stays shared with whatever root borrowed from.
// Missing map keys are created, as is a new item at index len(list).
// A null node on the way is replaced by a map.
func Set(root *bow.Bow[Node], p Path, value Node) error {
	if len(p) == 0 {
		*root = bow.Owned(value)
		return nil
	}

	cur := root
	for i, seg := range p {
		n := mutNode(cur)
		if n.IsNull() {
			*n = Map()
		}
		switch n.Kind {
		case KindMap:
			idx := n.index(seg)
			if idx < 0 {
				cur = n.put(seg, Node{})
				continue
			}
			cur = &n.Children[idx]
		case KindList:
			idx, ok := listIndex(seg, n.Len(), true)
			if !ok {
				return fmt.Errorf("%w: %s", ErrNotFound, p[:i+1])
			}
			if idx == n.Len() {
				n.Children = append(n.Children, bow.Owned(Node{}))
			}
			cur = &n.Children[idx]
		default:
			return fmt.Errorf("%w: %s", ErrNotContainer, p[:i])
		}
	}
	*cur = bow.Owned(value)
	return nil
}

// Edit sets the scalar value at p, resolving its tag like a plain YAML
// scalar.
func Edit(root *bow.Bow[Node], p Path, value string) error {
	return Set(root, p, Scalar(value))
}

// Delete removes the map key or list item at p.
func Delete(root *bow.Bow[Node], p Path) error {
	if len(p) == 0 {
		return ErrEmptyPath
	}
	parent, err := walkMut(root, p[:len(p)-1])
	if err != nil {
		return err
	}
	seg := p[len(p)-1]
	n := mutNode(parent)
	switch n.Kind {
	case KindMap:
		idx := n.index(seg)
		if idx < 0 {
			return fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		n.Keys = append(n.Keys[:idx], n.Keys[idx+1:]...)
		n.Children = append(n.Children[:idx], n.Children[idx+1:]...)
	case KindList:
		idx, ok := listIndex(seg, n.Len(), false)
		if !ok {
			return fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		n.Children = append(n.Children[:idx], n.Children[idx+1:]...)
	default:
		return fmt.Errorf("%w: %s", ErrNotContainer, p[:len(p)-1])
	}
	return nil
}

// walkMut descends along an existing path, copying every node it passes.
func walkMut(root *bow.Bow[Node], p Path) (*bow.Bow[Node], error) {
	cur := root
	for i, seg := range p {
		n := mutNode(cur)
		switch n.Kind {
		case KindMap:
			idx := n.index(seg)
			if idx < 0 {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, p[:i+1])
			}
			cur = &n.Children[idx]
		case KindList:
			idx, ok := listIndex(seg, n.Len(), false)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrNotFound, p[:i+1])
			}
			cur = &n.Children[idx]
		default:
			return nil, fmt.Errorf("%w: %s", ErrNotContainer, p[:i])
		}
	}
	return cur, nil
}
