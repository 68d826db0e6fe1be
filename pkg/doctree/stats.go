package doctree

import "github.com/mesh-intelligence/bow/pkg/bow"

// Stats describes how much of a tree is owned by it and how much is shared
// with the tree it was derived from.
type Stats struct {
	// Owned counts nodes held in owned boxes that are reached without
	// passing through a borrowed box.
	Owned int

	// Borrowed counts borrowed boxes, each the root of a shared subtree.
	Borrowed int

	// Shared counts all nodes inside borrowed subtrees.
	Shared int
}

// Total returns the number of nodes in the tree.
func (s Stats) Total() int {
	return s.Owned + s.Shared
}

// Count walks the tree under b.
func Count(b bow.Bow[Node]) Stats {
	var s Stats
	count(b, false, &s)
	return s
}

func count(b bow.Bow[Node], shared bool, s *Stats) {
	switch {
	case shared:
		s.Shared++
	case b.IsBorrowed():
		s.Borrowed++
		s.Shared++
		shared = true
	default:
		s.Owned++
	}
	for _, c := range b.Ref().Children {
		count(c, shared, s)
	}
}
