// Package bow provides Bow, a clone-on-write box.
//
// A Bow holds either a borrowed pointer to a value owned elsewhere or an
// owned, heap-allocated copy of it. Read access works the same in both
// states. Mutable access clones the value the first time it is requested
// while borrowed, after which the box owns its copy.
//
// Unlike a plain copy-on-write wrapper over T, the owned state of a Bow is
// always a pointer to a heap slot, so a Bow[T] is a pointer and a flag no
// matter what T is. That makes it usable directly inside recursive types:
//
//	type List struct {
//		Cons bool
//		Head int
//		Tail bow.Bow[List]
//	}
//
// Cloning is a static capability of T (see Cloner). It is assumed to
// produce an independent value and to have no observable side effects.
package bow
