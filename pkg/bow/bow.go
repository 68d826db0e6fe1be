package bow

import "fmt"

// Cloner is satisfied by types that can produce an independent copy of
// themselves. It is only meant to be used as a type-parameter constraint.
type Cloner[T any] interface {
	Clone() T
}

// Bow is a clone-on-write box over T.
//
// The zero value is an owned box holding T's zero value. A Bow must not be
// copied by assignment once it owns its value, since both copies would
// share the same heap slot; use Clone instead.
type Bow[T Cloner[T]] struct {
	// ref is the logical value. While borrowed it points at storage owned
	// by someone else; otherwise it is this box's own heap slot, or nil for
	// a zero value that has not been touched yet.
	ref      *T
	borrowed bool
}

// Borrowed returns a box that borrows *v. Nothing is copied until Mut is
// called. A nil v yields the zero value.
func Borrowed[T Cloner[T]](v *T) Bow[T] {
	if v == nil {
		return Bow[T]{}
	}
	return Bow[T]{ref: v, borrowed: true}
}

// FromBox returns an owned box that takes ownership of p without copying.
// The caller must not keep using p through other paths.
func FromBox[T Cloner[T]](p *T) Bow[T] {
	return Bow[T]{ref: p}
}

// Owned moves v into a new heap slot and returns an owned box holding it.
func Owned[T Cloner[T]](v T) Bow[T] {
	return Bow[T]{ref: &v}
}

// Default returns an owned box holding T's zero value.
func Default[T Cloner[T]]() Bow[T] {
	return Bow[T]{ref: new(T)}
}

// IsBorrowed reports whether b borrows its value, i.e. whether Mut would
// have to clone.
func (b Bow[T]) IsBorrowed() bool {
	return b.borrowed
}

// IsOwned reports whether b owns its value, i.e. whether Mut is free.
func (b Bow[T]) IsOwned() bool {
	return !b.borrowed
}

// Ref returns a pointer to the value for reading. Writes through the
// returned pointer are not allowed; use Mut.
//
// Ref does not allocate, except on a zero-value box that has never been
// written: there it returns a fresh zero T on every call, and the box does
// not keep it. Value reads such a box without allocating.
func (b Bow[T]) Ref() *T {
	if b.ref == nil {
		return new(T)
	}
	return b.ref
}

// Value returns the value. For T with reference fields the result shares
// them with b and must be treated as read-only.
func (b Bow[T]) Value() T {
	if b.ref == nil {
		var zero T
		return zero
	}
	return *b.ref
}

// Mut returns a pointer to the value for writing, cloning it into a heap
// slot owned by b first if b is borrowed. On return b is always owned, and
// later calls return the same pointer without cloning.
func (b *Bow[T]) Mut() *T {
	b.own()
	return b.ref
}

// own is the only place that changes the state of a box, and only ever
// from borrowed to owned.
func (b *Bow[T]) own() {
	switch {
	case b.borrowed:
		v := (*b.ref).Clone()
		b.ref = &v
		b.borrowed = false
	case b.ref == nil:
		b.ref = new(T)
	}
}

// IntoOwned consumes b and returns its value, cloning it if b is borrowed.
// Ignoring the result wastes the clone. b is left as the zero value.
func (b *Bow[T]) IntoOwned() T {
	v := b.Value()
	if b.borrowed {
		v = v.Clone()
	}
	*b = Bow[T]{}
	return v
}

// IntoBox consumes b and returns its heap slot, cloning the value into a
// new one if b is borrowed. b is left as the zero value.
func (b *Bow[T]) IntoBox() *T {
	b.own()
	p := b.ref
	*b = Bow[T]{}
	return p
}

// Clone returns an owned box holding a clone of the value. The result is
// owned even when b is borrowed.
func (b Bow[T]) Clone() Bow[T] {
	return Owned(b.Value().Clone())
}

// Format renders the value exactly as T would be rendered with the same
// verb and flags, so the state of the box never shows.
func (b Bow[T]) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, fmt.FormatString(f, verb), b.Value())
}

func (b Bow[T]) String() string {
	return fmt.Sprint(b.Value())
}
