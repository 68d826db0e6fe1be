package bow

import (
	"fmt"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type num int

func (n num) Clone() num { return n }

// counted records every clone in a shared counter.
type counted struct {
	N      int
	clones *int
}

func newCounted(n int) counted {
	return counted{N: n, clones: new(int)}
}

func (c counted) Clone() counted {
	*c.clones++
	return counted{N: c.N, clones: c.clones}
}

type point struct {
	X, Y int
	Tags []string
}

func (p point) Clone() point {
	tags := make([]string, len(p.Tags))
	copy(tags, p.Tags)
	return point{X: p.X, Y: p.Y, Tags: tags}
}

// list is a cons list; the zero list is empty. Boxing the tail keeps the
// type finite in size.
type list struct {
	cons bool
	head int
	tail Bow[list]
}

func cons(head int, tail Bow[list]) list {
	return list{cons: true, head: head, tail: tail}
}

func (l list) Clone() list {
	if !l.cons {
		return list{}
	}
	return cons(l.head, l.tail.Clone())
}

func (l list) heads() []int {
	var out []int
	for ; l.cons; l = l.tail.Value() {
		out = append(out, l.head)
	}
	return out
}

func TestStateInspectors(t *testing.T) {
	v := num(7)

	b := Borrowed(&v)
	assert.True(t, b.IsBorrowed())
	assert.False(t, b.IsOwned())

	o := Owned(v.Clone())
	assert.True(t, o.IsOwned())
	assert.False(t, o.IsBorrowed())

	p := FromBox(&v)
	assert.True(t, p.IsOwned())
	assert.Same(t, &v, p.Ref())
}

func TestMutAlwaysLeavesBoxOwned(t *testing.T) {
	tests := []struct {
		name string
		make func() Bow[counted]
	}{
		{"borrowed", func() Bow[counted] { v := newCounted(1); return Borrowed(&v) }},
		{"borrowed nil", func() Bow[counted] { return Borrowed[counted](nil) }},
		{"owned", func() Bow[counted] { return Owned(newCounted(1)) }},
		{"from box", func() Bow[counted] { v := newCounted(1); return FromBox(&v) }},
		{"from nil box", func() Bow[counted] { return FromBox[counted](nil) }},
		{"default", Default[counted]},
		{"zero value", func() Bow[counted] { return Bow[counted]{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.make()
			p := b.Mut()
			require.NotNil(t, p)
			assert.True(t, b.IsOwned())
			assert.False(t, b.IsBorrowed())
			assert.Same(t, p, b.Ref())
		})
	}
}

func TestMutClonesOnlyWhileBorrowed(t *testing.T) {
	src := newCounted(5)
	b := Borrowed(&src)

	first := b.Mut()
	assert.Equal(t, 1, *src.clones)
	assert.NotSame(t, &src, first)
	assert.Equal(t, 5, first.N)

	second := b.Mut()
	assert.Equal(t, 1, *src.clones, "second Mut must not clone")
	assert.Same(t, first, second)
}

func TestMutOnOwnedNeverClones(t *testing.T) {
	v := newCounted(3)
	b := FromBox(&v)

	assert.Same(t, &v, b.Mut())
	assert.Equal(t, 0, *v.clones)
}

func TestMutDoesNotAliasSource(t *testing.T) {
	original := num(42)
	b := Borrowed(&original)
	require.True(t, b.IsBorrowed())

	*b.Mut() = 43

	assert.True(t, b.IsOwned())
	assert.Equal(t, num(43), b.Value())
	assert.Equal(t, num(42), original)
}

func TestMutDeepCopiesReferenceFields(t *testing.T) {
	src := point{X: 1, Y: 2, Tags: []string{"a"}}
	b := Borrowed(&src)

	b.Mut().Tags[0] = "b"

	assert.Equal(t, "a", src.Tags[0])
	assert.Equal(t, "b", b.Ref().Tags[0])
}

func TestReadAccessKeepsState(t *testing.T) {
	v := newCounted(9)
	b := Borrowed(&v)

	for i := 0; i < 3; i++ {
		assert.Equal(t, 9, b.Ref().N)
		assert.Equal(t, 9, b.Value().N)
	}
	assert.True(t, b.IsBorrowed())
	assert.Same(t, &v, b.Ref())
	assert.Equal(t, 0, *v.clones)

	o := Owned(newCounted(9))
	_ = o.Ref()
	_ = o.Value()
	assert.True(t, o.IsOwned())
}

func TestIntoOwned(t *testing.T) {
	t.Run("owned returns value without cloning", func(t *testing.T) {
		v := newCounted(4)
		b := Owned(v)
		got := b.IntoOwned()
		assert.Equal(t, 4, got.N)
		assert.Equal(t, 0, *v.clones)
	})

	t.Run("borrowed clones once", func(t *testing.T) {
		v := newCounted(4)
		b := Borrowed(&v)
		got := b.IntoOwned()
		assert.Equal(t, 4, got.N)
		assert.Equal(t, 1, *v.clones)
	})

	t.Run("round trip keeps value", func(t *testing.T) {
		v := point{X: 3, Y: 4, Tags: []string{"x", "y"}}
		fromOwned := Owned(v.Clone())
		fromBorrowed := Borrowed(&v)
		assert.Equal(t, v, fromOwned.IntoOwned())
		assert.Equal(t, v, fromBorrowed.IntoOwned())
	})

	t.Run("consumed box is reset", func(t *testing.T) {
		v := newCounted(4)
		b := FromBox(&v)
		_ = b.IntoOwned()
		assert.True(t, b.IsOwned())
		assert.NotSame(t, &v, b.Ref())
		assert.Equal(t, 0, b.Ref().N)
	})
}

func TestIntoBox(t *testing.T) {
	t.Run("owned hands over its slot", func(t *testing.T) {
		v := newCounted(8)
		b := FromBox(&v)
		p := b.IntoBox()
		assert.Same(t, &v, p)
		assert.Equal(t, 0, *v.clones)
	})

	t.Run("owned by value keeps content", func(t *testing.T) {
		v := newCounted(8)
		b := Owned(v)
		p := b.IntoBox()
		require.NotNil(t, p)
		assert.Equal(t, 8, p.N)
		assert.Equal(t, 0, *v.clones)
	})

	t.Run("borrowed clones into a new slot", func(t *testing.T) {
		v := newCounted(8)
		b := Borrowed(&v)
		p := b.IntoBox()
		assert.NotSame(t, &v, p)
		assert.Equal(t, 8, p.N)
		assert.Equal(t, 1, *v.clones)
	})

	t.Run("consumed box no longer reaches the slot", func(t *testing.T) {
		b := Owned(newCounted(8))
		p := b.IntoBox()
		assert.NotSame(t, p, b.Ref())
	})
}

func TestCloneIsAlwaysOwned(t *testing.T) {
	v := newCounted(2)
	b := Borrowed(&v)
	require.True(t, b.IsBorrowed())

	c := b.Clone()
	assert.True(t, c.IsOwned())
	assert.True(t, b.IsBorrowed())
	assert.NotSame(t, b.Ref(), c.Ref())
	assert.Equal(t, 1, *v.clones)

	o := Owned(newCounted(2))
	oc := o.Clone()
	assert.True(t, oc.IsOwned())
	assert.NotSame(t, o.Ref(), oc.Ref())
}

func TestDefault(t *testing.T) {
	d := Default[point]()
	assert.True(t, d.IsOwned())
	assert.Equal(t, point{}, d.Value())

	var z Bow[point]
	assert.True(t, z.IsOwned())
	assert.Equal(t, point{}, z.Value())
	assert.Equal(t, point{}, *z.Ref())
}

func TestFormatHidesState(t *testing.T) {
	v := point{X: 1, Y: 2, Tags: []string{"t"}}
	borrowed := Borrowed(&v)
	owned := Owned(v.Clone())

	for _, verb := range []string{"%v", "%+v", "%#v", "%s", "%10v"} {
		t.Run(verb, func(t *testing.T) {
			want := fmt.Sprintf(verb, v)
			assert.Equal(t, want, fmt.Sprintf(verb, borrowed))
			assert.Equal(t, want, fmt.Sprintf(verb, owned))
		})
	}

	n := num(42)
	assert.Equal(t, "42", Borrowed(&n).String())
	assert.Equal(t, "42", Owned(n).String())
	assert.Equal(t, "0x2a", fmt.Sprintf("%#x", Borrowed(&n)))
}

func TestRecursiveList(t *testing.T) {
	third := cons(3, Bow[list]{})
	second := cons(2, Borrowed(&third))
	first := cons(1, Borrowed(&second))

	assert.Equal(t, []int{1, 2, 3}, first.heads())
	assert.Equal(t, 2*unsafe.Sizeof(uintptr(0)), unsafe.Sizeof(first.tail))

	first.tail.Mut().head = 20
	assert.Equal(t, []int{1, 20, 3}, first.heads())
	assert.Equal(t, []int{2, 3}, second.heads())
	assert.True(t, first.tail.IsOwned())

	// Cloning a cell clones its tail box, which is owned as a result.
	assert.True(t, first.tail.Ref().tail.IsOwned())
	assert.NotSame(t, &third, first.tail.Ref().tail.Ref())
}

var (
	sinkPoint point
	sinkPtr   *point
)

func TestReadAccessDoesNotAllocate(t *testing.T) {
	v := point{X: 1, Tags: []string{"a"}}
	borrowed := Borrowed(&v)
	owned := Owned(v.Clone())
	var zero Bow[point]

	assert.Zero(t, testing.AllocsPerRun(100, func() {
		sinkPtr = borrowed.Ref()
		sinkPtr = owned.Ref()
		sinkPoint = borrowed.Value()
		sinkPoint = owned.Value()
		sinkPoint = zero.Value()
	}))
	assert.True(t, zero.IsOwned())
	assert.Equal(t, point{}, sinkPoint)
}
