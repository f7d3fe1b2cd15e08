package ast

import "testing"

// buildScope returns a program root and n blocks linked under it
func buildScope(t *testing.T, n int) (*Node, []*Node) {
	t.Helper()
	root := NewProgram()
	nodes := make([]*Node, n)
	for i := range nodes {
		nodes[i] = NewBlockEncoded(root, uint32(i*4), uint32(i*4+4))
		root.SubNodes().PushBack(nodes[i])
	}
	return root, nodes
}

// checkLinked asserts the zipper invariant: every linked node points back
// at the list and at the list's owner.
func checkLinked(t *testing.T, owner *Node, want []*Node) {
	t.Helper()
	z := owner.SubNodes()
	i := 0
	for current := z.First(); current != nil; current = current.Next() {
		if i >= len(want) {
			t.Fatalf("list longer than expected %d nodes", len(want))
		}
		if current != want[i] {
			t.Fatalf("node %d out of order", i)
		}
		if current.Manager() != z {
			t.Errorf("node %d manager does not point at owning list", i)
		}
		if current.Parent() != owner {
			t.Errorf("node %d parent does not point at list owner", i)
		}
		i++
	}
	if i != len(want) {
		t.Fatalf("list has %d nodes, want %d", i, len(want))
	}
	if len(want) == 0 {
		if z.First() != nil || z.Last() != nil {
			t.Error("empty list keeps first/last pointers")
		}
		return
	}
	if z.First() != want[0] || z.Last() != want[len(want)-1] {
		t.Error("first/last pointers stale")
	}
}

func checkDetached(t *testing.T, nodes ...*Node) {
	t.Helper()
	for i, n := range nodes {
		if n.Manager() != nil {
			t.Errorf("detached node %d keeps manager", i)
		}
		if n.Parent() != nil {
			t.Errorf("detached node %d keeps parent", i)
		}
	}
}

func TestPushAndInsert(t *testing.T) {
	root, nodes := buildScope(t, 2)
	z := root.SubNodes()

	front := NewLabel(root, 0)
	z.PushFront(front)
	mid := NewBlockEncoded(root, 100, 104)
	z.InsertAfter(mid, nodes[0])
	end := NewReturn(root, nil, false)
	z.InsertBefore(end, nil) // nil at degrades to PushBack

	checkLinked(t, root, []*Node{front, nodes[0], mid, nodes[1], end})
}

func TestInsertAfterNilPushesFront(t *testing.T) {
	root, nodes := buildScope(t, 1)
	n := NewLabel(root, 0)
	root.SubNodes().InsertAfter(n, nil)
	checkLinked(t, root, []*Node{n, nodes[0]})
}

func TestDetachSingle(t *testing.T) {
	root, nodes := buildScope(t, 3)
	root.SubNodes().DetachSingle(nodes[1])

	checkLinked(t, root, []*Node{nodes[0], nodes[2]})
	checkDetached(t, nodes[1])
}

func TestDetachSegment(t *testing.T) {
	root, nodes := buildScope(t, 5)
	root.SubNodes().DetachSegment(nodes[1], nodes[3])

	checkLinked(t, root, []*Node{nodes[0], nodes[4]})
	checkDetached(t, nodes[1], nodes[2], nodes[3])

	// The detached run stays internally chained for re-adoption
	if nodes[1].Next() != nodes[2] || nodes[2].Next() != nodes[3] {
		t.Error("detached segment lost internal links")
	}
	if nodes[1].Previous() != nil || nodes[3].Next() != nil {
		t.Error("detached segment keeps outside links")
	}
}

func TestDetachSegmentWholeList(t *testing.T) {
	root, nodes := buildScope(t, 2)
	root.SubNodes().DetachSegment(nodes[0], nodes[1])

	checkLinked(t, root, nil)
	checkDetached(t, nodes[0], nodes[1])
}

func TestDetachTail(t *testing.T) {
	root, nodes := buildScope(t, 4)
	root.SubNodes().DetachTail(nodes[2])

	checkLinked(t, root, []*Node{nodes[0], nodes[1]})
	checkDetached(t, nodes[2], nodes[3])
}

func TestRemove(t *testing.T) {
	root, nodes := buildScope(t, 3)
	z := root.SubNodes()
	z.Remove(nodes[0])
	z.Remove(nodes[2])

	checkLinked(t, root, []*Node{nodes[1]})
}

func TestInitAdoptsChain(t *testing.T) {
	root, nodes := buildScope(t, 3)
	root.SubNodes().DetachSegment(nodes[0], nodes[2])

	loop := NewDoWhile(root, nil)
	loop.SubNodes().Init(nodes[0], loop)

	checkLinked(t, loop, []*Node{nodes[0], nodes[1], nodes[2]})
}

func TestReinsertAfterDetach(t *testing.T) {
	root, nodes := buildScope(t, 3)
	z := root.SubNodes()
	z.DetachSingle(nodes[0])

	nodes[0].SetParent(root)
	z.InsertAfter(nodes[0], nodes[2])
	checkLinked(t, root, []*Node{nodes[1], nodes[2], nodes[0]})
}

func TestDoubleInsertPanics(t *testing.T) {
	root, nodes := buildScope(t, 1)

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("inserting a linked node did not panic")
		}
		if _, ok := r.(*InvariantError); !ok {
			t.Fatalf("panic value = %T, want *InvariantError", r)
		}
	}()
	root.SubNodes().PushBack(nodes[0])
}

func TestDetachFromWrongListPanics(t *testing.T) {
	root, nodes := buildScope(t, 1)
	other := NewDoWhile(root, nil)

	defer func() {
		if r := recover(); r == nil {
			t.Fatal("detaching from a non-owning list did not panic")
		}
	}()
	other.SubNodes().DetachSingle(nodes[0])
}
