package ast

import "fmt"

// InvariantError reports a broken linking contract: inserting a node that
// is already linked, or detaching a node from a list that does not own it.
// These indicate a bug in the caller, not malformed input; zipper
// operations panic with it and the structuring pass recovers at its
// boundary.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "ast: " + e.Msg
}

func check(ok bool, format string, args ...any) {
	if !ok {
		panic(&InvariantError{Msg: fmt.Sprintf(format, args...)})
	}
}

// Zipper links an ordered sequence of sibling nodes. Every linked node has
// its manager set to this zipper and its parent set to the zipper's owner
// node; detaching clears both.
type Zipper struct {
	first *Node
	last  *Node
}

// First returns the head of the list, nil when empty
func (z *Zipper) First() *Node {
	return z.first
}

// Last returns the tail of the list, nil when empty
func (z *Zipper) Last() *Node {
	return z.last
}

// Init adopts an already-linked chain starting at first as the full list
// contents, setting every node's parent to parent and manager to z.
func (z *Zipper) Init(first, parent *Node) {
	check(first.manager == nil, "init with node already linked")
	z.first = first
	z.last = first
	for current := first; current != nil; current = current.next {
		current.manager = z
		current.parent = parent
		z.last = current
	}
}

// PushBack links a detached node at the tail
func (z *Zipper) PushBack(node *Node) {
	check(node.manager == nil, "push of node already linked")
	node.previous = z.last
	if z.last != nil {
		z.last.next = node
	}
	node.next = nil
	z.last = node
	if z.first == nil {
		z.first = node
	}
	node.manager = z
}

// PushFront links a detached node at the head
func (z *Zipper) PushFront(node *Node) {
	check(node.manager == nil, "push of node already linked")
	node.previous = nil
	node.next = z.first
	if z.first != nil {
		z.first.previous = node
	}
	if z.last == nil {
		z.last = node
	}
	z.first = node
	node.manager = z
}

// InsertAfter splices a detached node in right after at. A nil at degrades
// to PushFront.
func (z *Zipper) InsertAfter(node, at *Node) {
	check(node.manager == nil, "insert of node already linked")
	if at == nil {
		z.PushFront(node)
		return
	}
	next := at.next
	if next != nil {
		next.previous = node
	}
	node.previous = at
	if at == z.last {
		z.last = node
	}
	node.next = next
	at.next = node
	node.manager = z
}

// InsertBefore splices a detached node in right before at. A nil at
// degrades to PushBack.
func (z *Zipper) InsertBefore(node, at *Node) {
	check(node.manager == nil, "insert of node already linked")
	if at == nil {
		z.PushBack(node)
		return
	}
	previous := at.previous
	if previous != nil {
		previous.next = node
	}
	node.next = at
	if at == z.first {
		z.first = node
	}
	node.previous = previous
	at.previous = node
	node.manager = z
}

// DetachSingle unlinks one node, clearing its parent and manager. The
// caller intends to relink it elsewhere.
func (z *Zipper) DetachSingle(node *Node) {
	check(node.manager == z, "detach of node owned by another list")
	prev := node.previous
	post := node.next
	node.previous = nil
	node.next = nil
	if prev == nil {
		z.first = post
	} else {
		prev.next = post
	}
	if post == nil {
		z.last = prev
	} else {
		post.previous = prev
	}
	node.manager = nil
	node.parent = nil
}

// DetachSegment unlinks the contiguous run from start through end
// inclusive as one unit, clearing parent and manager for every node in it.
// end must be reachable from start.
func (z *Zipper) DetachSegment(start, end *Node) {
	check(start.manager == z && end.manager == z, "detach of segment owned by another list")
	if start == end {
		z.DetachSingle(start)
		return
	}
	prev := start.previous
	post := end.next
	if prev == nil {
		z.first = post
	} else {
		prev.next = post
	}
	if post == nil {
		z.last = prev
	} else {
		post.previous = prev
	}
	start.previous = nil
	end.next = nil
	found := false
	for current := start; current != nil; current = current.next {
		current.manager = nil
		current.parent = nil
		found = found || current == end
	}
	check(found, "detach of malformed segment")
}

// DetachTail unlinks node through the end of the list, clearing parent and
// manager for the whole tail.
func (z *Zipper) DetachTail(node *Node) {
	check(node.manager == z, "detach of node owned by another list")
	if node == z.first {
		z.first = nil
		z.last = nil
	} else {
		z.last = node.previous
		z.last.next = nil
		node.previous = nil
	}
	for current := node; current != nil; current = current.next {
		current.manager = nil
		current.parent = nil
	}
}

// Remove unlinks a node that is being discarded rather than relinked
func (z *Zipper) Remove(node *Node) {
	check(node.manager == z, "remove of node owned by another list")
	next := node.next
	previous := node.previous
	if previous != nil {
		previous.next = next
	}
	if next != nil {
		next.previous = previous
	}
	node.parent = nil
	node.manager = nil
	if node == z.last {
		z.last = previous
	}
	if node == z.first {
		z.first = next
	}
}
