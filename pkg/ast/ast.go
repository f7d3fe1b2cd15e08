// Package ast defines the control-flow tree produced while reconstructing
// structured control flow from a flat shader instruction stream. Nodes form
// a mutable tree: every node carries a back-reference to its structural
// parent and to the Zipper that currently links it, so the structuring pass
// can splice, detach and reparent nodes in O(1).
package ast

import "github.com/NastySpaghetti/yuzu/pkg/expr"

// Data is the interface for node variants
type Data interface {
	implASTData()
}

// Program is the routine root, owning the top-level node sequence
type Program struct {
	Nodes Zipper
}

// IfThen executes its children when Condition holds
type IfThen struct {
	Condition expr.Expr
	Nodes     Zipper
}

// IfElse executes its children when the preceding IfThen's condition did
// not hold. It carries no condition of its own.
type IfElse struct {
	Nodes Zipper
}

// BlockEncoded is straight-line code given as a half-open [Start,End)
// instruction-address range, not yet materialized.
type BlockEncoded struct {
	Start uint32
	End   uint32
}

// BlockDecoded is straight-line code whose instructions have been
// materialized by the consumer, replacing the encoded range in place.
type BlockDecoded struct {
	Nodes Zipper
}

// Label marks a jump target
type Label struct {
	Index  uint32
	Unused bool // soft removal, kept for downstream liveness queries
}

// Goto is a conditional jump to a label, by index
type Goto struct {
	Condition expr.Expr
	Label     uint32
}

// VarSet assigns a guard condition to a synthetic boolean local
type VarSet struct {
	Index     uint32
	Condition expr.Expr
}

// DoWhile is a backward-edge loop running its children while Condition
// holds
type DoWhile struct {
	Condition expr.Expr
	Nodes     Zipper
}

// Return is a conditional routine exit; Kills marks a discard exit
type Return struct {
	Condition expr.Expr
	Kills     bool
}

// Break is a conditional exit from the innermost enclosing loop
type Break struct {
	Condition expr.Expr
}

// Marker methods for Data interface
func (*Program) implASTData()      {}
func (*IfThen) implASTData()       {}
func (*IfElse) implASTData()       {}
func (*BlockEncoded) implASTData() {}
func (*BlockDecoded) implASTData() {}
func (*Label) implASTData()        {}
func (*Goto) implASTData()         {}
func (*VarSet) implASTData()       {}
func (*DoWhile) implASTData()      {}
func (*Return) implASTData()       {}
func (*Break) implASTData()        {}

// Node is one element of the control-flow tree. The link fields are owned
// by the Zipper that contains the node; everything else is owned by the
// variant data.
type Node struct {
	next     *Node
	previous *Node
	parent   *Node
	manager  *Zipper
	data     Data
}

func newNode(parent *Node, data Data) *Node {
	return &Node{parent: parent, data: data}
}

// NewProgram creates a routine root node
func NewProgram() *Node {
	return newNode(nil, &Program{})
}

// NewIfThen creates a conditional branch node
func NewIfThen(parent *Node, condition expr.Expr) *Node {
	return newNode(parent, &IfThen{Condition: condition})
}

// NewIfElse creates an else-branch node
func NewIfElse(parent *Node) *Node {
	return newNode(parent, &IfElse{})
}

// NewBlockEncoded creates a block node for the [start,end) address range
func NewBlockEncoded(parent *Node, start, end uint32) *Node {
	return newNode(parent, &BlockEncoded{Start: start, End: end})
}

// NewBlockDecoded creates an empty materialized block node
func NewBlockDecoded(parent *Node) *Node {
	return newNode(parent, &BlockDecoded{})
}

// NewLabel creates a jump-target node
func NewLabel(parent *Node, index uint32) *Node {
	return newNode(parent, &Label{Index: index})
}

// NewGoto creates a conditional jump node targeting a label index
func NewGoto(parent *Node, condition expr.Expr, label uint32) *Node {
	return newNode(parent, &Goto{Condition: condition, Label: label})
}

// NewVarSet creates a synthetic-variable assignment node
func NewVarSet(parent *Node, index uint32, condition expr.Expr) *Node {
	return newNode(parent, &VarSet{Index: index, Condition: condition})
}

// NewDoWhile creates a loop node
func NewDoWhile(parent *Node, condition expr.Expr) *Node {
	return newNode(parent, &DoWhile{Condition: condition})
}

// NewReturn creates a conditional exit node
func NewReturn(parent *Node, condition expr.Expr, kills bool) *Node {
	return newNode(parent, &Return{Condition: condition, Kills: kills})
}

// NewBreak creates a conditional loop-exit node
func NewBreak(parent *Node, condition expr.Expr) *Node {
	return newNode(parent, &Break{Condition: condition})
}

// Data returns the node's variant data for type-switch dispatch
func (n *Node) Data() Data {
	return n.data
}

// Next returns the following sibling, or nil at the end of the list
func (n *Node) Next() *Node {
	return n.next
}

// Previous returns the preceding sibling, or nil at the head of the list
func (n *Node) Previous() *Node {
	return n.previous
}

// Parent returns the structural parent node, nil only for the root
func (n *Node) Parent() *Node {
	return n.parent
}

// SetParent reparents the node. The caller is responsible for the node
// being linked under the new parent's zipper.
func (n *Node) SetParent(parent *Node) {
	n.parent = parent
}

// Manager returns the Zipper currently linking this node, nil when
// detached
func (n *Node) Manager() *Zipper {
	return n.manager
}

// Level returns the nesting depth of the node, zero for the root
func (n *Node) Level() uint32 {
	level := uint32(0)
	for p := n.parent; p != nil; p = p.parent {
		level++
	}
	return level
}

// SubNodes returns the node's child zipper, or nil for leaf variants
func (n *Node) SubNodes() *Zipper {
	switch d := n.data.(type) {
	case *Program:
		return &d.Nodes
	case *IfThen:
		return &d.Nodes
	case *IfElse:
		return &d.Nodes
	case *DoWhile:
		return &d.Nodes
	case *BlockDecoded:
		return &d.Nodes
	default:
		return nil
	}
}

// IsLoop reports whether the node is a do-while loop
func (n *Node) IsLoop() bool {
	_, ok := n.data.(*DoWhile)
	return ok
}

// IsIfThen reports whether the node is an if-then branch
func (n *Node) IsIfThen() bool {
	_, ok := n.data.(*IfThen)
	return ok
}

// IsIfElse reports whether the node is an else branch
func (n *Node) IsIfElse() bool {
	_, ok := n.data.(*IfElse)
	return ok
}

// GotoLabel returns the target label index for Goto nodes
func (n *Node) GotoLabel() (uint32, bool) {
	if g, ok := n.data.(*Goto); ok {
		return g.Label, true
	}
	return 0, false
}

// GotoCondition returns the guard of a Goto node, nil for other variants
func (n *Node) GotoCondition() expr.Expr {
	if g, ok := n.data.(*Goto); ok {
		return g.Condition
	}
	return nil
}

// SetGotoCondition rewrites the guard of a Goto node. No-op for other
// variants.
func (n *Node) SetGotoCondition(condition expr.Expr) {
	if g, ok := n.data.(*Goto); ok {
		g.Condition = condition
	}
}

// IfCondition returns the guard of an IfThen node, nil for other variants
func (n *Node) IfCondition() expr.Expr {
	if i, ok := n.data.(*IfThen); ok {
		return i.Condition
	}
	return nil
}

// LabelIndex returns the label index for Label nodes
func (n *Node) LabelIndex() (uint32, bool) {
	if l, ok := n.data.(*Label); ok {
		return l.Index, true
	}
	return 0, false
}

// MarkLabelUnused soft-removes a Label node: it stays linked but is
// reported dead to the consumer.
func (n *Node) MarkLabelUnused() {
	if l, ok := n.data.(*Label); ok {
		l.Unused = true
	}
}

// IsLabelUnused reports whether a Label node has been soft-removed
func (n *Node) IsLabelUnused() bool {
	if l, ok := n.data.(*Label); ok {
		return l.Unused
	}
	return false
}

// MaterializeBlock replaces a BlockEncoded variant with an empty
// BlockDecoded in place, returning the child zipper for the caller to
// fill with decoded instructions. Nil for other variants.
func (n *Node) MaterializeBlock() *Zipper {
	if _, ok := n.data.(*BlockEncoded); ok {
		d := &BlockDecoded{}
		n.data = d
		return &d.Nodes
	}
	return nil
}

// ClearLinks resets the node's link and ownership fields. Used during
// session teardown, where back-references are dropped wholesale rather
// than unlinked one splice at a time.
func (n *Node) ClearLinks() {
	n.next = nil
	n.previous = nil
	n.parent = nil
	n.manager = nil
}
