// Package structurize rebuilds structured control flow (if/else, do-while,
// break) from a flat instruction stream annotated with labels and
// conditional gotos. A Manager owns one routine's session state: the tree
// under construction, the label table, the goto worklist and the synthetic
// variable counter. Sessions are independent; each must be used from a
// single goroutine.
package structurize

import (
	"fmt"
	"io"
	"strings"

	"github.com/NastySpaghetti/yuzu/pkg/ast"
	"github.com/NastySpaghetti/yuzu/pkg/expr"
)

// Manager holds the per-routine structuring state
type Manager struct {
	full        bool // structure forward jumps too, not only loop back-edges
	disableElse bool // suppress else-derivation from matching if conditions

	labelIndices map[uint32]uint32 // address -> label index
	labels       []*ast.Node       // label index -> node, nil until inserted
	gotos        []*ast.Node       // unresolved gotos, first-seen order
	variables    uint32

	program   *ast.Node
	falseCond expr.Expr
	interner  *expr.Interner
}

// NewManager creates a structuring session. With full set, every goto is
// rewritten into a structured construct; otherwise only backward jumps
// become loops and forward gotos are left in place. disableElseDerivation
// turns off fusing an enclosed branch into an else of a preceding if with
// the same condition.
func NewManager(full, disableElseDerivation bool) *Manager {
	interner := expr.NewInterner()
	return &Manager{
		full:         full,
		disableElse:  disableElseDerivation,
		labelIndices: make(map[uint32]uint32),
		program:      ast.NewProgram(),
		falseCond:    interner.Intern(expr.False),
		interner:     interner,
	}
}

// Program returns the routine root node
func (m *Manager) Program() *ast.Node {
	return m.program
}

// VariableCount returns how many synthetic boolean locals the pass
// introduced, so the code generator can declare them.
func (m *Manager) VariableCount() uint32 {
	return m.variables
}

// DeclareLabel assigns a label index to an address. Declaring the same
// address twice is a no-op and keeps the first index.
func (m *Manager) DeclareLabel(address uint32) {
	if _, ok := m.labelIndices[address]; ok {
		return
	}
	m.labelIndices[address] = uint32(len(m.labels))
	m.labels = append(m.labels, nil)
}

// LabelIndex returns the label index declared for an address
func (m *Manager) LabelIndex(address uint32) (uint32, bool) {
	index, ok := m.labelIndices[address]
	return index, ok
}

// InsertLabel appends the label node for a declared address to the program
func (m *Manager) InsertLabel(address uint32) error {
	index, ok := m.labelIndices[address]
	if !ok {
		return fmt.Errorf("%w: label at address %d was never declared", ErrUnknownLabel, address)
	}
	label := ast.NewLabel(m.program, index)
	m.labels[index] = label
	m.rootNodes().PushBack(label)
	return nil
}

// InsertGoto appends a conditional jump to a declared address and queues
// it on the worklist
func (m *Manager) InsertGoto(condition expr.Expr, address uint32) error {
	index, ok := m.labelIndices[address]
	if !ok {
		return fmt.Errorf("%w: goto targets undeclared address %d", ErrUnknownLabel, address)
	}
	gotoNode := ast.NewGoto(m.program, condition, index)
	m.gotos = append(m.gotos, gotoNode)
	m.rootNodes().PushBack(gotoNode)
	return nil
}

// InsertBlock appends a straight-line code block for [start,end)
func (m *Manager) InsertBlock(start, end uint32) {
	m.rootNodes().PushBack(ast.NewBlockEncoded(m.program, start, end))
}

// InsertReturn appends a conditional exit; kills marks a discard
func (m *Manager) InsertReturn(condition expr.Expr, kills bool) {
	m.rootNodes().PushBack(ast.NewReturn(m.program, condition, kills))
}

// IsLabelUsed reports whether a label kept in backward-only mode is still
// targeted by an unresolved goto. False for removed or unknown labels.
func (m *Manager) IsLabelUsed(index uint32) bool {
	if int(index) >= len(m.labels) || m.labels[index] == nil {
		return false
	}
	return !m.labels[index].IsLabelUnused()
}

// SanityCheck verifies that every live label is still attached to the
// tree. A detached label means an earlier splice broke the tree shape.
func (m *Manager) SanityCheck() error {
	for index, label := range m.labels {
		if label == nil {
			continue
		}
		if label.Parent() == nil {
			return fmt.Errorf("%w: label %d detached from tree", ErrInvariant, index)
		}
	}
	return nil
}

// DumpTo writes the current tree state as indented pseudo-code
func (m *Manager) DumpTo(w io.Writer) {
	if m.program == nil {
		return
	}
	ast.NewPrinter(w).Print(m.program)
}

// Print renders the current tree state to a string
func (m *Manager) Print() string {
	var sb strings.Builder
	m.DumpTo(&sb)
	return sb.String()
}

// Clear tears down the session, resetting every node's back-references and
// dropping the label table and worklist. Calling Clear on a cleared
// session is a no-op.
func (m *Manager) Clear() {
	if m.program == nil {
		return
	}
	clearNode(m.program)
	m.program = nil
	m.labelIndices = make(map[uint32]uint32)
	m.labels = nil
	m.gotos = nil
}

func clearNode(node *ast.Node) {
	if sub := node.SubNodes(); sub != nil {
		current := sub.First()
		for current != nil {
			next := current.Next()
			clearNode(current)
			current = next
		}
	}
	node.ClearLinks()
}

func (m *Manager) rootNodes() *ast.Zipper {
	return m.program.SubNodes()
}

func (m *Manager) newVariable() uint32 {
	index := m.variables
	m.variables++
	return index
}
