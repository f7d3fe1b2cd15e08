// Goto elimination over the control-flow tree. The approach follows
// "Taming control flow: A structured approach to eliminating goto
// statements" (Erosa & Hendren, 1994): each goto is moved outward through
// its enclosing scopes until it sits next to its target label, then the
// pair is replaced by a do-while (backward edge) or an if (forward edge).
// Synthetic boolean variables carry the jump condition across every scope
// boundary the goto can no longer cross once structured.
package structurize

import (
	"fmt"

	"github.com/NastySpaghetti/yuzu/pkg/ast"
	"github.com/NastySpaghetti/yuzu/pkg/expr"
)

type gotoStatus int

const (
	gotoResolved gotoStatus = iota
	gotoSkipped             // forward jump in backward-only mode
	gotoDeferred            // sibling structure must change first
)

// Structurize runs the goto-elimination pass over the routine built so
// far, mutating the tree in place. On success the tree contains no goto
// nodes (full mode) or only forward gotos (backward-only mode), and labels
// are removed or marked unused accordingly.
func (m *Manager) Structurize() (err error) {
	defer func() {
		if r := recover(); r != nil {
			invariant, ok := r.(*ast.InvariantError)
			if !ok {
				panic(r)
			}
			err = fmt.Errorf("%w: %s", ErrInvariant, invariant.Msg)
		}
	}()

	if m.program == nil {
		return fmt.Errorf("%w: session already cleared", ErrInvariant)
	}

	// The worklist shrinks monotonically in full mode, but a malformed
	// routine could defer forever. Cap the outer re-scan.
	maxPasses := 2*len(m.gotos) + 2
	for pass := 0; len(m.gotos) > 0; pass++ {
		if pass >= maxPasses {
			return fmt.Errorf("%w: pass budget exhausted with %d gotos left", ErrUnstructurable, len(m.gotos))
		}
		resolved, skipped, err := m.runPass()
		if err != nil {
			return err
		}
		if resolved == 0 {
			if skipped == len(m.gotos) {
				// Backward-only mode: everything left is a forward jump.
				break
			}
			return fmt.Errorf("%w: no goto made progress", ErrUnstructurable)
		}
	}

	m.finalizeLabels()
	return nil
}

// runPass walks the worklist once, in first-seen order, resolving every
// goto that can reach its label in the current tree shape.
func (m *Manager) runPass() (resolved, skipped int, err error) {
	i := 0
	for i < len(m.gotos) {
		status, err := m.resolveGoto(m.gotos[i])
		if err != nil {
			return resolved, skipped, err
		}
		if status == gotoResolved {
			m.gotos = append(m.gotos[:i], m.gotos[i+1:]...)
			resolved++
			continue
		}
		if status == gotoSkipped {
			skipped++
		}
		i++
	}
	return resolved, skipped, nil
}

func (m *Manager) resolveGoto(gotoNode *ast.Node) (gotoStatus, error) {
	index, ok := gotoNode.GotoLabel()
	if !ok {
		return 0, fmt.Errorf("%w: worklist node is not a goto", ErrInvariant)
	}
	label, err := m.labelNode(index)
	if err != nil {
		return 0, err
	}

	if !m.full && !m.isBackwardsJump(gotoNode, label) {
		return gotoSkipped, nil
	}

	if m.indirectlyRelated(gotoNode, label) {
		for !m.directlyRelated(gotoNode, label) {
			m.moveOutward(gotoNode)
		}
	}
	if m.directlyRelated(gotoNode, label) {
		gotoLevel := gotoNode.Level()
		for labelLevel := label.Level(); labelLevel < gotoLevel; gotoLevel-- {
			m.moveOutward(gotoNode)
		}
	}

	if label.Parent() != gotoNode.Parent() {
		return gotoDeferred, nil
	}
	if m.isLoopEdge(gotoNode, label) {
		m.encloseDoWhile(gotoNode, label)
	} else {
		m.encloseIfThen(gotoNode, label)
	}
	return gotoResolved, nil
}

func (m *Manager) labelNode(index uint32) (*ast.Node, error) {
	if int(index) >= len(m.labels) || m.labels[index] == nil {
		return nil, fmt.Errorf("%w: label index %d not in table", ErrUnknownLabel, index)
	}
	return m.labels[index], nil
}

// isLoopEdge reports whether the label precedes the goto within their
// shared scope, the structural signature of a loop back-edge.
func (m *Manager) isLoopEdge(gotoNode, label *ast.Node) bool {
	for current := gotoNode.Previous(); current != nil; current = current.Previous() {
		if current == label {
			return true
		}
	}
	return false
}

// isBackwardsJump walks goto and label up to a common scope and checks
// whether the label's side precedes the goto's side there.
func (m *Manager) isBackwardsJump(gotoNode, label *ast.Node) bool {
	gotoLevel := gotoNode.Level()
	labelLevel := label.Level()
	for gotoLevel > labelLevel {
		gotoLevel--
		gotoNode = gotoNode.Parent()
	}
	for labelLevel > gotoLevel {
		labelLevel--
		label = label.Parent()
	}
	for gotoNode.Parent() != label.Parent() {
		gotoNode = gotoNode.Parent()
		label = label.Parent()
	}
	for current := gotoNode.Previous(); current != nil; current = current.Previous() {
		if current == label {
			return true
		}
	}
	return false
}

// directlyRelated reports whether one node's scope is an ancestor scope of
// the other (never true for siblings).
func (m *Manager) directlyRelated(first, second *ast.Node) bool {
	if first.Parent() == second.Parent() {
		return false
	}
	firstLevel := first.Level()
	secondLevel := second.Level()
	min, max := first, second
	minLevel, maxLevel := firstLevel, secondLevel
	if firstLevel > secondLevel {
		min, max = second, first
		minLevel, maxLevel = secondLevel, firstLevel
	}
	for maxLevel > minLevel {
		maxLevel--
		max = max.Parent()
	}
	return min.Parent() == max.Parent()
}

// indirectlyRelated reports whether the nodes are neither siblings nor
// directly related, so intermediate lifting is required.
func (m *Manager) indirectlyRelated(first, second *ast.Node) bool {
	return !(first.Parent() == second.Parent() || m.directlyRelated(first, second))
}

// moveOutward lifts a goto one nesting level toward the root, introducing
// a synthetic variable so the jump condition survives the scope exit.
func (m *Manager) moveOutward(gotoNode *ast.Node) {
	zipper := gotoNode.Manager()
	parent := gotoNode.Parent()
	if parent == nil || parent.Manager() == nil {
		panic(&ast.InvariantError{Msg: "outward movement with no enclosing scope"})
	}
	parentZipper := parent.Manager()
	grandpa := parent.Parent()
	isLoop := parent.IsLoop()
	isIf := parent.IsIfThen()
	isElse := parent.IsIfElse()

	prev := gotoNode.Previous()
	post := gotoNode.Next()

	condition := gotoNode.GotoCondition()
	zipper.DetachSingle(gotoNode)
	switch {
	case isLoop:
		// Replace the jump with a guarded break out of the loop.
		varIndex := m.newVariable()
		varCondition := m.interner.Intern(expr.Var{Index: varIndex})
		varSet := ast.NewVarSet(parent, varIndex, condition)
		varInit := ast.NewVarSet(grandpa, varIndex, m.falseCond)
		parentZipper.InsertBefore(varInit, parent)
		zipper.InsertAfter(varSet, prev)
		gotoNode.SetGotoCondition(varCondition)
		breakNode := ast.NewBreak(parent, varCondition)
		zipper.InsertAfter(breakNode, varSet)
	case isIf || isElse:
		// Guard the rest of the branch so it only runs when the jump
		// did not fire.
		varIndex := m.newVariable()
		varCondition := m.interner.Intern(expr.Var{Index: varIndex})
		varSet := ast.NewVarSet(parent, varIndex, condition)
		varInit := ast.NewVarSet(grandpa, varIndex, m.falseCond)
		if isIf {
			parentZipper.InsertBefore(varInit, parent)
		} else {
			parentZipper.InsertBefore(varInit, parent.Previous())
		}
		zipper.InsertAfter(varSet, prev)
		gotoNode.SetGotoCondition(varCondition)
		if post != nil {
			zipper.DetachTail(post)
			guard := ast.NewIfThen(parent, expr.MakeNot(varCondition))
			guard.SubNodes().Init(post, guard)
			zipper.InsertAfter(guard, varSet)
		}
	default:
		panic(&ast.InvariantError{Msg: "outward movement from non-loop, non-branch scope"})
	}

	// Keep the goto after a trailing else branch so it does not land
	// between an if/else pair.
	next := parent.Next()
	if isIf && next != nil && next.IsIfElse() {
		parentZipper.InsertAfter(gotoNode, next)
	} else {
		parentZipper.InsertAfter(gotoNode, parent)
	}
	gotoNode.SetParent(grandpa)
}

// encloseDoWhile replaces a same-scope backward goto/label pair with a
// do-while wrapping everything between them.
func (m *Manager) encloseDoWhile(gotoNode, label *ast.Node) {
	zipper := gotoNode.Manager()
	loopStart := label.Next()
	if loopStart == gotoNode {
		// Empty loop body, the jump is dead.
		zipper.Remove(gotoNode)
		return
	}
	parent := label.Parent()
	condition := gotoNode.GotoCondition()
	zipper.DetachSegment(loopStart, gotoNode)
	doWhile := ast.NewDoWhile(parent, condition)
	sub := doWhile.SubNodes()
	sub.Init(loopStart, doWhile)
	zipper.InsertAfter(doWhile, label)
	sub.Remove(gotoNode)
}

// encloseIfThen replaces a same-scope forward goto/label pair with an if
// guarding everything between them by the negated jump condition, or with
// an else branch when the preceding if tests the same condition.
func (m *Manager) encloseIfThen(gotoNode, label *ast.Node) {
	zipper := gotoNode.Manager()
	ifEnd := label.Previous()
	if ifEnd == gotoNode {
		// Empty branch, the jump is dead.
		zipper.Remove(gotoNode)
		return
	}
	prev := gotoNode.Previous()
	condition := gotoNode.GotoCondition()
	doElse := false
	if !m.disableElse && prev != nil && prev.IsIfThen() {
		doElse = expr.Equal(prev.IfCondition(), condition)
	}
	parent := label.Parent()
	zipper.DetachSegment(gotoNode, ifEnd)
	var ifNode *ast.Node
	if doElse {
		ifNode = ast.NewIfElse(parent)
	} else {
		ifNode = ast.NewIfThen(parent, expr.MakeNot(condition))
	}
	sub := ifNode.SubNodes()
	sub.Init(gotoNode, ifNode)
	zipper.InsertAfter(ifNode, prev)
	sub.Remove(gotoNode)
}

// finalizeLabels removes every label in full mode, where all of them must
// be resolved, and soft-removes the untargeted ones otherwise.
func (m *Manager) finalizeLabels() {
	if m.full {
		for _, label := range m.labels {
			if label == nil || label.Manager() == nil {
				continue
			}
			label.Manager().Remove(label)
		}
		m.labels = nil
		return
	}
	for _, label := range m.labels {
		if label == nil {
			continue
		}
		used := false
		for _, gotoNode := range m.gotos {
			if index, ok := gotoNode.GotoLabel(); ok && int(index) < len(m.labels) && m.labels[index] == label {
				used = true
				break
			}
		}
		if !used {
			label.MarkLabelUnused()
		}
	}
}
