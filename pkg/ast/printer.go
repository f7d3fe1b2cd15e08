package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/NastySpaghetti/yuzu/pkg/expr"
)

// Printer outputs the control-flow tree in a readable format
type Printer struct {
	w     io.Writer
	depth int
}

// NewPrinter creates a control-flow tree printer
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print renders a node and its subtree
func (p *Printer) Print(node *Node) {
	switch d := node.Data().(type) {
	case *Program:
		fmt.Fprintln(p.w, "program {")
		p.printChildren(&d.Nodes)
		fmt.Fprintln(p.w, "}")
	case *IfThen:
		p.indent()
		fmt.Fprintf(p.w, "if (%s) {\n", expr.String(d.Condition))
		p.printChildren(&d.Nodes)
		p.indent()
		fmt.Fprintln(p.w, "}")
	case *IfElse:
		p.indent()
		fmt.Fprintln(p.w, "else {")
		p.printChildren(&d.Nodes)
		p.indent()
		fmt.Fprintln(p.w, "}")
	case *BlockEncoded:
		p.indent()
		fmt.Fprintf(p.w, "block(%d, %d);\n", d.Start, d.End)
	case *BlockDecoded:
		p.indent()
		fmt.Fprintln(p.w, "block;")
	case *Label:
		// Labels are printed without indentation
		if d.Unused {
			fmt.Fprintf(p.w, "label_%d: // unused\n", d.Index)
		} else {
			fmt.Fprintf(p.w, "label_%d:\n", d.Index)
		}
	case *Goto:
		p.indent()
		fmt.Fprintf(p.w, "(%s) -> goto label_%d;\n", expr.String(d.Condition), d.Label)
	case *VarSet:
		p.indent()
		fmt.Fprintf(p.w, "V%d := %s;\n", d.Index, expr.String(d.Condition))
	case *DoWhile:
		p.indent()
		fmt.Fprintln(p.w, "do {")
		p.printChildren(&d.Nodes)
		p.indent()
		fmt.Fprintf(p.w, "} while (%s);\n", expr.String(d.Condition))
	case *Return:
		p.indent()
		if d.Kills {
			fmt.Fprintf(p.w, "(%s) -> discard;\n", expr.String(d.Condition))
		} else {
			fmt.Fprintf(p.w, "(%s) -> exit;\n", expr.String(d.Condition))
		}
	case *Break:
		p.indent()
		fmt.Fprintf(p.w, "(%s) -> break;\n", expr.String(d.Condition))
	default:
		p.indent()
		fmt.Fprintf(p.w, "??? (%T)\n", node.Data())
	}
}

func (p *Printer) printChildren(nodes *Zipper) {
	p.depth++
	for current := nodes.First(); current != nil; current = current.Next() {
		p.Print(current)
	}
	p.depth--
}

func (p *Printer) indent() {
	fmt.Fprint(p.w, strings.Repeat("  ", p.depth))
}

// Dump renders a subtree to a string
func Dump(node *Node) string {
	var sb strings.Builder
	NewPrinter(&sb).Print(node)
	return sb.String()
}
