package expr

import (
	"fmt"
	"io"
	"strings"
)

// Printer renders expressions in infix boolean notation
type Printer struct {
	w io.Writer
}

// NewPrinter creates an expression printer writing to w
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Print renders a single expression
func (p *Printer) Print(e Expr) {
	switch x := e.(type) {
	case Bool:
		if x.Value {
			fmt.Fprint(p.w, "true")
		} else {
			fmt.Fprint(p.w, "false")
		}
	case Var:
		fmt.Fprintf(p.w, "V%d", x.Index)
	case Pred:
		fmt.Fprintf(p.w, "P%d", x.Index)
	case CondCode:
		fmt.Fprintf(p.w, "CC.%s", x.Code)
	case Not:
		fmt.Fprint(p.w, "!")
		p.Print(x.Operand)
	case And:
		fmt.Fprint(p.w, "( ")
		p.Print(x.A)
		fmt.Fprint(p.w, " && ")
		p.Print(x.B)
		fmt.Fprint(p.w, ")")
	case Or:
		fmt.Fprint(p.w, "( ")
		p.Print(x.A)
		fmt.Fprint(p.w, " || ")
		p.Print(x.B)
		fmt.Fprint(p.w, ")")
	default:
		fmt.Fprintf(p.w, "expr?(%T)", e)
	}
}

// String renders an expression to a string
func String(e Expr) string {
	var sb strings.Builder
	NewPrinter(&sb).Print(e)
	return sb.String()
}
