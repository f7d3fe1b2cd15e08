// Package expr defines the boolean guard expressions attached to
// control-flow nodes. Guards are small immutable trees built from hardware
// predicates, condition codes, synthetic variables and literals, combined
// with AND/OR/NOT. Equality is structural, never pointer identity.
package expr

// ConditionCode identifies a hardware condition-code register state.
type ConditionCode int

// Condition codes tested by conditional instructions.
const (
	CondF ConditionCode = iota // never
	CondLT
	CondEQ
	CondLE
	CondGT
	CondNE
	CondGE
	CondT // always
)

func (cc ConditionCode) String() string {
	switch cc {
	case CondF:
		return "F"
	case CondLT:
		return "LT"
	case CondEQ:
		return "EQ"
	case CondLE:
		return "LE"
	case CondGT:
		return "GT"
	case CondNE:
		return "NE"
	case CondGE:
		return "GE"
	case CondT:
		return "T"
	default:
		return "CC?"
	}
}

// Expr is the interface for guard expressions
type Expr interface {
	implExpr()
}

// Bool is a literal boolean
type Bool struct {
	Value bool
}

// Var references a synthetic boolean local by index
type Var struct {
	Index uint32
}

// Pred references a hardware predicate register
type Pred struct {
	Index uint32
}

// CondCode references the hardware condition-code register
type CondCode struct {
	Code ConditionCode
}

// Not is the logical negation of one operand
type Not struct {
	Operand Expr
}

// And is the logical conjunction of two operands
type And struct {
	A Expr
	B Expr
}

// Or is the logical disjunction of two operands
type Or struct {
	A Expr
	B Expr
}

// Marker methods for Expr interface
func (Bool) implExpr()     {}
func (Var) implExpr()      {}
func (Pred) implExpr()     {}
func (CondCode) implExpr() {}
func (Not) implExpr()      {}
func (And) implExpr()      {}
func (Or) implExpr()       {}

// True and False are the literal boolean expressions.
var (
	True  = Bool{Value: true}
	False = Bool{Value: false}
)

// MakeNot negates an expression, eliminating double negation: negating a
// Not node returns its operand instead of nesting another Not.
func MakeNot(a Expr) Expr {
	if n, ok := a.(Not); ok {
		return n.Operand
	}
	return Not{Operand: a}
}

// MakeAnd conjoins two expressions, folding literal operands: AND with
// literal true yields the other operand, AND with literal false yields false.
func MakeAnd(a, b Expr) Expr {
	if v, ok := a.(Bool); ok {
		if v.Value {
			return b
		}
		return a
	}
	if v, ok := b.(Bool); ok {
		if v.Value {
			return a
		}
		return b
	}
	return And{A: a, B: b}
}

// MakeOr disjoins two expressions, folding literal operands: OR with
// literal true yields true, OR with literal false yields the other operand.
func MakeOr(a, b Expr) Expr {
	if v, ok := a.(Bool); ok {
		if v.Value {
			return a
		}
		return b
	}
	if v, ok := b.(Bool); ok {
		if v.Value {
			return b
		}
		return a
	}
	return Or{A: a, B: b}
}

// Equal reports whether two expressions are structurally equal. Operand
// order is significant; AND/OR are not treated as commutative.
func Equal(a, b Expr) bool {
	switch x := a.(type) {
	case Bool:
		y, ok := b.(Bool)
		return ok && x.Value == y.Value
	case Var:
		y, ok := b.(Var)
		return ok && x.Index == y.Index
	case Pred:
		y, ok := b.(Pred)
		return ok && x.Index == y.Index
	case CondCode:
		y, ok := b.(CondCode)
		return ok && x.Code == y.Code
	case Not:
		y, ok := b.(Not)
		return ok && Equal(x.Operand, y.Operand)
	case And:
		y, ok := b.(And)
		return ok && Equal(x.A, y.A) && Equal(x.B, y.B)
	case Or:
		y, ok := b.(Or)
		return ok && Equal(x.A, y.A) && Equal(x.B, y.B)
	default:
		return false
	}
}

// Opposite reports whether one expression is the negation of the other.
// Only a top-level Not wrapper is recognized; no deeper inference is done.
func Opposite(a, b Expr) bool {
	if n, ok := a.(Not); ok {
		return Equal(n.Operand, b)
	}
	if n, ok := b.(Not); ok {
		return Equal(n.Operand, a)
	}
	return false
}

// IsTrue reports whether an expression is the literal true. It never
// attempts general satisfiability.
func IsTrue(e Expr) bool {
	if v, ok := e.(Bool); ok {
		return v.Value
	}
	return false
}
