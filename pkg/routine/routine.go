// Package routine describes a flat shader routine - blocks, labels and
// conditional jumps in program order - as a YAML document. It stands in
// for the bytecode decoder during development: the CLI and integration
// tests feed these descriptions to the structurizer instead of decoding
// real shader programs.
package routine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/NastySpaghetti/yuzu/pkg/expr"
	"github.com/NastySpaghetti/yuzu/pkg/structurize"
)

// Cond describes a guard expression. Exactly one of Value, Pred or CC may
// be set; none of them means literal true. Not negates the result.
type Cond struct {
	Value *bool   `yaml:"value,omitempty"`
	Pred  *uint32 `yaml:"pred,omitempty"`
	CC    string  `yaml:"cc,omitempty"`
	Not   bool    `yaml:"not,omitempty"`
}

// Expr builds the guard expression a Cond describes. A nil Cond is
// literal true, matching an unconditional jump.
func (c *Cond) Expr() (expr.Expr, error) {
	if c == nil {
		return expr.True, nil
	}
	var e expr.Expr
	set := 0
	if c.Value != nil {
		e = expr.Bool{Value: *c.Value}
		set++
	}
	if c.Pred != nil {
		e = expr.Pred{Index: *c.Pred}
		set++
	}
	if c.CC != "" {
		code, err := parseCondCode(c.CC)
		if err != nil {
			return nil, err
		}
		e = expr.CondCode{Code: code}
		set++
	}
	if set > 1 {
		return nil, fmt.Errorf("routine: condition sets %d of value/pred/cc, want at most one", set)
	}
	if set == 0 {
		e = expr.True
	}
	if c.Not {
		e = expr.MakeNot(e)
	}
	return e, nil
}

func parseCondCode(name string) (expr.ConditionCode, error) {
	switch name {
	case "F":
		return expr.CondF, nil
	case "LT":
		return expr.CondLT, nil
	case "EQ":
		return expr.CondEQ, nil
	case "LE":
		return expr.CondLE, nil
	case "GT":
		return expr.CondGT, nil
	case "NE":
		return expr.CondNE, nil
	case "GE":
		return expr.CondGE, nil
	case "T":
		return expr.CondT, nil
	default:
		return 0, fmt.Errorf("routine: unknown condition code %q", name)
	}
}

// BlockOp is a straight-line code block over [Start,End)
type BlockOp struct {
	Start uint32 `yaml:"start"`
	End   uint32 `yaml:"end"`
}

// LabelOp marks a jump target address
type LabelOp struct {
	Address uint32 `yaml:"address"`
}

// GotoOp is a conditional jump to a label address
type GotoOp struct {
	Target uint32 `yaml:"target"`
	Cond   *Cond  `yaml:"cond,omitempty"`
}

// ReturnOp is a conditional exit; Kills marks a discard
type ReturnOp struct {
	Kills bool  `yaml:"kills,omitempty"`
	Cond  *Cond `yaml:"cond,omitempty"`
}

// Op is one program-order entry; exactly one field must be set
type Op struct {
	Block  *BlockOp  `yaml:"block,omitempty"`
	Label  *LabelOp  `yaml:"label,omitempty"`
	Goto   *GotoOp   `yaml:"goto,omitempty"`
	Return *ReturnOp `yaml:"return,omitempty"`
}

// Routine is a flat routine in program order
type Routine struct {
	Name string `yaml:"name"`
	Ops  []Op   `yaml:"ops"`
}

// Parse decodes a routine description from YAML
func Parse(data []byte) (*Routine, error) {
	var r Routine
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("routine: %w", err)
	}
	return &r, nil
}

// LoadFile reads and decodes a routine description file
func LoadFile(path string) (*Routine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Build feeds the routine to a structuring session. Label addresses are
// declared up front so jumps may reference targets that appear later in
// program order.
func (r *Routine) Build(m *structurize.Manager) error {
	for _, op := range r.Ops {
		if op.Label != nil {
			m.DeclareLabel(op.Label.Address)
		}
	}
	for i, op := range r.Ops {
		set := 0
		if op.Block != nil {
			set++
		}
		if op.Label != nil {
			set++
		}
		if op.Goto != nil {
			set++
		}
		if op.Return != nil {
			set++
		}
		if set != 1 {
			return fmt.Errorf("routine: op %d sets %d of block/label/goto/return, want exactly one", i, set)
		}
		switch {
		case op.Block != nil:
			m.InsertBlock(op.Block.Start, op.Block.End)
		case op.Label != nil:
			if err := m.InsertLabel(op.Label.Address); err != nil {
				return err
			}
		case op.Goto != nil:
			condition, err := op.Goto.Cond.Expr()
			if err != nil {
				return fmt.Errorf("op %d: %w", i, err)
			}
			if err := m.InsertGoto(condition, op.Goto.Target); err != nil {
				return err
			}
		case op.Return != nil:
			condition, err := op.Return.Cond.Expr()
			if err != nil {
				return fmt.Errorf("op %d: %w", i, err)
			}
			m.InsertReturn(condition, op.Return.Kills)
		}
	}
	return nil
}
