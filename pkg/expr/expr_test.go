package expr

import "testing"

func TestMakeAndFolding(t *testing.T) {
	a := Pred{Index: 3}

	if got := MakeAnd(a, False); !Equal(got, False) {
		t.Errorf("MakeAnd(a, false) = %s, want false", String(got))
	}
	if got := MakeAnd(a, True); !Equal(got, a) {
		t.Errorf("MakeAnd(a, true) = %s, want a", String(got))
	}
	if got := MakeAnd(False, a); !Equal(got, False) {
		t.Errorf("MakeAnd(false, a) = %s, want false", String(got))
	}
	if got := MakeAnd(True, a); !Equal(got, a) {
		t.Errorf("MakeAnd(true, a) = %s, want a", String(got))
	}
}

func TestMakeOrFolding(t *testing.T) {
	a := CondCode{Code: CondNE}

	if got := MakeOr(a, False); !Equal(got, a) {
		t.Errorf("MakeOr(a, false) = %s, want a", String(got))
	}
	if got := MakeOr(a, True); !Equal(got, True) {
		t.Errorf("MakeOr(a, true) = %s, want true", String(got))
	}
	if got := MakeOr(False, a); !Equal(got, a) {
		t.Errorf("MakeOr(false, a) = %s, want a", String(got))
	}
	if got := MakeOr(True, a); !Equal(got, True) {
		t.Errorf("MakeOr(true, a) = %s, want true", String(got))
	}
}

func TestMakeAndBuildsNode(t *testing.T) {
	got := MakeAnd(Pred{Index: 0}, Var{Index: 1})
	and, ok := got.(And)
	if !ok {
		t.Fatalf("MakeAnd(P0, V1) = %T, want And", got)
	}
	if !Equal(and.A, Pred{Index: 0}) || !Equal(and.B, Var{Index: 1}) {
		t.Errorf("MakeAnd operands = %s, want ( P0 && V1)", String(got))
	}
}

func TestDoubleNegation(t *testing.T) {
	exprs := []Expr{
		Pred{Index: 7},
		Var{Index: 2},
		CondCode{Code: CondLT},
		MakeAnd(Pred{Index: 0}, Pred{Index: 1}),
	}
	for _, a := range exprs {
		if got := MakeNot(MakeNot(a)); !Equal(got, a) {
			t.Errorf("MakeNot(MakeNot(%s)) = %s, want original", String(a), String(got))
		}
	}
}

func TestEqualIsStructural(t *testing.T) {
	a := MakeAnd(Pred{Index: 1}, Var{Index: 2})
	b := MakeAnd(Pred{Index: 1}, Var{Index: 2})
	if !Equal(a, b) {
		t.Errorf("Equal(%s, %s) = false, want true", String(a), String(b))
	}

	// AND is not commutative for structural equality
	c := MakeAnd(Var{Index: 2}, Pred{Index: 1})
	if Equal(a, c) {
		t.Errorf("Equal(%s, %s) = true, want false", String(a), String(c))
	}

	if Equal(Pred{Index: 1}, Var{Index: 1}) {
		t.Error("Equal(P1, V1) = true, want false")
	}
}

func TestOpposite(t *testing.T) {
	exprs := []Expr{
		Pred{Index: 4},
		Var{Index: 0},
		MakeOr(Pred{Index: 1}, Var{Index: 3}),
	}
	for _, a := range exprs {
		if !Opposite(a, MakeNot(a)) {
			t.Errorf("Opposite(%s, !%s) = false, want true", String(a), String(a))
		}
		if !Opposite(MakeNot(a), a) {
			t.Errorf("Opposite(!%s, %s) = false, want true", String(a), String(a))
		}
		if Opposite(a, a) {
			t.Errorf("Opposite(%s, %s) = true, want false", String(a), String(a))
		}
	}

	// No deeper inference than a top-level Not
	if Opposite(Bool{Value: true}, Bool{Value: false}) {
		t.Error("Opposite(true, false) = true, want false")
	}
}

func TestIsTrue(t *testing.T) {
	if !IsTrue(True) {
		t.Error("IsTrue(true) = false")
	}
	if IsTrue(False) {
		t.Error("IsTrue(false) = true")
	}
	if IsTrue(Pred{Index: 0}) {
		t.Error("IsTrue(P0) = true")
	}
}

func TestString(t *testing.T) {
	e := MakeOr(MakeNot(Pred{Index: 1}), MakeAnd(Var{Index: 0}, CondCode{Code: CondEQ}))
	want := "( !P1 || ( V0 && CC.EQ))"
	if got := String(e); got != want {
		t.Errorf("String = %q, want %q", got, want)
	}
}
