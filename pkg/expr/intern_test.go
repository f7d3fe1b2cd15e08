package expr

import "testing"

func TestInternDeduplicates(t *testing.T) {
	in := NewInterner()

	a := in.Intern(MakeAnd(Pred{Index: 1}, Var{Index: 2}))
	b := in.Intern(MakeAnd(Pred{Index: 1}, Var{Index: 2}))

	if !Equal(a, b) {
		t.Fatalf("interned copies differ: %s vs %s", String(a), String(b))
	}
	if in.Stats.CacheHits != 1 {
		t.Errorf("CacheHits = %d, want 1", in.Stats.CacheHits)
	}
	if in.Stats.Cached != 1 {
		t.Errorf("Cached = %d, want 1", in.Stats.Cached)
	}
}

func TestInternKeepsDistinctExpressions(t *testing.T) {
	in := NewInterner()

	in.Intern(Var{Index: 0})
	in.Intern(Var{Index: 1})
	in.Intern(Pred{Index: 0})

	if in.Stats.CacheHits != 0 {
		t.Errorf("CacheHits = %d, want 0", in.Stats.CacheHits)
	}
	if in.Stats.Cached != 3 {
		t.Errorf("Cached = %d, want 3", in.Stats.Cached)
	}
}

func TestHashMatchesStructuralEquality(t *testing.T) {
	a := MakeOr(MakeNot(Pred{Index: 3}), CondCode{Code: CondGE})
	b := MakeOr(MakeNot(Pred{Index: 3}), CondCode{Code: CondGE})
	if Hash(a) != Hash(b) {
		t.Error("structurally equal expressions hash differently")
	}

	// Operand order must influence the hash
	c := MakeOr(CondCode{Code: CondGE}, MakeNot(Pred{Index: 3}))
	if Hash(a) == Hash(c) {
		t.Error("swapped operands hash identically")
	}
}
