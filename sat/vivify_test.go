package sat

import "testing"

func TestVivifyDropsForcedFalseLiteral(t *testing.T) {
	numVars := 3
	trail := NewTrail(numVars)
	trail.NewDecisionLevel()
	trail.Enqueue(lit(-1), CRefUndef) // var 1 forced false at level 1

	v := NewVivifier(trail, func() CRef { return CRefUndef })

	out, changed := v.Vivify([]Lit{lit(1), lit(2), lit(3)})
	if !changed {
		t.Fatal("expected vivify to report a change when a literal is already forced false")
	}
	for _, l := range out {
		if l == lit(1) {
			t.Fatal("forced-false literal should have been dropped")
		}
	}
	if trail.Decide() != 1 {
		t.Fatalf("Vivify must restore the trail's original decision level, got %d want 1", trail.Decide())
	}
}

func TestVivifyNoOpWhenNothingForced(t *testing.T) {
	numVars := 3
	trail := NewTrail(numVars)

	calls := 0
	v := NewVivifier(trail, func() CRef {
		calls++
		return CRefUndef
	})

	original := []Lit{lit(1), lit(2), lit(3)}
	out, changed := v.Vivify(original)
	if changed {
		t.Fatalf("expected no change, got shortened clause %v", out)
	}
	if len(out) != len(original) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(original))
	}
	if trail.Decide() != 0 {
		t.Fatalf("trail decision level must be restored to 0, got %d", trail.Decide())
	}
}
