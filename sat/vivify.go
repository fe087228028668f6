package sat

// Vivifier probes existing clauses for literals that propagation alone
// already rules out, shortening clauses without changing what they imply.
// It borrows the worker's own trail and propagation routine rather than
// owning a separate solver, since vivification must see exactly the
// assignments the real search would make.
type Vivifier struct {
	trail     *Trail
	propagate func() CRef // runs unit propagation to fixpoint; CRefUndef means no conflict
}

// NewVivifier builds a vivifier over trail, driven by propagate — normally
// a worker's own Worker.propagate method, passed in as a closure so this
// package has no import cycle back to worker.go.
func NewVivifier(trail *Trail, propagate func() CRef) *Vivifier {
	return &Vivifier{trail: trail, propagate: propagate}
}

// Vivify probes clause lits literal by literal: assuming each literal
// false in turn (as propagation would if every other literal were already
// falsified) and running propagation to see whether a conflict — or an
// already-forced value for a later literal — lets the clause be
// shortened. It always restores the trail to the decision level it found
// on entry before returning.
//
// participated reports whether anything changed; when true, out is the
// replacement clause (always a subset of lits, never longer). When false,
// the caller must leave the original clause untouched (§3 resolves the
// corresponding Open Question this way: no mutation on a no-op probe).
func (v *Vivifier) Vivify(lits []Lit) (out []Lit, participated bool) {
	if len(lits) < 2 {
		return lits, false
	}
	base := v.trail.Decide()

	kept := make([]Lit, 0, len(lits))
	shortened := false

	for i, l := range lits {
		val := v.trail.Value(l)
		if val == LTrue {
			// l is already satisfied by a forced assignment: the whole
			// clause is redundant as originally written, but we cannot
			// just drop it here (that's a database decision) — stop
			// probing and report no useful shrink from this pass.
			v.trail.Backtrack(base)
			return lits, false
		}
		if val == LFalse {
			// Already falsified by a forced assignment: drop it, the
			// clause doesn't need it to stay logically equivalent.
			shortened = true
			continue
		}

		kept = append(kept, l)
		v.trail.NewDecisionLevel()
		v.trail.Enqueue(l.Neg(), CRefUndef)
		if confl := v.propagate(); ValidCRef(confl) {
			// Propagation contradicts itself on the literals assumed so
			// far: every remaining literal is redundant, the clause
			// shrinks to exactly what's been assumed.
			v.trail.Backtrack(base)
			if i+1 < len(lits) {
				shortened = true
			}
			if !shortened {
				return lits, false
			}
			return kept, true
		}
	}

	v.trail.Backtrack(base)
	if !shortened || len(kept) == len(lits) {
		return lits, false
	}
	if len(kept) == 0 {
		return kept, true
	}
	return kept, true
}
