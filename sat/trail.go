package sat

// varState holds the per-variable assignment state a worker's trail tracks:
// current truth value, the decision level it was assigned at, the clause
// that implied it (CRefUndef for a decision variable), and the cached
// polarity used to seed its next decision (phase saving).
type varState struct {
	assign   LBool
	level    int32
	reason   CRef
	polarity bool
}

// Trail is one worker's assignment trail: a single array-backed structure
// combining the chronological assignment order with O(1) per-variable
// lookups, keyed by Var so growth is a slice append rather than a map
// write.
type Trail struct {
	states []varState // indexed by Var
	trail  []Lit      // chronological assignment order, as literals
	lim    []int32    // trail[] index of the first entry at each decision level
	qhead  int        // index of the next trail entry to propagate
}

// NewTrail creates a trail sized for numVars variables.
func NewTrail(numVars int) *Trail {
	t := &Trail{
		states: make([]varState, numVars),
		trail:  make([]Lit, 0, numVars),
	}
	for i := range t.states {
		t.states[i] = varState{assign: LUndef, level: -1, reason: CRefUndef, polarity: false}
	}
	return t
}

// Grow extends the trail to cover a newly introduced variable.
func (t *Trail) Grow(numVars int) {
	for len(t.states) < numVars {
		t.states = append(t.states, varState{assign: LUndef, level: -1, reason: CRefUndef})
	}
}

// Value reports the current truth value of a literal.
func (t *Trail) Value(l Lit) LBool {
	return t.states[l.Var()].assign.XorSign(l.Sign())
}

// VarValue reports the current truth value of a variable.
func (t *Trail) VarValue(v Var) LBool { return t.states[v].assign }

// Level reports the decision level a variable was assigned at, or -1 if
// unassigned.
func (t *Trail) Level(v Var) int { return int(t.states[v].level) }

// Reason reports the clause that implied a variable's assignment, or
// CRefUndef for a decision variable or an unassigned one.
func (t *Trail) Reason(v Var) CRef { return t.states[v].reason }

// IsDecision reports whether v was assigned by decision rather than
// propagation.
func (t *Trail) IsDecision(v Var) bool {
	return t.states[v].assign != LUndef && t.states[v].reason == CRefUndef
}

// Polarity returns the saved phase for v, consulted by the decision
// heuristic when no other signal picks a sign.
func (t *Trail) Polarity(v Var) bool { return t.states[v].polarity }

// Decide returns the current decision level: the number of decisions on
// the trail right now.
func (t *Trail) Decide() int { return len(t.lim) }

// NewDecisionLevel opens a new decision level at the current trail length.
func (t *Trail) NewDecisionLevel() {
	t.lim = append(t.lim, int32(len(t.trail)))
}

// Enqueue assigns l true at the current decision level, with reason as its
// implying clause (CRefUndef for a decision).
func (t *Trail) Enqueue(l Lit, reason CRef) {
	v := l.Var()
	t.states[v] = varState{
		assign: FromBool(!l.Sign()),
		level:  int32(t.Decide()),
		reason: reason,
	}
	t.trail = append(t.trail, l)
}

// Len reports the number of assigned variables.
func (t *Trail) Len() int { return len(t.trail) }

// QHead reports the index of the next trail entry awaiting propagation.
func (t *Trail) QHead() int { return t.qhead }

// Dequeue returns the next unpropagated literal and advances qhead. Callers
// must check QHead() < Len() first.
func (t *Trail) Dequeue() Lit {
	l := t.trail[t.qhead]
	t.qhead++
	return l
}

// PropagationDone reports whether every enqueued literal has been consumed
// by propagation.
func (t *Trail) PropagationDone() bool { return t.qhead == len(t.trail) }

// Backtrack undoes every assignment made at a decision level above level,
// saving each undone variable's phase for later reuse, and rewinds qhead so
// propagation resumes from the new trail tail.
func (t *Trail) Backtrack(level int) {
	if level >= t.Decide() {
		return
	}
	cut := int(t.lim[level])
	for i := len(t.trail) - 1; i >= cut; i-- {
		v := t.trail[i].Var()
		t.states[v].polarity = t.states[v].assign == LTrue
		t.states[v].assign = LUndef
		t.states[v].level = -1
		t.states[v].reason = CRefUndef
	}
	t.trail = t.trail[:cut]
	t.lim = t.lim[:level]
	if t.qhead > cut {
		t.qhead = cut
	}
}

// LitAt returns the literal assigned at chronological trail position i.
func (t *Trail) LitAt(i int) Lit { return t.trail[i] }

// LevelStart returns the trail index of the first assignment above level,
// the point Backtrack(level) cuts the trail at, or Len() if level is the
// current (still-open) level.
func (t *Trail) LevelStart(level int) int {
	if level >= len(t.lim) {
		return len(t.trail)
	}
	return int(t.lim[level])
}

// Clear resets the trail to the empty, level-0 state, for reuse between
// restarts of a from-scratch solve (not ordinary backtracking, which never
// needs to touch level 0).
func (t *Trail) Clear() {
	for i := range t.states {
		t.states[i] = varState{assign: LUndef, level: -1, reason: CRefUndef, polarity: t.states[i].polarity}
	}
	t.trail = t.trail[:0]
	t.lim = t.lim[:0]
	t.qhead = 0
}
