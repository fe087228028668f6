package sat

// Analyzer performs 1-UIP conflict analysis: starting from the falsified
// clause, it resolves backward along the trail until exactly one literal
// of the current decision level remains, producing the asserting learned
// clause together with the level to backjump to and its LBD.
type Analyzer struct {
	arena *Arena
	trail *Trail
	heur  *VSIDS

	seen    []bool // per-Var, cleared after each call
	toClear []Var

	touched []CRef // clauses resolved over during this call, cleared after each

	levelSeen []int32 // scratch for LBD computation, lazily stamped
	stamp     int32
}

// NewAnalyzer builds an analyzer over the given arena and trail.
func NewAnalyzer(arena *Arena, trail *Trail, heur *VSIDS, numVars int) *Analyzer {
	return &Analyzer{
		arena:     arena,
		trail:     trail,
		heur:      heur,
		seen:      make([]bool, numVars),
		levelSeen: make([]int32, numVars+1),
	}
}

// Grow extends analyzer scratch space to cover a newly introduced variable.
func (a *Analyzer) Grow(numVars int) {
	for len(a.seen) < numVars {
		a.seen = append(a.seen, false)
	}
	for len(a.levelSeen) < numVars+1 {
		a.levelSeen = append(a.levelSeen, 0)
	}
}

// litsOf returns the literals of the arena clause cref. Binary clauses are
// arena clauses too, so every reason stored on the trail is read this way.
func (a *Analyzer) litsOf(cref CRef) []Lit {
	return a.arena.View(cref).Lits()
}

// Analyze consumes the conflicting clause and the current trail, producing
// the 1-UIP learned clause (out[0] is the asserting literal), the level to
// backjump to, and the clause's LBD. It leaves the trail untouched; the
// caller backjumps separately once it has recorded the result. touched
// lists every CRef resolved over along the way (the conflict itself and
// every reason clause walked), for the caller to bump activity on and
// re-check for an LBD improvement.
func (a *Analyzer) Analyze(confl CRef) (learnt []Lit, backjumpLevel int, lbd int, touched []CRef) {
	currentLevel := a.trail.Decide()
	pathC := 0
	p := LitUndef
	var out []Lit
	out = append(out, LitUndef) // placeholder for the UIP literal itself

	a.touched = a.touched[:0]
	if ValidCRef(confl) {
		a.touched = append(a.touched, confl)
	}

	idx := a.trail.Len() - 1
	clauseLits := a.litsOf(confl)

	for {
		for _, q := range clauseLits {
			if p != LitUndef && q == p {
				continue
			}
			v := q.Var()
			if a.seen[v] || a.trail.Level(v) <= 0 {
				continue
			}
			a.seen[v] = true
			a.toClear = append(a.toClear, v)
			if a.heur != nil {
				a.heur.Bump(v)
			}
			if a.trail.Level(v) >= currentLevel {
				pathC++
			} else {
				out = append(out, q)
			}
		}

		for !a.seen[a.trail.LitAt(idx).Var()] {
			idx--
		}
		p = a.trail.LitAt(idx)
		pv := p.Var()
		a.seen[pv] = false
		pathC--
		idx--
		if pathC <= 0 {
			break
		}
		reason := a.trail.Reason(pv)
		if ValidCRef(reason) {
			a.touched = append(a.touched, reason)
		}
		clauseLits = a.litsOf(reason)
	}

	out[0] = p.Neg()

	abstraction := abstractionOf(out, a.trail.Level)
	a.minimize(&out, abstraction)

	lbd = a.computeLBD(out)
	backjumpLevel = a.backjumpLevelOf(out)

	for _, v := range a.toClear {
		a.seen[v] = false
	}
	a.toClear = a.toClear[:0]

	return out, backjumpLevel, lbd, a.touched
}

// backjumpLevelOf returns the second-highest decision level among the
// learned clause's literals (or 0 for a unit clause): the level the search
// jumps back to so the asserting literal becomes unit-propagatable.
func (a *Analyzer) backjumpLevelOf(lits []Lit) int {
	if len(lits) == 1 {
		return 0
	}
	maxI, maxLevel := 1, a.trail.Level(lits[1].Var())
	for i := 2; i < len(lits); i++ {
		if lvl := a.trail.Level(lits[i].Var()); lvl > maxLevel {
			maxLevel = lvl
			maxI = i
		}
	}
	lits[1], lits[maxI] = lits[maxI], lits[1]
	return maxLevel
}

// computeLBD counts the number of distinct decision levels represented
// among the clause's literals, the Literal Block Distance Glucose uses to
// rank how "good" a learned clause is.
func (a *Analyzer) computeLBD(lits []Lit) int {
	a.stamp++
	count := 0
	for _, l := range lits {
		lvl := int32(a.trail.Level(l.Var()))
		if lvl >= 0 && int(lvl) < len(a.levelSeen) && a.levelSeen[lvl] != a.stamp {
			a.levelSeen[lvl] = a.stamp
			count++
		}
	}
	return count
}

// minimize applies self-subsumption minimization: a literal is redundant
// if every literal of its reason clause (other than itself) is already
// seen — i.e. already implied by the levels represented in the learned
// clause — so it can be dropped without weakening the clause. abstraction
// is the learned clause's own level-set summary, used to prune the deep
// reachability walk before it starts.
func (a *Analyzer) minimize(out *[]Lit, abstraction levelAbstraction) {
	lits := *out
	kept := lits[:1]
	for _, l := range lits[1:] {
		if a.litRedundant(l, abstraction) {
			continue
		}
		kept = append(kept, l)
	}
	*out = kept
}

// litRedundant is the "basic" minimization test: l is redundant if it has
// a reason clause and every other literal in that reason is already seen.
// litRedundantDeep extends this via reachability for longer chains.
func (a *Analyzer) litRedundant(l Lit, abstraction levelAbstraction) bool {
	v := l.Var()
	reason := a.trail.Reason(v)
	if !ValidCRef(reason) {
		return false
	}
	for _, q := range a.litsOf(reason) {
		if q.Var() == v {
			continue
		}
		if !a.seen[q.Var()] {
			top := len(a.toClear)
			if !a.litRedundantDeep(q, 0, abstraction) {
				// Unmark what the failed walk marked, so seen keeps holding
				// only clause literals and literals proven redundant.
				for _, u := range a.toClear[top:] {
					a.seen[u] = false
				}
				a.toClear = a.toClear[:top]
				return false
			}
		}
	}
	return true
}

// litRedundantDeep walks the reason chain transitively up to a small depth
// bound, using the analyzer's seen set as the frontier of "already known
// redundant" literals — the "deep" minimization mode SPEC_FULL.md's
// database section calls out as more expensive but more thorough than the
// single-hop basic check. abstraction rejects most candidates before the
// walk: if l's level bit is absent from it, no reason clause reachable
// from l can be subsumed by levels already in the learned clause.
func (a *Analyzer) litRedundantDeep(l Lit, depth int, abstraction levelAbstraction) bool {
	if depth > 32 {
		return false
	}
	v := l.Var()
	if a.seen[v] {
		return true
	}
	lvl := a.trail.Level(v)
	if lvl == 0 {
		return true
	}
	if !abstraction.has(lvl) {
		return false
	}
	reason := a.trail.Reason(v)
	if !ValidCRef(reason) {
		return false
	}
	a.seen[v] = true
	a.toClear = append(a.toClear, v)
	for _, q := range a.litsOf(reason) {
		if q.Var() == v {
			continue
		}
		if !a.litRedundantDeep(q, depth+1, abstraction) {
			return false
		}
	}
	return true
}
