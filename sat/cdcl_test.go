package sat

import (
	"context"
	"testing"

	"github.com/xDarkicex/parasat/internal/stats"
)

var testCounters stats.Counters

// lit builds a literal from a DIMACS-style signed int (1-based variable,
// negative for negation), for compact test fixtures.
func lit(n int) Lit {
	if n < 0 {
		return MkLit(Var(-n-1), true)
	}
	return MkLit(Var(n-1), false)
}

func newTestSupervisor(numVars int, clauses [][]int) *Supervisor {
	cfg := DefaultConfig()
	cfg.Threads = 1
	s := NewSupervisor(cfg)
	for i := 0; i < numVars; i++ {
		s.NewVar()
	}
	for _, c := range clauses {
		lits := make([]Lit, len(c))
		for i, n := range c {
			lits[i] = lit(n)
		}
		s.AddClause(lits)
	}
	return s
}

func verifyModel(t *testing.T, clauses [][]int, model []LBool) {
	t.Helper()
	for _, c := range clauses {
		satisfied := false
		for _, n := range c {
			v := Var(abs(n) - 1)
			want := n > 0
			if model[v] == FromBool(want) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			t.Errorf("clause %v not satisfied by model %v", c, model)
		}
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestSolveSimpleSatisfiable(t *testing.T) {
	clauses := [][]int{
		{1, 2},
		{-1, 3},
		{-2, -3},
	}
	s := newTestSupervisor(3, clauses)
	if !s.Simplify() {
		t.Fatal("Simplify reported unsat on a satisfiable instance")
	}
	res := s.Solve(context.Background())
	if res.Status != Sat {
		t.Fatalf("Status = %v, want Sat", res.Status)
	}
	verifyModel(t, clauses, res.Model)
}

func TestSolveUnsatisfiable(t *testing.T) {
	clauses := [][]int{
		{1}, {-1},
	}
	s := newTestSupervisor(1, clauses)
	res := s.Solve(context.Background())
	if res.Status != Unsat {
		t.Fatalf("Status = %v, want Unsat", res.Status)
	}
}

func TestSolvePigeonholeSmallUnsat(t *testing.T) {
	// 3 pigeons, 2 holes: unsatisfiable. Variable p(i,j) = i*2+j+1,
	// pigeon i in hole j, for i in 0..2, j in 0..1.
	v := func(i, j int) int { return i*2 + j + 1 }
	var clauses [][]int
	for i := 0; i < 3; i++ {
		clauses = append(clauses, []int{v(i, 0), v(i, 1)})
	}
	for j := 0; j < 2; j++ {
		for i1 := 0; i1 < 3; i1++ {
			for i2 := i1 + 1; i2 < 3; i2++ {
				clauses = append(clauses, []int{-v(i1, j), -v(i2, j)})
			}
		}
	}
	s := newTestSupervisor(6, clauses)
	res := s.Solve(context.Background())
	if res.Status != Unsat {
		t.Fatalf("Status = %v, want Unsat for 3-pigeon/2-hole", res.Status)
	}
}

func TestSolveEmptyClauseIsImmediatelyUnsat(t *testing.T) {
	s := NewSupervisor(DefaultConfig())
	s.NewVar()
	if s.AddClause(nil) {
		t.Fatal("AddClause(nil) should report false for an empty clause")
	}
}

// TestPropagateTwoRelocationStaysConsistentWithDetach forces a two-watched
// clause to relocate one of its watches during propagation, then detaches
// it and checks every watch entry the clause ever registered is gone — a
// relocation that doesn't persist into the clause's own storage leaves the
// old entry dangling, pointing at a clause the caller believes is gone.
func TestPropagateTwoRelocationStaysConsistentWithDetach(t *testing.T) {
	numVars := 4
	arena := NewArena(DefaultBucketBytes, 1)
	w := NewWorker(0, DefaultConfig(), arena, numVars, &testCounters)
	cur := NewBucketCursor()

	// (1 2 3 4): watched initially on lits[0],lits[1] = 1,2.
	cref, err := arena.Alloc(cur, KindPrivate, []Lit{lit(1), lit(2), lit(3), lit(4)})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	w.attachLocal(cref, arena.View(cref).Lits())

	// Falsify var 1 and var 2 so propagation must relocate both original
	// watches onto 3 and 4.
	w.trail.NewDecisionLevel()
	w.trail.Enqueue(lit(-1), CRefUndef)
	if confl := w.propagate(); ValidCRef(confl) {
		t.Fatalf("propagate after falsifying var1 found a spurious conflict: %v", confl)
	}
	w.trail.Enqueue(lit(-2), CRefUndef)
	if confl := w.propagate(); ValidCRef(confl) {
		t.Fatalf("propagate after falsifying var2 found a spurious conflict: %v", confl)
	}

	relocated := arena.View(cref).Lits()
	if relocated[0] == lit(1) || relocated[0] == lit(2) {
		t.Fatalf("expected the clause's stored watch to have relocated off var1/var2, got lits=%v", relocated)
	}

	w.detach(cref, relocated)

	for _, l := range []Lit{lit(1), lit(-1), lit(2), lit(-2), lit(3), lit(-3), lit(4), lit(-4)} {
		for _, e := range w.watches.Two(l) {
			if e.CRef == cref {
				t.Fatalf("dangling two-watch entry for %v survives detach on literal %v", cref, l)
			}
		}
	}
}

func TestAnalyzeProducesAssertingClause(t *testing.T) {
	numVars := 4
	arena := NewArena(DefaultBucketBytes, 1)
	w := NewWorker(0, DefaultConfig(), arena, numVars, &testCounters)

	w.trail.NewDecisionLevel()
	w.trail.Enqueue(lit(1), CRefUndef)
	w.trail.NewDecisionLevel()
	w.trail.Enqueue(lit(2), CRefUndef)

	cur := NewBucketCursor()
	cref, err := arena.Alloc(cur, KindPrivate, []Lit{lit(-1), lit(-2), lit(3)})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	w.trail.Enqueue(lit(3), cref)
	confl, err := arena.Alloc(cur, KindPrivate, []Lit{lit(-3), lit(-2)})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	learnt, level, lbd, _ := w.analyze.Analyze(confl)
	if len(learnt) == 0 {
		t.Fatal("Analyze returned an empty learned clause")
	}
	if level < 0 || level >= w.trail.Decide() {
		t.Fatalf("backjump level %d out of range [0,%d)", level, w.trail.Decide())
	}
	if lbd <= 0 {
		t.Fatalf("lbd = %d, want > 0", lbd)
	}
}
