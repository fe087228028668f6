package sat

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/xDarkicex/parasat/internal/stats"
	"github.com/xDarkicex/parasat/share"
)

// ResultStatus is the three-way outcome of a solve.
type ResultStatus int

const (
	Unknown ResultStatus = iota
	Sat
	Unsat
)

func (s ResultStatus) String() string {
	switch s {
	case Sat:
		return "SATISFIABLE"
	case Unsat:
		return "UNSATISFIABLE"
	default:
		return "UNKNOWN"
	}
}

// Result is what Solve returns: the outcome, a model when satisfiable, and
// the aggregated statistics across every worker that ran.
type Result struct {
	Status ResultStatus
	Model  []LBool
	Stats  stats.Snapshot
}

// Supervisor owns the shared arena and coordinates a pool of workers
// through one solve: it is the external collaborator boundary described by
// the data model — callers build a formula through NewVar/AddClause, then
// call Solve once.
type Supervisor struct {
	cfg   Config
	arena *Arena

	mu        sync.Mutex
	numVars   int
	original  [][]Lit // problem clauses, added before the first Solve
	rootUnits []Lit

	workers       []*Worker
	clauseRings   []*share.Ring[CRef]
	unitRings     []*share.Ring[Lit]
	counters      []*stats.Counters
	metrics       *stats.Registry

	built bool // true once workers have been constructed for a Solve call

	lastModel []LBool // the model from the most recent Sat result, for Model()
}

// NewSupervisor builds a supervisor ready to accept variables and clauses.
func NewSupervisor(cfg Config) *Supervisor {
	bucketBytes := cfg.BucketBytes
	if bucketBytes <= 0 {
		bucketBytes = DefaultBucketBytes
	}
	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	cfg.Threads = threads
	return &Supervisor{
		cfg:   cfg,
		arena: NewArena(bucketBytes, threads),
	}
}

// NewVar introduces a fresh variable and returns its handle.
func (s *Supervisor) NewVar() Var {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := Var(s.numVars)
	s.numVars++
	for _, w := range s.workers {
		w.Grow(s.numVars)
	}
	return v
}

// AddClause records a clause of the original problem. It returns false if
// the clause is trivially unsatisfiable on its own (empty) — callers
// should treat that as an immediate Unsat short-circuit, matching the
// convention MiniSat-family solvers use for their own AddClause.
func (s *Supervisor) AddClause(lits []Lit) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(lits) == 0 {
		return false
	}
	cp := append([]Lit(nil), lits...)
	if len(cp) == 1 {
		s.rootUnits = append(s.rootUnits, cp[0])
		return true
	}
	s.original = append(s.original, cp)
	return true
}

// Simplify performs the cheap, always-safe simplification pass available
// before search starts: duplicate literal removal and tautology detection
// across the recorded original clauses. It returns false if simplification
// alone proves the formula unsatisfiable (an empty clause survives).
func (s *Supervisor) Simplify() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.original[:0]
	for _, c := range s.original {
		c = dedupLits(c)
		if isTautology(c) {
			continue
		}
		if len(c) == 0 {
			return false
		}
		kept = append(kept, c)
	}
	s.original = kept
	return true
}

func dedupLits(lits []Lit) []Lit {
	seen := make(map[Lit]bool, len(lits))
	out := lits[:0]
	for _, l := range lits {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

func isTautology(lits []Lit) bool {
	for i, a := range lits {
		for _, b := range lits[i+1:] {
			if a == b.Neg() {
				return true
			}
		}
	}
	return false
}

// Eliminate is a hook for a fuller preprocessing pipeline (bounded variable
// elimination) that this engine does not implement; it always reports no
// change. A caller wiring in an external Eliminator can replace this
// method's behavior by not calling it at all and running their own pass
// between AddClause and Solve instead.
func (s *Supervisor) Eliminate(turnOff bool) bool {
	_ = turnOff
	return true
}

// buildWorkers constructs the worker pool and wires every pairwise
// exchange ring, run once per Solve call.
func (s *Supervisor) buildWorkers() {
	s.counters = make([]*stats.Counters, s.cfg.Threads)
	s.clauseRings = make([]*share.Ring[CRef], s.cfg.Threads)
	s.unitRings = make([]*share.Ring[Lit], s.cfg.Threads)
	s.workers = make([]*Worker, s.cfg.Threads)

	for i := 0; i < s.cfg.Threads; i++ {
		s.counters[i] = &stats.Counters{}
		s.clauseRings[i] = share.NewRing[CRef](s.cfg.RingCapacity)
		s.unitRings[i] = share.NewRing[Lit](s.cfg.RingCapacity)
		s.workers[i] = NewWorker(i, s.cfg, s.arena, s.numVars, s.counters[i])
		s.workers[i].outClauses = s.clauseRings[i]
		s.workers[i].outUnits = s.unitRings[i]
	}

	if s.cfg.Threads > 1 {
		for i, w := range s.workers {
			var peers []*peerRing
			for j := range s.workers {
				if j == i {
					continue
				}
				peers = append(peers, &peerRing{
					clauses:   s.clauseRings[j],
					units:     s.unitRings[j],
					clauseCur: share.NewCursor(),
					unitCur:   share.NewCursor(),
				})
			}
			w.AttachPeers(peers)
		}
	}

	crefs := make([]CRef, 0, len(s.original))
	for _, c := range s.original {
		cref, err := s.arena.Alloc(s.workers[0].cursor, KindPermanent, c)
		if err != nil {
			continue
		}
		crefs = append(crefs, cref)
	}

	for _, cref := range crefs {
		for _, w := range s.workers {
			w.AddOriginalClause(cref)
		}
	}
	for _, w := range s.workers {
		for _, u := range s.rootUnits {
			switch w.trail.Value(u) {
			case LUndef:
				w.trail.Enqueue(u, CRefUndef)
			case LFalse:
				w.importUnsat = true
			}
		}
	}

	// Vivify the formula once every worker's own watches and root units are
	// in place, so probing a clause actually propagates against the rest of
	// the problem instead of against an empty index.
	derivedUnits := s.vivifyOriginal(crefs)
	for _, w := range s.workers {
		for _, u := range derivedUnits {
			switch w.trail.Value(u) {
			case LUndef:
				w.trail.Enqueue(u, CRefUndef)
			case LFalse:
				w.importUnsat = true
			}
		}
	}
	s.built = true
}

// vivifyOriginal runs the startup vivification pass: each worker probes a
// disjoint partition of the original clauses (crefs[i], crefs[i+n], ...)
// against its own, already fully-watched index for literals propagation
// alone already rules out, splicing any strictly shorter replacement into
// the clause's reference chain. ready and done are the two barriers that
// keep every worker's pass synchronized: all of them begin probing
// together, and none proceeds to ordinary search until every worker's
// probing has finished. Clauses vivified down to a single literal are
// returned as extra root-level units for the caller to enqueue.
func (s *Supervisor) vivifyOriginal(crefs []CRef) []Lit {
	if !s.cfg.EnableVivification || len(crefs) == 0 {
		return nil
	}
	n := len(s.workers)

	var ready, done, wg sync.WaitGroup
	ready.Add(n)
	done.Add(n)
	wg.Add(n)

	var mu sync.Mutex
	var derivedUnits []Lit

	for i, w := range s.workers {
		i, w := i, w
		go func() {
			defer wg.Done()
			ready.Done()
			ready.Wait() // barrier 1: every worker starts probing together

			for j := i; j < len(crefs); j += n {
				if unit, ok := s.vivifyOne(w, crefs[j]); ok {
					mu.Lock()
					derivedUnits = append(derivedUnits, unit)
					mu.Unlock()
				}
			}

			done.Done()
			done.Wait() // barrier 2: nobody proceeds until every pass is done
		}()
	}
	wg.Wait()
	return derivedUnits
}

// vivifyOne probes a single original clause with w's own vivifier, splicing
// a strictly shorter replacement into the arena when one is found. Only the
// probing worker's own watch index is updated to the replacement — its
// peers keep watching the longer original, which is still a logically valid
// (if less tight) clause, so nothing is lost for soundness, only for how
// aggressively every worker's propagation can use the result. A shrink down
// to one literal cannot be spliced as a clause (attach expects at least two
// literals), so the original is marked deleted, this worker drops its own
// watches on it, and the surviving literal is reported as a derived unit for
// every worker to enqueue instead.
func (s *Supervisor) vivifyOne(w *Worker, cref CRef) (unit Lit, isUnit bool) {
	view := s.arena.View(cref)
	lits := view.Lits()
	if len(lits) < 2 || len(lits) > s.cfg.VivifyMaxSize {
		return LitUndef, false
	}

	out, changed := w.vivify.Vivify(lits)
	w.counters.VivifyRuns.Add(1)
	if !changed || len(out) >= len(lits) || len(out) == 0 {
		return LitUndef, false
	}

	if len(out) == 1 {
		view.MarkDeleted()
		w.detach(cref, lits)
		w.counters.VivifyShrunk.Add(1)
		return out[0], true
	}

	newCref, err := s.arena.Alloc(w.cursor, KindPermanent, out)
	if err != nil {
		return LitUndef, false
	}
	change, ok := view.MarkReallocated(newCref)
	if !ok {
		return LitUndef, false
	}
	newView := s.arena.View(newCref)
	newView.correctRealloc(int(s.arena.numWorkers), change)
	newView.SetVivified()
	w.detach(cref, lits)
	w.attachLocal(newCref, newView.Lits())
	w.counters.VivifyShrunk.Add(1)
	return LitUndef, false
}

// Solve runs the configured number of workers until one finds the problem
// satisfiable or unsatisfiable, ctx is canceled, or the configured time
// limit elapses. The first worker to reach a definite answer cancels every
// other worker's context — a winner-takes-all handshake implemented with
// Go's own cancellation rather than the original's atomic flag pair, since
// a canceled context already is "finished + abort" in one value.
func (s *Supervisor) Solve(ctx context.Context) Result {
	s.mu.Lock()
	if !s.built {
		s.buildWorkers()
	}
	s.mu.Unlock()

	if s.cfg.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.TimeLimit)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([]Result, len(s.workers))

	winnerCtx, cancelWinner := context.WithCancel(gctx)
	defer cancelWinner()

	var once sync.Once
	var final Result
	record := func(r Result) {
		if r.Status == Unknown {
			return
		}
		once.Do(func() {
			final = r
			cancelWinner()
		})
	}

	for i, w := range s.workers {
		i, w := i, w
		g.Go(func() error {
			r := w.search(winnerCtx)
			results[i] = r
			record(r)
			return nil
		})
	}
	_ = g.Wait()

	agg := stats.Snapshot{}
	for _, c := range s.counters {
		agg = stats.Add(agg, c.Snapshot())
	}
	if s.metrics != nil {
		s.metrics.Update(agg)
	}

	if final.Status == Unknown {
		final = Result{Status: Unknown}
	}
	final.Stats = agg

	if final.Status == Sat {
		s.mu.Lock()
		s.lastModel = final.Model
		s.mu.Unlock()
	}

	return final
}

// Model returns the satisfying assignment from the most recent Solve call
// that returned Sat, or nil otherwise. Kept as a convenience accessor
// mirroring the external interface signature; callers that already hold
// the Result from Solve do not need it.
func (s *Supervisor) Model() []LBool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastModel
}

// EnableMetrics wires a stats.Registry (backed by a Prometheus registerer)
// to receive the aggregated snapshot after every Solve call.
func (s *Supervisor) EnableMetrics(reg *stats.Registry) {
	s.mu.Lock()
	s.metrics = reg
	s.mu.Unlock()
}
