package sat

import (
	"context"

	"github.com/xDarkicex/parasat/internal/stats"
	"github.com/xDarkicex/parasat/share"
)

// peerRing is one other worker's outbound sharing channels, from this
// worker's point of view as a reader.
type peerRing struct {
	clauses     *share.Ring[CRef]
	units       *share.Ring[Lit]
	clauseCur   share.Cursor
	unitCur     share.Cursor
}

// Worker is one CDCL search thread's private view over the shared arena:
// its own trail, watch index, heuristic state and local clause database,
// all indexing into clause payloads that live in the Arena and may be
// concurrently read (never mutated in place) by every other worker.
type Worker struct {
	id  int
	cfg Config

	arena   *Arena
	cursor  *BucketCursor
	trail   *Trail
	watches *WatchIndex
	heur    *VSIDS
	analyze *Analyzer
	db      *Database
	restart Restarter
	vivify  *Vivifier
	pool    *workerPool

	counters *stats.Counters

	outClauses *share.Ring[CRef]
	outUnits   *share.Ring[Lit]
	peers      []*peerRing

	numVars   int
	conflicts int64

	// importUnsat is set by importShared when a clause adopted from a peer
	// is falsified with no level left to backtrack to: an unconditional
	// proof of unsatisfiability discovered off the normal conflict path.
	// The supervisor sets it too when two root-level units contradict.
	importUnsat bool

	// permanent holds the CRefs of the original problem's clauses and any
	// clause promoted to the permanent tier; they are never reduced.
	permanent []CRef

	// rootUnits is not populated: the supervisor enqueues root-level units
	// directly on the trail at decision level 0, and restarts, which only
	// backtrack to level 0, leave them assigned.
	rootUnits []Lit
}

// NewWorker builds a worker sharing arena and counters with its siblings,
// but owning every other piece of per-thread search state.
func NewWorker(id int, cfg Config, arena *Arena, numVars int, counters *stats.Counters) *Worker {
	w := &Worker{
		id:       id,
		cfg:      cfg,
		arena:    arena,
		cursor:   NewBucketCursor(),
		trail:    NewTrail(numVars),
		watches:  NewWatchIndex(numVars),
		heur:     NewVSIDS(numVars, cfg.VarDecay),
		pool:     newWorkerPool(),
		counters: counters,
		numVars:  numVars,
	}
	w.analyze = NewAnalyzer(arena, w.trail, w.heur, numVars)
	w.db = NewDatabase(cfg)
	w.vivify = NewVivifier(w.trail, w.propagate)
	if cfg.RestartStrategy == RestartLuby {
		w.restart = NewLubyRestart(cfg.LubyBase)
	} else {
		w.restart = NewGlucoseRestart(cfg.GlucoseK, cfg.BlockingRestarts, w.trail.Len)
	}
	return w
}

// Grow extends every per-variable structure to cover newly introduced
// variables.
func (w *Worker) Grow(numVars int) {
	w.numVars = numVars
	w.trail.Grow(numVars)
	w.watches.Grow(numVars)
	w.heur.Grow(numVars)
	w.analyze.Grow(numVars)
}

// AttachPeers registers the rings of every other worker this one should
// import shared clauses and units from.
func (w *Worker) AttachPeers(peers []*peerRing) { w.peers = peers }

// AddOriginalClause attaches a problem clause (already allocated in the
// arena as permanent) to this worker's own watch lists. Every worker
// attaches its own watches over the same shared literals, since watch
// lists are per-thread search structure, not shared state (§3).
func (w *Worker) AddOriginalClause(cref CRef) {
	view := w.arena.View(cref)
	lits := view.Lits()
	w.permanent = append(w.permanent, cref)
	w.attachLocal(cref, lits)
}

// attachLocal attaches a clause this worker owns outright — an original
// problem clause, or one it just derived itself in search() — to the
// binary/two-watch tiers. Local clauses are never one-watched: one-watch
// trades cheaper bookkeeping for a fuller scan on every trigger, a trade
// only worth making for a clause the worker did not choose to derive and
// may never touch again (an imported one).
func (w *Worker) attachLocal(cref CRef, lits []Lit) {
	switch {
	case len(lits) == 2:
		w.watches.AttachBinary(cref, lits[0], lits[1])
	case len(lits) >= 2:
		w.watches.AttachTwo(cref, lits[0], lits[1], lits[1], lits[0])
	}
}

// attachImported attaches a clause adopted from a peer worker's sharing
// ring. Long imported clauses are one-watch eligible.
func (w *Worker) attachImported(cref CRef, lits []Lit) {
	switch {
	case len(lits) == 2:
		w.watches.AttachBinary(cref, lits[0], lits[1])
	case len(lits) >= w.cfg.OneWatchMinSize:
		w.watches.AttachOne(cref, lits[0], LitUndef)
	case len(lits) >= 2:
		w.watches.AttachTwo(cref, lits[0], lits[1], lits[1], lits[0])
	}
}

// propagate runs unit propagation to a fixpoint, in binary → two-watched →
// one-watched order (§4.3), returning the conflicting clause's CRef or
// CRefUndef.
func (w *Worker) propagate() CRef {
	for w.trail.QHead() < w.trail.Len() {
		l := w.trail.Dequeue()
		w.counters.Propagations.Add(1)
		falsified := l.Neg() // watches are indexed by the literal that, once false, must react

		if confl := w.propagateBinary(falsified); ValidCRef(confl) {
			return confl
		}
		if confl := w.propagateTwo(falsified); ValidCRef(confl) {
			return confl
		}
		if confl := w.propagateOne(falsified); ValidCRef(confl) {
			return confl
		}
	}
	return CRefUndef
}

func (w *Worker) propagateBinary(falsified Lit) CRef {
	for _, bw := range w.watches.Binary(falsified) {
		val := w.trail.Value(bw.Blocker)
		if val == LTrue {
			continue
		}
		if val == LFalse {
			return bw.CRef
		}
		w.trail.Enqueue(bw.Blocker, bw.CRef)
	}
	return CRefUndef
}

func (w *Worker) propagateTwo(falsified Lit) CRef {
	list := w.watches.Two(falsified)
	kept := list[:0]
	conflict := CRefUndef

	for i := 0; i < len(list); i++ {
		entry := list[i]
		if w.trail.Value(entry.Blocker) == LTrue {
			kept = append(kept, entry)
			continue
		}

		view := w.arena.View(entry.CRef)
		lits := view.Lits()
		// Normalize so lits[0] is the falsified watch.
		if lits[0] != falsified {
			lits[0], lits[1] = lits[1], lits[0]
			view.setLit(0, lits[0])
			view.setLit(1, lits[1])
		}

		foundNew := false
		for k := 2; k < len(lits); k++ {
			if w.trail.Value(lits[k]) != LFalse {
				newWatch := lits[k]
				// Persist the swap into the clause's own storage so its
				// stored lits[0]/lits[1] always match what's watched —
				// Lits() only copies out, it never aliases the arena.
				view.setLit(0, newWatch)
				view.setLit(k, falsified)
				w.watches.two[newWatch] = append(w.watches.two[newWatch], Watch{CRef: entry.CRef, Blocker: lits[1]})
				foundNew = true
				break
			}
		}
		if foundNew {
			continue
		}

		kept = append(kept, entry)
		if w.trail.Value(lits[1]) == LFalse {
			conflict = entry.CRef
			// Copy the remaining entries verbatim and stop scanning; the
			// caller will restore qhead so propagation halts on conflict.
			for j := i + 1; j < len(list); j++ {
				kept = append(kept, list[j])
			}
			w.watches.SetTwo(falsified, kept)
			return conflict
		}
		w.trail.Enqueue(lits[1], entry.CRef)
	}
	w.watches.SetTwo(falsified, kept)
	return conflict
}

func (w *Worker) propagateOne(falsified Lit) CRef {
	list := w.watches.One(falsified)
	kept := list[:0]
	conflict := CRefUndef

	for i := 0; i < len(list); i++ {
		entry := list[i]
		if entry.Removed {
			continue
		}
		view := w.arena.View(entry.CRef)
		lits := view.Lits()

		unassignedCount := 0
		unassignedIdx := -1
		satisfied := false
		for k, l := range lits {
			switch w.trail.Value(l) {
			case LTrue:
				satisfied = true
			case LUndef:
				unassignedCount++
				unassignedIdx = k
			}
		}
		if satisfied {
			kept = append(kept, entry)
			continue
		}
		if unassignedCount == 0 {
			conflict = entry.CRef
			kept = append(kept, entry)
			for j := i + 1; j < len(list); j++ {
				kept = append(kept, list[j])
			}
			w.watches.SetOne(falsified, kept)
			return conflict
		}
		if unassignedCount == 1 {
			w.trail.Enqueue(lits[unassignedIdx], entry.CRef)
			kept = append(kept, entry)
			continue
		}
		// Two or more literals remain unassigned: relocate off falsified
		// onto one of them instead of staying parked here, mirroring
		// propagateTwo's relocation swap. The stored lits[0] is kept in
		// sync with what's actually watched so a later detach finds the
		// clause on the right list.
		newWatch := lits[unassignedIdx]
		view.setLit(0, newWatch)
		view.setLit(unassignedIdx, falsified)
		w.watches.one[newWatch] = append(w.watches.one[newWatch], OneWatch{CRef: entry.CRef, Blocker: entry.Blocker})
	}
	w.watches.SetOne(falsified, kept)
	return conflict
}

// search is one worker's CDCL main loop: propagate, analyze on conflict,
// learn, backjump, otherwise restart or decide — running until ctx is
// canceled, the formula is proven satisfiable/unsatisfiable, or the
// worker runs out of decision variables.
func (w *Worker) search(ctx context.Context) Result {
	for {
		if ctx.Err() != nil {
			return Result{Status: Unknown}
		}

		confl := w.propagate()
		if ValidCRef(confl) {
			w.counters.Conflicts.Add(1)
			w.conflicts++

			if w.trail.Decide() == 0 {
				return Result{Status: Unsat}
			}

			learnt, level, lbd, touched := w.analyze.Analyze(confl)
			w.trail.Backtrack(level)

			for _, tcref := range touched {
				w.db.BumpActivity(tcref, clauseActivityBump)
				tview := w.arena.View(tcref)
				if newLBD := w.analyze.computeLBD(tview.Lits()); newLBD < tview.LBD() {
					tview.SetLBD(newLBD)
					w.db.ImproveLBD(tcref, newLBD)
				}
			}

			w.counters.LearnedClauses.Add(1)
			w.counters.LBDSum.Add(int64(lbd))
			if lbd <= 2 {
				w.counters.GlueClauses.Add(1)
			}

			if len(learnt) == 1 {
				w.trail.Enqueue(learnt[0], CRefUndef)
			} else {
				kind := KindShared
				if lbd <= w.cfg.TierLBDPermanent && len(learnt) <= w.cfg.TierSizePermanent {
					kind = KindPermanent
				}
				cref, err := w.arena.Alloc(w.cursor, kind, learnt)
				if err == nil {
					view := w.arena.View(cref)
					view.SetLBD(lbd)
					w.attachLocal(cref, learnt)
					tier := w.db.Add(cref, lbd, len(learnt), w.conflicts)
					if tier == TierCore {
						w.permanent = append(w.permanent, cref)
					}
					w.trail.Enqueue(learnt[0], cref)
					if shareable(w.cfg, lbd, len(learnt)) && w.outClauses != nil {
						w.outClauses.Push(cref)
					}
				}
			}

			w.heur.Decay()
			if w.restart.OnConflict(lbd) {
				w.counters.Restarts.Add(1)
				w.restart.OnRestart()
				w.trail.Backtrack(0)
			}

			if w.trail.Decide() == 0 {
				w.db.PromoteAged(w.conflicts)
				if w.db.ShouldReduce() {
					w.reduce()
				}
			}
			continue
		}

		w.importShared()
		if w.importUnsat {
			return Result{Status: Unsat}
		}

		if w.trail.Len() == w.numVars {
			model := make([]LBool, w.numVars)
			for v := 0; v < w.numVars; v++ {
				model[v] = w.trail.VarValue(Var(v))
			}
			return Result{Status: Sat, Model: model}
		}

		v := w.heur.Pick(func(v Var) bool { return w.trail.VarValue(v) != LUndef })
		if v == VarUndef {
			model := make([]LBool, w.numVars)
			for vv := 0; vv < w.numVars; vv++ {
				model[vv] = w.trail.VarValue(Var(vv))
			}
			return Result{Status: Sat, Model: model}
		}
		w.counters.Decisions.Add(1)
		sign := !w.trail.Polarity(v)
		w.trail.NewDecisionLevel()
		w.trail.Enqueue(MkLit(v, sign), CRefUndef)
	}
}

// reduce asks the local database which clauses to evict, dereferences them
// in the arena, and detaches any that drop to zero references.
func (w *Worker) reduce() {
	victims := w.db.Reduce()
	w.counters.DeletedClauses.Add(int64(len(victims)))
	for _, cref := range victims {
		view := w.arena.View(cref)
		lits := view.Lits()
		w.detach(cref, lits)
		change := view.Dereference()
		if change.IsFullyDereferenced() {
			w.arena.Reclaim(cref, WordsFor(view.Kind(), len(lits)))
		}
	}
}

// detach removes a clause's binary or two-watch entries; one-watch entries
// are not removed. Its callers, reduce() over db-tracked crefs and
// Supervisor.vivifyOne over original clauses, only pass clauses attached
// through attachLocal, which never one-watches — see attachLocal.
func (w *Worker) detach(cref CRef, lits []Lit) {
	switch {
	case len(lits) == 2:
		w.watches.DetachBinary(cref, lits[0], lits[1])
	case len(lits) >= 2:
		w.watches.DetachTwo(cref, lits[0], lits[1])
	}
}

// importShared drains every peer's clause and unit rings, attaching newly
// seen shared clauses to this worker's own watch lists and enqueuing each
// shared unit that is still unassigned here. Units are enqueued at the
// current decision level, so a later backtrack below that level unassigns
// them again. A clause imported while
// already falsified under this worker's own (possibly much deeper) trail is
// reconciled immediately via reconcileImported, never left silently
// violated until some unrelated future propagation happens to revisit it.
func (w *Worker) importShared() {
	for _, p := range w.peers {
		crefs := w.pool.getCRefs()
		var dropped int
		crefs, p.clauseCur, dropped = p.clauses.Drain(p.clauseCur, crefs)
		if dropped > 0 {
			w.counters.DroppedShared.Add(int64(dropped))
		}
		for _, cref := range crefs {
			view := w.arena.View(cref)
			if view.Replaced() || view.IsPrivDel() {
				continue
			}
			view.ReferenceAdditional()
			lits := view.Lits()
			w.attachImported(cref, lits)
			w.counters.ImportedShared.Add(1)
			if w.reconcileImported(cref, lits) {
				w.importUnsat = true
			}
		}
		w.pool.putCRefs(crefs)

		lits := w.pool.getLits()
		lits, p.unitCur, dropped = p.units.Drain(p.unitCur, lits)
		if dropped > 0 {
			w.counters.DroppedShared.Add(int64(dropped))
		}
		for _, l := range lits {
			if w.trail.Value(l) == LUndef {
				w.trail.Enqueue(l, CRefUndef)
				w.counters.ImportedUnits.Add(1)
			}
		}
		w.pool.putLits(lits)
	}
}

// reconcileImported restores the propagation invariant for a clause
// imported mid-search, whose literals this worker may already have
// assigned under its own trail by the time the import lands: it enqueues
// the sole surviving literal if the clause is now unit under the current
// trail, or backtracks to revive an unassigned literal if the clause is
// fully falsified. It reports true only when the clause is falsified with
// no level left to backtrack to — an unconditional proof of
// unsatisfiability found off the normal conflict-analysis path.
func (w *Worker) reconcileImported(cref CRef, lits []Lit) bool {
	unassignedCount := 0
	unassigned := LitUndef
	maxFalseLevel := -1
	for _, l := range lits {
		switch w.trail.Value(l) {
		case LTrue:
			return false
		case LUndef:
			unassignedCount++
			unassigned = l
		default:
			if lvl := w.trail.Level(l.Var()); lvl > maxFalseLevel {
				maxFalseLevel = lvl
			}
		}
	}
	if unassignedCount == 1 {
		w.trail.Enqueue(unassigned, cref)
		return false
	}
	if unassignedCount > 1 {
		return false
	}
	if maxFalseLevel <= 0 {
		return true
	}
	w.trail.Backtrack(maxFalseLevel - 1)
	return false
}
