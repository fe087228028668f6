package sat

// BinaryWatch records that clause cref is a binary clause containing l,
// and "blocker" is its other literal: when l is falsified, checking blocker
// first lets propagation skip a read of the clause entirely if blocker is
// already true. Indexed by l itself, the literal propagation just falsified.
type BinaryWatch struct {
	Blocker Lit
	CRef    CRef
}

// Watch is a two-watched-literal entry: cref is watched on l (one of its
// first two literals), blocker is the clause's other watched literal, used
// the same way as in BinaryWatch to short-circuit re-reading the clause.
// Indexed by l itself, the literal propagation just falsified.
type Watch struct {
	CRef    CRef
	Blocker Lit
}

// OneWatch is a one-watched entry for clauses long enough that the database
// has decided a single watch suffices (commonly: very large learned
// clauses, watched only to detect when they become unit or falsified,
// traded for a fuller pass at propagation time). Removed reports a
// tombstoned entry pending compaction.
type OneWatch struct {
	CRef    CRef
	Blocker Lit
	Removed bool
}

// WatchIndex is the three-tier watch structure: binary clauses are
// propagated first and cheapest, then two-watched clauses, then
// one-watched clauses, mirroring the original's BINARY → TWO → ONE
// propagation order (ClauseWatcher.h).
type WatchIndex struct {
	binary [][]BinaryWatch // indexed by Lit l: watches triggered when l is falsified
	two    [][]Watch
	one    [][]OneWatch
}

// NewWatchIndex allocates a watch index sized for numVars variables (two
// literals per variable).
func NewWatchIndex(numVars int) *WatchIndex {
	n := numVars * 2
	return &WatchIndex{
		binary: make([][]BinaryWatch, n),
		two:    make([][]Watch, n),
		one:    make([][]OneWatch, n),
	}
}

// Grow extends the index to cover a newly introduced variable.
func (w *WatchIndex) Grow(numVars int) {
	n := numVars * 2
	for len(w.binary) < n {
		w.binary = append(w.binary, nil)
		w.two = append(w.two, nil)
		w.one = append(w.one, nil)
	}
}

// AttachBinary registers a binary clause on both of its literals' watch
// lists, indexed by the literal itself: propagation looks a list up by the
// literal that was just falsified, so that is the index a watch for a
// clause containing that literal must live at.
func (w *WatchIndex) AttachBinary(cref CRef, a, b Lit) {
	w.binary[a] = append(w.binary[a], BinaryWatch{Blocker: b, CRef: cref})
	w.binary[b] = append(w.binary[b], BinaryWatch{Blocker: a, CRef: cref})
}

// AttachTwo registers a clause's two chosen watched literals: each watch's
// entry carries the OTHER watched literal as its blocker, so propagation can
// skip a clause read when the blocker is already satisfied.
func (w *WatchIndex) AttachTwo(cref CRef, watch0, watch1, blocker0, blocker1 Lit) {
	w.two[watch0] = append(w.two[watch0], Watch{CRef: cref, Blocker: blocker0})
	w.two[watch1] = append(w.two[watch1], Watch{CRef: cref, Blocker: blocker1})
}

// AttachOne registers a single watch for a one-watched clause.
func (w *WatchIndex) AttachOne(cref CRef, watch, blocker Lit) {
	w.one[watch] = append(w.one[watch], OneWatch{CRef: cref, Blocker: blocker})
}

// DetachBinary removes a binary clause's watch entries from both of its
// literals, by swap-with-last — watch list order carries no meaning so
// this keeps removal O(1) instead of O(n) shifting.
func (w *WatchIndex) DetachBinary(cref CRef, a, b Lit) {
	removeBinary(w.binary, a, cref)
	removeBinary(w.binary, b, cref)
}

func removeBinary(lists [][]BinaryWatch, at Lit, cref CRef) {
	list := lists[at]
	for i, e := range list {
		if e.CRef == cref {
			list[i] = list[len(list)-1]
			lists[at] = list[:len(list)-1]
			return
		}
	}
}

// DetachTwo removes a two-watched clause's entries from both of its
// currently watched literals. Callers must pass the literals the clause is
// presently watched on (its stored lits[0]/lits[1], kept in sync with the
// watch lists by propagation's relocation swap), not necessarily its
// original allocation-time pair.
func (w *WatchIndex) DetachTwo(cref CRef, a, b Lit) {
	removeTwo(w.two, a, cref)
	removeTwo(w.two, b, cref)
}

func removeTwo(lists [][]Watch, at Lit, cref CRef) {
	list := lists[at]
	for i, e := range list {
		if e.CRef == cref {
			list[i] = list[len(list)-1]
			lists[at] = list[:len(list)-1]
			return
		}
	}
}

// DetachOne removes a one-watched clause's entry.
func (w *WatchIndex) DetachOne(cref CRef, watch Lit) {
	list := w.one[watch]
	for i, e := range list {
		if e.CRef == cref {
			list[i] = list[len(list)-1]
			w.one[watch] = list[:len(list)-1]
			return
		}
	}
}

// Binary returns the binary-clause watch list for literal l falsified.
func (w *WatchIndex) Binary(l Lit) []BinaryWatch { return w.binary[l] }

// Two returns the two-watched-literal watch list for literal l falsified.
func (w *WatchIndex) Two(l Lit) []Watch { return w.two[l] }

// SetTwo replaces the watch list for l wholesale, used by propagation to
// write back the compacted list after moving some watches elsewhere.
func (w *WatchIndex) SetTwo(l Lit, list []Watch) { w.two[l] = list }

// One returns the one-watched clause watch list for literal l falsified.
func (w *WatchIndex) One(l Lit) []OneWatch { return w.one[l] }

// SetOne replaces the one-watched list for l wholesale.
func (w *WatchIndex) SetOne(l Lit, list []OneWatch) { w.one[l] = list }
