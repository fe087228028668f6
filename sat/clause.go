package sat

import (
	"math"
	"sync/atomic"
)

// CRef is a 32-bit word offset into the shared arena. It is never a real
// pointer: Arena.View is the single well-typed place that turns one into
// a bounds-checked borrow of the arena's backing slice.
type CRef uint32

const (
	// CRefUndef marks "no clause".
	CRefUndef CRef = math.MaxUint32
	// CRefDel marks a deletion tombstone reachable via a replacement chain.
	CRefDel CRef = math.MaxUint32 - 1
)

// ValidCRef reports whether r addresses a real clause (neither sentinel).
func ValidCRef(r CRef) bool { return r != CRefUndef && r != CRefDel }

// ClauseKind discriminates the three clause lifetimes described in the data
// model: private clauses are single-owner, shared/permanent clauses carry
// an atomic reference/replacement state word.
type ClauseKind uint8

const (
	KindPrivate ClauseKind = iota
	KindShared
	KindPermanent
)

const (
	lbdBits     = 5
	sizeBits    = 23
	lbdMaxValue = (1 << lbdBits) - 1
	// lbdUndefMarker ("private, marked for deletion") is the same sentinel
	// the original Glucose/Sticky header uses: the top of the LBD range.
	lbdUndefMarker = lbdMaxValue
)

// header is the 32-bit clause header: kind (2 bits), replaced, vivified,
// lbd (5 bits), size (23 bits). It is stored as the first word of every
// clause's payload region.
type header uint32

func makeHeader(kind ClauseKind, lbd, size int) header {
	if lbd > lbdMaxValue {
		lbd = lbdMaxValue
	}
	return header(uint32(kind)&0x3) |
		header(uint32(lbd)&0x1f)<<4 |
		header(uint32(size)&0x7fffff)<<9
}

func (h header) kind() ClauseKind { return ClauseKind(h & 0x3) }
func (h header) replaced() bool   { return h&0x4 != 0 }
func (h header) vivified() bool   { return h&0x8 != 0 }
func (h header) lbd() int         { return int((h >> 4) & 0x1f) }
func (h header) size() int        { return int((h >> 9) & 0x7fffff) }

func (h header) withReplaced() header { return h | 0x4 }
func (h header) withVivified() header { return h | 0x8 }
func (h header) withLBD(lbd int) header {
	if lbd > lbdMaxValue {
		lbd = lbdMaxValue
	}
	return (h &^ 0x1f0) | header(uint32(lbd)&0x1f)<<4
}
func (h header) withSize(sz int) header {
	return (h &^ (0x7fffff << 9)) | header(uint32(sz)&0x7fffff)<<9
}

// isPrivDel reports the "private, marked for deletion" encoding: a private
// clause whose lbd field has been forced to the sentinel max value.
func (h header) isPrivDel() bool { return h.kind() == KindPrivate && h.lbd() == lbdUndefMarker }

// headerWords is the header's footprint in 32-bit arena words.
const headerWords = 1

// stateWords is the atomic reference/replacement word's footprint, present
// only for shared/permanent clauses.
const stateWords = 2 // one uint64, two uint32 arena slots

// refState packs the shared-clause atomic state word: refs (outstanding
// references) in the high 32 bits, replacement CRef in the low 32 bits.
// A single CAS on the uint64 is how markReallocated/markDeleted/dereference
// all make their transitions, matching the C++ original's
// ReferenceStateChange.
type refState uint64

func packRefState(refs int32, replacement CRef) refState {
	return refState(uint64(uint32(refs))<<32 | uint64(uint32(replacement)))
}

func (s refState) refs() int32          { return int32(uint32(s >> 32)) }
func (s refState) replacement() CRef     { return CRef(uint32(s)) }
func (s refState) isReallocated() bool   { return s.replacement() != CRefUndef }
func (s refState) shouldBeDeleted() bool { return s.replacement() == CRefDel }

// ClauseView is a bounds-checked borrow into the arena for one clause. It
// is a thin value type: all mutation goes through its methods, which index
// back into the owning Arena's backing storage.
type ClauseView struct {
	arena *Arena
	base  CRef // offset of the header word
}

func (c ClauseView) valid() bool { return c.arena != nil }

func (c ClauseView) h() header { return header(c.arena.word(c.base)) }

func (c ClauseView) setH(h header) { c.arena.setWord(c.base, uint32(h)) }

// Kind reports whether this clause is private, shared or permanent.
func (c ClauseView) Kind() ClauseKind { return c.h().kind() }

// Size reports the clause's literal count.
func (c ClauseView) Size() int { return c.h().size() }

// LBD reports the clause's literal block distance.
func (c ClauseView) LBD() int { return c.h().lbd() }

// SetLBD updates the LBD field in place.
func (c ClauseView) SetLBD(lbd int) { c.setH(c.h().withLBD(lbd)) }

// Vivified reports whether this clause has already been through
// vivification since its LBD last improved.
func (c ClauseView) Vivified() bool { return c.h().vivified() }

// SetVivified marks the clause as vivified.
func (c ClauseView) SetVivified() { c.setH(c.h().withVivified()) }

// Replaced reports whether a strictly shorter replacement has been spliced
// in ahead of this clause.
func (c ClauseView) Replaced() bool { return c.h().replaced() }

func (c ClauseView) setReplaced() { c.setH(c.h().withReplaced()) }

// IsPrivDel reports the "private, marked for deletion" header encoding.
func (c ClauseView) IsPrivDel() bool { return c.h().isPrivDel() }

// SetPrivDel marks a private clause for local deletion by forcing its LBD
// field to the sentinel value.
func (c ClauseView) SetPrivDel() { c.setH(c.h().withLBD(lbdUndefMarker)) }

func (c ClauseView) litsBase() CRef {
	if c.Kind() == KindPrivate {
		return c.base + headerWords
	}
	return c.base + headerWords + stateWords
}

// Lit returns the i'th literal of the clause.
func (c ClauseView) Lit(i int) Lit {
	return Lit(int32(c.arena.word(c.litsBase() + CRef(i))))
}

// setLit overwrites the i'th literal in place: used at allocation time, and
// again every time propagation relocates a watch onto a different literal
// of the clause, so the stored lits[0]/lits[1] always match what the watch
// index actually has registered.
func (c ClauseView) setLit(i int, l Lit) {
	c.arena.setWord(c.litsBase()+CRef(i), uint32(l))
}

// Lits copies out the clause's literals.
func (c ClauseView) Lits() []Lit {
	n := c.Size()
	out := make([]Lit, n)
	base := c.litsBase()
	for i := 0; i < n; i++ {
		out[i] = Lit(int32(c.arena.word(base + CRef(i))))
	}
	return out
}

// Contains reports whether l occurs in the clause.
func (c ClauseView) Contains(l Lit) bool {
	n := c.Size()
	base := c.litsBase()
	for i := 0; i < n; i++ {
		if Lit(int32(c.arena.word(base+CRef(i)))) == l {
			return true
		}
	}
	return false
}

// words returns the total arena-word footprint of a clause with the given
// kind and literal count, including the mandatory alignment pad requested
// up front (never added after the bump succeeds — see SPEC_FULL.md §3 on
// the allocator's conservative upper bound).
func clauseWords(kind ClauseKind, numLits int) int {
	n := headerWords + numLits
	if kind != KindPrivate {
		n += stateWords
		n++ // conservative alignment pad for the 64-bit state word
	}
	return n
}

// --- shared/permanent atomic state word -----------------------------------

func (c ClauseView) stateWord() *uint64 {
	// The state word occupies the two arena words immediately following
	// the header; reinterpret that 8-byte span as a single atomic uint64.
	return c.arena.wordPairAsUint64(c.base + headerWords)
}

func (c ClauseView) loadState() refState {
	return refState(atomic.LoadUint64(c.stateWord()))
}

// initState sets the initial (refs=n, replacement=Undef) state. Called once
// at allocation, before any other worker can observe the CRef.
func (c ClauseView) initState(n int32) {
	atomic.StoreUint64(c.stateWord(), uint64(packRefState(n, CRefUndef)))
}

// ReferenceStateChange mirrors the C++ ReferenceStateChange return value:
// the state observed immediately before (or after, depending on call) a
// CAS transition, so the caller can tell what happened without a second
// load.
type ReferenceStateChange struct {
	refs        int32
	replacement CRef
}

func (r ReferenceStateChange) Refs() int32            { return r.refs }
func (r ReferenceStateChange) Replacement() CRef       { return r.replacement }
func (r ReferenceStateChange) IsReallocated() bool     { return r.replacement != CRefUndef }
func (r ReferenceStateChange) ShouldBeDeleted() bool   { return r.replacement == CRefDel }
func (r ReferenceStateChange) IsFullyDereferenced() bool { return r.refs <= 0 }

// MarkReallocated splices a strictly shorter replacement into the chain.
// The CAS succeeds iff the current replacement is still CRefUndef; once it
// leaves CRefUndef it never returns, so a failed attempt here means someone
// else already replaced (or deleted) this clause first.
func (c ClauseView) MarkReallocated(replacement CRef) (ReferenceStateChange, bool) {
	word := c.stateWord()
	for {
		old := refState(atomic.LoadUint64(word))
		if old.isReallocated() {
			return ReferenceStateChange{old.refs(), old.replacement()}, false
		}
		next := packRefState(old.refs(), replacement)
		if atomic.CompareAndSwapUint64(word, uint64(old), uint64(next)) {
			c.setReplaced()
			return ReferenceStateChange{old.refs(), replacement}, true
		}
	}
}

// MarkDeleted is MarkReallocated(CRefDel): used when no strictly shorter
// replacement exists anywhere along the chain.
func (c ClauseView) MarkDeleted() bool {
	_, ok := c.MarkReallocated(CRefDel)
	return ok
}

// GetReplaceCRef returns the immediate successor in the replacement chain,
// or CRefUndef while live.
func (c ClauseView) GetReplaceCRef() CRef { return c.loadState().replacement() }

// NumRefs returns the current outstanding reference count.
func (c ClauseView) NumRefs() int32 { return c.loadState().refs() }

// ReferenceAdditional is called when a peer worker adopts a foreign CRef
// it did not itself allocate.
func (c ClauseView) ReferenceAdditional() {
	word := c.stateWord()
	for {
		old := refState(atomic.LoadUint64(word))
		next := packRefState(old.refs()+1, old.replacement())
		if atomic.CompareAndSwapUint64(word, uint64(old), uint64(next)) {
			return
		}
	}
}

// Dereference atomically decrements the reference count. When it brings
// refs to zero the caller must reclaim the clause's words from its bucket
// (Arena.Reclaim) and the clause's first literal is overwritten with
// LitUndef as an observable "dead" marker.
func (c ClauseView) Dereference() ReferenceStateChange {
	word := c.stateWord()
	for {
		old := refState(atomic.LoadUint64(word))
		next := packRefState(old.refs()-1, old.replacement())
		if atomic.CompareAndSwapUint64(word, uint64(old), uint64(next)) {
			if next.refs() <= 0 {
				c.setLit(0, LitUndef)
			}
			return ReferenceStateChange{next.refs(), next.replacement()}
		}
	}
}

// correctRealloc rebalances refs after a successful MarkReallocated: the
// replacement clause's refs are decremented so predecessor and successor
// hold the same outstanding count (N minus however many the predecessor had
// already shed).
func (c ClauseView) correctRealloc(numWorkers int, applied ReferenceStateChange) {
	delta := int32(numWorkers) - applied.refs
	if delta == 0 {
		return
	}
	word := c.stateWord()
	for {
		old := refState(atomic.LoadUint64(word))
		next := packRefState(old.refs()-delta, old.replacement())
		if atomic.CompareAndSwapUint64(word, uint64(old), uint64(next)) {
			return
		}
	}
}
