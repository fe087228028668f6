package sat

import (
	"sync"
	"unsafe"
)

// noBucket marks "no current bucket yet" in a BucketCursor.
const noBucket uint32 = 0xffffffff

// BucketCursor is the per-worker, per-clause-kind allocation context: "each
// worker has a current bucket id per clause kind" (data model §3). It holds
// no locks; the only shared mutable state it touches is the Arena's
// free-bucket stack, and only when the current bucket is exhausted.
type BucketCursor struct {
	current [3]uint32 // indexed by ClauseKind
}

func NewBucketCursor() *BucketCursor {
	return &BucketCursor{current: [3]uint32{noBucket, noBucket, noBucket}}
}

// Arena is the shared, bucketed clause store. CRefs are offsets into a
// logical flat address space of bucketWords-sized slabs; no CRef ever moves
// once allocated (§4.1 rationale), so replication-by-handle across workers
// never needs a stop-the-world pause.
type Arena struct {
	bucketWords uint32
	numWorkers  int32

	mu      sync.Mutex // guards buckets growth and the free stack
	buckets []*bucket
	free    []uint32
}

// NewArena creates an arena with buckets of bucketBytes each (rounded down
// to a whole number of 32-bit words, forced even for 8-byte alignment).
func NewArena(bucketBytes int, numWorkers int) *Arena {
	words := uint32(bucketBytes / 4)
	if words%2 != 0 {
		words--
	}
	if words < 64 {
		words = 64
	}
	return &Arena{bucketWords: words, numWorkers: int32(numWorkers)}
}

func (a *Arena) split(cref CRef) (bucketID uint32, offset uint32) {
	return uint32(cref) / a.bucketWords, uint32(cref) % a.bucketWords
}

func (a *Arena) word(cref CRef) uint32 {
	bid, off := a.split(cref)
	return a.buckets[bid].words[off]
}

func (a *Arena) setWord(cref CRef, v uint32) {
	bid, off := a.split(cref)
	a.buckets[bid].words[off] = v
}

// wordPairAsUint64 views the two arena words starting at cref as a single
// atomic uint64; cref must be 8-byte aligned (an even offset within an
// even-sized bucket), which Arena.alloc guarantees for every shared or
// permanent clause's state word.
func (a *Arena) wordPairAsUint64(cref CRef) *uint64 {
	bid, off := a.split(cref)
	b := a.buckets[bid]
	return &b.backing[off/2]
}

// getNewBucket pops a free bucket id, or grows the arena by one bucket.
func (a *Arena) getNewBucket() uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	if n := len(a.free); n > 0 {
		id := a.free[n-1]
		a.free = a.free[:n-1]
		a.buckets[id].reset()
		return id
	}
	a.buckets = append(a.buckets, newBucket(a.bucketWords))
	return uint32(len(a.buckets) - 1)
}

// returnBucket pushes a bucket back onto the free stack once it has become
// completely wasted.
func (a *Arena) returnBucket(id uint32) {
	a.mu.Lock()
	a.free = append(a.free, id)
	a.mu.Unlock()
}

// NumFreeBuckets reports the current size of the free-bucket stack.
func (a *Arena) NumFreeBuckets() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.free)
}

// NumBuckets reports how many buckets the arena has ever allocated.
func (a *Arena) NumBuckets() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.buckets)
}

// View returns a bounds-checked ClauseView for cref. Callers must not hold
// a ClauseView across a point where the clause could have been reclaimed
// (i.e. after dropping their last reference).
func (a *Arena) View(cref CRef) ClauseView {
	return ClauseView{arena: a, base: cref}
}

// alignAndPlace reports, for a clause beginning at a raw bump offset, how
// many leading pad words are needed so the shared/permanent state word
// lands on an 8-byte boundary, and how many words end up wasted either way
// — see SPEC_FULL.md §3 for why the pad is always requested up front.
func (a *Arena) alignAndPlace(kind ClauseKind, rawOff, reserved uint32, used uint32) (base uint32, wasted uint32) {
	if kind == KindPrivate {
		return rawOff, 0
	}
	x := rawOff + headerWords
	if x%2 != 0 {
		return rawOff + 1, 1
	}
	return rawOff, reserved - used
}

// Alloc bump-allocates a new clause of the given kind and literals in the
// caller's current bucket for that kind, acquiring a fresh bucket on
// overflow. It returns ErrOutOfMemory only when the clause does not fit in
// a single bucket; otherwise the arena adds a new bucket whenever its
// free-bucket stack is empty, so allocation is not bounded by a memory cap.
func (a *Arena) Alloc(cur *BucketCursor, kind ClauseKind, lits []Lit) (CRef, error) {
	reserved := uint32(clauseWords(kind, len(lits)))
	used := uint32(headerWords + len(lits))
	if kind != KindPrivate {
		used += stateWords
	}
	if reserved > a.bucketWords {
		return CRefUndef, newError("arena", "Alloc", ErrOutOfMemory)
	}

	for {
		bid := cur.current[kind]
		if bid == noBucket {
			bid = a.getNewBucket()
			cur.current[kind] = bid
		}
		b := a.buckets[bid]
		rawOff, ok := b.alloc(reserved)
		if !ok {
			b.wasteRest()
			if b.isCompletelyWasted() {
				a.returnBucket(bid)
			}
			cur.current[kind] = noBucket
			continue
		}

		base, wasted := a.alignAndPlace(kind, rawOff, reserved, used)
		if wasted > 0 {
			b.remove(wasted)
		}

		globalBase := CRef(bid)*CRef(a.bucketWords) + CRef(base)
		h := makeHeader(kind, lbdUndefMarker, len(lits))
		a.setWord(globalBase, uint32(h))
		view := a.View(globalBase)
		for i, l := range lits {
			view.setLit(i, l)
		}
		if kind != KindPrivate {
			view.initState(a.numWorkers)
		}
		return globalBase, nil
	}
}

// Reclaim returns a removed clause's words to its bucket's waste counter,
// recycling the bucket to the free stack if it becomes completely wasted.
// Called once a shared/permanent clause's refs hit zero, or when a private
// clause is dropped at reduce.
func (a *Arena) Reclaim(cref CRef, numWords int) {
	bid, _ := a.split(cref)
	b := a.buckets[bid]
	b.remove(uint32(numWords))
	if b.isCompletelyWasted() {
		a.returnBucket(bid)
	}
}

// WordsFor reports the arena footprint of a clause view, for callers that
// need it at reclaim time after having already read Size()/Kind().
func WordsFor(kind ClauseKind, numLits int) int { return clauseWords(kind, numLits) }

var _ = unsafe.Sizeof(uint64(0)) // documents the alignment assumption above
