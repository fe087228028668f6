package sat

import "testing"

func TestArenaAllocRoundTrips(t *testing.T) {
	a := NewArena(4096, 1)
	cur := NewBucketCursor()

	lits := []Lit{MkLit(0, false), MkLit(1, true), MkLit(2, false)}
	cref, err := a.Alloc(cur, KindPrivate, lits)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	view := a.View(cref)
	if view.Kind() != KindPrivate {
		t.Fatalf("Kind() = %v, want KindPrivate", view.Kind())
	}
	if view.Size() != len(lits) {
		t.Fatalf("Size() = %d, want %d", view.Size(), len(lits))
	}
	got := view.Lits()
	for i, l := range lits {
		if got[i] != l {
			t.Errorf("Lits()[%d] = %v, want %v", i, got[i], l)
		}
	}
}

func TestArenaSharedStateWordAligned(t *testing.T) {
	a := NewArena(4096, 3)
	cur := NewBucketCursor()

	lits := []Lit{MkLit(0, false), MkLit(1, true)}
	cref, err := a.Alloc(cur, KindShared, lits)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	view := a.View(cref)
	if view.NumRefs() != 3 {
		t.Fatalf("NumRefs() = %d, want 3", view.NumRefs())
	}

	word := view.stateWord()
	bid, off := a.split(cref + headerWords)
	if off%2 != 0 {
		t.Fatalf("state word offset %d in bucket %d is not 8-byte aligned", off, bid)
	}
	if word == nil {
		t.Fatal("stateWord() returned nil")
	}
}

func TestArenaAllocFailsWhenClauseExceedsBucket(t *testing.T) {
	a := NewArena(256, 1) // 64 words, forced up to 64 minimum
	cur := NewBucketCursor()

	huge := make([]Lit, 1000)
	for i := range huge {
		huge[i] = MkLit(Var(i), false)
	}
	if _, err := a.Alloc(cur, KindPrivate, huge); err == nil {
		t.Fatal("expected an error allocating a clause larger than one bucket")
	}
}

func TestArenaGetNewBucketGrowsAndRecycles(t *testing.T) {
	a := NewArena(256, 1)
	before := a.NumBuckets()
	id := a.getNewBucket()
	if a.NumBuckets() != before+1 {
		t.Fatalf("NumBuckets() = %d, want %d", a.NumBuckets(), before+1)
	}
	a.returnBucket(id)
	if a.NumFreeBuckets() != 1 {
		t.Fatalf("NumFreeBuckets() = %d, want 1", a.NumFreeBuckets())
	}
	// A second getNewBucket should recycle rather than grow.
	id2 := a.getNewBucket()
	if id2 != id {
		t.Fatalf("getNewBucket() = %d, want recycled id %d", id2, id)
	}
	if a.NumBuckets() != before+1 {
		t.Fatalf("NumBuckets() grew on recycle: %d", a.NumBuckets())
	}
}
