package sat

import "testing"

func TestHeaderPacksAndUnpacks(t *testing.T) {
	h := makeHeader(KindShared, 5, 12345)
	if h.kind() != KindShared {
		t.Errorf("kind() = %v, want KindShared", h.kind())
	}
	if h.lbd() != 5 {
		t.Errorf("lbd() = %d, want 5", h.lbd())
	}
	if h.size() != 12345 {
		t.Errorf("size() = %d, want 12345", h.size())
	}
	if h.replaced() || h.vivified() {
		t.Errorf("fresh header should not be replaced or vivified")
	}

	h2 := h.withReplaced().withVivified().withLBD(3)
	if !h2.replaced() || !h2.vivified() {
		t.Errorf("withReplaced/withVivified did not stick")
	}
	if h2.lbd() != 3 {
		t.Errorf("lbd() after withLBD = %d, want 3", h2.lbd())
	}
	if h2.size() != 12345 {
		t.Errorf("withLBD must not disturb size: got %d", h2.size())
	}
}

func TestPrivDelEncoding(t *testing.T) {
	h := makeHeader(KindPrivate, 0, 3)
	if h.isPrivDel() {
		t.Fatal("fresh private clause should not be marked deleted")
	}
	h = h.withLBD(lbdUndefMarker)
	if !h.isPrivDel() {
		t.Fatal("forcing lbd to the sentinel should mark private-deleted")
	}
	// A shared clause with the same LBD sentinel is not privately deleted;
	// its deletion state lives in the atomic refState instead.
	sh := makeHeader(KindShared, lbdUndefMarker, 3)
	if sh.isPrivDel() {
		t.Fatal("KindShared must never report isPrivDel")
	}
}

func TestRefStatePackUnpack(t *testing.T) {
	s := packRefState(4, CRefUndef)
	if s.refs() != 4 {
		t.Errorf("refs() = %d, want 4", s.refs())
	}
	if s.isReallocated() {
		t.Error("fresh state must not be reallocated")
	}

	s2 := packRefState(4, CRefDel)
	if !s2.isReallocated() || !s2.shouldBeDeleted() {
		t.Error("CRefDel replacement must report reallocated+shouldBeDeleted")
	}
}

func TestMarkReallocatedOnceOnly(t *testing.T) {
	a := NewArena(4096, 2)
	cur := NewBucketCursor()
	cref, err := a.Alloc(cur, KindShared, []Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	view := a.View(cref)

	replacement := CRef(999)
	change, ok := view.MarkReallocated(replacement)
	if !ok {
		t.Fatal("first MarkReallocated should succeed")
	}
	if change.Replacement() != replacement {
		t.Errorf("Replacement() = %v, want %v", change.Replacement(), replacement)
	}
	if !view.Replaced() {
		t.Error("header replaced bit should be set after MarkReallocated")
	}

	_, ok = view.MarkReallocated(CRef(1000))
	if ok {
		t.Fatal("second MarkReallocated must fail: replacement chain is one-shot")
	}
	if view.GetReplaceCRef() != replacement {
		t.Errorf("GetReplaceCRef() = %v, want the first replacement %v", view.GetReplaceCRef(), replacement)
	}
}

func TestDereferenceMarksDeadOnZero(t *testing.T) {
	a := NewArena(4096, 1)
	cur := NewBucketCursor()
	cref, err := a.Alloc(cur, KindShared, []Lit{MkLit(0, false), MkLit(1, false)})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	view := a.View(cref)
	if view.NumRefs() != 1 {
		t.Fatalf("NumRefs() = %d, want 1", view.NumRefs())
	}
	change := view.Dereference()
	if !change.IsFullyDereferenced() {
		t.Fatal("expected full dereference at refs=1 -> 0")
	}
	if view.Lit(0) != LitUndef {
		t.Errorf("Lit(0) after full dereference = %v, want LitUndef", view.Lit(0))
	}
}
