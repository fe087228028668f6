package sat

import "testing"

func TestAttachDetachBinary(t *testing.T) {
	w := NewWatchIndex(4)
	a := MkLit(0, false)
	b := MkLit(1, true)
	cref := CRef(7)

	w.AttachBinary(cref, a, b)
	if len(w.Binary(a)) != 1 {
		t.Fatalf("expected one watch on a, got %d", len(w.Binary(a)))
	}
	if len(w.Binary(b)) != 1 {
		t.Fatalf("expected one watch on b, got %d", len(w.Binary(b)))
	}
	if w.Binary(a)[0].Blocker != b {
		t.Errorf("blocker on a's watch = %v, want %v", w.Binary(a)[0].Blocker, b)
	}

	w.DetachBinary(cref, a, b)
	if len(w.Binary(a)) != 0 || len(w.Binary(b)) != 0 {
		t.Fatal("DetachBinary left dangling watch entries")
	}
}

func TestAttachTwoAndOne(t *testing.T) {
	w := NewWatchIndex(4)
	lits := []Lit{MkLit(0, false), MkLit(1, false), MkLit(2, false)}
	cref := CRef(42)

	w.AttachTwo(cref, lits[0], lits[1], lits[1], lits[0])
	if len(w.Two(lits[0])) != 1 || len(w.Two(lits[1])) != 1 {
		t.Fatal("AttachTwo must register a watch on both chosen literals")
	}

	w.AttachOne(cref, lits[2], lits[0])
	if len(w.One(lits[2])) != 1 {
		t.Fatal("AttachOne must register exactly one watch")
	}

	w.DetachOne(cref, lits[2])
	if len(w.One(lits[2])) != 0 {
		t.Fatal("DetachOne left a dangling entry")
	}
}

func TestDetachTwoRemovesBothWatchedLiterals(t *testing.T) {
	w := NewWatchIndex(4)
	lits := []Lit{MkLit(0, false), MkLit(1, false)}
	cref := CRef(11)

	w.AttachTwo(cref, lits[0], lits[1], lits[1], lits[0])
	w.DetachTwo(cref, lits[0], lits[1])

	if len(w.Two(lits[0])) != 0 || len(w.Two(lits[1])) != 0 {
		t.Fatal("DetachTwo left dangling watch entries")
	}
}
