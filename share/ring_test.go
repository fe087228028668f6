package share

import "testing"

func TestRingDrainReadsEverythingBeforeFull(t *testing.T) {
	r := NewRing[int](4)
	r.Push(1)
	r.Push(2)
	r.Push(3)

	cur := NewCursor()
	out, cur, dropped := r.Drain(cur, nil)
	if dropped != 0 {
		t.Fatalf("dropped = %d, want 0", dropped)
	}
	if len(out) != 3 || out[0] != 1 || out[2] != 3 {
		t.Fatalf("Drain() = %v, want [1 2 3]", out)
	}

	out2, _, dropped2 := r.Drain(cur, nil)
	if len(out2) != 0 || dropped2 != 0 {
		t.Fatalf("second Drain from the same cursor should be empty, got %v", out2)
	}
}

func TestRingOverwriteOnOverflowCountsDropped(t *testing.T) {
	r := NewRing[int](4)
	cur := NewCursor()

	r.Push(1)
	r.Push(2)
	out, cur, _ := r.Drain(cur, nil)
	if len(out) != 2 {
		t.Fatalf("expected 2 entries, got %v", out)
	}

	// Push enough to wrap the ring more than once without draining.
	for i := 0; i < 10; i++ {
		r.Push(100 + i)
	}

	out2, _, dropped := r.Drain(cur, nil)
	if dropped == 0 {
		t.Fatal("expected some entries to be reported dropped after wrapping past capacity")
	}
	if len(out2) == 0 {
		t.Fatal("expected at least the surviving entries to be drained")
	}
	if r.Dropped() == 0 {
		t.Fatal("Ring.Dropped() should reflect the lifetime drop count")
	}
}

func TestRingFreshReaderSeesExistingBacklog(t *testing.T) {
	r := NewRing[int](4)
	r.Push(1)
	r.Push(2)

	cur := NewCursor()
	out, _, _ := r.Drain(cur, nil)
	if len(out) != 2 {
		t.Fatalf("a reader joining after pushes should see the existing backlog, got %v", out)
	}
}
