package sat

import "testing"

func TestTierClassification(t *testing.T) {
	cfg := DefaultConfig()
	if tier := tierOf(cfg, 2, 2); tier != TierCore {
		t.Errorf("tierOf(lbd=2,size=2) = %v, want TierCore", tier)
	}
	if tier := tierOf(cfg, 5, 10); tier != TierMid {
		t.Errorf("tierOf(lbd=5,size=10) = %v, want TierMid", tier)
	}
	if tier := tierOf(cfg, 20, 100); tier != TierLocal {
		t.Errorf("tierOf(lbd=20,size=100) = %v, want TierLocal", tier)
	}
}

func TestDatabasePromoteAged(t *testing.T) {
	cfg := DefaultConfig()
	db := NewDatabase(cfg)
	db.recentProtectionAge = 10

	db.Add(CRef(1), 20, 50, 0) // local tier, recent
	if db.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", db.Size())
	}

	db.PromoteAged(5) // not aged yet
	if len(db.local) != 0 {
		t.Fatal("clause promoted before its protection window elapsed")
	}

	db.PromoteAged(11)
	if len(db.local) != 1 {
		t.Fatal("clause was not promoted after its protection window elapsed")
	}
}

func TestDatabaseReduceKeepsCore(t *testing.T) {
	cfg := DefaultConfig()
	db := NewDatabase(cfg)
	db.recentProtectionAge = 0

	db.Add(CRef(1), 2, 2, 0) // core tier
	for i := 0; i < 10; i++ {
		db.Add(CRef(i+100), 20, 50, 0)
	}
	db.PromoteAged(1)
	if len(db.local) != 10 {
		t.Fatalf("expected 10 local clauses, got %d", len(db.local))
	}

	victims := db.Reduce()
	if len(victims) != 5 {
		t.Fatalf("Reduce() evicted %d clauses, want 5 (half of local)", len(victims))
	}
	if len(db.local) != 5 {
		t.Fatalf("local tier has %d clauses after reduce, want 5", len(db.local))
	}
	for _, v := range victims {
		if v == CRef(1) {
			t.Fatal("Reduce() evicted the core clause")
		}
	}
	if len(db.core) != 1 {
		t.Fatalf("core tier has %d clauses after reduce, want 1", len(db.core))
	}
}

func TestShareableRespectsThresholds(t *testing.T) {
	cfg := DefaultConfig()
	if !shareable(cfg, cfg.TierLBDShared, cfg.TierSizeShared) {
		t.Error("a clause exactly at the sharing threshold should be shareable")
	}
	if shareable(cfg, cfg.TierLBDShared+1, cfg.TierSizeShared) {
		t.Error("a clause above the LBD sharing threshold should not be shareable")
	}
}
