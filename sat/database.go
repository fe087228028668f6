package sat

import "sort"

// clauseActivityBump is the flat increment BumpActivity applies each time a
// clause participates in conflict resolution — unlike VSIDS's variable
// activity, clause activity here never decays, so a fixed increment is
// enough to separate "used often" from "used rarely" over a run.
const clauseActivityBump = 1.0

// Tier classifies a learned clause by how aggressively the database is
// willing to delete it, derived from LBD/size at creation and refreshed
// whenever a clause's LBD improves.
type Tier int

const (
	TierLocal Tier = iota // aggressively reclaimed
	TierMid                // deleted carefully, survives several reduce passes
	TierCore                // promoted to permanent, never deleted
)

// tierOf classifies a freshly learned clause using the configured
// thresholds (§4.5): clauses good enough to be permanent are promoted to
// core, clauses good enough to circulate between workers are eligible for
// sharing, everything else stays purely local.
func tierOf(cfg Config, lbd, size int) Tier {
	if lbd <= cfg.TierLBDPermanent && size <= cfg.TierSizePermanent {
		return TierCore
	}
	if lbd <= cfg.TierLBDShared && size <= cfg.TierSizeShared {
		return TierMid
	}
	return TierLocal
}

// shareable reports whether a clause of this tier/size/lbd combination
// should be pushed onto the cross-worker sharing ring at all.
func shareable(cfg Config, lbd, size int) bool {
	return lbd <= cfg.TierLBDShared && size <= cfg.TierSizeShared
}

// dbEntry tracks one local/mid-tier clause's bookkeeping outside the
// arena: the arena header carries LBD/size/kind, but reduce-eligibility
// also needs a recency/activity signal the header has no room for.
type dbEntry struct {
	cref     CRef
	lbd      int
	size     int
	activity float64
	born     int64 // conflict count when learned, for the recent-protection window
	tier     Tier
}

// Database is a worker's local view of its learned clauses: a tiered set
// of private CRefs plus the scoring state reduce() needs, keyed by CRef
// instead of a pointer, since a CRef is never invalidated the way deleting
// a Go pointer's referent would be — a removed clause's CRef simply
// becomes unreachable.
type Database struct {
	cfg Config

	core   []CRef
	mid    []dbEntry
	local  []dbEntry
	recent []dbEntry

	recentProtectionAge int64
	reduceLimit         int
}

// NewDatabase creates an empty database using cfg's tiering and reduction
// parameters.
func NewDatabase(cfg Config) *Database {
	return &Database{
		cfg:                 cfg,
		recentProtectionAge: 1000,
		reduceLimit:         cfg.ReduceInitialLimit,
	}
}

// Add records a freshly learned clause at the given CRef, classifying its
// tier and placing it in the recent-protection window so it cannot be
// reduced away before it has had a chance to prove useful.
func (db *Database) Add(cref CRef, lbd, size int, conflicts int64) Tier {
	tier := tierOf(db.cfg, lbd, size)
	e := dbEntry{cref: cref, lbd: lbd, size: size, born: conflicts, tier: tier}
	if tier == TierCore {
		db.core = append(db.core, cref)
		return tier
	}
	db.recent = append(db.recent, e)
	return tier
}

// PromoteAged moves recent clauses older than the protection window into
// their classified tier's slice.
func (db *Database) PromoteAged(conflicts int64) {
	kept := db.recent[:0]
	for _, e := range db.recent {
		if conflicts-e.born < db.recentProtectionAge {
			kept = append(kept, e)
			continue
		}
		switch e.tier {
		case TierCore:
			db.core = append(db.core, e.cref)
		case TierMid:
			db.mid = append(db.mid, e)
		default:
			db.local = append(db.local, e)
		}
	}
	db.recent = kept
}

// BumpActivity increases a clause's deletion-resistance score, called when
// it participates in a conflict analysis (the same "clause activity"
// bumping VSIDS does for variables).
func (db *Database) BumpActivity(cref CRef, amount float64) {
	for i := range db.mid {
		if db.mid[i].cref == cref {
			db.mid[i].activity += amount
			return
		}
	}
	for i := range db.local {
		if db.local[i].cref == cref {
			db.local[i].activity += amount
			return
		}
	}
}

// ImproveLBD re-tiers a clause whose LBD just dropped (discovered after
// conflict analysis, when a clause that took part in the conflict has its
// LBD recomputed and found smaller than its stored one), possibly
// promoting it to core.
func (db *Database) ImproveLBD(cref CRef, newLBD int) {
	reclassify := func(e dbEntry) dbEntry {
		e.lbd = newLBD
		e.tier = tierOf(db.cfg, newLBD, e.size)
		return e
	}
	for i, e := range db.mid {
		if e.cref == cref {
			db.mid = append(db.mid[:i], db.mid[i+1:]...)
			ne := reclassify(e)
			if ne.tier == TierCore {
				db.core = append(db.core, cref)
			} else {
				db.mid = append(db.mid, ne)
			}
			return
		}
	}
	for i, e := range db.local {
		if e.cref == cref {
			db.local = append(db.local[:i], db.local[i+1:]...)
			ne := reclassify(e)
			switch ne.tier {
			case TierCore:
				db.core = append(db.core, cref)
			case TierMid:
				db.mid = append(db.mid, ne)
			default:
				db.local = append(db.local, ne)
			}
			return
		}
	}
}

// ShouldReduce reports whether the mid+local population has grown past
// the current reduce budget.
func (db *Database) ShouldReduce() bool {
	return len(db.mid)+len(db.local) >= db.reduceLimit
}

// GrowLimit advances the reduce budget geometrically after a reduce pass,
// the standard Glucose schedule: each pass tolerates a larger database
// before the next one fires.
func (db *Database) GrowLimit() {
	db.reduceLimit = int(float64(db.reduceLimit)*db.cfg.ReduceGrowthFactor) + db.cfg.ReduceGrowthAddend
}

// scoreLess orders entries worst-first for eviction: higher LBD is worse,
// then lower activity is worse, then larger size is worse — so sorting
// ascending by this order and evicting a prefix removes the least useful
// clauses first.
func scoreLess(a, b dbEntry) bool {
	if a.lbd != b.lbd {
		return a.lbd > b.lbd
	}
	if a.activity != b.activity {
		return a.activity < b.activity
	}
	return a.size > b.size
}

// Reduce evicts the worst half of the local tier and a smaller fraction of
// the mid tier, returning the CRefs selected for removal so the caller can
// dereference/reclaim them in the arena. Core clauses are never touched.
func (db *Database) Reduce() []CRef {
	var victims []CRef

	sort.Slice(db.local, func(i, j int) bool { return scoreLess(db.local[i], db.local[j]) })
	cut := len(db.local) / 2
	for _, e := range db.local[:cut] {
		victims = append(victims, e.cref)
	}
	db.local = append([]dbEntry(nil), db.local[cut:]...)

	sort.Slice(db.mid, func(i, j int) bool { return scoreLess(db.mid[i], db.mid[j]) })
	cut = len(db.mid) / 5
	for _, e := range db.mid[:cut] {
		victims = append(victims, e.cref)
	}
	db.mid = append([]dbEntry(nil), db.mid[cut:]...)

	db.GrowLimit()
	return victims
}

// Size reports the total clause count across every tier.
func (db *Database) Size() int {
	return len(db.core) + len(db.mid) + len(db.local) + len(db.recent)
}

// VivifyCandidates returns up to n clauses from the mid tier
// worth probing for shortening, largest-size first — long clauses benefit
// most from vivification since each removed literal improves propagation
// more.
func (db *Database) VivifyCandidates(n int) []CRef {
	type cand struct {
		cref CRef
		size int
	}
	var cands []cand
	for _, e := range db.mid {
		cands = append(cands, cand{e.cref, e.size})
	}
	sort.Slice(cands, func(i, j int) bool { return cands[i].size > cands[j].size })
	if len(cands) > n {
		cands = cands[:n]
	}
	out := make([]CRef, len(cands))
	for i, c := range cands {
		out[i] = c.cref
	}
	return out
}
