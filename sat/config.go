package sat

import "time"

// Config holds every tunable of a solve: thread count, resource limits,
// tiering thresholds, and inprocessing toggles. It is pure data — no
// dependency on how a caller loads it, so a CLI can populate one from YAML
// or flags without this package knowing either exists.
type Config struct {
	// Threads is the number of CDCL workers to run concurrently. 1 means a
	// sequential solve with sharing disabled, used as the deterministic
	// reference configuration in tests.
	Threads int

	// MemoryLimitMB is carried in the configuration but not enforced: the
	// arena adds a bucket whenever its free-bucket stack is empty, with no
	// cap on total memory. BucketBytes is the size of one arena bucket.
	MemoryLimitMB int
	BucketBytes   int

	// TimeLimit bounds wall-clock solve time; zero means unbounded.
	TimeLimit time.Duration

	// Tiering thresholds classify a learned clause into core/mid/local on
	// creation and on LBD improvement (§4.5).
	TierLBDPermanent  int // LBD at or below which a clause is promoted to permanent
	TierSizePermanent int // size at or below which a clause is promoted to permanent
	TierLBDShared     int // LBD at or below which a clause is eligible for sharing
	TierSizeShared    int // size at or below which a clause is eligible for sharing
	ReuseThreshold    int // re-derivation count for sharing; no sharing or import decision consults it

	// Reduction controls how aggressively the database trims shared/local
	// clauses.
	ReduceInitialLimit  int
	ReduceGrowthFactor  float64
	ReduceGrowthAddend  int

	// Restart policy selection and parameters.
	RestartStrategy  RestartStrategyKind
	LubyBase         int
	GlucoseK         float64 // LBD moving-average factor
	BlockingRestarts bool

	// VSIDS heuristic decay.
	VarDecay     float64
	VarDecayMax  float64

	// Vivification scheduling.
	EnableVivification  bool
	VivifyMaxSize       int
	VivifyGap           int64

	// RingCapacity sizes each worker's outbound clause/unit exchange rings
	// (in entries, used as given).
	RingCapacity int

	// OneWatchMinSize is the clause length at or above which a clause
	// imported from a peer is given a single watch instead of two, trading a fuller scan on
	// trigger for a smaller resident watch-list footprint — worthwhile
	// once a clause is long enough that two-watch relocation churns
	// constantly without ever approaching unit.
	OneWatchMinSize int
}

// RestartStrategyKind selects between the two restart policies §4.6
// describes.
type RestartStrategyKind int

const (
	RestartGlucose RestartStrategyKind = iota
	RestartLuby
)

// DefaultConfig returns the tuning this engine ships with absent any
// explicit configuration: one function, one struct literal, every field
// spelled out.
func DefaultConfig() Config {
	return Config{
		Threads:       1,
		MemoryLimitMB: 0,
		BucketBytes:   DefaultBucketBytes,
		TimeLimit:     0,

		TierLBDPermanent:  2,
		TierSizePermanent: 2,
		TierLBDShared:     6,
		TierSizeShared:    30,
		ReuseThreshold:    2,

		ReduceInitialLimit: 4000,
		ReduceGrowthFactor: 1.1,
		ReduceGrowthAddend: 300,

		RestartStrategy:  RestartGlucose,
		LubyBase:         100,
		GlucoseK:         0.8,
		BlockingRestarts: true,

		VarDecay:    0.8,
		VarDecayMax: 0.95,

		EnableVivification: true,
		VivifyMaxSize:      20,
		VivifyGap:          4000,

		RingCapacity: 1024,

		OneWatchMinSize: 40,
	}
}
