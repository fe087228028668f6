// Package stats aggregates per-worker solver counters into the combined
// Snapshot a supervisor reports, and optionally mirrors them onto
// Prometheus gauges for long-running or embedded deployments.
package stats

import (
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

// Counters is one worker's atomically-updated running totals. Every field
// is touched only by its own worker goroutine except when a supervisor
// sweeps them for a reporting snapshot, so plain atomics are enough —
// no mutex needed.
type Counters struct {
	Decisions      atomic.Int64
	Propagations   atomic.Int64
	Conflicts      atomic.Int64
	Restarts       atomic.Int64
	LearnedClauses atomic.Int64
	DeletedClauses atomic.Int64
	GlueClauses    atomic.Int64
	LBDSum         atomic.Int64 // divided by LearnedClauses for AvgLBD
	VivifyRuns     atomic.Int64
	VivifyShrunk   atomic.Int64
	ImportedUnits  atomic.Int64
	ImportedShared atomic.Int64
	DroppedShared  atomic.Int64
}

// Snapshot is a point-in-time, plain-value copy of Counters (or several
// Counters summed together), suitable for formatting or export.
type Snapshot struct {
	Decisions      int64
	Propagations   int64
	Conflicts      int64
	Restarts       int64
	LearnedClauses int64
	DeletedClauses int64
	GlueClauses    int64
	AvgLBD         float64
	VivifyRuns     int64
	VivifyShrunk   int64
	ImportedUnits  int64
	ImportedShared int64
	DroppedShared  int64
}

// Snapshot reads c's current values into a Snapshot.
func (c *Counters) Snapshot() Snapshot {
	learned := c.LearnedClauses.Load()
	avg := 0.0
	if learned > 0 {
		avg = float64(c.LBDSum.Load()) / float64(learned)
	}
	return Snapshot{
		Decisions:      c.Decisions.Load(),
		Propagations:   c.Propagations.Load(),
		Conflicts:      c.Conflicts.Load(),
		Restarts:       c.Restarts.Load(),
		LearnedClauses: learned,
		DeletedClauses: c.DeletedClauses.Load(),
		GlueClauses:    c.GlueClauses.Load(),
		AvgLBD:         avg,
		VivifyRuns:     c.VivifyRuns.Load(),
		VivifyShrunk:   c.VivifyShrunk.Load(),
		ImportedUnits:  c.ImportedUnits.Load(),
		ImportedShared: c.ImportedShared.Load(),
		DroppedShared:  c.DroppedShared.Load(),
	}
}

// Add returns the element-wise sum of two snapshots, used to fold all
// workers' counters into one aggregate report. AvgLBD is recomputed from
// the summed LBD-weighted totals rather than averaged naively, so it stays
// correct when workers learned different numbers of clauses.
func Add(a, b Snapshot) Snapshot {
	aLBD := a.AvgLBD * float64(a.LearnedClauses)
	bLBD := b.AvgLBD * float64(b.LearnedClauses)
	learned := a.LearnedClauses + b.LearnedClauses
	avg := 0.0
	if learned > 0 {
		avg = (aLBD + bLBD) / float64(learned)
	}
	return Snapshot{
		Decisions:      a.Decisions + b.Decisions,
		Propagations:   a.Propagations + b.Propagations,
		Conflicts:      a.Conflicts + b.Conflicts,
		Restarts:       a.Restarts + b.Restarts,
		LearnedClauses: learned,
		DeletedClauses: a.DeletedClauses + b.DeletedClauses,
		GlueClauses:    a.GlueClauses + b.GlueClauses,
		AvgLBD:         avg,
		VivifyRuns:     a.VivifyRuns + b.VivifyRuns,
		VivifyShrunk:   a.VivifyShrunk + b.VivifyShrunk,
		ImportedUnits:  a.ImportedUnits + b.ImportedUnits,
		ImportedShared: a.ImportedShared + b.ImportedShared,
		DroppedShared:  a.DroppedShared + b.DroppedShared,
	}
}

// String formats a snapshot as a single dense summary line, with
// inprocessing/vivification details appended only when they're non-zero.
func (s Snapshot) String() string {
	base := fmt.Sprintf(
		"Decisions: %d, Propagations: %d, Conflicts: %d, Restarts: %d, Learned: %d, Glue: %d, AvgLBD: %.2f",
		s.Decisions, s.Propagations, s.Conflicts, s.Restarts, s.LearnedClauses, s.GlueClauses, s.AvgLBD,
	)
	if s.VivifyRuns > 0 {
		base += fmt.Sprintf(", Vivify: %d runs, %d shrunk", s.VivifyRuns, s.VivifyShrunk)
	}
	if s.ImportedShared > 0 || s.DroppedShared > 0 {
		base += fmt.Sprintf(", Imported: %d clauses/%d units, Dropped: %d",
			s.ImportedShared, s.ImportedUnits, s.DroppedShared)
	}
	return base
}

// Registry mirrors aggregated snapshots onto Prometheus gauges, for a
// caller embedding the solver inside a longer-lived service that already
// scrapes /metrics. Plain CLI uses of the solver never construct one.
type Registry struct {
	conflicts      prometheus.Gauge
	learned        prometheus.Gauge
	restarts       prometheus.Gauge
	avgLBD         prometheus.Gauge
	droppedShared  prometheus.Gauge
}

// NewRegistry creates and registers the solver's gauges on reg.
func NewRegistry(reg prometheus.Registerer) *Registry {
	r := &Registry{
		conflicts:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "parasat", Name: "conflicts_total"}),
		learned:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "parasat", Name: "learned_clauses_total"}),
		restarts:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "parasat", Name: "restarts_total"}),
		avgLBD:        prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "parasat", Name: "avg_lbd"}),
		droppedShared: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "parasat", Name: "dropped_shared_total"}),
	}
	reg.MustRegister(r.conflicts, r.learned, r.restarts, r.avgLBD, r.droppedShared)
	return r
}

// Update pushes a fresh aggregate snapshot onto the registered gauges.
func (r *Registry) Update(s Snapshot) {
	r.conflicts.Set(float64(s.Conflicts))
	r.learned.Set(float64(s.LearnedClauses))
	r.restarts.Set(float64(s.Restarts))
	r.avgLBD.Set(s.AvgLBD)
	r.droppedShared.Set(float64(s.DroppedShared))
}
