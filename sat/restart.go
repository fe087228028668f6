package sat

// Restarter decides, once per conflict, whether the search should abandon
// its current trail and restart from decision level 0.
type Restarter interface {
	// OnConflict records one conflict's LBD and reports whether a restart
	// should happen now.
	OnConflict(lbd int) bool
	// OnRestart notifies the strategy that a restart actually occurred
	// (distinct from OnConflict returning true: a blocking restart policy
	// can veto it).
	OnRestart()
}

// glucoseRestart is the LBD-based policy (Audemard & Simon): restart when
// the short-window moving average of recent conflict LBDs exceeds K times
// the long-window (all-time) average, i.e. the search has been thrashing
// through hard conflicts lately relative to its own history.
type glucoseRestart struct {
	k int64 // fixed-point: k * 1000, since Config.GlucoseK is a float

	fastSum   float64
	fastCount int
	fastWindow int

	slowSum   float64
	slowCount int64

	blocking     bool
	blockWindow  int
	trailSizeSum float64
	trailCount   int
	recentTrail  []int
	trailCursor  int
	getTrailLen  func() int
}

// NewGlucoseRestart builds the LBD-based restart policy. getTrailLen lets
// the policy implement blocking restarts (suppressing a restart while the
// trail is unusually long, since a long trail often means the search is
// close to a solution) without owning the trail itself.
func NewGlucoseRestart(k float64, blocking bool, getTrailLen func() int) Restarter {
	return &glucoseRestart{
		k:           int64(k * 1000),
		fastWindow:  50,
		blocking:    blocking,
		blockWindow: 5000,
		recentTrail: make([]int, 5000),
		getTrailLen: getTrailLen,
	}
}

func (g *glucoseRestart) OnConflict(lbd int) bool {
	g.fastSum += float64(lbd)
	g.fastCount++
	g.slowSum += float64(lbd)
	g.slowCount++

	if g.getTrailLen != nil {
		g.recentTrail[g.trailCursor%len(g.recentTrail)] = g.getTrailLen()
		g.trailCursor++
		if g.trailCount < len(g.recentTrail) {
			g.trailCount++
		}
	}

	if g.fastCount < g.fastWindow || g.slowCount < 1 {
		return false
	}
	fastAvg := g.fastSum / float64(g.fastCount)
	slowAvg := g.slowSum / float64(g.slowCount)

	g.fastSum, g.fastCount = 0, 0

	if fastAvg*1000 < float64(g.k)*slowAvg {
		return false
	}
	if g.blocking && g.trailCount >= g.blockWindow {
		avgTrail := 0.0
		for _, n := range g.recentTrail {
			avgTrail += float64(n)
		}
		avgTrail /= float64(len(g.recentTrail))
		if float64(g.getTrailLen()) > 1.4*avgTrail {
			return false
		}
	}
	return true
}

func (g *glucoseRestart) OnRestart() {}

// lubyRestart restarts after a conflict count following the Luby sequence
// (1,1,2,1,1,2,4,1,1,2,1,1,2,4,8,...) scaled by a base unit, the classical
// restart policy MiniSat used before Glucose's LBD-based scheme.
type lubyRestart struct {
	base      int
	conflicts int
	index     int
}

// NewLubyRestart builds the Luby-sequence restart policy.
func NewLubyRestart(base int) Restarter {
	if base <= 0 {
		base = 100
	}
	return &lubyRestart{base: base, index: 0}
}

func luby(index int) int {
	// Find the 2^k-1 run containing index.
	size, seq := 1, 0
	for size < index+1 {
		seq++
		size = 2*size + 1
	}
	for size != index+1 {
		size = (size - 1) / 2
		seq--
		index = index % size
	}
	return 1 << uint(seq)
}

func (l *lubyRestart) OnConflict(int) bool {
	l.conflicts++
	limit := l.base * luby(l.index)
	if l.conflicts >= limit {
		return true
	}
	return false
}

func (l *lubyRestart) OnRestart() {
	l.conflicts = 0
	l.index++
}
