package sat

// VSIDS is an array/heap-based variable-state-independent decaying-sum
// activity heuristic: a bump-on-participation, decay-by-rescaling-the-
// increment scheme, keyed by Var index into flat slices and backed by a
// binary heap instead of a full rescan per decision.
type VSIDS struct {
	activity []float64
	heapPos  []int32 // activity-heap index of each Var, -1 if not in heap
	heap     []Var

	increment float64
	decay     float64

	polarity []bool // set by SavePhase, returned by Polarity
}

// NewVSIDS creates a heuristic tracking numVars variables, all initially in
// the heap with zero activity.
func NewVSIDS(numVars int, decay float64) *VSIDS {
	v := &VSIDS{
		activity:  make([]float64, numVars),
		heapPos:   make([]int32, numVars),
		heap:      make([]Var, numVars),
		increment: 1.0,
		decay:     decay,
		polarity:  make([]bool, numVars),
	}
	for i := 0; i < numVars; i++ {
		v.heap[i] = Var(i)
		v.heapPos[i] = int32(i)
	}
	return v
}

// Grow extends the heuristic to cover a newly introduced variable, inserted
// into the heap immediately.
func (v *VSIDS) Grow(numVars int) {
	for len(v.activity) < numVars {
		v.activity = append(v.activity, 0)
		v.polarity = append(v.polarity, false)
		v.heapPos = append(v.heapPos, -1)
	}
	for vr := 0; vr < numVars; vr++ {
		if v.heapPos[vr] == -1 {
			v.insert(Var(vr))
		}
	}
}

func (v *VSIDS) less(a, b Var) bool { return v.activity[a] > v.activity[b] }

func (v *VSIDS) insert(vr Var) {
	v.heap = append(v.heap, vr)
	i := len(v.heap) - 1
	v.heapPos[vr] = int32(i)
	v.siftUp(i)
}

func (v *VSIDS) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !v.less(v.heap[i], v.heap[parent]) {
			break
		}
		v.swap(i, parent)
		i = parent
	}
}

func (v *VSIDS) siftDown(i int) {
	n := len(v.heap)
	for {
		l, r := 2*i+1, 2*i+2
		smallest := i
		if l < n && v.less(v.heap[l], v.heap[smallest]) {
			smallest = l
		}
		if r < n && v.less(v.heap[r], v.heap[smallest]) {
			smallest = r
		}
		if smallest == i {
			return
		}
		v.swap(i, smallest)
		i = smallest
	}
}

func (v *VSIDS) swap(i, j int) {
	v.heap[i], v.heap[j] = v.heap[j], v.heap[i]
	v.heapPos[v.heap[i]] = int32(i)
	v.heapPos[v.heap[j]] = int32(j)
}

// InHeap reports whether vr is currently a decision candidate.
func (v *VSIDS) InHeap(vr Var) bool { return v.heapPos[vr] != -1 }

// Remove takes vr out of the decision heap. Pick calls it for an assigned
// variable it finds at the top of the heap.
func (v *VSIDS) Remove(vr Var) {
	i := int(v.heapPos[vr])
	if i == -1 {
		return
	}
	last := len(v.heap) - 1
	v.swap(i, last)
	v.heap = v.heap[:last]
	v.heapPos[vr] = -1
	if i < len(v.heap) {
		v.siftDown(i)
		v.siftUp(i)
	}
}

// Insert returns vr to the decision heap if it is not already there.
func (v *VSIDS) Insert(vr Var) {
	if !v.InHeap(vr) {
		v.insert(vr)
	}
}

// update restores the heap property after vr's activity changed, without
// a remove/reinsert round trip.
func (v *VSIDS) update(vr Var) {
	i := int(v.heapPos[vr])
	if i == -1 {
		return
	}
	v.siftUp(i)
	v.siftDown(i)
}

// Bump increases vr's activity by the current increment, rescaling every
// activity (and the increment) if it would overflow.
func (v *VSIDS) Bump(vr Var) {
	v.activity[vr] += v.increment
	if v.activity[vr] > 1e100 {
		for i := range v.activity {
			v.activity[i] *= 1e-100
		}
		v.increment *= 1e-100
	}
	v.update(vr)
}

// Decay increases the effective weight of future bumps relative to past
// ones, the usual VSIDS trick of decaying by growing the increment instead
// of shrinking every entry.
func (v *VSIDS) Decay() {
	v.increment /= v.decay
}

// SavePhase records a polarity for vr, reported back by Polarity. Pick does
// not consult it; the worker takes a decision's sign from the phase the
// trail saves on backtrack (Trail.Polarity).
func (v *VSIDS) SavePhase(vr Var, sign bool) { v.polarity[vr] = sign }

// Pick returns the highest-activity variable not yet assigned according to
// isAssigned, or VarUndef if none remain. Unassigned variables missing from
// the heap (removed while assigned, then unassigned by a backtrack) are put
// back first, and assigned variables found at the top are removed. The
// caller combines the result with a saved polarity to build a full decision
// literal.
func (v *VSIDS) Pick(isAssigned func(Var) bool) Var {
	for vr := range v.heapPos {
		if v.heapPos[vr] == -1 && !isAssigned(Var(vr)) {
			v.insert(Var(vr))
		}
	}
	for len(v.heap) > 0 {
		top := v.heap[0]
		if !isAssigned(top) {
			return top
		}
		v.Remove(top)
	}
	return VarUndef
}

// Polarity reports the saved phase for vr.
func (v *VSIDS) Polarity(vr Var) bool { return v.polarity[vr] }
