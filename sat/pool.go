package sat

import "sync"

// workerPool holds the sync.Pool instances a single worker's hot loop
// reuses across conflicts: one pool per scratch-buffer shape, a capacity
// ceiling before an oversized buffer is allowed back in, and typed
// Get/Put wrapper methods instead of raw interface{} juggling at every
// call site.
type workerPool struct {
	litSlices  sync.Pool // []Lit scratch for learned clauses, reason walks
	crefSlices sync.Pool // []CRef scratch for batched arena operations
	boolSlices sync.Pool // []bool scratch, e.g. one-shot marking outside the analyzer's own seen[]

	maxPooledCap int
}

func newWorkerPool() *workerPool {
	p := &workerPool{maxPooledCap: 4096}
	p.litSlices.New = func() any { return make([]Lit, 0, 64) }
	p.crefSlices.New = func() any { return make([]CRef, 0, 64) }
	p.boolSlices.New = func() any { return make([]bool, 0, 64) }
	return p
}

func (p *workerPool) getLits() []Lit {
	return p.litSlices.Get().([]Lit)[:0]
}

func (p *workerPool) putLits(s []Lit) {
	if cap(s) > p.maxPooledCap {
		return
	}
	p.litSlices.Put(s) //nolint:staticcheck // intentional: pool retains the backing array
}

func (p *workerPool) getCRefs() []CRef {
	return p.crefSlices.Get().([]CRef)[:0]
}

func (p *workerPool) putCRefs(s []CRef) {
	if cap(s) > p.maxPooledCap {
		return
	}
	p.crefSlices.Put(s)
}

func (p *workerPool) getBools(n int) []bool {
	s := p.boolSlices.Get().([]bool)
	if cap(s) < n {
		s = make([]bool, n)
	} else {
		s = s[:n]
		for i := range s {
			s[i] = false
		}
	}
	return s
}

func (p *workerPool) putBools(s []bool) {
	if cap(s) > p.maxPooledCap {
		return
	}
	p.boolSlices.Put(s)
}
