// Package sat implements a parallel CDCL (conflict-driven clause-learning)
// Boolean satisfiability engine. Its distinguishing piece of engineering is
// a shared clause arena with per-worker watch indices: many Worker
// goroutines propagate, learn, share, vivify and reclaim clauses
// concurrently without a global lock on the arena, coordinated only through
// a handful of atomics and small mutex-guarded ring buffers.
//
// DIMACS parsing, CLI wiring and heavyweight preprocessing live outside this
// package (see github.com/xDarkicex/parasat/dimacs and
// github.com/xDarkicex/parasat/cmd/parasat); Supervisor consumes only a
// flat list of initial clauses, a variable count and root-level units.
package sat
