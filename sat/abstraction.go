package sat

import "math/bits"

// levelAbstraction is a 64-bit summary of a set of decision levels, one bit
// per (level mod 64). Deep clause minimization (§4.4) uses it to reject most
// candidate literals without walking their reason chain: if a literal's
// level bit is absent from the learned clause's abstraction, no reason
// clause reachable from that literal can be subsumed by levels already in
// the clause, so the literal cannot be redundant.
//
// False positives are possible (two distinct levels can share a bit) but
// false negatives are not, so the abstraction only ever short-circuits
// minimization, never changes its result.
type levelAbstraction uint64

// abstractLevel returns the single-bit abstraction of one decision level.
//
// Example:
//
//	a := abstractLevel(3)  // bit 3 set
//	b := abstractLevel(67) // bit 3 set too (67 mod 64 == 3)
func abstractLevel(level int) levelAbstraction {
	return levelAbstraction(1) << uint(level&63)
}

// with ORs in another level's bit, building up the abstraction of an
// in-progress learned clause one literal at a time.
func (a levelAbstraction) with(level int) levelAbstraction {
	return a | abstractLevel(level)
}

// has reports whether level's bit is present in the abstraction. A true
// result is inconclusive (the bit may belong to a different level); a false
// result is conclusive: level is definitely not represented.
func (a levelAbstraction) has(level int) bool {
	return a&abstractLevel(level) != 0
}

// intersects reports whether two abstractions share any bit, used to ask
// "could this reason clause's levels overlap the learned clause's levels at
// all?" before paying for the real set comparison.
func (a levelAbstraction) intersects(b levelAbstraction) bool {
	return a&b != 0
}

// popcount returns the number of distinct bits set, an upper bound on the
// number of distinct levels actually represented.
func (a levelAbstraction) popcount() int {
	return bits.OnesCount64(uint64(a))
}

// abstractionOf computes the combined level abstraction of a slice of
// literals given a function mapping each to its decision level. Used once
// per conflict, when seeding deep minimization with the freshly learned
// clause's levels.
func abstractionOf(lits []Lit, levelOf func(Var) int) levelAbstraction {
	var a levelAbstraction
	for _, l := range lits {
		a = a.with(levelOf(l.Var()))
	}
	return a
}
