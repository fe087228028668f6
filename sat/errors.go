package sat

import (
	"errors"
	"fmt"
)

// Sentinel causes, matched with errors.Is against whatever SolverError
// wraps. Kept small and stable so callers outside this package never need
// to import concrete arena/watch types to branch on failure kind.
var (
	// ErrOutOfMemory is the cause when a clause is too large to fit in one
	// arena bucket.
	ErrOutOfMemory = errors.New("sat: out of memory")
	// ErrInvalidCRef is the cause when a CRef sentinel (Undef/Del) reaches
	// a call that requires a live clause.
	ErrInvalidCRef = errors.New("sat: invalid clause reference")
	// ErrResourceLimit is the cause when the supervisor aborts a run
	// because a wall-time or memory cap was exceeded.
	ErrResourceLimit = errors.New("sat: resource limit reached")
)

// SolverError annotates a sentinel cause with the component and operation
// that observed it.
type SolverError struct {
	Component string
	Op        string
	Err       error
}

func (e *SolverError) Error() string {
	return fmt.Sprintf("sat: %s.%s: %s", e.Component, e.Op, e.Err)
}

func (e *SolverError) Unwrap() error { return e.Err }

func newError(component, op string, cause error) *SolverError {
	return &SolverError{Component: component, Op: op, Err: cause}
}
