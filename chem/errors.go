package chem

import (
	"errors"
	"fmt"
)

// ErrDuplicateReaction is returned, wrapped in a LoadError, when a
// declaration would populate a reaction's second alternative when it is
// already populated.
var ErrDuplicateReaction = errors.New("duplicate reaction for reactant key")

// LoadError is returned by the element registry, the reaction table, and the
// chemistry loader for any malformed or contradictory declaration. Per the
// engine's error handling design, LoadError is only ever produced during
// initialization, before iteration begins.
type LoadError struct {
	Op  string // e.g. "add element", "parse rxn", "load"
	Err error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("chem: %s: %v", e.Op, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

func loadErrorf(op, format string, args ...interface{}) *LoadError {
	return &LoadError{Op: op, Err: fmt.Errorf(format, args...)}
}
