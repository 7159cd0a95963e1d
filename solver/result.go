package solver

import (
	"fmt"

	"github.com/cottand/tsolve/types"
)

type Outcome int

const (
	// Resolved variables have a type, which may be Dynamic
	Resolved Outcome = iota
	// Unconstrained variables had no constraints and default to types.Bottom
	Unconstrained
	// Unsolvable variables have no result, see Reason
	Unsolvable
)

func (o Outcome) String() string {
	switch o {
	case Resolved:
		return "resolved"
	case Unconstrained:
		return "unconstrained"
	case Unsolvable:
		return "unsolvable"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Reason explains why a variable is Unsolvable
type Reason int

const (
	NoReason Reason = iota
	// BoundConflict means the lower bound is not a subtype of the upper bound
	BoundConflict
	// LatticeFailure means joining or meeting the bounds produced types.ErrorType
	LatticeFailure
)

func (r Reason) String() string {
	switch r {
	case NoReason:
		return "none"
	case BoundConflict:
		return "bound conflict"
	case LatticeFailure:
		return "lattice failure"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// Result is the resolution of a single type variable
type Result struct {
	Var     TypeVarID
	Outcome Outcome
	// Reason is NoReason unless Outcome is Unsolvable
	Reason Reason
	// Lower and Upper are the combined bounds, nil when the variable had
	// no constraint in that direction
	Lower, Upper types.Type

	typ types.Type
}

func resolved(v TypeVarID, t types.Type, lower, upper types.Type) Result {
	return Result{Var: v, Outcome: Resolved, typ: t, Lower: lower, Upper: upper}
}

func unconstrained(v TypeVarID) Result {
	return Result{Var: v, Outcome: Unconstrained}
}

func unsolvable(v TypeVarID, reason Reason, lower, upper types.Type) Result {
	return Result{Var: v, Outcome: Unsolvable, Reason: reason, Lower: lower, Upper: upper}
}

// Type returns the type the variable resolved to.
// Unconstrained variables resolve to types.Bottom; ok is false for Unsolvable ones
func (r Result) Type() (t types.Type, ok bool) {
	switch r.Outcome {
	case Resolved:
		return r.typ, true
	case Unconstrained:
		return types.Bottom{}, true
	default:
		return nil, false
	}
}

func (r Result) String() string {
	switch r.Outcome {
	case Resolved:
		return fmt.Sprintf("%s = %s", r.Var, r.typ)
	case Unconstrained:
		return fmt.Sprintf("%s = %s (unconstrained)", r.Var, types.Bottom{})
	default:
		return fmt.Sprintf("%s = <unsolvable: %s>", r.Var, r.Reason)
	}
}

// Types maps results to the types they resolved to, nil standing for no result
func Types(results []Result) []types.Type {
	ts := make([]types.Type, len(results))
	for i, r := range results {
		ts[i], _ = r.Type()
	}
	return ts
}
