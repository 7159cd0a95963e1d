// Package solver resolves type variables from the subtyping constraints placed on them.
//
// Each variable is solved independently: its lower bounds are joined, its
// upper bounds are met, and the tightest type consistent with both is picked.
package solver

import (
	"context"
	"log/slog"

	"github.com/cottand/tsolve/internal/log"
	"github.com/cottand/tsolve/lattice"
	"github.com/cottand/tsolve/types"
	"golang.org/x/sync/errgroup"
)

// Observer is notified of every result, along with how many constraints the
// variable had. It must be safe for concurrent use
type Observer interface {
	Observe(r Result, constraints int)
}

// Solver is stateless between calls and safe for concurrent use
type Solver struct {
	lattice  lattice.Lattice
	logger   *slog.Logger
	observer Observer
}

type Option func(*Solver)

func WithLattice(l lattice.Lattice) Option {
	return func(s *Solver) { s.lattice = l }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Solver) { s.logger = l.With("section", "solver") }
}

func WithObserver(o Observer) Option {
	return func(s *Solver) { s.observer = o }
}

func New(opts ...Option) *Solver {
	s := &Solver{
		lattice: lattice.Default,
		logger:  log.DefaultLogger.With("section", "solver"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var defaultSolver = New()

// Solve resolves vars with the default Solver
func Solve(vars []TypeVarID, constraints []Constraint, basics types.BasicTypes) []Result {
	return defaultSolver.Solve(vars, constraints, basics)
}

// Solve returns one Result per variable, in the order of vars.
// Constraints on variables not in vars are ignored
func (s *Solver) Solve(vars []TypeVarID, constraints []Constraint, basics types.BasicTypes) []Result {
	b := bucket(constraints)
	res := make([]Result, len(vars))
	for i, v := range vars {
		res[i] = s.solveOne(v, constraintsOf(b, v), basics)
	}
	return res
}

// SolveConcurrent is like Solve but resolves up to workers variables at a time.
// workers <= 0 means no limit. It only fails if ctx is done before all
// variables are resolved
func (s *Solver) SolveConcurrent(ctx context.Context, vars []TypeVarID, constraints []Constraint, basics types.BasicTypes, workers int) ([]Result, error) {
	b := bucket(constraints)
	res := make([]Result, len(vars))
	// gctx is cancelled once Wait returns, so only the caller's ctx is checked afterwards
	group, gctx := errgroup.WithContext(ctx)
	if workers > 0 {
		group.SetLimit(workers)
	}
	for i, v := range vars {
		if gctx.Err() != nil {
			break
		}
		group.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res[i] = s.solveOne(v, constraintsOf(b, v), basics)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Solver) solveOne(v TypeVarID, constraints []Constraint, basics types.BasicTypes) Result {
	res := s.resolve(v, constraints, basics)
	s.logger.Debug("solved type variable",
		"var", v,
		"constraints", len(constraints),
		"outcome", res.Outcome,
		"result", res,
	)
	if s.observer != nil {
		s.observer.Observe(res, len(constraints))
	}
	return res
}

func (s *Solver) resolve(v TypeVarID, constraints []Constraint, basics types.BasicTypes) Result {
	// nil means no bound in that direction yet
	var lower, upper types.Type
	for _, c := range constraints {
		switch c.Dir {
		case LowerBound:
			if lower == nil {
				lower = c.Target
			} else {
				lower = s.lattice.Join(lower, c.Target, basics)
			}
		case UpperBound:
			if upper == nil {
				upper = c.Target
			} else {
				upper = s.lattice.Meet(upper, c.Target, basics)
			}
		default:
			s.logger.Warn("ignoring constraint with unknown direction", "constraint", c)
		}
	}

	if types.IsDynamic(lower) || types.IsDynamic(upper) {
		return resolved(v, types.Dynamic{}, lower, upper)
	}

	var candidate types.Type
	switch {
	case lower == nil && upper == nil:
		return unconstrained(v)
	case lower == nil:
		candidate = upper
	case upper == nil:
		candidate = lower
	case s.lattice.IsSubtype(lower, upper):
		candidate = lower
	default:
		s.logger.Debug("bounds conflict", "var", v, "lower", lower, "upper", upper)
		return unsolvable(v, BoundConflict, lower, upper)
	}
	if types.IsError(candidate) {
		return unsolvable(v, LatticeFailure, lower, upper)
	}
	return resolved(v, candidate, lower, upper)
}
