package tsolve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cottand/tsolve/internal/log"
	"github.com/cottand/tsolve/problem"
	"github.com/cottand/tsolve/solver"
	"github.com/cottand/tsolve/types"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Settings control how a problem is solved.
// The zero value solves sequentially with the default logger
type Settings struct {
	// Concurrency is the number of variables solved at a time.
	// 0 and 1 both solve sequentially, negative means no limit
	Concurrency int
	Logger      *slog.Logger
	Observer    solver.Observer
}

// Report is a solved problem
type Report struct {
	ID      string
	Problem *problem.Problem
	Results []solver.Result
}

// SolveFile loads the problem at path and solves it
func SolveFile(ctx context.Context, path string, settings Settings) (*Report, error) {
	prob, err := problem.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return SolveProblem(ctx, prob, settings)
}

// SolveBytes parses a YAML problem and solves it.
// Mistakes in the problem are returned as a *tserr.Errors
func SolveBytes(ctx context.Context, data []byte, settings Settings) (*Report, error) {
	prob, err := problem.Parse(data)
	if err != nil {
		return nil, err
	}
	return SolveProblem(ctx, prob, settings)
}

func SolveProblem(ctx context.Context, prob *problem.Problem, settings Settings) (*Report, error) {
	id := uuid.NewString()
	logger := settings.Logger
	if logger == nil {
		logger = log.DefaultLogger
	}
	logger = logger.With("run", id)

	opts := []solver.Option{solver.WithLogger(logger)}
	if settings.Observer != nil {
		opts = append(opts, solver.WithObserver(settings.Observer))
	}
	s := solver.New(opts...)

	report := &Report{ID: id, Problem: prob}
	if settings.Concurrency == 0 || settings.Concurrency == 1 {
		report.Results = s.Solve(prob.Vars, prob.Constraints, prob.Basics)
		return report, nil
	}
	workers := settings.Concurrency
	if workers < 0 {
		workers = 0
	}
	var err error
	report.Results, err = s.SolveConcurrent(ctx, prob.Vars, prob.Constraints, prob.Basics, workers)
	if err != nil {
		return nil, errors.Wrap(err, "solving was interrupted")
	}
	return report, nil
}

// Painter decorates the solved part of a result line, for example with colours
type Painter func(o solver.Outcome, s string) string

// FormatResult renders r using the variable names of prob:
//
//	T = animal
//	U = None (unconstrained)
//	S = <unsolvable: bound conflict> (lower cat, upper rock)
func FormatResult(prob *problem.Problem, r solver.Result, paint Painter) string {
	if paint == nil {
		paint = func(_ solver.Outcome, s string) string { return s }
	}
	name := prob.Name(r.Var)
	switch r.Outcome {
	case solver.Resolved:
		t, _ := r.Type()
		return fmt.Sprintf("%s = %s", name, paint(r.Outcome, t.String()))
	case solver.Unconstrained:
		return fmt.Sprintf("%s = %s", name, paint(r.Outcome, types.Bottom{}.String()+" (unconstrained)"))
	default:
		return fmt.Sprintf("%s = %s (lower %s, upper %s)",
			name,
			paint(r.Outcome, "<unsolvable: "+r.Reason.String()+">"),
			types.Describe(r.Lower),
			types.Describe(r.Upper),
		)
	}
}

// Lines renders every result, in variable order
func (r *Report) Lines() []string {
	lines := make([]string, len(r.Results))
	for i, res := range r.Results {
		lines[i] = FormatResult(r.Problem, res, nil)
	}
	return lines
}

func (r *Report) String() string {
	return strings.Join(r.Lines(), "\n")
}

// Unsolved returns the results that did not resolve to a type
func (r *Report) Unsolved() []solver.Result {
	var res []solver.Result
	for _, result := range r.Results {
		if result.Outcome == solver.Unsolvable {
			res = append(res, result)
		}
	}
	return res
}
